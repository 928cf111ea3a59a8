package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	bolt "go.etcd.io/bbolt"
)

var allocBucket = []byte("leaf_alloc")

// BoltStore bbolt 데이터베이스의 leaf_alloc 버킷에 태그별 레코드를 JSON 으로 보관하는 저장소입니다.
// 상한 증가는 하나의 쓰기 트랜잭션(db.Update) 안에서 읽기-수정-쓰기로 수행됩니다.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

var _ contract.AllocStore = (*BoltStore)(nil)

// NewBoltStore path 의 bbolt 파일을 열고 버킷을 준비합니다.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "저장소 디렉토리를 생성하지 못했습니다 (dir=%s)", filepath.Dir(path))
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "bbolt 데이터베이스를 열지 못했습니다 (path=%s)", path)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(allocBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, apperrors.System, "leaf_alloc 버킷을 준비하지 못했습니다")
	}

	return &BoltStore{db: db, now: time.Now}, nil
}

// Seed 존재하지 않는 태그의 레코드만 추가합니다.
func (s *BoltStore) Seed(_ context.Context, allocs ...contract.Allocation) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(allocBucket)
		for _, a := range allocs {
			if a.Step < 1 {
				return newErrInvalidStep(a.Step)
			}
			if b.Get([]byte(a.Key)) != nil {
				continue
			}
			a.UpdateTime = s.now()
			if err := putAllocation(b, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) ListTags(_ context.Context) ([]string, error) {
	tags := []string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(allocBucket).ForEach(func(k, _ []byte) error {
			tags = append(tags, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "태그 목록을 조회하지 못했습니다")
	}

	return tags, nil
}

func (s *BoltStore) ListAllocations(_ context.Context) ([]contract.Allocation, error) {
	allocs := []contract.Allocation{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(allocBucket).ForEach(func(_, v []byte) error {
			var a contract.Allocation
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			allocs = append(allocs, a)
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "할당 레코드를 조회하지 못했습니다")
	}

	return allocs, nil
}

func (s *BoltStore) AdvanceAndFetch(_ context.Context, tag string) (contract.Allocation, error) {
	return s.advance(tag, 0)
}

func (s *BoltStore) AdvanceByStepAndFetch(_ context.Context, tag string, step int64) (contract.Allocation, error) {
	if step < 1 {
		return contract.Allocation{}, newErrInvalidStep(step)
	}
	return s.advance(tag, step)
}

// advance step 이 0 이면 레코드에 설정된 기본 step 을 사용합니다.
func (s *BoltStore) advance(tag string, step int64) (contract.Allocation, error) {
	var a contract.Allocation

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(allocBucket)

		v := b.Get([]byte(tag))
		if v == nil {
			return newErrTagNotFound(tag)
		}
		if err := json.Unmarshal(v, &a); err != nil {
			return apperrors.Wrapf(err, apperrors.System, "할당 레코드 형식이 올바르지 않습니다 (tag=%s)", tag)
		}

		if step == 0 {
			step = a.Step
		}
		advance(&a, step, s.now())

		return putAllocation(b, a)
	})
	if err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			return contract.Allocation{}, err
		}
		return contract.Allocation{}, apperrors.Wrapf(err, apperrors.System, "상한을 갱신하지 못했습니다 (tag=%s)", tag)
	}

	return a, nil
}

func putAllocation(b *bolt.Bucket, a contract.Allocation) error {
	v, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return b.Put([]byte(a.Key), v)
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
