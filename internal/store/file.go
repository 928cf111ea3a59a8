package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	"github.com/natefinch/atomic"
)

// fileDocument 파일 저장소의 JSON 문서 구조입니다.
type fileDocument struct {
	Allocations []contract.Allocation `json:"allocations"`
}

// FileStore 할당 레코드 전체를 하나의 JSON 문서로 보관하는 저장소입니다.
//
// 모든 변경은 임시 파일에 쓴 뒤 원자적으로 교체하므로, 쓰기 도중 프로세스가 종료되어도
// 문서가 부분적으로 기록된 상태로 남지 않습니다. 매 요청마다 파일을 다시 읽으므로 운영자가
// 파일을 직접 수정하여 태그를 추가할 수 있습니다.
type FileStore struct {
	path string

	// mu 같은 프로세스 안에서 읽기-수정-쓰기 구간을 직렬화합니다.
	mu sync.Mutex

	now func() time.Time
}

var _ contract.AllocStore = (*FileStore)(nil)

// NewFileStore path 의 JSON 문서를 저장소로 사용합니다. 파일이 없으면 빈 문서를 생성합니다.
func NewFileStore(path string) (*FileStore, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "저장소 파일 경로를 절대 경로로 변환하지 못했습니다")
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "저장소 디렉토리를 생성하지 못했습니다 (dir=%s)", filepath.Dir(absPath))
	}

	s := &FileStore{
		path: absPath,
		now:  time.Now,
	}

	if _, err := os.Stat(absPath); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(&fileDocument{Allocations: []contract.Allocation{}}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *FileStore) read() (*fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &fileDocument{}, nil
		}
		return nil, apperrors.Wrapf(err, apperrors.System, "저장소 파일을 읽지 못했습니다 (path=%s)", s.path)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "저장소 파일 형식이 올바르지 않습니다 (path=%s)", s.path)
	}

	return &doc, nil
}

func (s *FileStore) write(doc *fileDocument) error {
	slices.SortFunc(doc.Allocations, func(a, b contract.Allocation) int {
		return strings.Compare(a.Key, b.Key)
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "저장소 문서를 직렬화하지 못했습니다")
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return apperrors.Wrapf(err, apperrors.System, "저장소 파일을 기록하지 못했습니다 (path=%s)", s.path)
	}

	return nil
}

// update 문서를 읽고 fn 으로 수정한 뒤 원자적으로 기록합니다.
func (s *FileStore) update(fn func(doc *fileDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	return s.write(doc)
}

// Seed 존재하지 않는 태그의 레코드만 추가합니다.
func (s *FileStore) Seed(_ context.Context, allocs ...contract.Allocation) error {
	return s.update(func(doc *fileDocument) error {
		for _, a := range allocs {
			if a.Step < 1 {
				return newErrInvalidStep(a.Step)
			}
			if slices.ContainsFunc(doc.Allocations, func(e contract.Allocation) bool { return e.Key == a.Key }) {
				continue
			}
			a.UpdateTime = s.now()
			doc.Allocations = append(doc.Allocations, a)
		}
		return nil
	})
}

func (s *FileStore) ListTags(ctx context.Context) ([]string, error) {
	allocs, err := s.ListAllocations(ctx)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(allocs))
	for _, a := range allocs {
		tags = append(tags, a.Key)
	}

	return tags, nil
}

func (s *FileStore) ListAllocations(_ context.Context) ([]contract.Allocation, error) {
	s.mu.Lock()
	doc, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	slices.SortFunc(doc.Allocations, func(a, b contract.Allocation) int {
		return strings.Compare(a.Key, b.Key)
	})
	if doc.Allocations == nil {
		doc.Allocations = []contract.Allocation{}
	}

	return doc.Allocations, nil
}

func (s *FileStore) AdvanceAndFetch(_ context.Context, tag string) (contract.Allocation, error) {
	return s.advance(tag, 0)
}

func (s *FileStore) AdvanceByStepAndFetch(_ context.Context, tag string, step int64) (contract.Allocation, error) {
	if step < 1 {
		return contract.Allocation{}, newErrInvalidStep(step)
	}
	return s.advance(tag, step)
}

// advance step 이 0 이면 레코드에 설정된 기본 step 을 사용합니다.
func (s *FileStore) advance(tag string, step int64) (contract.Allocation, error) {
	var result contract.Allocation

	err := s.update(func(doc *fileDocument) error {
		idx := slices.IndexFunc(doc.Allocations, func(a contract.Allocation) bool { return a.Key == tag })
		if idx < 0 {
			return newErrTagNotFound(tag)
		}

		a := &doc.Allocations[idx]
		if step == 0 {
			advance(a, a.Step, s.now())
		} else {
			advance(a, step, s.now())
		}
		result = *a

		return nil
	})
	if err != nil {
		return contract.Allocation{}, err
	}

	return result, nil
}

func (s *FileStore) Close() error {
	return nil
}
