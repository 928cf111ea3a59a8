// Package store 태그별 ID 상한(max_id)과 기본 구간 길이(step)를 보관하는 할당 저장소 구현체를 제공합니다.
//
// 지원 드라이버:
//   - memory: 프로세스 메모리 (테스트 및 개발용)
//   - file:   JSON 문서 파일 (원자적 교체 쓰기)
//   - sqlite: SQLite 데이터베이스 (leaf_alloc 테이블)
//   - bolt:   bbolt 키-값 데이터베이스 (leaf_alloc 버킷)
package store

import (
	"context"
	"time"

	"github.com/darkkaiser/leaf-server/internal/config"
	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	applog "github.com/darkkaiser/leaf-server/pkg/log"
)

const component = "store"

// seeder 존재하지 않는 할당 레코드만 생성하는 저장소입니다.
type seeder interface {
	Seed(ctx context.Context, allocs ...contract.Allocation) error
}

// New 설정된 드라이버로 저장소를 열고, 시드 레코드를 반영한 뒤 반환합니다.
func New(ctx context.Context, cfg config.StoreConfig) (contract.AllocStore, error) {
	var (
		s   contract.AllocStore
		err error
	)

	switch cfg.Driver {
	case config.StoreDriverMemory:
		s = NewMemoryStore()
	case config.StoreDriverFile:
		s, err = NewFileStore(cfg.Path)
	case config.StoreDriverSQLite:
		s, err = NewSQLStore(cfg.Path)
	case config.StoreDriverBolt:
		s, err = NewBoltStore(cfg.Path)
	default:
		return nil, apperrors.Wrapf(ErrUnsupportedDriver, apperrors.InvalidInput, "지원하지 않는 저장소 드라이버입니다 (driver=%s)", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if len(cfg.SeedAllocations) > 0 {
		seeds := make([]contract.Allocation, 0, len(cfg.SeedAllocations))
		for _, sa := range cfg.SeedAllocations {
			seeds = append(seeds, contract.Allocation{
				Key:         sa.Key,
				MaxID:       sa.MaxID,
				Step:        sa.Step,
				Description: sa.Description,
			})
		}

		if err := s.(seeder).Seed(ctx, seeds...); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"driver": cfg.Driver,
		"path":   cfg.Path,
		"seeds":  len(cfg.SeedAllocations),
	}).Info("할당 저장소 열기 완료")

	return s, nil
}

// advance 레코드의 상한을 step 만큼 증가시킵니다.
func advance(a *contract.Allocation, step int64, now time.Time) {
	a.MaxID += step
	a.UpdateTime = now
}
