package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/darkkaiser/leaf-server/internal/pkg/errors"
	"github.com/darkkaiser/leaf-server/internal/service/contract"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leaf_alloc (
	biz_tag     TEXT    NOT NULL PRIMARY KEY,
	max_id      INTEGER NOT NULL DEFAULT 1,
	step        INTEGER NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	update_time INTEGER NOT NULL
)`

// SQLStore SQLite 의 leaf_alloc 테이블에 할당 레코드를 보관하는 저장소입니다.
//
// 상한 증가는 하나의 트랜잭션 안에서 UPDATE 후 SELECT 로 수행되며, BEGIN IMMEDIATE 로
// 쓰기 잠금을 먼저 획득하므로 같은 파일을 공유하는 여러 프로세스 사이에서도 원자적입니다.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ contract.AllocStore = (*SQLStore)(nil)

// NewSQLStore path 의 SQLite 데이터베이스를 열고 스키마를 준비합니다.
func NewSQLStore(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.System, "저장소 디렉토리를 생성하지 못했습니다 (dir=%s)", dir)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL")
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "SQLite 데이터베이스를 열지 못했습니다 (path=%s)", path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, apperrors.System, "leaf_alloc 테이블을 준비하지 못했습니다")
	}

	return &SQLStore{db: db, now: time.Now}, nil
}

// Seed 존재하지 않는 태그의 레코드만 추가합니다.
func (s *SQLStore) Seed(ctx context.Context, allocs ...contract.Allocation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "시드 트랜잭션을 시작하지 못했습니다")
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range allocs {
		if a.Step < 1 {
			return newErrInvalidStep(a.Step)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO leaf_alloc (biz_tag, max_id, step, description, update_time) VALUES (?, ?, ?, ?, ?)`,
			a.Key, a.MaxID, a.Step, a.Description, s.now().UnixMilli(),
		); err != nil {
			return apperrors.Wrapf(err, apperrors.System, "시드 레코드를 추가하지 못했습니다 (tag=%s)", a.Key)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "시드 트랜잭션 커밋에 실패했습니다")
	}

	return nil
}

func (s *SQLStore) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT biz_tag FROM leaf_alloc ORDER BY biz_tag`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "태그 목록을 조회하지 못했습니다")
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, apperrors.Wrap(err, apperrors.System, "태그 목록을 읽지 못했습니다")
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "태그 목록을 읽지 못했습니다")
	}

	return tags, nil
}

func (s *SQLStore) ListAllocations(ctx context.Context) ([]contract.Allocation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT biz_tag, max_id, step, description, update_time FROM leaf_alloc ORDER BY biz_tag`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "할당 레코드를 조회하지 못했습니다")
	}
	defer rows.Close()

	allocs := []contract.Allocation{}
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "할당 레코드를 읽지 못했습니다")
	}

	return allocs, nil
}

func (s *SQLStore) AdvanceAndFetch(ctx context.Context, tag string) (contract.Allocation, error) {
	return s.advance(ctx, tag,
		`UPDATE leaf_alloc SET max_id = max_id + step, update_time = ? WHERE biz_tag = ?`,
		s.now().UnixMilli(), tag,
	)
}

func (s *SQLStore) AdvanceByStepAndFetch(ctx context.Context, tag string, step int64) (contract.Allocation, error) {
	if step < 1 {
		return contract.Allocation{}, newErrInvalidStep(step)
	}

	return s.advance(ctx, tag,
		`UPDATE leaf_alloc SET max_id = max_id + ?, update_time = ? WHERE biz_tag = ?`,
		step, s.now().UnixMilli(), tag,
	)
}

func (s *SQLStore) advance(ctx context.Context, tag string, update string, args ...any) (contract.Allocation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return contract.Allocation{}, apperrors.Wrapf(err, apperrors.System, "트랜잭션을 시작하지 못했습니다 (tag=%s)", tag)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, update, args...)
	if err != nil {
		return contract.Allocation{}, apperrors.Wrapf(err, apperrors.System, "상한을 갱신하지 못했습니다 (tag=%s)", tag)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return contract.Allocation{}, newErrTagNotFound(tag)
	}

	row := tx.QueryRowContext(ctx, `SELECT biz_tag, max_id, step, description, update_time FROM leaf_alloc WHERE biz_tag = ?`, tag)
	a, err := scanAllocation(row)
	if err != nil {
		return contract.Allocation{}, err
	}

	if err := tx.Commit(); err != nil {
		return contract.Allocation{}, apperrors.Wrapf(err, apperrors.System, "트랜잭션 커밋에 실패했습니다 (tag=%s)", tag)
	}

	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAllocation(r rowScanner) (contract.Allocation, error) {
	var (
		a          contract.Allocation
		updateTime int64
	)
	if err := r.Scan(&a.Key, &a.MaxID, &a.Step, &a.Description, &updateTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contract.Allocation{}, apperrors.Wrap(err, apperrors.NotFound, "할당 레코드가 존재하지 않습니다")
		}
		return contract.Allocation{}, apperrors.Wrap(err, apperrors.System, "할당 레코드를 읽지 못했습니다")
	}
	a.UpdateTime = time.UnixMilli(updateTime)

	return a, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
