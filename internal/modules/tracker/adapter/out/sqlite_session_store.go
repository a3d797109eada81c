package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deskwatch/internal/modules/tracker/domain"
	trackerout "deskwatch/internal/modules/tracker/port/out"
	apperrors "deskwatch/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// timeLayout matches the fixed-format datetime text in the sessions table.
const timeLayout = "2006-01-02 15:04:05"

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

var _ trackerout.SessionStore = (*SQLiteSessionStore)(nil)

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  start TEXT NOT NULL,
  end TEXT,
  owner TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Insert(ctx context.Context, session domain.Session) (int64, error) {
	var end, owner any
	if session.Closed() {
		end = session.End.Format(timeLayout)
	}
	if session.Owner != "" {
		owner = session.Owner
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (start, end, owner) VALUES (?, ?, ?)`,
		session.Start.Format(timeLayout), end, owner,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session insert id: %w", err)
	}
	return id, nil
}

func (s *SQLiteSessionStore) ClaimUnassigned(ctx context.Context, owner string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET owner = ? WHERE owner IS NULL`, owner)
	if err != nil {
		return 0, fmt.Errorf("claim unassigned sessions: %w", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("claimed row count: %w", err)
	}
	return claimed, nil
}

func (s *SQLiteSessionStore) ListByOwner(ctx context.Context, owner string) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, start, end, owner FROM sessions WHERE owner = ? ORDER BY start DESC, id DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func (s *SQLiteSessionStore) Get(ctx context.Context, id int64) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, start, end, owner FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, apperrors.ErrNotFound
	}
	return session, err
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleted row count: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session domain.Session
		start   string
		end     sql.NullString
		owner   sql.NullString
	)
	if err := row.Scan(&session.ID, &start, &end, &owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, err
		}
		return domain.Session{}, fmt.Errorf("scan session: %w", err)
	}
	parsedStart, err := parseStoredTime(start)
	if err != nil {
		return domain.Session{}, err
	}
	session.Start = parsedStart
	if end.Valid {
		parsedEnd, err := parseStoredTime(end.String)
		if err != nil {
			return domain.Session{}, err
		}
		session.End = parsedEnd
	}
	session.Owner = owner.String
	return session, nil
}

// parseStoredTime reads the fixed-format text in local time, matching the
// layout the slot wrote with.
func parseStoredTime(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(timeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", value, err)
	}
	return parsed, nil
}
