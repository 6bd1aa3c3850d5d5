// Package storage provides meeting persistence: a SQLite-backed
// repository for normal operation and an in-memory store for tests and
// database-free runs. Both satisfy schedule.MeetingRepository.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"meetsched/internal/config"
	"meetsched/internal/schedule"
	"meetsched/pkg/types"
)

const meetingsSchema = `
CREATE TABLE IF NOT EXISTS meetings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	mandatory_attendees TEXT NOT NULL,
	optional_attendees TEXT NOT NULL,
	scheduler TEXT NOT NULL DEFAULT '',
	version INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meetings_date ON meetings(date);`

// MeetingRepository implements meeting data access on SQLite.
type MeetingRepository struct {
	db *sql.DB
}

// Open opens the configured SQLite database and bootstraps the schema.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", cfg.Path, cfg.BusyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Path, err)
	}
	if _, err := db.Exec(meetingsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// NewMeetingRepository creates a repository over an opened database.
func NewMeetingRepository(db *sql.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// CreateMeeting inserts a meeting, assigning its id, version and
// timestamps.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, m *types.Meeting) error {
	mandatoryJSON, optionalJSON, err := marshalAttendees(m.MandatoryAttendees, m.OptionalAttendees)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO meetings (title, date, start_time, end_time,
			mandatory_attendees, optional_attendees, scheduler,
			version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		m.Title, m.Date, m.StartTime, m.EndTime,
		mandatoryJSON, optionalJSON, m.Scheduler, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted id: %w", err)
	}
	m.ID = id
	m.Version = 1
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

// Meeting retrieves a meeting by id.
func (r *MeetingRepository) Meeting(ctx context.Context, id int64) (*types.Meeting, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, date, start_time, end_time,
			mandatory_attendees, optional_attendees, scheduler,
			version, created_at, updated_at
		FROM meetings WHERE id = ?`, id)

	m, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, schedule.ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// MeetingsForDate returns every meeting on a date ordered by start
// time, then id.
func (r *MeetingRepository) MeetingsForDate(ctx context.Context, date string) ([]types.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, date, start_time, end_time,
			mandatory_attendees, optional_attendees, scheduler,
			version, created_at, updated_at
		FROM meetings WHERE date = ?
		ORDER BY start_time, id`, date)
	if err != nil {
		return nil, fmt.Errorf("query meetings for %s: %w", date, err)
	}
	defer func() { _ = rows.Close() }()

	var meetings []types.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}

// UpdateMeeting applies a partial update inside a transaction. The
// stored version must equal upd.ExpectedVersion or nothing is written.
func (r *MeetingRepository) UpdateMeeting(ctx context.Context, id int64, upd types.MeetingUpdate) (*types.Meeting, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, title, date, start_time, end_time,
			mandatory_attendees, optional_attendees, scheduler,
			version, created_at, updated_at
		FROM meetings WHERE id = ?`, id)
	current, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, schedule.ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	if current.Version != upd.ExpectedVersion {
		return nil, fmt.Errorf("%w: have %d, expected %d",
			schedule.ErrVersionMismatch, current.Version, upd.ExpectedVersion)
	}

	applyUpdate(current, upd)
	current.Version++
	current.UpdatedAt = time.Now().UTC()

	mandatoryJSON, optionalJSON, err := marshalAttendees(current.MandatoryAttendees, current.OptionalAttendees)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE meetings SET title = ?, date = ?, start_time = ?, end_time = ?,
			mandatory_attendees = ?, optional_attendees = ?,
			version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		current.Title, current.Date, current.StartTime, current.EndTime,
		mandatoryJSON, optionalJSON,
		current.Version, current.UpdatedAt, id, upd.ExpectedVersion,
	); err != nil {
		return nil, fmt.Errorf("update meeting %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return current, nil
}

// DeleteMeeting removes a meeting by id.
func (r *MeetingRepository) DeleteMeeting(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete meeting %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return schedule.ErrMeetingNotFound
	}
	return nil
}

// applyUpdate copies the non-nil fields of upd onto m.
func applyUpdate(m *types.Meeting, upd types.MeetingUpdate) {
	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Date != nil {
		m.Date = *upd.Date
	}
	if upd.StartTime != nil {
		m.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		m.EndTime = *upd.EndTime
	}
	if upd.MandatoryAttendees != nil {
		m.MandatoryAttendees = upd.MandatoryAttendees
	}
	if upd.OptionalAttendees != nil {
		m.OptionalAttendees = upd.OptionalAttendees
	}
}

func marshalAttendees(mandatory, optional []string) ([]byte, []byte, error) {
	if mandatory == nil {
		mandatory = []string{}
	}
	if optional == nil {
		optional = []string{}
	}
	mandatoryJSON, err := json.Marshal(mandatory)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal mandatory attendees: %w", err)
	}
	optionalJSON, err := json.Marshal(optional)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal optional attendees: %w", err)
	}
	return mandatoryJSON, optionalJSON, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMeeting(row rowScanner) (*types.Meeting, error) {
	var m types.Meeting
	var mandatoryJSON, optionalJSON []byte

	err := row.Scan(
		&m.ID, &m.Title, &m.Date, &m.StartTime, &m.EndTime,
		&mandatoryJSON, &optionalJSON, &m.Scheduler,
		&m.Version, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(mandatoryJSON, &m.MandatoryAttendees); err != nil {
		return nil, fmt.Errorf("unmarshal mandatory attendees: %w", err)
	}
	if err := json.Unmarshal(optionalJSON, &m.OptionalAttendees); err != nil {
		return nil, fmt.Errorf("unmarshal optional attendees: %w", err)
	}
	return &m, nil
}
