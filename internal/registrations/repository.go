package registrations

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lumen-meetup/backend/internal/models"
)

// ErrValidation marks a registration rejected by input validation. Handlers map
// it to 400; anything else from the write path is a store failure (500).
var ErrValidation = errors.New("invalid registration")

// Store is the persistence surface the handlers and the snapshot reader depend on.
type Store interface {
	Insert(ctx context.Context, reg *models.Registration) error
	ListAll(ctx context.Context) ([]models.Registration, error)
	ListSpeakers(ctx context.Context) ([]models.Registration, error)
}

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS registrations (
	id         BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	name       TEXT NOT NULL,
	email      TEXT NOT NULL
)`

// lateColumns were introduced after the first deployments; EnsureSchema adds
// them additively so pre-existing rows survive with null/false defaults.
var lateColumns = []struct {
	name string
	ddl  string
}{
	{"is_speaker", `ALTER TABLE registrations ADD COLUMN IF NOT EXISTS is_speaker BOOLEAN NOT NULL DEFAULT FALSE`},
	{"topic", `ALTER TABLE registrations ADD COLUMN IF NOT EXISTS topic TEXT`},
	{"profile_pic", `ALTER TABLE registrations ADD COLUMN IF NOT EXISTS profile_pic TEXT`},
}

const introspectColumnsSQL = `SELECT column_name FROM information_schema.columns WHERE table_name = 'registrations'`

// Repository persists registrations in PostgreSQL. It is the only component
// that touches the table; everything else reads through the snapshot reader
// or writes through Insert.
type Repository struct {
	db     DB
	mu     sync.Mutex
	schema map[string]bool // column set observed by the last introspection
}

// NewRepository creates a registrations repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema guarantees the registrations table exists with the full current
// column set, adding late columns without touching existing data. It is
// idempotent and safe to call concurrently; main runs it once at startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create registrations table: %w", err)
	}
	cols, err := r.introspect(ctx)
	if err != nil {
		return err
	}
	for _, col := range lateColumns {
		if cols[col.name] {
			continue
		}
		if _, err := r.db.Exec(ctx, col.ddl); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
		cols[col.name] = true
	}
	r.mu.Lock()
	r.schema = cols
	r.mu.Unlock()
	return nil
}

// Insert appends one registration and fills in its store-assigned ID and
// creation time. Required-field validation is repeated here as the last line
// of defense behind the handler.
func (r *Repository) Insert(ctx context.Context, reg *models.Registration) error {
	if reg.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if reg.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	const q = `INSERT INTO registrations (name, email, is_speaker, topic, profile_pic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, q, reg.Name, reg.Email, reg.IsSpeaker, reg.Topic, reg.ProfilePic).
		Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// ListAll returns every registration, most recent first. On a store whose
// schema predates the speaker columns it falls back to the original column
// set, leaving the optional fields at their zero values.
func (r *Repository) ListAll(ctx context.Context) ([]models.Registration, error) {
	full, err := r.speakerColumnsPresent(ctx)
	if err != nil {
		return nil, err
	}
	if !full {
		return r.listLegacy(ctx)
	}
	const q = `SELECT id, created_at, name, email, is_speaker, topic, profile_pic
		FROM registrations ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()
	var list []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.CreatedAt, &reg.Name, &reg.Email, &reg.IsSpeaker, &reg.Topic, &reg.ProfilePic); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		list = append(list, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return list, nil
}

// ListSpeakers returns registrations with is_speaker set, most recent first.
// When the speaker columns have not been added yet it returns an empty list
// rather than an error.
func (r *Repository) ListSpeakers(ctx context.Context) ([]models.Registration, error) {
	full, err := r.speakerColumnsPresent(ctx)
	if err != nil {
		return nil, err
	}
	if !full {
		return nil, nil
	}
	const q = `SELECT id, created_at, name, email, is_speaker, topic, profile_pic
		FROM registrations WHERE is_speaker ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	defer rows.Close()
	var list []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.CreatedAt, &reg.Name, &reg.Email, &reg.IsSpeaker, &reg.Topic, &reg.ProfilePic); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		list = append(list, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return list, nil
}

func (r *Repository) listLegacy(ctx context.Context) ([]models.Registration, error) {
	const q = `SELECT id, created_at, name, email FROM registrations ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()
	var list []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.CreatedAt, &reg.Name, &reg.Email); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		list = append(list, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return list, nil
}

// speakerColumnsPresent reports whether the late columns exist, introspecting
// once and caching the answer. The cache only ever flips from absent to
// present since migrations are additive.
func (r *Repository) speakerColumnsPresent(ctx context.Context) (bool, error) {
	r.mu.Lock()
	cols := r.schema
	r.mu.Unlock()
	if cols == nil {
		var err error
		cols, err = r.introspect(ctx)
		if err != nil {
			return false, err
		}
		r.mu.Lock()
		r.schema = cols
		r.mu.Unlock()
	}
	for _, col := range lateColumns {
		if !cols[col.name] {
			return false, nil
		}
	}
	return true, nil
}

func (r *Repository) introspect(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, introspectColumnsSQL)
	if err != nil {
		return nil, fmt.Errorf("introspect registrations schema: %w", err)
	}
	defer rows.Close()
	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("introspect registrations schema: %w", err)
	}
	return cols, nil
}
