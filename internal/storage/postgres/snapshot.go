package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSnapshotNotFound is returned when a snapshot lookup yields no results.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrSnapshotExists is returned when saving a snapshot whose ID is taken.
var ErrSnapshotExists = errors.New("snapshot already exists")

// Snapshot is one persisted extraction document.
type Snapshot struct {
	ID          uuid.UUID
	Root        string
	ItemCount   int
	PlayerCount int
	// Document is the aggregate encoded as JSON.
	Document  []byte
	CreatedAt time.Time
}

// SnapshotRepository persists extraction snapshots in the extractions table.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a SnapshotRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save inserts s. A zero ID is replaced with a new random UUID.
//
// Precondition: s.Document must be valid JSON.
// Postcondition: s.ID and s.CreatedAt are set, or ErrSnapshotExists is
// returned when the ID is taken.
func (r *SnapshotRepository) Save(ctx context.Context, s *Snapshot) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO extractions (id, root, item_count, player_count, document)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		s.ID, s.Root, s.ItemCount, s.PlayerCount, s.Document,
	).Scan(&s.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrSnapshotExists
		}
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by ID.
//
// Postcondition: Returns the Snapshot or ErrSnapshotNotFound.
func (r *SnapshotRepository) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	return r.scanOne(ctx,
		`SELECT id, root, item_count, player_count, document, created_at
		 FROM extractions WHERE id = $1`,
		id,
	)
}

// Latest retrieves the most recent snapshot extracted from root.
//
// Postcondition: Returns the Snapshot or ErrSnapshotNotFound.
func (r *SnapshotRepository) Latest(ctx context.Context, root string) (*Snapshot, error) {
	return r.scanOne(ctx,
		`SELECT id, root, item_count, player_count, document, created_at
		 FROM extractions WHERE root = $1
		 ORDER BY created_at DESC LIMIT 1`,
		root,
	)
}

func (r *SnapshotRepository) scanOne(ctx context.Context, query string, arg any) (*Snapshot, error) {
	var s Snapshot
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&s.ID, &s.Root, &s.ItemCount, &s.PlayerCount, &s.Document, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return &s, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
