package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Actuation is one button action sent to the cursor.
type Actuation struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

// ActuationRepository provides operations on actuations.
type ActuationRepository struct {
	db *sql.DB
}

// Actuations returns the actuation repository for this store.
func (s *Store) Actuations() *ActuationRepository {
	return &ActuationRepository{db: s.db}
}

// Create inserts an actuation. An empty ID is filled with a new UUID and a
// zero CreatedAt with the current time.
func (r *ActuationRepository) Create(a *Actuation) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO actuations (id, session_id, kind, x, y, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.Kind, a.X, a.Y, a.CreatedAt,
	)
	return err
}

// ListBySession retrieves the actuations of a session in the order they happened.
func (r *ActuationRepository) ListBySession(sessionID string) ([]*Actuation, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, x, y, created_at
		 FROM actuations WHERE session_id = ? ORDER BY created_at, rowid`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actuations []*Actuation
	for rows.Next() {
		a := &Actuation{}
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Kind, &a.X, &a.Y, &a.CreatedAt); err != nil {
			return nil, err
		}
		actuations = append(actuations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return actuations, nil
}

// CountByKind returns how many actuations of each kind a session has.
// Kinds with no actuations are absent from the map.
func (r *ActuationRepository) CountByKind(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM actuations WHERE session_id = ? GROUP BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
