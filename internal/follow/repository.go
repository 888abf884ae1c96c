package follow

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles follow edge persistence
type Repository interface {
	// CreateEdge inserts the edge and reports whether it was created.
	// false means the edge already existed or a referenced user does
	// not exist; under concurrent duplicate inserts exactly one caller
	// observes true.
	CreateEdge(ctx context.Context, followerID, followingID string) (bool, error)
	// DeleteEdge removes the edge and reports whether it existed.
	DeleteEdge(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}

// PostgresRepository is the Postgres-backed Repository
type PostgresRepository struct {
	db *sql.DB
}

// NewRepository creates a new follow repository with database dependency injected
func NewRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateEdge inserts a follow edge. The composite primary key makes the
// insert a no-op for an existing pair, and the foreign keys reject
// unknown users; both cases report false rather than an error.
func (r *PostgresRepository) CreateEdge(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			// foreign_key_violation: follower or following does not exist
			return false, nil
		}
		return false, fmt.Errorf("failed to create follow edge: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

// DeleteEdge removes a follow edge, reporting false when it did not exist
func (r *PostgresRepository) DeleteEdge(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `
		DELETE FROM follows
		WHERE follower_id = $1 AND following_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow edge: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

// CountFollowers counts edges pointing at userID; 0 for unknown users
func (r *PostgresRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, "following_id", userID)
}

// CountFollowing counts edges originating from userID; 0 for unknown users
func (r *PostgresRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, "follower_id", userID)
}

func (r *PostgresRepository) count(ctx context.Context, column, userID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM follows WHERE %s = $1`, column)

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count follow edges: %w", err)
	}

	return count, nil
}
