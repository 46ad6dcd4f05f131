package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// SessionRepository persists opaque session tokens.
type SessionRepository interface {
	Create(ctx context.Context, token, username string, createdAt time.Time) error
	// GetWithUser resolves a token and joins the owning user's current role
	// and department, so role changes take effect on the next request.
	GetWithUser(ctx context.Context, token string) (*domain.Session, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) error
	Delete(ctx context.Context, token string) error
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a Postgres-backed implementation.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Create(ctx context.Context, token, username string, createdAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (token, username, created_at) VALUES ($1,$2,$3)`,
		token, username, createdAt)
	return err
}

func (r *sessionRepository) GetWithUser(ctx context.Context, token string) (*domain.Session, error) {
	const query = `
        SELECT s.token, s.username, s.created_at, u.role, u.department
        FROM sessions s
        JOIN users u ON s.username = u.username
        WHERE s.token=$1`

	var session domain.Session
	if err := r.pool.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.Username,
		&session.CreatedAt,
		&session.Role,
		&session.Department,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE created_at < $1`, cutoff)
	return err
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	return err
}
