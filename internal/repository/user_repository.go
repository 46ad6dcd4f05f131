package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdateProfile(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, searchTerm string) ([]domain.User, error)
	Delete(ctx context.Context, username string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, salt, key, rank, first_name, last_name, position, department, role)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := r.pool.Exec(ctx, query,
		user.Username,
		user.Salt,
		user.Key,
		user.Rank,
		user.FirstName,
		user.LastName,
		user.Position,
		user.Department,
		user.Role,
	)
	return err
}

// Update rewrites the full row including credential material.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET salt=$1, key=$2, rank=$3, first_name=$4, last_name=$5, position=$6, department=$7, role=$8
        WHERE username=$9`

	cmd, err := r.pool.Exec(ctx, query,
		user.Salt,
		user.Key,
		user.Rank,
		user.FirstName,
		user.LastName,
		user.Position,
		user.Department,
		user.Role,
		user.Username,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateProfile rewrites the row while leaving credential material untouched.
func (r *userRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET rank=$1, first_name=$2, last_name=$3, position=$4, department=$5, role=$6
        WHERE username=$7`

	cmd, err := r.pool.Exec(ctx, query,
		user.Rank,
		user.FirstName,
		user.LastName,
		user.Position,
		user.Department,
		user.Role,
		user.Username,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT username, salt, key, rank, first_name, last_name, position, department, role
        FROM users WHERE username=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.Salt,
		&user.Key,
		&user.Rank,
		&user.FirstName,
		&user.LastName,
		&user.Position,
		&user.Department,
		&user.Role,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, searchTerm string) ([]domain.User, error) {
	query := `
        SELECT username, rank, first_name, last_name, position, department, role
        FROM users`
	args := []any{}
	if searchTerm != "" {
		query += ` WHERE username ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1 OR department ILIKE $1`
		args = append(args, "%"+searchTerm+"%")
	}
	query += ` ORDER BY username`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.Username,
			&user.Rank,
			&user.FirstName,
			&user.LastName,
			&user.Position,
			&user.Department,
			&user.Role,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, username string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username=$1`, username)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
