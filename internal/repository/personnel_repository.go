package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// PersonnelFilter narrows personnel listings.
type PersonnelFilter struct {
	Department *string
	SearchTerm string
}

// PersonnelRepository encapsulates personnel persistence.
type PersonnelRepository interface {
	Create(ctx context.Context, p *domain.Personnel) error
	Update(ctx context.Context, p *domain.Personnel) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Personnel, error)
	List(ctx context.Context, filter PersonnelFilter) ([]domain.Personnel, error)
	ReplaceAll(ctx context.Context, records []domain.Personnel) error
	CountAll(ctx context.Context) (int, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
}

type personnelRepository struct {
	pool *pgxpool.Pool
}

// NewPersonnelRepository instantiates repository.
func NewPersonnelRepository(pool *pgxpool.Pool) PersonnelRepository {
	return &personnelRepository{pool: pool}
}

const personnelColumns = `id, rank, first_name, last_name, position, specialty, department`

func (r *personnelRepository) Create(ctx context.Context, p *domain.Personnel) error {
	const query = `
        INSERT INTO personnel (id, rank, first_name, last_name, position, specialty, department)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Rank, p.FirstName, p.LastName, p.Position, p.Specialty, p.Department)
	return err
}

func (r *personnelRepository) Update(ctx context.Context, p *domain.Personnel) error {
	const query = `
        UPDATE personnel SET rank=$1, first_name=$2, last_name=$3, position=$4, specialty=$5, department=$6
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		p.Rank, p.FirstName, p.LastName, p.Position, p.Specialty, p.Department, p.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *personnelRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM personnel WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *personnelRepository) GetByID(ctx context.Context, id string) (*domain.Personnel, error) {
	var p domain.Personnel
	if err := r.pool.QueryRow(ctx, `SELECT `+personnelColumns+` FROM personnel WHERE id=$1`, id).Scan(
		&p.ID, &p.Rank, &p.FirstName, &p.LastName, &p.Position, &p.Specialty, &p.Department,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepository) List(ctx context.Context, filter PersonnelFilter) ([]domain.Personnel, error) {
	query := `SELECT ` + personnelColumns + ` FROM personnel`
	clauses := []string{}
	args := []any{}

	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, `department=$1`)
	}
	if filter.SearchTerm != "" {
		args = append(args, "%"+filter.SearchTerm+"%")
		ph := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(first_name ILIKE %s OR last_name ILIKE %s OR position ILIKE %s)", ph, ph, ph))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY department, last_name, first_name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPersonnel(rows)
}

// ReplaceAll wipes and reloads the whole personnel set in one transaction.
func (r *personnelRepository) ReplaceAll(ctx context.Context, records []domain.Personnel) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM personnel`); err != nil {
		return err
	}
	for _, p := range records {
		if _, err := tx.Exec(ctx, `
            INSERT INTO personnel (id, rank, first_name, last_name, position, specialty, department)
            VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, p.Rank, p.FirstName, p.LastName, p.Position, p.Specialty, p.Department); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *personnelRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(id) FROM personnel`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *personnelRepository) DistinctDepartments(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT department FROM personnel WHERE department <> '' ORDER BY department`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}
	return departments, rows.Err()
}

func scanPersonnel(rows pgx.Rows) ([]domain.Personnel, error) {
	var result []domain.Personnel
	for rows.Next() {
		var p domain.Personnel
		if err := rows.Scan(
			&p.ID, &p.Rank, &p.FirstName, &p.LastName, &p.Position, &p.Specialty, &p.Department,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
