package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// HistoryEntry is a report from either the active or the archived set,
// surfaced in a department's submission history.
type HistoryEntry struct {
	Report   domain.StatusReport
	Archived bool
}

// ReportRepository owns both states of the report lifecycle: the active set
// (at most one row per department) and the immutable archive.
type ReportRepository interface {
	// ReplaceActive atomically deletes any active report for the same
	// department and inserts the new one.
	ReplaceActive(ctx context.Context, report *domain.StatusReport) error
	GetActiveByID(ctx context.Context, id string) (*domain.StatusReport, error)
	ListActive(ctx context.Context) ([]domain.StatusReport, error)
	// ArchiveAndReset replaces any archived record sharing (date, department)
	// with each snapshot, then deletes every row from the active set. The
	// active-set wipe is total regardless of how many snapshots were given;
	// callers rely on it as a dashboard reset.
	ArchiveAndReset(ctx context.Context, snapshots []domain.ArchivedReport) error
	GetArchivedByID(ctx context.Context, id string) (*domain.ArchivedReport, error)
	ListArchived(ctx context.Context) ([]domain.ArchivedReport, error)
	HistoryByDepartment(ctx context.Context, department string) ([]HistoryEntry, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) ReplaceActive(ctx context.Context, report *domain.StatusReport) error {
	items, err := json.Marshal(report.Items)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM status_reports WHERE department=$1`, report.Department); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
        INSERT INTO status_reports (id, date, submitted_by, department, report_data, timestamp)
        VALUES ($1,$2,$3,$4,$5,$6)`,
		report.ID, report.Date, report.SubmittedBy, report.Department, items, report.Timestamp); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *reportRepository) GetActiveByID(ctx context.Context, id string) (*domain.StatusReport, error) {
	const query = `
        SELECT id, date, submitted_by, department, report_data, timestamp
        FROM status_reports WHERE id=$1`
	return scanActive(r.pool.QueryRow(ctx, query, id))
}

func (r *reportRepository) ListActive(ctx context.Context) ([]domain.StatusReport, error) {
	const query = `
        SELECT id, date, submitted_by, department, report_data, timestamp
        FROM status_reports ORDER BY timestamp DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.StatusReport
	for rows.Next() {
		report, err := scanActive(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func (r *reportRepository) ArchiveAndReset(ctx context.Context, snapshots []domain.ArchivedReport) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, snap := range snapshots {
		items, err := json.Marshal(snap.Items)
		if err != nil {
			return err
		}
		// re-archiving the same (date, department) replaces, never duplicates
		if _, err := tx.Exec(ctx,
			`DELETE FROM archived_reports WHERE date=$1 AND department=$2`,
			snap.Date, snap.Department); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
            INSERT INTO archived_reports (id, year, month, date, submitted_by, department, report_data, timestamp)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			snap.ID, snap.Year, snap.Month, snap.Date, snap.SubmittedBy, snap.Department, items, snap.Timestamp); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM status_reports`); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *reportRepository) GetArchivedByID(ctx context.Context, id string) (*domain.ArchivedReport, error) {
	const query = `
        SELECT id, year, month, date, submitted_by, department, report_data, timestamp
        FROM archived_reports WHERE id=$1`

	var (
		archived domain.ArchivedReport
		raw      []byte
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&archived.ID,
		&archived.Year,
		&archived.Month,
		&archived.Date,
		&archived.SubmittedBy,
		&archived.Department,
		&raw,
		&archived.Timestamp,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &archived.Items); err != nil {
		return nil, err
	}
	return &archived, nil
}

func (r *reportRepository) ListArchived(ctx context.Context) ([]domain.ArchivedReport, error) {
	const query = `
        SELECT id, year, month, date, submitted_by, department, report_data, timestamp
        FROM archived_reports ORDER BY year DESC, month DESC, date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var archives []domain.ArchivedReport
	for rows.Next() {
		var (
			archived domain.ArchivedReport
			raw      []byte
		)
		if err := rows.Scan(
			&archived.ID,
			&archived.Year,
			&archived.Month,
			&archived.Date,
			&archived.SubmittedBy,
			&archived.Department,
			&raw,
			&archived.Timestamp,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &archived.Items); err != nil {
			return nil, err
		}
		archives = append(archives, archived)
	}
	return archives, rows.Err()
}

func (r *reportRepository) HistoryByDepartment(ctx context.Context, department string) ([]HistoryEntry, error) {
	const query = `
        SELECT id, date, submitted_by, department, report_data, timestamp, FALSE AS archived
        FROM status_reports WHERE department=$1
        UNION ALL
        SELECT id, date, submitted_by, department, report_data, timestamp, TRUE AS archived
        FROM archived_reports WHERE department=$1
        ORDER BY timestamp DESC`

	rows, err := r.pool.Query(ctx, query, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []HistoryEntry
	for rows.Next() {
		var (
			entry HistoryEntry
			raw   []byte
		)
		if err := rows.Scan(
			&entry.Report.ID,
			&entry.Report.Date,
			&entry.Report.SubmittedBy,
			&entry.Report.Department,
			&raw,
			&entry.Report.Timestamp,
			&entry.Archived,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &entry.Report.Items); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

func scanActive(row pgx.Row) (*domain.StatusReport, error) {
	var (
		report domain.StatusReport
		raw    []byte
	)
	if err := row.Scan(
		&report.ID,
		&report.Date,
		&report.SubmittedBy,
		&report.Department,
		&raw,
		&report.Timestamp,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &report.Items); err != nil {
		return nil, err
	}
	return &report, nil
}
