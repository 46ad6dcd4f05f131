package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/repository"
)

// In-memory repository fakes shared by the service tests. They mirror the
// SQL-backed behavior, including pgx.ErrNoRows on misses.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username] = *user
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.Username] = *user
	return nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.Username]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := *user
	updated.Salt = existing.Salt
	updated.Key = existing.Key
	r.users[user.Username] = updated
	return nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memUserRepo) List(_ context.Context, _ string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *memUserRepo) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, username)
	return nil
}

type memReportRepo struct {
	mu       sync.Mutex
	active   map[string]domain.StatusReport
	archived map[string]domain.ArchivedReport
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{
		active:   make(map[string]domain.StatusReport),
		archived: make(map[string]domain.ArchivedReport),
	}
}

func (r *memReportRepo) ReplaceActive(_ context.Context, report *domain.StatusReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.active {
		if existing.Department == report.Department {
			delete(r.active, id)
		}
	}
	r.active[report.ID] = *report
	return nil
}

func (r *memReportRepo) GetActiveByID(_ context.Context, id string) (*domain.StatusReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.active[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &report, nil
}

func (r *memReportRepo) ListActive(_ context.Context) ([]domain.StatusReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reports := make([]domain.StatusReport, 0, len(r.active))
	for _, report := range r.active {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Timestamp.After(reports[j].Timestamp) })
	return reports, nil
}

func (r *memReportRepo) ArchiveAndReset(_ context.Context, snapshots []domain.ArchivedReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, snap := range snapshots {
		for id, existing := range r.archived {
			if existing.Date == snap.Date && existing.Department == snap.Department {
				delete(r.archived, id)
			}
		}
		r.archived[snap.ID] = snap
	}
	r.active = make(map[string]domain.StatusReport)
	return nil
}

func (r *memReportRepo) GetArchivedByID(_ context.Context, id string) (*domain.ArchivedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	archived, ok := r.archived[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &archived, nil
}

func (r *memReportRepo) ListArchived(_ context.Context) ([]domain.ArchivedReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	archives := make([]domain.ArchivedReport, 0, len(r.archived))
	for _, archived := range r.archived {
		archives = append(archives, archived)
	}
	sort.Slice(archives, func(i, j int) bool {
		if archives[i].Year != archives[j].Year {
			return archives[i].Year > archives[j].Year
		}
		if archives[i].Month != archives[j].Month {
			return archives[i].Month > archives[j].Month
		}
		return archives[i].Date > archives[j].Date
	})
	return archives, nil
}

func (r *memReportRepo) HistoryByDepartment(_ context.Context, department string) ([]repository.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var history []repository.HistoryEntry
	for _, report := range r.active {
		if report.Department == department {
			history = append(history, repository.HistoryEntry{Report: report})
		}
	}
	for _, archived := range r.archived {
		if archived.Department == department {
			history = append(history, repository.HistoryEntry{
				Report: domain.StatusReport{
					ID:          archived.ID,
					Date:        archived.Date,
					SubmittedBy: archived.SubmittedBy,
					Department:  archived.Department,
					Items:       archived.Items,
					Timestamp:   archived.Timestamp,
				},
				Archived: true,
			})
		}
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Report.Timestamp.After(history[j].Report.Timestamp)
	})
	return history, nil
}

type memPersonnelRepo struct {
	mu      sync.Mutex
	records map[string]domain.Personnel
}

func newMemPersonnelRepo() *memPersonnelRepo {
	return &memPersonnelRepo{records: make(map[string]domain.Personnel)}
}

func (r *memPersonnelRepo) Create(_ context.Context, p *domain.Personnel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[p.ID] = *p
	return nil
}

func (r *memPersonnelRepo) Update(_ context.Context, p *domain.Personnel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.records[p.ID] = *p
	return nil
}

func (r *memPersonnelRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.records, id)
	return nil
}

func (r *memPersonnelRepo) GetByID(_ context.Context, id string) (*domain.Personnel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *memPersonnelRepo) List(_ context.Context, filter repository.PersonnelFilter) ([]domain.Personnel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Personnel
	for _, p := range r.records {
		if filter.Department != nil && p.Department != *filter.Department {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memPersonnelRepo) ReplaceAll(_ context.Context, records []domain.Personnel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]domain.Personnel, len(records))
	for _, p := range records {
		r.records[p.ID] = p
	}
	return nil
}

func (r *memPersonnelRepo) CountAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

func (r *memPersonnelRepo) DistinctDepartments(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var departments []string
	for _, p := range r.records {
		if p.Department != "" && !seen[p.Department] {
			seen[p.Department] = true
			departments = append(departments, p.Department)
		}
	}
	sort.Strings(departments)
	return departments, nil
}

type memSessionRow struct {
	username  string
	createdAt time.Time
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]memSessionRow
	users    *memUserRepo
}

func newMemSessionRepo(users *memUserRepo) *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]memSessionRow), users: users}
}

func (r *memSessionRepo) Create(_ context.Context, token, username string, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = memSessionRow{username: username, createdAt: createdAt}
	return nil
}

func (r *memSessionRepo) GetWithUser(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	row, ok := r.sessions[token]
	r.mu.Unlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user, err := r.users.GetByUsername(ctx, row.username)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Token:      token,
		Username:   row.username,
		CreatedAt:  row.createdAt,
		Role:       user.Role,
		Department: user.Department,
	}, nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, row := range r.sessions {
		if row.createdAt.Before(cutoff) {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}
