package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeerawut3427/personal-system/internal/domain"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

func newTestReportService(reports *memReportRepo, users *memUserRepo) *ReportService {
	svc := NewReportService(reports, users, nil)
	base := time.Date(2025, 6, 15, 8, 0, 0, 0, reportZone)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc
}

func opsSession(department string) *domain.Session {
	return &domain.Session{Username: "somchai", Role: domain.RoleUser, Department: department}
}

func TestSubmitReplacesExistingActiveReport(t *testing.T) {
	reports := newMemReportRepo()
	svc := newTestReportService(reports, newMemUserRepo())

	first, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", []domain.ReportItem{
		{PersonnelID: "p1", PersonnelName: "A", Status: "leave"},
	})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", []domain.ReportItem{
		{PersonnelID: "p1", PersonnelName: "A", Status: "sick"},
		{PersonnelID: "p2", PersonnelName: "B", Status: "leave"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)
	assert.Len(t, active[0].Items, 2)
}

func TestSubmitKeepsOtherDepartmentsActive(t *testing.T) {
	reports := newMemReportRepo()
	svc := newTestReportService(reports, newMemUserRepo())

	_, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", nil)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), opsSession("logistics"), "2025-06-15", nil)
	require.NoError(t, err)

	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestReportService(newMemReportRepo(), newMemUserRepo())

	_, err := svc.Submit(context.Background(), opsSession("operations"), "", nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", util.ToDomainError(err).Code)

	_, err = svc.Submit(context.Background(), opsSession(""), "2025-06-15", nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", util.ToDomainError(err).Code)
}

func TestArchiveClearsEntireActiveSet(t *testing.T) {
	reports := newMemReportRepo()
	svc := newTestReportService(reports, newMemUserRepo())

	selected, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", nil)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), opsSession("logistics"), "2025-06-15", nil)
	require.NoError(t, err)

	count, err := svc.Archive(context.Background(), "admin", []string{selected.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// the unselected logistics report is gone too
	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	archives, err := svc.ListArchivedGrouped(context.Background())
	require.NoError(t, err)
	require.Contains(t, archives, "2025")
	require.Contains(t, archives["2025"], "6")
	assert.Len(t, archives["2025"]["6"], 1)
	assert.Equal(t, "operations", archives["2025"]["6"][0].Department)
}

func TestArchiveUnknownReport(t *testing.T) {
	svc := newTestReportService(newMemReportRepo(), newMemUserRepo())

	_, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", nil)
	require.NoError(t, err)

	_, err = svc.Archive(context.Background(), "admin", []string{"missing"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", util.ToDomainError(err).Code)
}

func TestArchiveRequiresSelection(t *testing.T) {
	svc := newTestReportService(newMemReportRepo(), newMemUserRepo())
	_, err := svc.Archive(context.Background(), "admin", nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", util.ToDomainError(err).Code)
}

func TestArchiveFreezesSubmitterName(t *testing.T) {
	users := newMemUserRepo()
	require.NoError(t, users.Create(context.Background(), &domain.User{
		Username:  "somchai",
		Rank:      "Sgt.",
		FirstName: "Somchai",
		LastName:  "Dee",
		Role:      domain.RoleUser,
	}))
	reports := newMemReportRepo()
	svc := newTestReportService(reports, users)

	report, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", nil)
	require.NoError(t, err)
	_, err = svc.Archive(context.Background(), "admin", []string{report.ID})
	require.NoError(t, err)

	archives, err := reports.ListArchived(context.Background())
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, "Sgt. Somchai Dee", archives[0].SubmittedBy)

	// the frozen name survives later user changes
	require.NoError(t, users.Delete(context.Background(), "somchai"))
	archives, err = reports.ListArchived(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sgt. Somchai Dee", archives[0].SubmittedBy)
}

func TestArchiveFallsBackToUsernameWhenUserGone(t *testing.T) {
	reports := newMemReportRepo()
	svc := newTestReportService(reports, newMemUserRepo())

	report, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", nil)
	require.NoError(t, err)
	_, err = svc.Archive(context.Background(), "admin", []string{report.ID})
	require.NoError(t, err)

	archives, err := reports.ListArchived(context.Background())
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, "somchai", archives[0].SubmittedBy)
}

func TestArchiveReplacesSameDateAndDepartment(t *testing.T) {
	reports := newMemReportRepo()
	svc := newTestReportService(reports, newMemUserRepo())

	first, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", nil)
	require.NoError(t, err)
	_, err = svc.Archive(context.Background(), "admin", []string{first.ID})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", []domain.ReportItem{
		{PersonnelID: "p1", PersonnelName: "A", Status: "sick"},
	})
	require.NoError(t, err)
	_, err = svc.Archive(context.Background(), "admin", []string{second.ID})
	require.NoError(t, err)

	archives, err := reports.ListArchived(context.Background())
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Len(t, archives[0].Items, 1)
}

func TestGetByIDChecksActiveThenArchive(t *testing.T) {
	reports := newMemReportRepo()
	svc := newTestReportService(reports, newMemUserRepo())

	report, err := svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", nil)
	require.NoError(t, err)

	entry, err := svc.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.False(t, entry.Archived)

	_, err = svc.Archive(context.Background(), "admin", []string{report.ID})
	require.NoError(t, err)

	archives, err := reports.ListArchived(context.Background())
	require.NoError(t, err)
	entry, err = svc.GetByID(context.Background(), archives[0].ID)
	require.NoError(t, err)
	assert.True(t, entry.Archived)

	_, err = svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", util.ToDomainError(err).Code)
}

func TestHistorySpansBothLifecycleStates(t *testing.T) {
	reports := newMemReportRepo()
	svc := newTestReportService(reports, newMemUserRepo())

	first, err := svc.Submit(context.Background(), opsSession("operations"), "2025-05-20", nil)
	require.NoError(t, err)
	_, err = svc.Archive(context.Background(), "admin", []string{first.ID})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), opsSession("operations"), "2025-06-15", nil)
	require.NoError(t, err)

	history, err := svc.History(context.Background(), opsSession("operations"))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.False(t, history[0].Archived)
	assert.True(t, history[1].Archived)

	history, err = svc.History(context.Background(), opsSession("logistics"))
	require.NoError(t, err)
	assert.Empty(t, history)
}
