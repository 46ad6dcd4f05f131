package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/events"
	"github.com/jeerawut3427/personal-system/internal/repository"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

// reportZone is the fixed offset used for server-assigned submission
// timestamps, independent of the host time zone.
var reportZone = time.FixedZone("UTC+7", 7*60*60)

// ReportService owns the active/archived report state machine.
type ReportService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewReportService builds the service.
func NewReportService(reports repository.ReportRepository, users repository.UserRepository, dispatcher events.Dispatcher) *ReportService {
	return &ReportService{
		reports:    reports,
		users:      users,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().In(reportZone) },
	}
}

// Submit records the department's status report, replacing any active report
// the department already has. The id is minted fresh on every submission and
// the timestamp is server-assigned, so resubmitting overwrites rather than
// duplicates.
func (s *ReportService) Submit(ctx context.Context, session *domain.Session, date string, items []domain.ReportItem) (*domain.StatusReport, error) {
	if date == "" {
		return nil, util.NewValidationError("report date is required", nil)
	}
	if session.Department == "" {
		return nil, util.NewValidationError("your account has no department assigned", nil)
	}

	report := &domain.StatusReport{
		ID:          uuid.NewString(),
		Date:        date,
		SubmittedBy: session.Username,
		Department:  session.Department,
		Items:       items,
		Timestamp:   s.now(),
	}
	if err := s.reports.ReplaceActive(ctx, report); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventReportSubmitted, session.Username, events.ReportSubmittedPayload{
		ReportID:   report.ID,
		Department: report.Department,
		Date:       report.Date,
		ItemCount:  len(report.Items),
	})
	return report, nil
}

// ListActive returns every active report, newest first.
func (s *ReportService) ListActive(ctx context.Context) ([]domain.StatusReport, error) {
	return s.reports.ListActive(ctx)
}

// Archive snapshots the selected active reports into the archive and then
// clears the ENTIRE active set, including reports that were not selected.
// The asymmetry is deliberate: archiving doubles as a dashboard reset, and
// clients are told so. Re-running with the same selection is safe; a prior
// archive for the same (date, department) is replaced, never duplicated.
func (s *ReportService) Archive(ctx context.Context, actor string, reportIDs []string) (int, error) {
	if len(reportIDs) == 0 {
		return 0, util.NewValidationError("no reports selected for archiving", nil)
	}

	active, err := s.reports.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]domain.StatusReport, len(active))
	for _, report := range active {
		byID[report.ID] = report
	}

	snapshots := make([]domain.ArchivedReport, 0, len(reportIDs))
	for _, id := range reportIDs {
		report, ok := byID[id]
		if !ok {
			return 0, util.NewNotFound("report")
		}
		year, month, err := splitReportDate(report.Date)
		if err != nil {
			return 0, util.NewValidationError("report has a malformed date", map[string]any{"id": id})
		}
		snapshots = append(snapshots, domain.ArchivedReport{
			ID:          uuid.NewString(),
			Year:        year,
			Month:       month,
			Date:        report.Date,
			SubmittedBy: s.renderSubmitter(ctx, report.SubmittedBy),
			Department:  report.Department,
			Items:       report.Items,
			Timestamp:   report.Timestamp,
		})
	}

	if err := s.reports.ArchiveAndReset(ctx, snapshots); err != nil {
		return 0, err
	}

	s.publish(ctx, events.EventReportsArchived, actor, events.ReportsArchivedPayload{
		ArchivedCount: len(snapshots),
		ClearedActive: len(active),
	})
	return len(snapshots), nil
}

// GetByID looks up a report across both lifecycle states, active first.
func (s *ReportService) GetByID(ctx context.Context, id string) (*repository.HistoryEntry, error) {
	report, err := s.reports.GetActiveByID(ctx, id)
	if err == nil {
		return &repository.HistoryEntry{Report: *report}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	archived, err := s.reports.GetArchivedByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("report")
		}
		return nil, err
	}
	return &repository.HistoryEntry{
		Report: domain.StatusReport{
			ID:          archived.ID,
			Date:        archived.Date,
			SubmittedBy: archived.SubmittedBy,
			Department:  archived.Department,
			Items:       archived.Items,
			Timestamp:   archived.Timestamp,
		},
		Archived: true,
	}, nil
}

// History returns the caller department's submissions from both lifecycle
// states, newest first.
func (s *ReportService) History(ctx context.Context, session *domain.Session) ([]repository.HistoryEntry, error) {
	if session.Department == "" {
		return nil, util.NewValidationError("your account has no department assigned", nil)
	}
	return s.reports.HistoryByDepartment(ctx, session.Department)
}

// ListArchivedGrouped returns archived reports grouped year then month for
// the archive browser.
func (s *ReportService) ListArchivedGrouped(ctx context.Context) (map[string]map[string][]domain.ArchivedReport, error) {
	archives, err := s.reports.ListArchived(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]map[string][]domain.ArchivedReport)
	for _, archived := range archives {
		yearKey := strconv.Itoa(archived.Year)
		monthKey := strconv.Itoa(archived.Month)
		if grouped[yearKey] == nil {
			grouped[yearKey] = make(map[string][]domain.ArchivedReport)
		}
		grouped[yearKey][monthKey] = append(grouped[yearKey][monthKey], archived)
	}
	return grouped, nil
}

// renderSubmitter freezes the submitter's display name at archive time. When
// the user row is already gone the stored username is kept as-is.
func (s *ReportService) renderSubmitter(ctx context.Context, username string) string {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return username
	}
	if name := user.FullName(); name != "" {
		return name
	}
	return username
}

func splitReportDate(date string) (year, month int, err error) {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) < 2 {
		return 0, 0, errors.New("malformed report date")
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func (s *ReportService) publish(ctx context.Context, eventType events.EventType, actor string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
