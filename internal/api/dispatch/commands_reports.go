package dispatch

import (
	"context"
	"fmt"

	"github.com/jeerawut3427/personal-system/internal/api/dto"
	"github.com/jeerawut3427/personal-system/internal/service"
)

type submitReportCommand struct {
	reports *service.ReportService
}

// NewSubmitReportCommand builds the submit_status_report command. The
// department is always taken from the caller's session, never the payload.
func NewSubmitReportCommand(reports *service.ReportService) Command {
	return &submitReportCommand{reports: reports}
}

func (c *submitReportCommand) Name() string { return "submit_status_report" }

func (c *submitReportCommand) Spec() Spec { return Spec{AuthRequired: true} }

func (c *submitReportCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.SubmitReportPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	report, err := c.reports.Submit(ctx, req.Session, payload.Report.Date, payload.Report.Items)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{
		"message": "status report submitted",
		"id":      report.ID,
	}}, nil
}

type listReportsCommand struct {
	reports *service.ReportService
}

// NewListReportsCommand builds the get_status_reports command.
func NewListReportsCommand(reports *service.ReportService) Command {
	return &listReportsCommand{reports: reports}
}

func (c *listReportsCommand) Name() string { return "get_status_reports" }

func (c *listReportsCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *listReportsCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	reports, err := c.reports.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{"reports": dto.NewReportViews(reports)}}, nil
}

type getReportCommand struct {
	reports *service.ReportService
}

// NewGetReportCommand builds the get_report command, fetching a report for
// editing from either lifecycle state (active checked first).
func NewGetReportCommand(reports *service.ReportService) Command {
	return &getReportCommand{reports: reports}
}

func (c *getReportCommand) Name() string { return "get_report" }

func (c *getReportCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *getReportCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.GetReportPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	entry, err := c.reports.GetByID(ctx, payload.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{
		"report": dto.NewReportView(&entry.Report, entry.Archived),
	}}, nil
}

type archiveReportsCommand struct {
	reports *service.ReportService
}

// NewArchiveReportsCommand builds the archive_reports command. Archiving a
// selection clears the ENTIRE active set afterwards, not just the selected
// rows; clients treat it as the end-of-cycle dashboard reset.
func NewArchiveReportsCommand(reports *service.ReportService) Command {
	return &archiveReportsCommand{reports: reports}
}

func (c *archiveReportsCommand) Name() string { return "archive_reports" }

func (c *archiveReportsCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *archiveReportsCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.ArchiveReportsPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(payload.Reports))
	for _, selection := range payload.Reports {
		ids = append(ids, selection.ID)
	}
	count, err := c.reports.Archive(ctx, req.Session.Username, ids)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{
		"message": fmt.Sprintf("archived %d reports and reset the active set", count),
		"count":   count,
	}}, nil
}

type listArchivedCommand struct {
	reports *service.ReportService
}

// NewListArchivedCommand builds the get_archived_reports command.
func NewListArchivedCommand(reports *service.ReportService) Command {
	return &listArchivedCommand{reports: reports}
}

func (c *listArchivedCommand) Name() string { return "get_archived_reports" }

func (c *listArchivedCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *listArchivedCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	grouped, err := c.reports.ListArchivedGrouped(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{"archives": dto.NewArchiveViews(grouped)}}, nil
}

type submissionHistoryCommand struct {
	reports *service.ReportService
}

// NewSubmissionHistoryCommand builds the get_submission_history command,
// scoped to the caller's department across both lifecycle states.
func NewSubmissionHistoryCommand(reports *service.ReportService) Command {
	return &submissionHistoryCommand{reports: reports}
}

func (c *submissionHistoryCommand) Name() string { return "get_submission_history" }

func (c *submissionHistoryCommand) Spec() Spec { return Spec{AuthRequired: true} }

func (c *submissionHistoryCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	history, err := c.reports.History(ctx, req.Session)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{"history": dto.NewHistoryViews(history)}}, nil
}

type dashboardSummaryCommand struct {
	dashboard *service.DashboardService
}

// NewDashboardSummaryCommand builds the get_dashboard_summary command.
func NewDashboardSummaryCommand(dashboard *service.DashboardService) Command {
	return &dashboardSummaryCommand{dashboard: dashboard}
}

func (c *dashboardSummaryCommand) Name() string { return "get_dashboard_summary" }

func (c *dashboardSummaryCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *dashboardSummaryCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	summary, err := c.dashboard.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{"summary": dto.NewDashboardSummaryView(summary)}}, nil
}

// CommandDeps bundles service dependencies for the default command set.
type CommandDeps struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Personnel  *service.PersonnelService
	Reports    *service.ReportService
	Dashboard  *service.DashboardService
	CookieName string
}

// DefaultCommands returns every action the service exposes.
func DefaultCommands(deps CommandDeps) []Command {
	return []Command{
		NewLoginCommand(deps.Auth, deps.CookieName),
		NewLogoutCommand(deps.Auth, deps.CookieName),
		NewListUsersCommand(deps.Users),
		NewAddUserCommand(deps.Users),
		NewUpdateUserCommand(deps.Users),
		NewDeleteUserCommand(deps.Users),
		NewListPersonnelCommand(deps.Personnel),
		NewAddPersonnelCommand(deps.Personnel),
		NewUpdatePersonnelCommand(deps.Personnel),
		NewDeletePersonnelCommand(deps.Personnel),
		NewImportPersonnelCommand(deps.Personnel),
		NewSubmitReportCommand(deps.Reports),
		NewListReportsCommand(deps.Reports),
		NewGetReportCommand(deps.Reports),
		NewArchiveReportsCommand(deps.Reports),
		NewListArchivedCommand(deps.Reports),
		NewSubmissionHistoryCommand(deps.Reports),
		NewDashboardSummaryCommand(deps.Dashboard),
	}
}
