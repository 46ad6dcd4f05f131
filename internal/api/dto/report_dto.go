package dto

import (
	"html"
	"time"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/repository"
	"github.com/jeerawut3427/personal-system/internal/service"
)

// SubmitReportPayload carries a department's status submission.
type SubmitReportPayload struct {
	Report struct {
		Date  string              `json:"date"`
		Items []domain.ReportItem `json:"items"`
	} `json:"report"`
}

// ArchiveReportsPayload selects active reports for archiving. Only the ids
// are honored; the server re-reads report content from the active set.
type ArchiveReportsPayload struct {
	Reports []struct {
		ID string `json:"id"`
	} `json:"reports"`
}

// GetReportPayload identifies a report to fetch for editing.
type GetReportPayload struct {
	ID string `json:"id"`
}

// ReportItemView is an output-encoded report item.
type ReportItemView struct {
	PersonnelID   string `json:"personnel_id"`
	PersonnelName string `json:"personnel_name"`
	Status        string `json:"status"`
	Details       string `json:"details,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
}

// ReportView is the output-encoded representation of a report in either
// lifecycle state.
type ReportView struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	SubmittedBy string           `json:"submitted_by"`
	Department  string           `json:"department"`
	Timestamp   time.Time        `json:"timestamp"`
	Items       []ReportItemView `json:"items"`
	Archived    bool             `json:"archived"`
}

// ArchivedReportView is the output-encoded representation of an archived
// report, keyed for the year/month archive browser.
type ArchivedReportView struct {
	ID          string           `json:"id"`
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	Date        string           `json:"date"`
	SubmittedBy string           `json:"submitted_by"`
	Department  string           `json:"department"`
	Timestamp   time.Time        `json:"timestamp"`
	Items       []ReportItemView `json:"items"`
}

// DashboardSummaryView is the output-encoded dashboard summary.
type DashboardSummaryView struct {
	AllDepartments       []string               `json:"all_departments"`
	SubmittedDepartments []string               `json:"submitted_departments"`
	StatusSummary        map[string]int         `json:"status_summary"`
	TotalPersonnel       int                    `json:"total_personnel"`
	TotalOnDuty          int                    `json:"total_on_duty"`
	LatestSubmissions    []LatestSubmissionView `json:"latest_submissions"`
}

// LatestSubmissionView is the per-department latest-submission row.
type LatestSubmissionView struct {
	Department  string    `json:"department"`
	SubmittedBy string    `json:"submitted_by"`
	Timestamp   time.Time `json:"timestamp"`
	ItemCount   int       `json:"item_count"`
}

func newReportItemViews(items []domain.ReportItem) []ReportItemView {
	views := make([]ReportItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ReportItemView{
			PersonnelID:   item.PersonnelID,
			PersonnelName: html.EscapeString(item.PersonnelName),
			Status:        html.EscapeString(item.Status),
			Details:       html.EscapeString(item.Details),
			StartDate:     item.StartDate,
			EndDate:       item.EndDate,
		})
	}
	return views
}

// NewReportView converts an active report for presentation.
func NewReportView(report *domain.StatusReport, archived bool) ReportView {
	return ReportView{
		ID:          report.ID,
		Date:        report.Date,
		SubmittedBy: html.EscapeString(report.SubmittedBy),
		Department:  html.EscapeString(report.Department),
		Timestamp:   report.Timestamp,
		Items:       newReportItemViews(report.Items),
		Archived:    archived,
	}
}

// NewReportViews converts a slice of active reports.
func NewReportViews(reports []domain.StatusReport) []ReportView {
	views := make([]ReportView, 0, len(reports))
	for i := range reports {
		views = append(views, NewReportView(&reports[i], false))
	}
	return views
}

// NewHistoryViews converts submission-history entries.
func NewHistoryViews(entries []repository.HistoryEntry) []ReportView {
	views := make([]ReportView, 0, len(entries))
	for i := range entries {
		views = append(views, NewReportView(&entries[i].Report, entries[i].Archived))
	}
	return views
}

// NewArchivedReportView converts an archived report for presentation.
func NewArchivedReportView(archived *domain.ArchivedReport) ArchivedReportView {
	return ArchivedReportView{
		ID:          archived.ID,
		Year:        archived.Year,
		Month:       archived.Month,
		Date:        archived.Date,
		SubmittedBy: html.EscapeString(archived.SubmittedBy),
		Department:  html.EscapeString(archived.Department),
		Timestamp:   archived.Timestamp,
		Items:       newReportItemViews(archived.Items),
	}
}

// NewArchiveViews converts the grouped year/month archive map.
func NewArchiveViews(grouped map[string]map[string][]domain.ArchivedReport) map[string]map[string][]ArchivedReportView {
	out := make(map[string]map[string][]ArchivedReportView, len(grouped))
	for year, months := range grouped {
		out[year] = make(map[string][]ArchivedReportView, len(months))
		for month, reports := range months {
			views := make([]ArchivedReportView, 0, len(reports))
			for i := range reports {
				views = append(views, NewArchivedReportView(&reports[i]))
			}
			out[year][month] = views
		}
	}
	return out
}

// NewDashboardSummaryView converts the dashboard summary, output-encoding
// every free-text field.
func NewDashboardSummaryView(summary *service.DashboardSummary) DashboardSummaryView {
	view := DashboardSummaryView{
		AllDepartments:       escapeAll(summary.AllDepartments),
		SubmittedDepartments: escapeAll(summary.SubmittedDepartments),
		StatusSummary:        make(map[string]int, len(summary.StatusSummary)),
		TotalPersonnel:       summary.TotalPersonnel,
		TotalOnDuty:          summary.TotalOnDuty,
		LatestSubmissions:    make([]LatestSubmissionView, 0, len(summary.LatestSubmissions)),
	}
	for status, count := range summary.StatusSummary {
		view.StatusSummary[html.EscapeString(status)] = count
	}
	for _, submission := range summary.LatestSubmissions {
		view.LatestSubmissions = append(view.LatestSubmissions, LatestSubmissionView{
			Department:  html.EscapeString(submission.Department),
			SubmittedBy: html.EscapeString(submission.SubmittedBy),
			Timestamp:   submission.Timestamp,
			ItemCount:   submission.ItemCount,
		})
	}
	return view
}

func escapeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, html.EscapeString(v))
	}
	return out
}
