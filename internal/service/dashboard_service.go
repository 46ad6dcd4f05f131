package service

import (
	"context"
	"sort"
	"time"

	"github.com/jeerawut3427/personal-system/internal/repository"
)

// LatestSubmission summarizes a department's most recent active report.
type LatestSubmission struct {
	Department  string    `json:"department"`
	SubmittedBy string    `json:"submitted_by"`
	Timestamp   time.Time `json:"timestamp"`
	ItemCount   int       `json:"item_count"`
}

// DashboardSummary is the admin dashboard view derived from active reports.
type DashboardSummary struct {
	AllDepartments       []string           `json:"all_departments"`
	SubmittedDepartments []string           `json:"submitted_departments"`
	StatusSummary        map[string]int     `json:"status_summary"`
	TotalPersonnel       int                `json:"total_personnel"`
	TotalOnDuty          int                `json:"total_on_duty"`
	LatestSubmissions    []LatestSubmission `json:"latest_submissions"`
}

// DashboardService derives dashboard summaries from the active report set.
// No caching; active-report volume is bounded by the department count.
type DashboardService struct {
	reports   repository.ReportRepository
	personnel repository.PersonnelRepository
}

// NewDashboardService builds the service.
func NewDashboardService(reports repository.ReportRepository, personnel repository.PersonnelRepository) *DashboardService {
	return &DashboardService{reports: reports, personnel: personnel}
}

// Summary recomputes the dashboard from current state. Anyone reported with
// a status is off duty; on-duty is the remaining personnel count.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	active, err := s.reports.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	totalPersonnel, err := s.personnel.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	allDepartments, err := s.personnel.DistinctDepartments(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		AllDepartments:       allDepartments,
		SubmittedDepartments: []string{},
		StatusSummary:        make(map[string]int),
		TotalPersonnel:       totalPersonnel,
		LatestSubmissions:    []LatestSubmission{},
	}

	reported := 0
	latest := make(map[string]LatestSubmission)
	for _, report := range active {
		summary.SubmittedDepartments = append(summary.SubmittedDepartments, report.Department)
		reported += len(report.Items)
		for _, item := range report.Items {
			status := item.Status
			if status == "" {
				status = "unspecified"
			}
			summary.StatusSummary[status]++
		}
		if prev, ok := latest[report.Department]; !ok || report.Timestamp.After(prev.Timestamp) {
			latest[report.Department] = LatestSubmission{
				Department:  report.Department,
				SubmittedBy: report.SubmittedBy,
				Timestamp:   report.Timestamp,
				ItemCount:   len(report.Items),
			}
		}
	}
	for _, submission := range latest {
		summary.LatestSubmissions = append(summary.LatestSubmissions, submission)
	}
	sort.Slice(summary.LatestSubmissions, func(i, j int) bool {
		return summary.LatestSubmissions[i].Department < summary.LatestSubmissions[j].Department
	})
	summary.TotalOnDuty = totalPersonnel - reported

	return summary, nil
}
