package domain

import "time"

// ReportItem is a single per-person status entry inside a report.
type ReportItem struct {
	PersonnelID   string `json:"personnel_id"`
	PersonnelName string `json:"personnel_name"`
	Status        string `json:"status"`
	Details       string `json:"details,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
}

// StatusReport is the active, mutable submission for a department.
// Invariant: at most one active report exists per department; a new
// submission replaces any prior one.
type StatusReport struct {
	ID          string
	Date        string
	SubmittedBy string
	Department  string
	Items       []ReportItem
	Timestamp   time.Time
}

// ArchivedReport is an immutable historical snapshot of a former active
// report. SubmittedBy holds the submitter's rendered full name captured at
// archive time, decoupling history from later user-record changes.
type ArchivedReport struct {
	ID          string
	Year        int
	Month       int
	Date        string
	SubmittedBy string
	Department  string
	Items       []ReportItem
	Timestamp   time.Time
}
