package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLoginFailed       EventType = "login_failed"
	EventLoginLockedOut    EventType = "login_locked_out"
	EventReportSubmitted   EventType = "report_submitted"
	EventReportsArchived   EventType = "reports_archived"
	EventUserCreated       EventType = "user_created"
	EventUserUpdated       EventType = "user_updated"
	EventUserDeleted       EventType = "user_deleted"
	EventPersonnelImported EventType = "personnel_imported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LoginAttemptPayload payload.
type LoginAttemptPayload struct {
	Username   string `json:"username"`
	RemoteAddr string `json:"remote_addr"`
}

// ReportSubmittedPayload payload.
type ReportSubmittedPayload struct {
	ReportID   string `json:"report_id"`
	Department string `json:"department"`
	Date       string `json:"date"`
	ItemCount  int    `json:"item_count"`
}

// ReportsArchivedPayload payload.
type ReportsArchivedPayload struct {
	ArchivedCount int `json:"archived_count"`
	ClearedActive int `json:"cleared_active"`
}

// UserChangedPayload payload.
type UserChangedPayload struct {
	Username string `json:"username"`
}

// PersonnelImportedPayload payload.
type PersonnelImportedPayload struct {
	RecordCount int `json:"record_count"`
}
