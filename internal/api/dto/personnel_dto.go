package dto

import (
	"html"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// PersonnelData carries record fields for add_personnel/update_personnel.
type PersonnelData struct {
	ID         string `json:"id"`
	Rank       string `json:"rank"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Specialty  string `json:"specialty"`
	Department string `json:"department"`
}

// PersonnelPayload wraps PersonnelData the way the client nests it.
type PersonnelPayload struct {
	Data PersonnelData `json:"data"`
}

// DeletePersonnelPayload identifies the record to delete.
type DeletePersonnelPayload struct {
	ID string `json:"id"`
}

// ImportPersonnelPayload carries the full replacement personnel set.
type ImportPersonnelPayload struct {
	Personnel []PersonnelData `json:"personnel"`
}

// PersonnelView is the output-encoded representation of a record.
type PersonnelView struct {
	ID         string `json:"id"`
	Rank       string `json:"rank"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Specialty  string `json:"specialty"`
	Department string `json:"department"`
}

// NewPersonnelView converts a domain record for presentation.
func NewPersonnelView(p *domain.Personnel) PersonnelView {
	return PersonnelView{
		ID:         p.ID,
		Rank:       html.EscapeString(p.Rank),
		FirstName:  html.EscapeString(p.FirstName),
		LastName:   html.EscapeString(p.LastName),
		Position:   html.EscapeString(p.Position),
		Specialty:  html.EscapeString(p.Specialty),
		Department: html.EscapeString(p.Department),
	}
}

// NewPersonnelViews converts a slice of domain records.
func NewPersonnelViews(records []domain.Personnel) []PersonnelView {
	views := make([]PersonnelView, 0, len(records))
	for i := range records {
		views = append(views, NewPersonnelView(&records[i]))
	}
	return views
}
