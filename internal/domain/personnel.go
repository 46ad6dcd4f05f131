package domain

// Personnel is an individual tracked on status reports. Independent of User;
// it belongs to whichever department value it carries.
type Personnel struct {
	ID         string
	Rank       string
	FirstName  string
	LastName   string
	Position   string
	Specialty  string
	Department string
}
