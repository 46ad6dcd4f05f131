package domain

// Role represents the authorization level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account that can sign in and submit reports.
// Salt and Key hold the PBKDF2 credential material and never leave the server.
type User struct {
	Username   string
	Salt       []byte
	Key        []byte
	Rank       string
	FirstName  string
	LastName   string
	Position   string
	Department string
	Role       Role
}

// FullName renders the display name used when freezing submitter identity.
func (u *User) FullName() string {
	name := u.Rank
	if u.FirstName != "" {
		if name != "" {
			name += " "
		}
		name += u.FirstName
	}
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}
