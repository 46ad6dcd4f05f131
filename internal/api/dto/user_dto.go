package dto

import (
	"html"

	"github.com/jeerawut3427/personal-system/internal/domain"
)

// LoginPayload carries credentials for the login action.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserData carries account fields for add_user/update_user.
type UserData struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Rank       string `json:"rank"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// UserPayload wraps UserData the way the client nests it.
type UserPayload struct {
	Data UserData `json:"data"`
}

// DeleteUserPayload identifies the account to delete.
type DeleteUserPayload struct {
	Username string `json:"username"`
}

// SearchPayload carries an optional search term for list actions.
type SearchPayload struct {
	SearchTerm string `json:"searchTerm"`
}

// UserView is the output-encoded representation of an account. Credential
// material never appears here. HTML escaping is applied uniformly at this
// boundary so the storage and service layers stay free of rendering concerns.
type UserView struct {
	Username   string `json:"username"`
	Rank       string `json:"rank"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// NewUserView converts a domain user for presentation.
func NewUserView(user *domain.User) UserView {
	return UserView{
		Username:   html.EscapeString(user.Username),
		Rank:       html.EscapeString(user.Rank),
		FirstName:  html.EscapeString(user.FirstName),
		LastName:   html.EscapeString(user.LastName),
		Position:   html.EscapeString(user.Position),
		Department: html.EscapeString(user.Department),
		Role:       string(user.Role),
	}
}

// NewUserViews converts a slice of domain users.
func NewUserViews(users []domain.User) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, NewUserView(&users[i]))
	}
	return views
}
