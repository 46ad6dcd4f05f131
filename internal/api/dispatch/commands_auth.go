package dispatch

import (
	"context"
	"time"

	"github.com/jeerawut3427/personal-system/internal/api/dto"
	"github.com/jeerawut3427/personal-system/internal/service"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

type loginCommand struct {
	auth       *service.AuthService
	cookieName string
}

// NewLoginCommand builds the only unauthenticated command. It consults the
// login throttle via the auth service and, on success, returns the session
// cookie directive alongside the body.
func NewLoginCommand(authService *service.AuthService, cookieName string) Command {
	return &loginCommand{auth: authService, cookieName: cookieName}
}

func (c *loginCommand) Name() string { return "login" }

func (c *loginCommand) Spec() Spec { return Spec{AuthRequired: false} }

func (c *loginCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.LoginPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	if payload.Username == "" || payload.Password == "" {
		return nil, util.NewValidationError("username and password are required", nil)
	}

	user, token, expiresAt, err := c.auth.Login(ctx, payload.Username, payload.Password, req.RemoteAddr)
	if err != nil {
		return nil, err
	}

	return &Result{
		Body: map[string]any{
			"token": token,
			"user":  dto.NewUserView(user),
		},
		Directives: []Directive{{
			Cookie: &CookieDirective{Name: c.cookieName, Value: token, Expires: expiresAt},
		}},
	}, nil
}

type logoutCommand struct {
	auth       *service.AuthService
	cookieName string
}

// NewLogoutCommand builds the logout command.
func NewLogoutCommand(authService *service.AuthService, cookieName string) Command {
	return &logoutCommand{auth: authService, cookieName: cookieName}
}

func (c *logoutCommand) Name() string { return "logout" }

func (c *logoutCommand) Spec() Spec { return Spec{AuthRequired: true} }

func (c *logoutCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	if err := c.auth.Logout(ctx, req.Session.Token); err != nil {
		return nil, err
	}
	return &Result{
		Body: map[string]any{"message": "logged out"},
		Directives: []Directive{{
			Cookie: &CookieDirective{Name: c.cookieName, Expires: time.Unix(0, 0), Clear: true},
		}},
	}, nil
}
