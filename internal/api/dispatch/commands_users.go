package dispatch

import (
	"context"
	"fmt"
	"html"

	"github.com/jeerawut3427/personal-system/internal/api/dto"
	"github.com/jeerawut3427/personal-system/internal/service"
)

func userInputFromData(data dto.UserData) service.UserInput {
	return service.UserInput{
		Username:   data.Username,
		Password:   data.Password,
		Rank:       data.Rank,
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Position:   data.Position,
		Department: data.Department,
		Role:       data.Role,
	}
}

type listUsersCommand struct {
	users *service.UserService
}

// NewListUsersCommand builds the list_users command.
func NewListUsersCommand(users *service.UserService) Command {
	return &listUsersCommand{users: users}
}

func (c *listUsersCommand) Name() string { return "list_users" }

func (c *listUsersCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *listUsersCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.SearchPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	users, err := c.users.List(ctx, payload.SearchTerm)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{"users": dto.NewUserViews(users)}}, nil
}

type addUserCommand struct {
	users *service.UserService
}

// NewAddUserCommand builds the add_user command.
func NewAddUserCommand(users *service.UserService) Command {
	return &addUserCommand{users: users}
}

func (c *addUserCommand) Name() string { return "add_user" }

func (c *addUserCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *addUserCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.UserPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	user, err := c.users.Create(ctx, userInputFromData(payload.Data))
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{
		"message": fmt.Sprintf("user %q created", html.EscapeString(user.Username)),
	}}, nil
}

type updateUserCommand struct {
	users *service.UserService
}

// NewUpdateUserCommand builds the update_user command.
func NewUpdateUserCommand(users *service.UserService) Command {
	return &updateUserCommand{users: users}
}

func (c *updateUserCommand) Name() string { return "update_user" }

func (c *updateUserCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *updateUserCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.UserPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	if err := c.users.Update(ctx, userInputFromData(payload.Data)); err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{
		"message": fmt.Sprintf("user %q updated", html.EscapeString(payload.Data.Username)),
	}}, nil
}

type deleteUserCommand struct {
	users *service.UserService
}

// NewDeleteUserCommand builds the delete_user command.
func NewDeleteUserCommand(users *service.UserService) Command {
	return &deleteUserCommand{users: users}
}

func (c *deleteUserCommand) Name() string { return "delete_user" }

func (c *deleteUserCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *deleteUserCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.DeleteUserPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	if err := c.users.Delete(ctx, payload.Username); err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{
		"message": fmt.Sprintf("user %q deleted", html.EscapeString(payload.Username)),
	}}, nil
}
