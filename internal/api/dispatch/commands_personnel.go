package dispatch

import (
	"context"
	"fmt"

	"github.com/jeerawut3427/personal-system/internal/api/dto"
	"github.com/jeerawut3427/personal-system/internal/service"
)

func personnelInputFromData(data dto.PersonnelData) service.PersonnelInput {
	return service.PersonnelInput{
		ID:         data.ID,
		Rank:       data.Rank,
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Position:   data.Position,
		Specialty:  data.Specialty,
		Department: data.Department,
	}
}

type listPersonnelCommand struct {
	personnel *service.PersonnelService
}

// NewListPersonnelCommand builds the list_personnel command. Non-admin
// callers only see their own department; that is why this command receives
// the session.
func NewListPersonnelCommand(personnel *service.PersonnelService) Command {
	return &listPersonnelCommand{personnel: personnel}
}

func (c *listPersonnelCommand) Name() string { return "list_personnel" }

func (c *listPersonnelCommand) Spec() Spec { return Spec{AuthRequired: true} }

func (c *listPersonnelCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.SearchPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	records, err := c.personnel.List(ctx, req.Session, payload.SearchTerm)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{"personnel": dto.NewPersonnelViews(records)}}, nil
}

type addPersonnelCommand struct {
	personnel *service.PersonnelService
}

// NewAddPersonnelCommand builds the add_personnel command.
func NewAddPersonnelCommand(personnel *service.PersonnelService) Command {
	return &addPersonnelCommand{personnel: personnel}
}

func (c *addPersonnelCommand) Name() string { return "add_personnel" }

func (c *addPersonnelCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *addPersonnelCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.PersonnelPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	record, err := c.personnel.Create(ctx, personnelInputFromData(payload.Data))
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{
		"message": "personnel record created",
		"id":      record.ID,
	}}, nil
}

type updatePersonnelCommand struct {
	personnel *service.PersonnelService
}

// NewUpdatePersonnelCommand builds the update_personnel command.
func NewUpdatePersonnelCommand(personnel *service.PersonnelService) Command {
	return &updatePersonnelCommand{personnel: personnel}
}

func (c *updatePersonnelCommand) Name() string { return "update_personnel" }

func (c *updatePersonnelCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *updatePersonnelCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.PersonnelPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	if err := c.personnel.Update(ctx, personnelInputFromData(payload.Data)); err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{"message": "personnel record updated"}}, nil
}

type deletePersonnelCommand struct {
	personnel *service.PersonnelService
}

// NewDeletePersonnelCommand builds the delete_personnel command.
func NewDeletePersonnelCommand(personnel *service.PersonnelService) Command {
	return &deletePersonnelCommand{personnel: personnel}
}

func (c *deletePersonnelCommand) Name() string { return "delete_personnel" }

func (c *deletePersonnelCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *deletePersonnelCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.DeletePersonnelPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	if err := c.personnel.Delete(ctx, payload.ID); err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{"message": "personnel record deleted"}}, nil
}

type importPersonnelCommand struct {
	personnel *service.PersonnelService
}

// NewImportPersonnelCommand builds the import_personnel command. Import
// wipes and reloads the entire personnel set.
func NewImportPersonnelCommand(personnel *service.PersonnelService) Command {
	return &importPersonnelCommand{personnel: personnel}
}

func (c *importPersonnelCommand) Name() string { return "import_personnel" }

func (c *importPersonnelCommand) Spec() Spec { return Spec{AuthRequired: true, AdminOnly: true} }

func (c *importPersonnelCommand) Handle(ctx context.Context, req *Request) (*Result, error) {
	var payload dto.ImportPersonnelPayload
	if err := decodePayload(req, &payload); err != nil {
		return nil, err
	}
	inputs := make([]service.PersonnelInput, 0, len(payload.Personnel))
	for _, data := range payload.Personnel {
		inputs = append(inputs, personnelInputFromData(data))
	}
	count, err := c.personnel.Import(ctx, req.Session.Username, inputs)
	if err != nil {
		return nil, err
	}
	return &Result{Body: map[string]any{
		"message": fmt.Sprintf("imported %d personnel records", count),
		"count":   count,
	}}, nil
}
