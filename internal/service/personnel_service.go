package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jeerawut3427/personal-system/internal/domain"
	"github.com/jeerawut3427/personal-system/internal/events"
	"github.com/jeerawut3427/personal-system/internal/repository"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

// PersonnelInput carries personnel fields for create/update operations.
type PersonnelInput struct {
	ID         string
	Rank       string
	FirstName  string
	LastName   string
	Position   string
	Specialty  string
	Department string
}

func (in PersonnelInput) complete() bool {
	return in.Rank != "" && in.FirstName != "" && in.LastName != "" &&
		in.Position != "" && in.Specialty != "" && in.Department != ""
}

// PersonnelService manages personnel records.
type PersonnelService struct {
	personnel  repository.PersonnelRepository
	dispatcher events.Dispatcher
}

// NewPersonnelService builds the service.
func NewPersonnelService(personnel repository.PersonnelRepository, dispatcher events.Dispatcher) *PersonnelService {
	return &PersonnelService{personnel: personnel, dispatcher: dispatcher}
}

// List returns personnel visible to the session: admins see everything,
// department users only their own department.
func (s *PersonnelService) List(ctx context.Context, session *domain.Session, searchTerm string) ([]domain.Personnel, error) {
	filter := repository.PersonnelFilter{SearchTerm: searchTerm}
	if !session.IsAdmin() {
		dept := session.Department
		filter.Department = &dept
	}
	return s.personnel.List(ctx, filter)
}

// Create adds a record; every field is required.
func (s *PersonnelService) Create(ctx context.Context, input PersonnelInput) (*domain.Personnel, error) {
	if !input.complete() {
		return nil, util.NewValidationError("all personnel fields are required", nil)
	}
	record := &domain.Personnel{
		ID:         uuid.NewString(),
		Rank:       input.Rank,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Position:   input.Position,
		Specialty:  input.Specialty,
		Department: input.Department,
	}
	if err := s.personnel.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Update rewrites a record; every field including the id is required.
func (s *PersonnelService) Update(ctx context.Context, input PersonnelInput) error {
	if input.ID == "" || !input.complete() {
		return util.NewValidationError("all personnel fields are required", nil)
	}
	record := &domain.Personnel{
		ID:         input.ID,
		Rank:       input.Rank,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Position:   input.Position,
		Specialty:  input.Specialty,
		Department: input.Department,
	}
	if err := s.personnel.Update(ctx, record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("personnel record")
		}
		return err
	}
	return nil
}

// Delete removes a record by id.
func (s *PersonnelService) Delete(ctx context.Context, id string) error {
	if err := s.personnel.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("personnel record")
		}
		return err
	}
	return nil
}

// Import wipes the personnel set and reloads it from the given rows, minting
// fresh ids.
func (s *PersonnelService) Import(ctx context.Context, actor string, inputs []PersonnelInput) (int, error) {
	records := make([]domain.Personnel, 0, len(inputs))
	for _, input := range inputs {
		records = append(records, domain.Personnel{
			ID:         uuid.NewString(),
			Rank:       input.Rank,
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			Position:   input.Position,
			Specialty:  input.Specialty,
			Department: input.Department,
		})
	}
	if err := s.personnel.ReplaceAll(ctx, records); err != nil {
		return 0, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPersonnelImported,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload:   events.PersonnelImportedPayload{RecordCount: len(records)},
		})
	}
	return len(records), nil
}
