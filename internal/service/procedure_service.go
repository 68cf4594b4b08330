package service

import (
	"context"
	"errors"

	"neurosurg/learning-app/internal/domain"
	"neurosurg/learning-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrProcedureNotFound = errors.New("procedure not found")
	ErrValidationFailed  = errors.New("procedure name is required")
)

// ProcedureService owns the business rules for the procedure library.
type ProcedureService interface {
	ListProcedures(ctx context.Context, search, category string) ([]domain.Procedure, error)
	GetProcedureByID(ctx context.Context, id int) (*domain.Procedure, error)
	CreateProcedure(ctx context.Context, procedure *domain.Procedure) (int, error)
	UpdateProcedure(ctx context.Context, id int, procedure *domain.Procedure) error
	DeleteProcedure(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]string, error)
}

type procedureService struct {
	procedureRepo repository.ProcedureRepository
}

// NewProcedureService creates a new instance of procedureService.
func NewProcedureService(procedureRepo repository.ProcedureRepository) ProcedureService {
	return &procedureService{procedureRepo: procedureRepo}
}

func (s *procedureService) ListProcedures(ctx context.Context, search, category string) ([]domain.Procedure, error) {
	return s.procedureRepo.List(ctx, search, category)
}

func (s *procedureService) GetProcedureByID(ctx context.Context, id int) (*domain.Procedure, error) {
	procedure, err := s.procedureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProcedureNotFound
		}
		return nil, err
	}
	return procedure, nil
}

func (s *procedureService) CreateProcedure(ctx context.Context, procedure *domain.Procedure) (int, error) {
	if procedure.Name == "" {
		return 0, ErrValidationFailed
	}
	return s.procedureRepo.Create(ctx, procedure)
}

func (s *procedureService) UpdateProcedure(ctx context.Context, id int, procedure *domain.Procedure) error {
	if procedure.Name == "" {
		return ErrValidationFailed
	}
	err := s.procedureRepo.Update(ctx, id, procedure)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProcedureNotFound
	}
	return err
}

func (s *procedureService) DeleteProcedure(ctx context.Context, id int) error {
	err := s.procedureRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProcedureNotFound
	}
	return err
}

func (s *procedureService) Categories(ctx context.Context) ([]string, error) {
	return s.procedureRepo.Categories(ctx)
}
