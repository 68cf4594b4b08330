package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"neurosurg/learning-app/internal/domain"
	"neurosurg/learning-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrCaseLogNotFound   = errors.New("case log not found")
	ErrCaseLogValidation = errors.New("procedure name and date are required")
)

// CaseLogFilter narrows a case-log listing. Search matches procedure
// name, diagnosis or hospital (case-insensitive substring); the date
// bounds are inclusive ISO date strings.
type CaseLogFilter struct {
	Search    string
	StartDate string
	EndDate   string
}

// CaseLogStats is the aggregate view of one user's log.
type CaseLogStats struct {
	Total      int            `json:"total"`
	TotalHours float64        `json:"totalHours"`
	ByRole     map[string]int `json:"byRole"`
	ByCategory map[string]int `json:"byCategory"`
	ByMonth    map[string]int `json:"byMonth"`
}

// CaseLogService owns the business rules for the personal case log.
// Every operation is scoped to the calling user's ID.
type CaseLogService interface {
	ListCaseLogs(ctx context.Context, userID int, filter CaseLogFilter) ([]domain.CaseLog, error)
	GetCaseLogByID(ctx context.Context, id, userID int) (*domain.CaseLog, error)
	CreateCaseLog(ctx context.Context, log *domain.CaseLog) (int, error)
	UpdateCaseLog(ctx context.Context, id, userID int, update domain.CaseLogUpdate) error
	DeleteCaseLog(ctx context.Context, id, userID int) error
	Stats(ctx context.Context, userID int) (*CaseLogStats, error)
}

type caseLogService struct {
	caseLogRepo   repository.CaseLogRepository
	procedureRepo repository.ProcedureRepository
}

// NewCaseLogService creates a new instance of caseLogService. The
// procedure repository is only used by Stats for the category join.
func NewCaseLogService(caseLogRepo repository.CaseLogRepository, procedureRepo repository.ProcedureRepository) CaseLogService {
	return &caseLogService{
		caseLogRepo:   caseLogRepo,
		procedureRepo: procedureRepo,
	}
}

func (s *caseLogService) ListCaseLogs(ctx context.Context, userID int, filter CaseLogFilter) ([]domain.CaseLog, error) {
	logs, err := s.caseLogRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.CaseLog, 0, len(logs))
	needle := strings.ToLower(filter.Search)
	for _, log := range logs {
		if needle != "" && !matchesCaseLogSearch(log, needle) {
			continue
		}
		if filter.StartDate != "" && log.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && log.Date > filter.EndDate {
			continue
		}
		result = append(result, log)
	}
	return result, nil
}

func matchesCaseLogSearch(log domain.CaseLog, needle string) bool {
	if strings.Contains(strings.ToLower(log.ProcedureName), needle) {
		return true
	}
	if log.Diagnosis != nil && strings.Contains(strings.ToLower(*log.Diagnosis), needle) {
		return true
	}
	if log.Hospital != nil && strings.Contains(strings.ToLower(*log.Hospital), needle) {
		return true
	}
	return false
}

func (s *caseLogService) GetCaseLogByID(ctx context.Context, id, userID int) (*domain.CaseLog, error) {
	log, err := s.caseLogRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaseLogNotFound
		}
		return nil, err
	}
	return log, nil
}

func (s *caseLogService) CreateCaseLog(ctx context.Context, log *domain.CaseLog) (int, error) {
	if log.ProcedureName == "" || log.Date == "" {
		return 0, ErrCaseLogValidation
	}
	if log.UserID == 0 {
		return 0, errors.New("user ID is required")
	}
	return s.caseLogRepo.Create(ctx, log)
}

func (s *caseLogService) UpdateCaseLog(ctx context.Context, id, userID int, update domain.CaseLogUpdate) error {
	err := s.caseLogRepo.Update(ctx, id, userID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCaseLogNotFound
	}
	return err
}

func (s *caseLogService) DeleteCaseLog(ctx context.Context, id, userID int) error {
	err := s.caseLogRepo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCaseLogNotFound
	}
	return err
}

// Stats aggregates the user's entire log: total count, total hours
// (one decimal), counts by role, by procedure category and by calendar
// month. The category join goes against the live procedure library; a
// log whose linked procedure has been deleted simply contributes no
// category count.
func (s *caseLogService) Stats(ctx context.Context, userID int) (*CaseLogStats, error) {
	logs, err := s.caseLogRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &CaseLogStats{
		Total:      len(logs),
		ByRole:     map[string]int{},
		ByCategory: map[string]int{},
		ByMonth:    map[string]int{},
	}

	totalHours := 0.0
	for _, log := range logs {
		stats.ByRole[string(log.Role)]++

		if log.ProcedureID != nil {
			procedure, err := s.procedureRepo.GetByID(ctx, *log.ProcedureID)
			if err == nil && procedure.Category != nil {
				stats.ByCategory[*procedure.Category]++
			} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
		}

		if log.Date != "" {
			month := log.Date
			if len(month) > 7 {
				month = month[:7]
			}
			stats.ByMonth[month]++
		}

		if log.DurationMinutes != nil {
			totalHours += float64(*log.DurationMinutes) / 60
		}
	}
	stats.TotalHours = math.Round(totalHours*10) / 10

	return stats, nil
}
