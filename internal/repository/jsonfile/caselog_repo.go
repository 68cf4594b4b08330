package jsonfile

import (
	"context"
	"sort"
	"time"

	"neurosurg/learning-app/internal/domain"
	"neurosurg/learning-app/internal/repository"
)

// caseLogRepository implements repository.CaseLogRepository over the
// shared file store. Ownership is enforced in every lookup predicate:
// id AND userId must both match, so another user's log is simply not
// found.
type caseLogRepository struct {
	store *Store
}

// NewCaseLogRepository creates a case-log repository backed by store.
func NewCaseLogRepository(store *Store) repository.CaseLogRepository {
	return &caseLogRepository{store: store}
}

func (r *caseLogRepository) ListByUser(ctx context.Context, userID int) ([]domain.CaseLog, error) {
	var result []domain.CaseLog
	err := r.store.View(func(doc *Document) error {
		result = make([]domain.CaseLog, 0)
		for _, l := range doc.CaseLogs {
			if l.UserID == userID {
				result = append(result, l)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Newest first. Dates are ISO strings so plain string comparison
	// orders correctly; an empty date compares lowest and ends up last.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})
	return result, nil
}

func (r *caseLogRepository) GetByID(ctx context.Context, id, userID int) (*domain.CaseLog, error) {
	var result *domain.CaseLog
	err := r.store.View(func(doc *Document) error {
		for i := range doc.CaseLogs {
			if doc.CaseLogs[i].ID == id && doc.CaseLogs[i].UserID == userID {
				l := doc.CaseLogs[i]
				result = &l
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *caseLogRepository) Create(ctx context.Context, log *domain.CaseLog) (int, error) {
	var id int
	err := r.store.Update(func(doc *Document) error {
		id = doc.NextCaseLogID
		doc.NextCaseLogID++

		now := time.Now().UTC()
		log.ID = id
		if log.Role == "" {
			log.Role = domain.RoleObserver
		}
		log.CreatedAt = now
		log.UpdatedAt = now

		doc.CaseLogs = append(doc.CaseLogs, *log)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *caseLogRepository) Update(ctx context.Context, id, userID int, update domain.CaseLogUpdate) error {
	return r.store.Update(func(doc *Document) error {
		for i := range doc.CaseLogs {
			if doc.CaseLogs[i].ID != id || doc.CaseLogs[i].UserID != userID {
				continue
			}
			applyCaseLogUpdate(&doc.CaseLogs[i], update)
			doc.CaseLogs[i].UpdatedAt = time.Now().UTC()
			return nil
		}
		return repository.ErrNotFound
	})
}

func (r *caseLogRepository) Delete(ctx context.Context, id, userID int) error {
	return r.store.Update(func(doc *Document) error {
		for i := range doc.CaseLogs {
			if doc.CaseLogs[i].ID == id && doc.CaseLogs[i].UserID == userID {
				doc.CaseLogs = append(doc.CaseLogs[:i], doc.CaseLogs[i+1:]...)
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

// applyCaseLogUpdate merges the three-state update into the stored
// log: a field the body never mentioned keeps its prior value, an
// explicit null (or empty value) is applied as-is, clearing it.
func applyCaseLogUpdate(log *domain.CaseLog, update domain.CaseLogUpdate) {
	if update.ProcedureID.Set {
		log.ProcedureID = update.ProcedureID.Value
	}
	if update.ProcedureName.Set {
		log.ProcedureName = stringValue(update.ProcedureName.Value)
	}
	if update.Date.Set {
		log.Date = stringValue(update.Date.Value)
	}
	if update.Role.Set {
		log.Role = domain.CaseRole(stringValue(update.Role.Value))
	}
	if update.Supervisor.Set {
		log.Supervisor = update.Supervisor.Value
	}
	if update.Hospital.Set {
		log.Hospital = update.Hospital.Value
	}
	if update.PatientAge.Set {
		log.PatientAge = update.PatientAge.Value
	}
	if update.PatientSex.Set {
		log.PatientSex = update.PatientSex.Value
	}
	if update.Diagnosis.Set {
		log.Diagnosis = update.Diagnosis.Value
	}
	if update.Complications.Set {
		log.Complications = update.Complications.Value
	}
	if update.Outcome.Set {
		log.Outcome = update.Outcome.Value
	}
	if update.Notes.Set {
		log.Notes = update.Notes.Value
	}
	if update.DurationMinutes.Set {
		log.DurationMinutes = update.DurationMinutes.Value
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
