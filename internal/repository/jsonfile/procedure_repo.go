package jsonfile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"neurosurg/learning-app/internal/domain"
	"neurosurg/learning-app/internal/repository"
)

// procedureRepository implements repository.ProcedureRepository over
// the shared file store.
type procedureRepository struct {
	store *Store
}

// NewProcedureRepository creates a procedure repository backed by store.
func NewProcedureRepository(store *Store) repository.ProcedureRepository {
	return &procedureRepository{store: store}
}

func (r *procedureRepository) List(ctx context.Context, search, category string) ([]domain.Procedure, error) {
	var result []domain.Procedure
	err := r.store.View(func(doc *Document) error {
		result = filterProcedures(doc.Procedures, search, category)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Locale-aware ordering, so e.g. "MRI" sorts before "Ventriculostomy"
	// and accented names land where a reader expects them.
	c := collate.New(language.English)
	sort.SliceStable(result, func(i, j int) bool {
		return c.CompareString(result[i].Name, result[j].Name) < 0
	})
	return result, nil
}

func filterProcedures(procedures []domain.Procedure, search, category string) []domain.Procedure {
	result := make([]domain.Procedure, 0, len(procedures))
	needle := strings.ToLower(search)
	for _, p := range procedures {
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		if category != "" && (p.Category == nil || *p.Category != category) {
			continue
		}
		result = append(result, p)
	}
	return result
}

func matchesSearch(p domain.Procedure, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle) {
		return true
	}
	if p.Indications != nil && strings.Contains(strings.ToLower(*p.Indications), needle) {
		return true
	}
	return false
}

func (r *procedureRepository) GetByID(ctx context.Context, id int) (*domain.Procedure, error) {
	var result *domain.Procedure
	err := r.store.View(func(doc *Document) error {
		for i := range doc.Procedures {
			if doc.Procedures[i].ID == id {
				p := doc.Procedures[i]
				result = &p
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

func (r *procedureRepository) Create(ctx context.Context, procedure *domain.Procedure) (int, error) {
	var id int
	err := r.store.Update(func(doc *Document) error {
		id = doc.NextProcedureID
		doc.NextProcedureID++

		now := time.Now().UTC()
		procedure.ID = id
		procedure.Steps = buildSteps(doc, procedure.Steps)
		procedure.CreatedAt = now
		procedure.UpdatedAt = now

		doc.Procedures = append(doc.Procedures, *procedure)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *procedureRepository) Update(ctx context.Context, id int, procedure *domain.Procedure) error {
	return r.store.Update(func(doc *Document) error {
		for i := range doc.Procedures {
			if doc.Procedures[i].ID != id {
				continue
			}
			// Full replace: every optional field takes the incoming
			// value (nil included), and all steps get fresh IDs from
			// the global counter even when their content is unchanged.
			existing := &doc.Procedures[i]
			existing.Name = procedure.Name
			existing.Category = procedure.Category
			existing.Description = procedure.Description
			existing.Indications = procedure.Indications
			existing.Contraindications = procedure.Contraindications
			existing.ThumbnailURL = procedure.ThumbnailURL
			existing.Steps = buildSteps(doc, procedure.Steps)
			existing.UpdatedAt = time.Now().UTC()
			return nil
		}
		return repository.ErrNotFound
	})
}

func (r *procedureRepository) Delete(ctx context.Context, id int) error {
	return r.store.Update(func(doc *Document) error {
		for i := range doc.Procedures {
			if doc.Procedures[i].ID == id {
				doc.Procedures = append(doc.Procedures[:i], doc.Procedures[i+1:]...)
				return nil
			}
		}
		// Nothing matched; returning ErrNotFound also skips the save,
		// leaving the document untouched.
		return repository.ErrNotFound
	})
}

func (r *procedureRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.store.View(func(doc *Document) error {
		seen := make(map[string]bool)
		for _, p := range doc.Procedures {
			if p.Category == nil || seen[*p.Category] {
				continue
			}
			seen[*p.Category] = true
			categories = append(categories, *p.Category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(categories)
	return categories, nil
}

// buildSteps renumbers the given steps by position and issues each a
// fresh ID from the document's global step counter. Blank titles
// default to "Step N"; media entries default to the image type.
func buildSteps(doc *Document, steps []domain.Step) []domain.Step {
	result := make([]domain.Step, 0, len(steps))
	for i, step := range steps {
		step.ID = doc.NextStepID
		doc.NextStepID++
		step.StepNumber = i + 1
		if step.Title == "" {
			step.Title = fmt.Sprintf("Step %d", i+1)
		}
		if step.Media == nil {
			step.Media = []domain.Media{}
		}
		for j := range step.Media {
			if step.Media[j].Type == "" {
				step.Media[j].Type = domain.MediaImage
			}
		}
		result = append(result, step)
	}
	return result
}
