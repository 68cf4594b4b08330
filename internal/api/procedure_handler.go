package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"neurosurg/learning-app/internal/domain"
	"neurosurg/learning-app/internal/service"
)

// ProcedureHandler holds the procedure service dependency.
type ProcedureHandler struct {
	procedureService service.ProcedureService
}

// NewProcedureHandler creates a new ProcedureHandler.
func NewProcedureHandler(procedureService service.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{procedureService: procedureService}
}

// --- DTOs ---

type MediaRequest struct {
	Type    string  `json:"type"`
	URL     string  `json:"url" binding:"required"`
	Caption *string `json:"caption"`
}

type StepRequest struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Tips        *string        `json:"tips"`
	Warnings    *string        `json:"warnings"`
	Media       []MediaRequest `json:"media"`
}

// ProcedureRequest is used for both create and full-replace update.
// Every optional field left out of the body becomes null in the store.
type ProcedureRequest struct {
	Name              string        `json:"name" binding:"required"`
	Category          *string       `json:"category"`
	Description       *string       `json:"description"`
	Indications       *string       `json:"indications"`
	Contraindications *string       `json:"contraindications"`
	ThumbnailURL      *string       `json:"thumbnail_url"`
	Steps             []StepRequest `json:"steps"`
}

type AckResponse struct {
	ID      int    `json:"id,omitempty"`
	Message string `json:"message"`
}

// --- Handler Methods ---

// List godoc
// @Summary List procedures
// @Description Lists procedures, optionally filtered by search text and category.
// @Tags Procedures
// @Produce json
// @Param search query string false "Substring match over name, description and indications"
// @Param category query string false "Exact category match"
// @Success 200 {array} domain.Procedure
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /procedures [get]
func (h *ProcedureHandler) List(c *gin.Context) {
	procedures, err := h.procedureService.ListProcedures(c.Request.Context(),
		c.Query("search"), c.Query("category"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, procedures)
}

// Get returns a single procedure with its steps.
func (h *ProcedureHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid procedure ID")
		return
	}

	procedure, err := h.procedureService.GetProcedureByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProcedureNotFound) {
			abortWithError(c, http.StatusNotFound, "Procedure not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, procedure)
}

// Create godoc
// @Summary Create a procedure
// @Tags Procedures
// @Accept json
// @Produce json
// @Param procedure body ProcedureRequest true "Procedure to create"
// @Success 201 {object} AckResponse
// @Failure 400 {object} gin.H "Name is required"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /procedures [post]
func (h *ProcedureHandler) Create(c *gin.Context) {
	var req ProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	id, err := h.procedureService.CreateProcedure(c.Request.Context(), procedureFromRequest(req))
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, AckResponse{ID: id, Message: "Procedure created successfully"})
}

// Update fully replaces a procedure; all step IDs are re-issued.
func (h *ProcedureHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid procedure ID")
		return
	}

	var req ProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err = h.procedureService.UpdateProcedure(c.Request.Context(), id, procedureFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProcedureNotFound):
			abortWithError(c, http.StatusNotFound, "Procedure not found")
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, AckResponse{Message: "Procedure updated successfully"})
}

// Delete removes a procedure. Deleting an unknown ID is a 404 and
// leaves the store untouched.
func (h *ProcedureHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid procedure ID")
		return
	}

	if err := h.procedureService.DeleteProcedure(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProcedureNotFound) {
			abortWithError(c, http.StatusNotFound, "Procedure not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, AckResponse{Message: "Procedure deleted successfully"})
}

// Categories returns the sorted distinct category values.
func (h *ProcedureHandler) Categories(c *gin.Context) {
	categories, err := h.procedureService.Categories(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}

func procedureFromRequest(req ProcedureRequest) *domain.Procedure {
	steps := make([]domain.Step, 0, len(req.Steps))
	for _, s := range req.Steps {
		media := make([]domain.Media, 0, len(s.Media))
		for _, m := range s.Media {
			media = append(media, domain.Media{
				Type:    domain.MediaType(m.Type),
				URL:     m.URL,
				Caption: m.Caption,
			})
		}
		steps = append(steps, domain.Step{
			Title:       s.Title,
			Description: s.Description,
			Tips:        s.Tips,
			Warnings:    s.Warnings,
			Media:       media,
		})
	}
	return &domain.Procedure{
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		Indications:       req.Indications,
		Contraindications: req.Contraindications,
		ThumbnailURL:      req.ThumbnailURL,
		Steps:             steps,
	}
}
