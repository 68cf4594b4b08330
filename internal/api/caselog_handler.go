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

// CaseLogHandler holds the case-log service dependency. Every route
// here runs behind AuthMiddleware; the user ID always comes from the
// token, never from the request body.
type CaseLogHandler struct {
	caseLogService service.CaseLogService
}

// NewCaseLogHandler creates a new CaseLogHandler.
func NewCaseLogHandler(caseLogService service.CaseLogService) *CaseLogHandler {
	return &CaseLogHandler{caseLogService: caseLogService}
}

// --- DTOs ---

// CreateCaseLogRequest accepts procedureId and duration_minutes as
// either JSON numbers or numeric strings (the web form submits
// strings).
type CreateCaseLogRequest struct {
	ProcedureID     domain.OptInt `json:"procedureId"`
	ProcedureName   string        `json:"procedureName" binding:"required"`
	Date            string        `json:"date" binding:"required"`
	Role            string        `json:"role"`
	Supervisor      *string       `json:"supervisor"`
	Hospital        *string       `json:"hospital"`
	PatientAge      domain.OptInt `json:"patientAge"`
	PatientSex      *string       `json:"patientSex"`
	Diagnosis       *string       `json:"diagnosis"`
	Complications   *string       `json:"complications"`
	Outcome         *string       `json:"outcome"`
	Notes           *string       `json:"notes"`
	DurationMinutes domain.OptInt `json:"duration_minutes"`
}

// --- Handler Methods ---

// List godoc
// @Summary List the caller's case logs
// @Description Returns the authenticated user's logs, newest first.
// @Tags CaseLogs
// @Produce json
// @Param search query string false "Substring match over procedure name, diagnosis, hospital"
// @Param startDate query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Success 200 {array} domain.CaseLog
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /caselogs [get]
func (h *CaseLogHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	logs, err := h.caseLogService.ListCaseLogs(c.Request.Context(), userID, service.CaseLogFilter{
		Search:    c.Query("search"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Stats returns the caller's aggregated statistics.
func (h *CaseLogHandler) Stats(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	stats, err := h.caseLogService.Stats(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get returns one of the caller's logs. A log owned by someone else
// is reported as not found.
func (h *CaseLogHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid case log ID")
		return
	}

	log, err := h.caseLogService.GetCaseLogByID(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrCaseLogNotFound) {
			abortWithError(c, http.StatusNotFound, "Case log not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, log)
}

// Create godoc
// @Summary Create a case log entry
// @Tags CaseLogs
// @Accept json
// @Produce json
// @Param log body CreateCaseLogRequest true "Case log entry"
// @Success 201 {object} AckResponse
// @Failure 400 {object} gin.H "Procedure name and date are required"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /caselogs [post]
func (h *CaseLogHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var req CreateCaseLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	log := &domain.CaseLog{
		UserID:          userID,
		ProcedureID:     req.ProcedureID.Value,
		ProcedureName:   req.ProcedureName,
		Date:            req.Date,
		Role:            domain.CaseRole(req.Role),
		Supervisor:      req.Supervisor,
		Hospital:        req.Hospital,
		PatientAge:      req.PatientAge.Value,
		PatientSex:      req.PatientSex,
		Diagnosis:       req.Diagnosis,
		Complications:   req.Complications,
		Outcome:         req.Outcome,
		Notes:           req.Notes,
		DurationMinutes: req.DurationMinutes.Value,
	}

	id, err := h.caseLogService.CreateCaseLog(c.Request.Context(), log)
	if err != nil {
		if errors.Is(err, service.ErrCaseLogValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, AckResponse{ID: id, Message: "Case log created successfully"})
}

// Update merges the body into the caller's log. Fields absent from
// the body keep their stored value; explicit nulls clear them.
func (h *CaseLogHandler) Update(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid case log ID")
		return
	}

	var update domain.CaseLogUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.caseLogService.UpdateCaseLog(c.Request.Context(), id, userID, update); err != nil {
		if errors.Is(err, service.ErrCaseLogNotFound) {
			abortWithError(c, http.StatusNotFound, "Case log not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, AckResponse{Message: "Case log updated successfully"})
}

// Delete removes one of the caller's logs.
func (h *CaseLogHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid case log ID")
		return
	}

	if err := h.caseLogService.DeleteCaseLog(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrCaseLogNotFound) {
			abortWithError(c, http.StatusNotFound, "Case log not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, AckResponse{Message: "Case log deleted successfully"})
}
