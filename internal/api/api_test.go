package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neurosurg/learning-app/internal/atlas"
	"neurosurg/learning-app/internal/repository/jsonfile"
	"neurosurg/learning-app/internal/service"
)

const testJWTSecret = "test-secret"

const testAtlasJSON = `{
  "regions": [
    {
      "id": "cerebrum",
      "name": "Cerebrum",
      "icon": "brain",
      "subregions": [
        {
          "id": "frontal-lobe",
          "name": "Frontal Lobe",
          "description": "Anterior to the central sulcus.",
          "keyStructures": ["Precentral gyrus"],
          "clinicalRelevance": "Expressive aphasia."
        }
      ]
    }
  ]
}`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store := jsonfile.NewStore(filepath.Join(dir, "data.json"), zerolog.Nop())

	atlasPath := filepath.Join(dir, "atlas.json")
	require.NoError(t, os.WriteFile(atlasPath, []byte(testAtlasJSON), 0o644))

	procedureRepo := jsonfile.NewProcedureRepository(store)
	userRepo := jsonfile.NewUserRepository(store)
	caseLogRepo := jsonfile.NewCaseLogRepository(store)

	authService := service.NewAuthService(userRepo, testJWTSecret, 7*24*time.Hour)
	procedureService := service.NewProcedureService(procedureRepo)
	caseLogService := service.NewCaseLogService(caseLogRepo, procedureRepo)

	router := gin.New()
	SetupRoutes(router, testJWTSecret, authService, procedureService, caseLogService, atlas.NewReader(atlasPath), nil)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

func registerUser(t *testing.T, router *gin.Engine, username, email string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginAndMe(t *testing.T) {
	router := newTestRouter(t)

	token := registerUser(t, router, "alice", "a@x.com")

	// Duplicate username conflicts.
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "other@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me UserResponse
	decode(t, w, &me)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "resident", me.Role)
	assert.Equal(t, "neurosurgery", me.Specialization)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	w = doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProcedureLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice", "a@x.com")

	// Writes require auth.
	w := doJSON(t, router, http.MethodPost, "/api/procedures", "", gin.H{"name": "Craniotomy"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/procedures", token, gin.H{
		"name":  "Craniotomy",
		"steps": []gin.H{{"title": "Incision"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ack AckResponse
	decode(t, w, &ack)
	assert.Equal(t, 1, ack.ID)

	w = doJSON(t, router, http.MethodGet, "/api/procedures/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var procedure struct {
		Name  string `json:"name"`
		Steps []struct {
			StepNumber int    `json:"step_number"`
			Title      string `json:"title"`
		} `json:"steps"`
	}
	decode(t, w, &procedure)
	require.Len(t, procedure.Steps, 1)
	assert.Equal(t, 1, procedure.Steps[0].StepNumber)
	assert.Equal(t, "Incision", procedure.Steps[0].Title)

	// Missing name is a validation error.
	w = doJSON(t, router, http.MethodPost, "/api/procedures", token, gin.H{"category": "cranial"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/procedures/1", token, gin.H{"name": "Craniotomy (rev)"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/procedures/1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/api/procedures/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProcedureListSortedByName(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice", "a@x.com")

	for _, name := range []string{"Ventriculostomy", "MRI-guided biopsy"} {
		w := doJSON(t, router, http.MethodPost, "/api/procedures", token, gin.H{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/procedures", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		Name string `json:"name"`
	}
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "MRI-guided biopsy", list[0].Name)
	assert.Equal(t, "Ventriculostomy", list[1].Name)
}

func TestCaseLogOwnerScopingOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := registerUser(t, router, "alice", "a@x.com")
	bobToken := registerUser(t, router, "bob", "b@x.com")

	w := doJSON(t, router, http.MethodPost, "/api/caselogs", aliceToken, gin.H{
		"procedureName": "Craniotomy",
		"date":          "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ack AckResponse
	decode(t, w, &ack)

	// Bob sees alice's log as plain not-found.
	w = doJSON(t, router, http.MethodGet, "/api/caselogs/1", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodPut, "/api/caselogs/1", bobToken, gin.H{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/api/caselogs/1", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/caselogs/1", aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// No token at all is a 401.
	w = doJSON(t, router, http.MethodGet, "/api/caselogs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCaseLogStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice", "a@x.com")

	w := doJSON(t, router, http.MethodPost, "/api/caselogs", token, gin.H{
		"procedureName":    "Craniotomy",
		"date":             "2024-03-01",
		"duration_minutes": 90,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/caselogs/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats service.CaseLogStats
	decode(t, w, &stats)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1.5, stats.TotalHours)
	assert.Equal(t, map[string]int{"observer": 1}, stats.ByRole)
	assert.Equal(t, map[string]int{"2024-03": 1}, stats.ByMonth)
}

func TestCaseLogPartialUpdateOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice", "a@x.com")

	w := doJSON(t, router, http.MethodPost, "/api/caselogs", token, gin.H{
		"procedureName": "Craniotomy",
		"date":          "2024-03-01",
		"supervisor":    "Dr. Srour",
		"hospital":      "General",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Explicit null clears supervisor; hospital is untouched.
	w = doJSON(t, router, http.MethodPut, "/api/caselogs/1", token, map[string]any{
		"supervisor": nil,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/caselogs/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var log struct {
		Supervisor *string `json:"supervisor"`
		Hospital   *string `json:"hospital"`
	}
	decode(t, w, &log)
	assert.Nil(t, log.Supervisor)
	require.NotNil(t, log.Hospital)
	assert.Equal(t, "General", *log.Hospital)
}

func TestAtlasEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/atlas/regions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var regions []atlas.RegionSummary
	decode(t, w, &regions)
	require.Len(t, regions, 1)
	assert.Equal(t, 1, regions[0].SubregionCount)

	w = doJSON(t, router, http.MethodGet, "/api/atlas/regions/cerebrum/frontal-lobe", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail atlas.SubregionDetail
	decode(t, w, &detail)
	assert.Equal(t, "Cerebrum", detail.RegionName)

	w = doJSON(t, router, http.MethodGet, "/api/atlas/search?q=frontal", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results []atlas.SearchResult
	decode(t, w, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "frontal-lobe", results[0].SubregionID)

	w = doJSON(t, router, http.MethodGet, "/api/atlas/regions/spine", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoriesEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice", "a@x.com")

	for _, p := range []gin.H{
		{"name": "A", "category": "spinal"},
		{"name": "B", "category": "cranial"},
		{"name": "C"},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/procedures", token, p)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []string
	decode(t, w, &categories)
	assert.Equal(t, []string{"cranial", "spinal"}, categories)
}

func TestExpiredTokenRejected(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "alice", "a@x.com")

	claims := service.TokenClaims{
		UserID:   1,
		Username: "alice",
		Role:     "resident",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}
