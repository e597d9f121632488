package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galactusaurus/roster-opt/internal/config"
	"github.com/galactusaurus/roster-opt/internal/generate"
	"github.com/galactusaurus/roster-opt/internal/pool"
)

func requestBody(count int) generate.Request {
	return generate.Request{Count: count}
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	cfg := &config.Config{SolveTimeout: 10 * time.Second}
	h := NewOptimizationHandler(nil, nil, cfg, log)

	router := gin.New()
	router.POST("/api/v1/optimize", h.OptimizeLineups)
	router.POST("/api/v1/optimize/validate", h.ValidateRequest)
	return router
}

func motorsportPlayers() []pool.Record {
	return []pool.Record{
		{ID: "cpt-ver", Name: "Verstappen", Team: "RB", Role: "CPT", Salary: 9000, ProjectedPoints: 50},
		{ID: "d-ver", Name: "Verstappen", Team: "RB", Role: "D", Salary: 9000, ProjectedPoints: 50},
		{ID: "d-per", Name: "Perez", Team: "RB", Role: "D", Salary: 7000, ProjectedPoints: 40},
		{ID: "d-ham", Name: "Hamilton", Team: "MER", Role: "D", Salary: 8500, ProjectedPoints: 45},
		{ID: "d-rus", Name: "Russell", Team: "MER", Role: "D", Salary: 6800, ProjectedPoints: 38},
		{ID: "d-alo", Name: "Alonso", Team: "AM", Role: "D", Salary: 6500, ProjectedPoints: 36},
		{ID: "d-str", Name: "Stroll", Team: "AM", Role: "D", Salary: 4500, ProjectedPoints: 22},
		{ID: "c-rb", Name: "Red Bull", Team: "RB", Role: "CNSTR", Salary: 9000, ProjectedPoints: 38},
		{ID: "c-mer", Name: "Mercedes", Team: "MER", Role: "CNSTR", Salary: 8000, ProjectedPoints: 33},
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOptimizeLineups(t *testing.T) {
	router := testRouter()
	rec := postJSON(t, router, "/api/v1/optimize", OptimizeRequest{
		Format:  "motorsport",
		Players: motorsportPlayers(),
		Request: requestBody(1),
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp OptimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Lineups, 1)
	assert.False(t, resp.Cached)
	assert.Len(t, resp.Lineups[0].Slots, 6)
	assert.LessOrEqual(t, resp.Lineups[0].TotalSalary, 50000)
}

func TestOptimizeLineups_UnknownFormat(t *testing.T) {
	router := testRouter()
	rec := postJSON(t, router, "/api/v1/optimize", OptimizeRequest{
		Format:  "curling",
		Players: motorsportPlayers(),
		Request: requestBody(1),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeLineups_InvalidJSON(t *testing.T) {
	router := testRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestOptimizeLineups_InfeasibleRequest(t *testing.T) {
	router := testRouter()
	req := requestBody(1)
	req.MinSalaryFraction = 1.0 // no combination spends the full cap exactly
	rec := postJSON(t, router, "/api/v1/optimize", OptimizeRequest{
		Format:  "motorsport",
		Players: motorsportPlayers(),
		Request: req,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INFEASIBLE", resp.Code)
}

func TestValidateRequest(t *testing.T) {
	router := testRouter()
	rec := postJSON(t, router, "/api/v1/optimize/validate", OptimizeRequest{
		Format:  "motorsport",
		Players: motorsportPlayers(),
		Request: requestBody(1),
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["valid"])
	assert.Equal(t, "motorsport", resp["format"])
	assert.Equal(t, float64(9), resp["pool_size"])
}

func TestValidateRequest_PoolTooThin(t *testing.T) {
	router := testRouter()
	// A single counted team cannot satisfy the two-team minimum.
	rec := postJSON(t, router, "/api/v1/optimize/validate", OptimizeRequest{
		Format: "motorsport",
		Players: []pool.Record{
			{ID: "1", Name: "Verstappen", Team: "RB", Role: "CPT", Salary: 9000, ProjectedPoints: 50},
			{ID: "2", Name: "Perez", Team: "RB", Role: "D", Salary: 7000, ProjectedPoints: 40},
		},
		Request: requestBody(1),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIGURATION_ERROR", resp.Code)
}
