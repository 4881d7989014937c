package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"bess-lab/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	storageDir := t.TempDir()
	h := NewStudyHandler(storageDir)

	r := gin.New()
	r.POST("/api/v1/arbitrage", h.RunArbitrage)
	r.POST("/api/v1/peak-shaving", h.RunPeakShaving)
	r.POST("/api/v1/sizing", h.RunSizing)
	r.POST("/api/v1/sizing/compare", h.CompareTechnologies)
	return r, storageDir
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func hourlySeries(values ...float64) []map[string]any {
	out := make([]map[string]any, len(values))
	for i, v := range values {
		out[i] = map[string]any{
			"timestamp": fmt.Sprintf("2024-07-01T%02d:00:00Z", i),
			"value":     v,
		}
	}
	return out
}

func inlineStorage() map[string]any {
	return map[string]any{
		"capacity_mwh":         1,
		"charge_rate":          1,
		"discharge_rate":       1,
		"charge_efficiency":    0.95,
		"discharge_efficiency": 0.95,
		"min_soc":              0.1,
		"max_soc":              0.9,
		"initial_soc":          0.5,
	}
}

func TestRunArbitrageEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/arbitrage", map[string]any{
		"series":  hourlySeries(10, 50, 10, 50),
		"storage": inlineStorage(),
		"options": map[string]any{"include_rows": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.StudyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 4, resp.Summary.Steps)
	assert.InDelta(t, -17.5625, resp.Summary.Objective, 1e-4)
	require.Len(t, resp.Rows, 4)
	assert.Equal(t, "CHARGING", resp.Rows[0].Action)
}

func TestRunArbitrageOmitsRowsByDefault(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/arbitrage", map[string]any{
		"series":  hourlySeries(10, 50),
		"storage": inlineStorage(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.StudyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Rows)
	assert.Equal(t, 2, resp.Summary.Steps)
}

func TestRunArbitrageWithStoragePreset(t *testing.T) {
	r, storageDir := newTestRouter(t)
	preset := `
storage:
  name: preset
  capacity_mwh: 1
  charge_rate: 1
  discharge_rate: 1
  charge_efficiency: 0.95
  discharge_efficiency: 0.95
  min_soc: 0.1
  max_soc: 0.9
  initial_soc: 0.5
`
	require.NoError(t, os.WriteFile(filepath.Join(storageDir, "preset.yaml"), []byte(preset), 0o644))

	w := postJSON(t, r, "/api/v1/arbitrage", map[string]any{
		"series":       hourlySeries(10, 50, 10, 50),
		"storage_file": "preset.yaml",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRunArbitrageRejectsInvalidStorage(t *testing.T) {
	r, _ := newTestRouter(t)

	storage := inlineStorage()
	storage["capacity_mwh"] = -1

	w := postJSON(t, r, "/api/v1/arbitrage", map[string]any{
		"series":  hourlySeries(10, 50),
		"storage": storage,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STORAGE")
}

func TestRunArbitrageRejectsMissingSeries(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/arbitrage", map[string]any{
		"storage": inlineStorage(),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestRunPeakShavingEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	storage := inlineStorage()
	storage["capacity_mwh"] = 4
	storage["charge_efficiency"] = 0.9
	storage["discharge_efficiency"] = 0.9
	storage["min_soc"] = 0.0
	storage["max_soc"] = 1.0

	w := postJSON(t, r, "/api/v1/peak-shaving", map[string]any{
		"series":  hourlySeries(2, 2, 8, 2),
		"storage": storage,
		"tariff": map[string]any{
			"energy_price_per_mwh": 50,
			"peak_price_per_mw":    1000,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.StudyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 4.4, resp.Summary.PeakMW, 1e-4)
}

func TestRunPeakShavingInfeasibleReturns422(t *testing.T) {
	r, _ := newTestRouter(t)

	// A 1 MW charger cannot absorb 5 MW of excess generation with grid >= 0.
	w := postJSON(t, r, "/api/v1/peak-shaving", map[string]any{
		"series":  hourlySeries(-5, 2),
		"storage": inlineStorage(),
		"tariff": map[string]any{
			"energy_price_per_mwh": 50,
			"peak_price_per_mw":    1000,
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INFEASIBLE")
}

func TestRunSizingEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/sizing", map[string]any{
		"series": hourlySeries(2, 2, 8, 2),
		"storage": map[string]any{
			"charge_efficiency":    0.9,
			"discharge_efficiency": 0.9,
			"min_soc":              0.0,
			"max_soc":              1.0,
			"initial_soc":          0.5,
		},
		"tariff": map[string]any{
			"energy_price_per_mwh": 50,
			"peak_price_per_mw":    1000,
		},
		"sizing": map[string]any{
			"capacity_cost_per_mwh": 100,
			"power_cost_per_mw":     50,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.StudyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Summary.CapacityMWh, 0.0)
	assert.Greater(t, resp.Summary.PowerRatingMW, 0.0)
}

func TestCompareTechnologiesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	tech := func(name string, capCost float64) map[string]any {
		return map[string]any{
			"name":                  name,
			"charge_efficiency":     0.9,
			"discharge_efficiency":  0.9,
			"min_soc":               0.0,
			"max_soc":               1.0,
			"initial_soc":           0.5,
			"capacity_cost_per_mwh": capCost,
			"power_cost_per_mw":     50,
		}
	}

	w := postJSON(t, r, "/api/v1/sizing/compare", map[string]any{
		"series": hourlySeries(2, 2, 8, 2),
		"tariff": map[string]any{
			"energy_price_per_mwh": 50,
			"peak_price_per_mw":    1000,
		},
		"technologies": []any{tech("dear", 700), tech("cheap", 100)},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Ranking, 2)
	assert.Equal(t, "cheap", resp.Ranking[0].Name)
	assert.LessOrEqual(t, resp.Ranking[0].TotalCost, resp.Ranking[1].TotalCost)
}
