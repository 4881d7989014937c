package handlers

import (
	"errors"
	"log"
	"net/http"

	"bess-lab/internal/analysis"
	"bess-lab/internal/api/models"
	"bess-lab/internal/bess"
	"bess-lab/internal/config"
	"bess-lab/internal/lp"
	"bess-lab/internal/model"
	"bess-lab/internal/study"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StudyHandler runs the optimization studies.
type StudyHandler struct {
	storageDir string
}

// NewStudyHandler creates a new study handler. storageDir is where storage
// preset YAMLs live (for storage_file references in requests).
func NewStudyHandler(storageDir string) *StudyHandler {
	return &StudyHandler{storageDir: storageDir}
}

// RunArbitrage handles POST /api/v1/arbitrage
func (h *StudyHandler) RunArbitrage(c *gin.Context) {
	var req models.ArbitrageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	spec, err := h.resolveStorage(req.StorageFile, req.Storage)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STORAGE", err.Error())
		return
	}
	prices := models.ToSeries(req.Series, req.Options.LimitSteps)
	outcome, err := study.RunArbitrage(prices, spec)
	if err != nil {
		respondStudyError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildStudyResponse(outcome, req.Options.IncludeRows))
}

// RunPeakShaving handles POST /api/v1/peak-shaving
func (h *StudyHandler) RunPeakShaving(c *gin.Context) {
	var req models.PeakShavingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	spec, err := h.resolveStorage(req.StorageFile, req.Storage)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STORAGE", err.Error())
		return
	}
	load := models.ToSeries(req.Series, req.Options.LimitSteps)
	outcome, err := study.RunPeakShaving(load, spec, req.Tariff.ToModelTariff())
	if err != nil {
		respondStudyError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildStudyResponse(outcome, req.Options.IncludeRows))
}

// RunSizing handles POST /api/v1/sizing
func (h *StudyHandler) RunSizing(c *gin.Context) {
	var req models.SizingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	spec, err := h.resolveStorageUnvalidated(req.StorageFile, req.Storage)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STORAGE", err.Error())
		return
	}
	load := models.ToSeries(req.Series, req.Options.LimitSteps)
	outcome, err := study.RunSizing(load, spec, req.Sizing.ToModelCosts(), req.Tariff.ToModelTariff())
	if err != nil {
		respondStudyError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildStudyResponse(outcome, req.Options.IncludeRows))
}

// CompareTechnologies handles POST /api/v1/sizing/compare
func (h *StudyHandler) CompareTechnologies(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	techs := make([]analysis.Technology, len(req.Technologies))
	for i, t := range req.Technologies {
		techs[i] = analysis.Technology{
			Name:                t.Name,
			ChargeEfficiency:    t.ChargeEfficiency,
			DischargeEfficiency: t.DischargeEfficiency,
			MinSOC:              t.MinSOC,
			MaxSOC:              t.MaxSOC,
			InitialSOC:          t.InitialSOC,
			CapacityCostPerMWh:  t.CapacityCostPerMWh,
			PowerCostPerMW:      t.PowerCostPerMW,
		}
	}
	load := models.ToSeries(req.Series, 0)
	ranked, err := analysis.CompareTechnologies(load, req.Tariff.ToModelTariff(), techs)
	if err != nil {
		respondStudyError(c, err)
		return
	}

	resp := models.CompareResponse{
		ID:      uuid.New().String(),
		Status:  "completed",
		Ranking: make([]models.TechnologyResult, len(ranked)),
	}
	for i, r := range ranked {
		resp.Ranking[i] = models.TechnologyResult{
			Name:          r.Name,
			CapacityMWh:   r.CapacityMWh,
			PowerRatingMW: r.PowerRatingMW,
			PeakMW:        r.PeakMW,
			TotalCost:     r.TotalCost,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// resolveStorage merges an optional storage preset file with inline overrides
// and validates the result, mirroring how YAML configs are resolved.
func (h *StudyHandler) resolveStorage(file string, inline models.StorageConfig) (model.StorageSpec, error) {
	spec, err := h.resolveStorageUnvalidated(file, inline)
	if err != nil {
		return model.StorageSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return model.StorageSpec{}, err
	}
	return spec, nil
}

func (h *StudyHandler) resolveStorageUnvalidated(file string, inline models.StorageConfig) (model.StorageSpec, error) {
	merged := inline.ToConfigStorage()
	if file != "" {
		path, err := presetPath(h.storageDir, file)
		if err != nil {
			return model.StorageSpec{}, err
		}
		loaded, err := config.LoadStorageFile(path)
		if err != nil {
			return model.StorageSpec{}, err
		}
		merged = config.MergeStorage(loaded, merged)
	}
	if merged.InitialSOC == 0 {
		merged.InitialSOC = merged.MinSOC
	}
	return merged.ToModelSpec(), nil
}

func buildStudyResponse(outcome *study.Outcome, includeRows bool) models.StudyResponse {
	resp := models.StudyResponse{
		ID:     uuid.New().String(),
		Status: "completed",
		Summary: models.StudySummary{
			Objective:     outcome.Objective,
			Steps:         len(outcome.Rows),
			CapacityMWh:   outcome.CapacityMWh,
			PowerRatingMW: outcome.PowerRatingMW,
			PeakMW:        outcome.PeakMW,
		},
	}
	if n := len(outcome.Rows); n > 0 {
		resp.Summary.Window = models.TimeWindow{
			Start: outcome.Rows[0].Timestamp,
			End:   outcome.Rows[n-1].Timestamp,
		}
	}
	dt := 0.0
	if len(outcome.Rows) > 1 {
		dt = outcome.Rows[1].Timestamp.Sub(outcome.Rows[0].Timestamp).Hours()
	}
	for _, r := range outcome.Rows {
		resp.Summary.EnergyChargedMWh += r.ChargeMW * dt
		resp.Summary.EnergyDischargedMWh += r.DischargeMW * dt
	}
	if includeRows {
		resp.Rows = make([]models.Row, len(outcome.Rows))
		for i, r := range outcome.Rows {
			resp.Rows[i] = models.Row{
				Index:       r.Index,
				Timestamp:   r.Timestamp,
				Input:       r.Input,
				Action:      string(r.Action),
				ChargeMW:    r.ChargeMW,
				DischargeMW: r.DischargeMW,
				PowerMW:     r.NetPowerMW,
				EnergyMWh:   r.EnergyMWh,
				SOC:         r.SOC,
				GridMW:      r.GridMW,
				CumCost:     r.CumCost,
			}
		}
	}
	return resp
}

// respondStudyError maps build/solve failures onto HTTP statuses: infeasible
// or unbounded models are a 422 (the request was well-formed; the model has
// no optimum), everything else is a bad request.
func respondStudyError(c *gin.Context, err error) {
	var statusErr *bess.StatusError
	if errors.As(err, &statusErr) {
		respondError(c, http.StatusUnprocessableEntity, statusCode(statusErr), err.Error())
		return
	}
	respondError(c, http.StatusBadRequest, "INVALID_MODEL", err.Error())
}

func statusCode(err *bess.StatusError) string {
	if err.Status == lp.StatusUnbounded {
		return "UNBOUNDED"
	}
	return "INFEASIBLE"
}

func respondError(c *gin.Context, status int, code, message string) {
	log.Printf("StudyHandler: %s: %s", code, message)
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
