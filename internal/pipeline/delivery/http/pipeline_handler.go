package http

import (
	"context"
	"errors"
	"net/http"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/service"
	"golang-stock-sentinel/pkg/common"
	"golang-stock-sentinel/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PipelineHandler handles HTTP requests for pipeline runs and market state.
type PipelineHandler struct {
	pipeline   service.PipelineService
	runs       service.PipelineRunService
	marketData service.MarketDataService
	logger     *logger.Logger
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(pipeline service.PipelineService, runs service.PipelineRunService, marketData service.MarketDataService, logger *logger.Logger) *PipelineHandler {
	return &PipelineHandler{pipeline: pipeline, runs: runs, marketData: marketData, logger: logger}
}

// RegisterRoutes registers the pipeline routes to the Echo group.
func (h *PipelineHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/runs", h.TriggerRun)
	g.GET("/runs", h.GetRuns)
	g.GET("/runs/:run_id", h.GetRunByID)
	g.GET("/status", h.GetStatus)
}

// RegisterSnapshotRoutes registers the market snapshot route.
func (h *PipelineHandler) RegisterSnapshotRoutes(g *echo.Group) {
	g.GET("", h.GetSnapshotStatus)
}

// TriggerRun godoc
// @Summary Run the pipeline now
// @Description Runs the pipeline synchronously and returns its summary
// @Tags pipeline
// @Accept  json
// @Produce  json
// @Param   run  body    dto.RunRequest   false    "Run overrides"
// @Success 200 {object} dto.RunSummary
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.RunSummary
// @Failure 500 {object} dto.ErrorResponse
// @Router /pipeline/runs [post]
func (h *PipelineHandler) TriggerRun(c echo.Context) error {
	var req dto.RunRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
		}
	}
	if req.MaxCandidates < 0 || req.ScoreThreshold < 0 || req.ScoreThreshold > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_candidates and score_threshold must be within range"})
	}

	// A client disconnect must not abort a started run.
	summary, err := h.pipeline.Run(context.WithoutCancel(c.Request().Context()), dto.RunOptions{
		MaxCandidates:  req.MaxCandidates,
		ScoreThreshold: req.ScoreThreshold,
		Trigger:        common.TriggerManual,
	})
	switch {
	case errors.Is(err, service.ErrRunInProgress):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSnapshotUnavailable):
		return c.JSON(http.StatusServiceUnavailable, summary)
	case err != nil:
		h.logger.Error("Pipeline run failed", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Pipeline run failed"})
	}
	return c.JSON(http.StatusOK, summary)
}

// GetRuns godoc
// @Summary List recent pipeline runs
// @Tags pipeline
// @Produce  json
// @Param   limit   query   int false   "Maximum number of runs, default 20"
// @Success 200 {array} dto.PipelineRunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /pipeline/runs [get]
func (h *PipelineHandler) GetRuns(c echo.Context) error {
	limit, err := queryInt(c, "limit", 20)
	if err != nil || limit <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
	}

	runs, err := h.runs.GetRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get pipeline runs"})
	}
	return c.JSON(http.StatusOK, runs)
}

// GetRunByID godoc
// @Summary Get a pipeline run
// @Tags pipeline
// @Produce  json
// @Param   run_id  path    string true    "Run ID"
// @Success 200 {object} dto.PipelineRunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /pipeline/runs/{run_id} [get]
func (h *PipelineHandler) GetRunByID(c echo.Context) error {
	run, err := h.runs.GetRunByID(c.Request().Context(), c.Param("run_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Run not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, run)
}

// GetStatus godoc
// @Summary Get the current pipeline phase
// @Tags pipeline
// @Produce  json
// @Success 200 {object} dto.PipelineStatusResponse
// @Router /pipeline/status [get]
func (h *PipelineHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.PipelineStatusResponse{Phase: h.pipeline.CurrentPhase()})
}

// GetSnapshotStatus godoc
// @Summary Describe the cached market snapshot
// @Tags market
// @Produce  json
// @Success 200 {object} dto.SnapshotStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /snapshot [get]
func (h *PipelineHandler) GetSnapshotStatus(c echo.Context) error {
	status, err := h.marketData.SnapshotStatus()
	if err != nil {
		if errors.Is(err, service.ErrNoSnapshot) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "No snapshot cached yet"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, status)
}
