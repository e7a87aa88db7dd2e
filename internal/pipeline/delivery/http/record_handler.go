package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"golang-stock-sentinel/internal/pipeline/dto"
	"golang-stock-sentinel/internal/pipeline/service"
	"golang-stock-sentinel/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// StreakDefaults are the streak query values used when a request omits them.
type StreakDefaults struct {
	TrailingDays   int
	ScoreThreshold int
}

// RecordHandler handles HTTP requests for analysis records and streaks.
type RecordHandler struct {
	store    service.SignalStore
	streaks  service.StreakTracker
	loc      *time.Location
	defaults StreakDefaults
	logger   *logger.Logger
}

// NewRecordHandler creates a new RecordHandler. Dates in queries are read in loc.
func NewRecordHandler(store service.SignalStore, streaks service.StreakTracker, loc *time.Location, defaults StreakDefaults, logger *logger.Logger) *RecordHandler {
	if defaults.TrailingDays <= 0 {
		defaults.TrailingDays = service.DefaultTrailingDays
	}
	if defaults.ScoreThreshold <= 0 {
		defaults.ScoreThreshold = service.DefaultScoreThreshold
	}
	return &RecordHandler{store: store, streaks: streaks, loc: loc, defaults: defaults, logger: logger}
}

// RegisterRoutes registers the record routes to the Echo group.
func (h *RecordHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListRecords)
	g.GET("/statistics", h.GetStatistics)
	g.GET("/:id", h.GetRecordByID)
	g.PATCH("/:id/status", h.UpdateStatus)
}

// RegisterStreakRoutes registers the streak routes.
func (h *RecordHandler) RegisterStreakRoutes(g *echo.Group) {
	g.GET("/:symbol", h.GetStreak)
}

// ListRecords godoc
// @Summary List analysis records
// @Description List records by score, newest first within a score
// @Tags records
// @Produce  json
// @Param   status  query   string false   "New, Watchlist or Ignored"
// @Param   date    query   string false   "Local calendar day, YYYY-MM-DD"
// @Param   limit   query   int    false   "Maximum number of records"
// @Success 200 {array} entity.AnalysisRecord
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /records [get]
func (h *RecordHandler) ListRecords(c echo.Context) error {
	filter := dto.RecordFilter{Status: c.QueryParam("status")}

	if v := c.QueryParam("date"); v != "" {
		date, err := time.ParseInLocation("2006-01-02", v, h.loc)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		filter.Date = date
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil || limit < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit"})
	}
	filter.Limit = limit

	records, err := h.store.ListByStatus(c.Request().Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to list records", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list records"})
	}
	return c.JSON(http.StatusOK, records)
}

// GetRecordByID godoc
// @Summary Get an analysis record by ID
// @Tags records
// @Produce  json
// @Param   id  path    int true    "Record ID"
// @Success 200 {object} entity.AnalysisRecord
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /records/{id} [get]
func (h *RecordHandler) GetRecordByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid record ID"})
	}

	record, err := h.store.Get(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Record not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, record)
}

// UpdateStatus godoc
// @Summary Update the review status of a record
// @Tags records
// @Accept  json
// @Produce  json
// @Param   id      path    int                      true    "Record ID"
// @Param   status  body    dto.UpdateStatusRequest  true    "New status"
// @Success 200 {object} dto.UpdateStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /records/{id}/status [patch]
func (h *RecordHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid record ID"})
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	updated, err := h.store.UpdateStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Status must be one of New, Watchlist, Ignored"})
		}
		h.logger.Error("Failed to update record status", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update record status"})
	}
	if !updated {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Record not found"})
	}

	return c.JSON(http.StatusOK, dto.UpdateStatusResponse{ID: uint(id), Status: req.Status, Updated: true})
}

// GetStatistics godoc
// @Summary Aggregate records over a trailing window
// @Tags records
// @Produce  json
// @Param   days    query   int false   "Trailing days, default 7"
// @Success 200 {object} dto.RecordStatistics
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /records/statistics [get]
func (h *RecordHandler) GetStatistics(c echo.Context) error {
	days, err := queryInt(c, "days", 7)
	if err != nil || days <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid days"})
	}

	stats, err := h.store.Statistics(c.Request().Context(), days)
	if err != nil {
		h.logger.Error("Failed to compute statistics", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute statistics"})
	}
	return c.JSON(http.StatusOK, stats)
}

// GetStreak godoc
// @Summary Get the high-score streak of a symbol
// @Tags streaks
// @Produce  json
// @Param   symbol      path    string  true    "Instrument code"
// @Param   days        query   int     false   "Trailing days, defaults to streak.trailing_days"
// @Param   threshold   query   int     false   "Minimum score, defaults to scoring.score_threshold"
// @Success 200 {object} dto.StreakInfo
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /streaks/{symbol} [get]
func (h *RecordHandler) GetStreak(c echo.Context) error {
	days, err := queryInt(c, "days", h.defaults.TrailingDays)
	if err != nil || days <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid days"})
	}
	threshold, err := queryInt(c, "threshold", h.defaults.ScoreThreshold)
	if err != nil || threshold < 0 || threshold > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid threshold"})
	}

	info, err := h.streaks.Streak(c.Request().Context(), c.Param("symbol"), days, threshold)
	if err != nil {
		h.logger.Error("Failed to compute streak", logger.StringField("symbol", c.Param("symbol")), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to compute streak"})
	}
	return c.JSON(http.StatusOK, info)
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
