// Package http exposes planning runs over a JSON API.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mfgplan/engine/pkg/application/services/orchestration"
	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
)

const dateLayout = "2006-01-02"

type PlanningHandler struct {
	orchestrator *orchestration.Orchestrator
	logger       *zap.Logger
}

func NewPlanningHandler(orchestrator *orchestration.Orchestrator, logger *zap.Logger) *PlanningHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningHandler{orchestrator: orchestrator, logger: logger}
}

func (h *PlanningHandler) success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func (h *PlanningHandler) error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   message,
	})
}

type generateMRPRequest struct {
	PlanID    string `json:"plan_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	AsOf      string `json:"as_of"`
}

// GenerateMRP runs a full planning pass for a plan id or a date range and
// returns the material requirements side of the result.
func (h *PlanningHandler) GenerateMRP(c *gin.Context) {
	var req generateMRPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	planningReq := orchestration.PlanningRequest{
		PlanID: entities.PlanID(req.PlanID),
	}

	if req.StartDate != "" || req.EndDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			h.error(c, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
			return
		}
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			h.error(c, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
			return
		}
		window, err := calendar.NewTimeWindow(start, end)
		if err != nil {
			h.error(c, http.StatusBadRequest, err.Error())
			return
		}
		planningReq.Window = &window
	}

	asOf, ok := h.parseAsOf(c, req.AsOf)
	if !ok {
		return
	}
	planningReq.AsOf = asOf

	result, _, err := h.orchestrator.Run(c.Request.Context(), planningReq)
	if err != nil {
		h.runError(c, err)
		return
	}
	h.success(c, result)
}

// CapacityPlan runs a planning pass for the plan in the path and returns the
// capacity side of the result.
func (h *PlanningHandler) CapacityPlan(c *gin.Context) {
	planID := c.Param("id")
	if planID == "" {
		h.error(c, http.StatusBadRequest, "plan id is required")
		return
	}

	asOf, ok := h.parseAsOf(c, c.Query("as_of"))
	if !ok {
		return
	}

	_, capacity, err := h.orchestrator.Run(c.Request.Context(), orchestration.PlanningRequest{
		PlanID: entities.PlanID(planID),
		AsOf:   asOf,
	})
	if err != nil {
		h.runError(c, err)
		return
	}
	h.success(c, capacity)
}

// parseAsOf reads an optional as-of date, defaulting to today
func (h *PlanningHandler) parseAsOf(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse(dateLayout, raw)
	if err != nil {
		h.error(c, http.StatusBadRequest, "invalid as_of, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return asOf, true
}

func (h *PlanningHandler) runError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, planning.ErrNotFound):
		h.error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, planning.ErrInvalidInput):
		h.error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, planning.ErrCollaboratorTimeout):
		h.error(c, http.StatusGatewayTimeout, err.Error())
	default:
		h.logger.Error("planning run failed", zap.Error(err))
		h.error(c, http.StatusInternalServerError, "planning run failed")
	}
}
