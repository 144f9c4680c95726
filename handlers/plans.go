package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/Nahnamehran/study-planner/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PlanHandler struct {
	planner        *services.PlannerService
	reminderWindow time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

func NewPlanHandler(planner *services.PlannerService, reminderWindow time.Duration, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanHandler{
		planner:        planner,
		reminderWindow: reminderWindow,
		logger:         logger,
		now:            time.Now,
	}
}

// GeneratePlan handles POST /plan.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req models.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
			Kind:    "missing_field",
		})
		return
	}

	variant, err := models.ParseVariant(req.Variant)
	if err != nil {
		writeError(c, err)
		return
	}

	guardKey := req.UserID
	if guardKey == "" {
		guardKey = c.ClientIP()
	}

	record, err := h.planner.Generate(c.Request.Context(), req.UserID, guardKey, models.PlanRequest{
		Syllabus:      req.Syllabus,
		ExamDate:      req.ExamDate,
		AvailableTime: req.AvailableTime,
		WakeTime:      req.WakeTime,
		BedTime:       req.BedTime,
		ReferenceDate: req.ReferenceDate,
	}, variant)
	if err != nil && !(record != nil && errors.Is(err, models.ErrPersistence)) {
		writeError(c, err)
		return
	}

	resp := models.GeneratePlanResponse{
		Message:   "Study plan generated successfully",
		Plan:      record,
		Persisted: err == nil,
	}
	if err != nil {
		resp.Message = "Study plan generated but not saved"
		resp.Warning = models.Hint(err)
	}
	c.JSON(http.StatusOK, resp)
}

// GetPlan handles GET /plans/:id.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	record, err := h.planner.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": record})
}

// ListPlans handles GET /users/:userId/plans.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		writeError(c, &models.FieldError{Field: "userId"})
		return
	}
	plans, err := h.planner.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plans, "count": len(plans)})
}

// TogglePlanBlock handles POST /plans/:id/toggle.
func (h *PlanHandler) TogglePlanBlock(c *gin.Context) {
	var req models.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
			Kind:    "missing_field",
		})
		return
	}

	record, err := h.planner.Toggle(c.Request.Context(), c.Param("id"), models.BlockRef{Day: req.Day, Index: *req.Index})
	if err != nil {
		writeError(c, err)
		return
	}
	done, total := record.Plan.Progress()
	c.JSON(http.StatusOK, gin.H{
		"data":     record,
		"progress": gin.H{"done": done, "total": total},
	})
}

// GetReminders handles GET /plans/:id/reminders for clients that poll instead of running their own clock.
func (h *PlanHandler) GetReminders(c *gin.Context) {
	now := h.now()
	if raw := c.Query("now"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(c, &models.FieldError{Field: "now", Reason: "must be RFC3339"})
			return
		}
		now = t
	}

	notified := make(map[models.BlockRef]bool)
	if raw := c.Query("notified"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			ref, err := models.ParseBlockRef(part)
			if err != nil {
				writeError(c, &models.FieldError{Field: "notified", Reason: err.Error()})
				return
			}
			notified[ref] = true
		}
	}

	reminders, err := h.planner.Reminders(c.Request.Context(), c.Param("id"), now, notified, h.reminderWindow)
	if err != nil {
		writeError(c, err)
		return
	}

	due := make([]models.BlockRef, 0, len(reminders))
	for _, r := range reminders {
		due = append(due, r.Ref)
	}
	c.JSON(http.StatusOK, models.RemindersResponse{Due: due, Now: now, Notes: reminders})
}

// ExportPlan handles GET /plans/:id/export.
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	id := c.Param("id")
	record, err := h.planner.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	buf, err := services.ExportXLSX(&record.Plan)
	if err != nil {
		h.logger.Error("export failed", zap.String("plan_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to export plan",
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"study-plan-%s.xlsx\"", id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// InvalidateCache drops one plan (?id=) or the whole plan cache.
func (h *PlanHandler) InvalidateCache(c *gin.Context) {
	h.planner.InvalidateCache(c.Query("id"))
	c.JSON(http.StatusOK, gin.H{
		"message": "cache invalidated successfully",
	})
}
