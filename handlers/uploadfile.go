package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/Nahnamehran/study-planner/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadSize = 5 << 20

type UploadFileHandler struct {
	planner *services.PlannerService
	logger  *zap.Logger
}

func NewUploadFileHandler(planner *services.PlannerService, logger *zap.Logger) *UploadFileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadFileHandler{planner: planner, logger: logger}
}

// ImportPlan handles POST /plans/import: a multipart "file" holding a workbook from the export endpoint.
func (h *UploadFileHandler) ImportPlan(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, &models.FieldError{Field: "file"})
		return
	}
	if header.Size > maxUploadSize {
		writeError(c, &models.FieldError{Field: "file", Reason: "file is too large"})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		writeError(c, &models.FieldError{Field: "file", Reason: "only .xlsx files are accepted"})
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, &models.FieldError{Field: "file", Reason: err.Error()})
		return
	}
	defer file.Close()

	record, err := h.planner.Import(c.Request.Context(), c.PostForm("userId"), file)
	if err != nil && record == nil {
		writeError(c, err)
		return
	}

	h.logger.Info("plan imported from upload", zap.String("file_name", header.Filename), zap.String("plan_id", record.ID))
	resp := models.GeneratePlanResponse{
		Message:   "Study plan imported successfully",
		Plan:      record,
		Persisted: err == nil,
	}
	if err != nil {
		resp.Warning = models.Hint(err)
	}
	c.JSON(http.StatusOK, resp)
}
