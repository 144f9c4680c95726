package handlers

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/gin-gonic/gin"
)

// maxRawInError caps how much of a malformed completion is echoed back.
const maxRawInError = 2000

func statusFor(kind string) int {
	switch kind {
	case "missing_field":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "in_flight":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status and kind matching its place in the taxonomy.
func writeError(c *gin.Context, err error) {
	kind := models.ErrorKind(err)
	resp := models.ErrorResponse{
		Error:   err.Error(),
		Message: models.Hint(err),
		Kind:    kind,
	}

	var te *models.TransportError
	if errors.As(err, &te) {
		resp.Retryable = te.Retryable()
	}
	var me *models.MalformedResponseError
	if errors.As(err, &me) {
		resp.Raw = truncateRaw(me.Raw, maxRawInError)
	}

	_ = c.Error(err)
	c.JSON(statusFor(kind), resp)
}

// truncateRaw cuts s to at most limit bytes without splitting a rune.
func truncateRaw(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
