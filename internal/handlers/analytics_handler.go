package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "flesk/internal/errors"
	"flesk/internal/services"
)

// AnalyticsHandler handles spending analytics requests.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
	now              func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, now: time.Now}
}

// GetCategorySummary handles the per-category expense breakdown.
// @Summary     Get spending by category
// @Description Expense totals per category over [from, to). Defaults to the last 30 days.
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param       to   query string false "Range end, exclusive (RFC 3339 or YYYY-MM-DD)"
// @Success     200 {object} services.CategorySummary "Category summary"
// @Failure     400 {object} ErrorResponse "Invalid date range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/categories [get]
func (h *AnalyticsHandler) GetCategorySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	to := h.now().UTC()
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		if from, err = parseFlexibleTime(v); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = parseFlexibleTime(v); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	summary, err := h.analyticsService.GetCategorySummary(c.Request.Context(), userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetPrediction handles the next-month spending projection.
// @Summary     Predict next month's spending
// @Description Last full month's expense totals per category, scaled by 1.10
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Prediction "Spending prediction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/prediction [get]
func (h *AnalyticsHandler) GetPrediction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	prediction, err := h.analyticsService.GetPrediction(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}
