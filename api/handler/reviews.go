package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"mapreviews/cache"
	"mapreviews/config"
	"mapreviews/models"
)

// ReviewHarvester is the slice of the reviews pipeline the handler
// needs; it lets tests drive the handler without a browser.
type ReviewHarvester interface {
	GetReviews(ctx context.Context, pageURL string, stealth bool) ([]models.Review, []models.Skipped, error)
}

// Reviews handles POST /api/v1/reviews.
func Reviews(h ReviewHarvester, cfg config.HarvestConfig, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReviewsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ReviewsResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "invalid request body: " + err.Error(),
				},
			})
			return
		}
		req.Defaults()

		if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			c.JSON(http.StatusBadRequest, models.ReviewsResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "url must be absolute http(s)",
				},
			})
			return
		}

		// Cache lookup before spending browser time.
		key := cache.Key(req.URL)
		if resp, hit := cc.Get(key, req.CacheMaxAgeMs); hit {
			c.JSON(http.StatusOK, resp)
			return
		}

		timeout := cfg.DefaultTimeout
		if req.Timeout > 0 {
			timeout = time.Duration(req.Timeout) * time.Second
		}
		if timeout > cfg.MaxTimeout {
			timeout = cfg.MaxTimeout
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		revs, skipped, err := h.GetReviews(ctx, req.URL, *req.Stealth)
		if err != nil {
			status, detail := errorResponse(err)
			c.JSON(status, models.ReviewsResponse{Success: false, Error: detail})
			return
		}

		resp := &models.ReviewsResponse{
			Success:      true,
			Reviews:      revs,
			Count:        len(revs),
			SkippedItems: skipped,
		}
		cc.Set(key, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// errorResponse maps a pipeline error to an HTTP status and detail.
func errorResponse(err error) (int, *models.ErrorDetail) {
	var he *models.HarvestError
	if !errors.As(err, &he) {
		return http.StatusInternalServerError, &models.ErrorDetail{
			Code:    models.ErrCodeInternal,
			Message: err.Error(),
		}
	}

	switch he.Code {
	case models.ErrCodeTimeout, models.ErrCodeLoadNotConverged:
		return http.StatusGatewayTimeout, he.ToDetail()
	case models.ErrCodeNavigation, models.ErrCodeContainerNotVisible, models.ErrCodeBrowserCrash:
		return http.StatusBadGateway, he.ToDetail()
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest, he.ToDetail()
	default:
		return http.StatusInternalServerError, he.ToDetail()
	}
}
