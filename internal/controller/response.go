package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"listing_wizard_v1_202610/internal/repository"
	"listing_wizard_v1_202610/internal/service"
	"listing_wizard_v1_202610/internal/wizard"
	"listing_wizard_v1_202610/pkg/logger"
)

// ==================== 统一响应 ====================

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    400,
		"message": message,
	})
}

// respondError 按错误类型映射状态码
func respondError(c *gin.Context, err error) {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":    422,
			"message": verr.Error(),
			"data": gin.H{
				"errors":      verr.Errors,
				"error_count": verr.Errors.Count(),
			},
		})
		return
	}

	var serr *wizard.SubmissionError
	if errors.As(err, &serr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"code":    502,
			"message": serr.UserMessage(),
		})
		return
	}

	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.L().Error("[Controller] 未处理的错误",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "服务器内部错误"
	}

	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrUnknownSubcategory),
		errors.Is(err, repository.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrSubmitInFlight),
		errors.Is(err, wizard.ErrNotAtReview):
		return http.StatusConflict
	case errors.Is(err, service.ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, wizard.ErrTooManyImages),
		errors.Is(err, wizard.ErrImageIndex),
		errors.Is(err, wizard.ErrEmptyImage),
		errors.Is(err, wizard.ErrUnknownAttribute),
		errors.Is(err, wizard.ErrInvalidCondition),
		errors.Is(err, wizard.ErrInvalidAttributeValue),
		errors.Is(err, wizard.ErrInvalidOption),
		errors.Is(err, wizard.ErrAttributeDisabled):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
