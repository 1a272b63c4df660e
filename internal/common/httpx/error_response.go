package httpx

import (
	"net/http"

	"astrapix-server/internal/common"
	"astrapix-server/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WriteServiceError writes a standardized HTTP error response for service-layer errors.
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	if serviceErr, ok := common.AsServiceError(err); ok {
		status := serviceErrorStatus(serviceErr.Code)
		if status >= http.StatusInternalServerError {
			logger.L().Error("request failed",
				zap.String("path", c.FullPath()),
				zap.String("code", string(serviceErr.Code)),
				zap.Error(err),
			)
		}
		WriteError(c, status, serviceErr.Message)
		return
	}
	logger.L().Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	WriteError(c, http.StatusInternalServerError, fallbackMessage)
}

// WriteError 输出统一的错误体 {"message": ...}。
func WriteError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// AbortWithError 写入错误并中止后续中间件。
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func serviceErrorStatus(code common.ErrorCode) int {
	switch code {
	case common.ErrorCodeValidation:
		return http.StatusBadRequest
	case common.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case common.ErrorCodeForbidden:
		return http.StatusForbidden
	case common.ErrorCodeConflict:
		return http.StatusConflict
	case common.ErrorCodeNotFound:
		return http.StatusNotFound
	case common.ErrorCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
