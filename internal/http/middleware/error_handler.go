package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/dto"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
)

// ErrorHandler обрабатывает ошибки, сложенные хэндлерами в c.Error().
// Код и статус берутся из классификации apperr, неклассифицированные
// ошибки маскируются как внутренние.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			entry := logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"code":   apperr.CodeOf(err),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			})
			if apperr.IsCode(err, apperr.CodeInternal) {
				entry.Error("Request error")
			} else {
				entry.Warn("Request rejected")
			}
		}

		c.JSON(apperr.HTTPStatus(err), dto.ErrorResponse{
			Error: apperr.UserMessage(err),
			Code:  string(apperr.CodeOf(err)),
		})
	}
}
