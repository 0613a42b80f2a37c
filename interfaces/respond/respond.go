package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"video-digest/domain/apperror"
	"video-digest/domain/dto"
	"video-digest/infrastructure/logger"
)

const internalMessage = "something went wrong, please try again"

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Res{Success: true, Data: data})
}

// Error renders err as the error envelope and aborts the chain. Anything
// that is not an *apperror.Error is reported as an internal error with a
// generic message.
func Error(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Wrap(apperror.KindInternal, internalMessage, err)
	}
	status := apperror.HTTPStatus(appErr.Kind)

	entry := logger.GetLogger().WithField("kind", appErr.Kind).WithField("path", c.FullPath()).WithField("error", err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	body := dto.ErrorRes{Error: string(appErr.Kind), Message: appErr.Message, Details: appErr.Details}
	if appErr.Kind == apperror.KindInternal {
		body.Message = internalMessage
		body.Details = nil
	}
	c.AbortWithStatusJSON(status, body)
}

// Bind reports a malformed body as a validation error.
func Bind(c *gin.Context, err error) {
	Error(c, apperror.Wrap(apperror.KindValidation, "request body is malformed", err).
		WithDetails(map[string]interface{}{"reason": err.Error()}))
}
