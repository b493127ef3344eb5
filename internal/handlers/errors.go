// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/omstudio/studio-ops/internal/i18n"
	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
	"github.com/omstudio/studio-ops/internal/utils"
)

type errorMapping struct {
	kind   error
	status int
	code   string
	key    string
}

var errorMappings = []errorMapping{
	{services.ErrNotFound, http.StatusNotFound, "NOT_FOUND", i18n.KeyNotFound},
	{services.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION", i18n.KeyInvalidTransition},
	{services.ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED", i18n.KeyPermissionDenied},
	{services.ErrPoolExhausted, http.StatusConflict, "POOL_EXHAUSTED", i18n.KeyPoolExhausted},
	{services.ErrInvalidShareCount, http.StatusBadRequest, "INVALID_SHARE_COUNT", i18n.KeyInvalidShareCount},
	{services.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT", i18n.KeyInvalidAmount},
	{services.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR", i18n.KeyValidationInvalid},
}

// respondError writes the envelope for an engine error. Storage failures and
// unknown errors are logged and reported without their details.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var failure *services.ValidationFailure
	if errors.As(err, &failure) && len(failure.Fields) > 0 {
		utils.ValidationErrorResponse(c, failure.Fields)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			message := i18n.T(lang, m.key)
			if m.kind == services.ErrValidation {
				message = i18n.T(lang, m.key, "input")
			}
			utils.ErrorResponse(c, m.status, m.code, message, err.Error())
			return
		}
	}

	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed with storage error")
	utils.ErrorResponse(c, http.StatusInternalServerError, "STORAGE_FAILURE", i18n.T(lang, i18n.KeyStorageFailure), nil)
}

func bindError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)
	utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
}

// currentActor reads the caller placed in the context by the auth
// middleware and answers 401 when there is none.
func currentActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := utils.GetActorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return actor, ok
}
