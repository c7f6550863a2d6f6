package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-order-app/services"
	"github.com/yeremiapane/cafe-order-app/utils"
)

var ErrNoPermission = errors.New("you don't have permission to access this resource")

// respondServiceError memetakan taksonomi error service ke kode HTTP.
func respondServiceError(c *gin.Context, err error) {
	var (
		invalidState *services.InvalidStateError
		insufficient *services.InsufficientStockError
		unavailable  *services.ItemUnavailableError
		menuNotFound *services.MenuItemNotFoundError
	)

	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrTableNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrCancelNeedsAdmin):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.As(err, &invalidState),
		errors.As(err, &insufficient),
		errors.As(err, &unavailable),
		errors.As(err, &menuNotFound),
		errors.Is(err, services.ErrTableInactive):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
