package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/apierrors"
	"github.com/taskhub-dev/taskhub/internal/types"
	"gorm.io/gorm"
)

var production bool

// SetProductionMode controls whether raw internal error messages are
// exposed in responses.
func SetProductionMode(enabled bool) {
	production = enabled
}

func Respond(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, types.APIResponse{
		Success: true,
		Data:    data,
	})
}

func RespondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, types.APIResponse{
		Success: true,
		Message: message,
	})
}

// RespondError maps a typed API error onto the response envelope. Store
// constraint violations are translated here so the race a handler pre-check
// cannot close still answers with the public taxonomy. Anything else is an
// internal failure; its raw message is suppressed in production.
func RespondError(ctx *gin.Context, err error) {
	var apiErr *apierrors.APIError

	if errors.As(err, &apiErr) {
		ctx.JSON(apiErr.Status, types.APIResponse{
			Success: false,
			Message: apiErr.Message,
			Errors:  apiErr.Fields,
		})
		return
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		ctx.JSON(http.StatusBadRequest, types.APIResponse{
			Success: false,
			Message: "A record with this value already exists",
		})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, types.APIResponse{
			Success: false,
			Message: "Record not found",
		})
		return
	}

	log.Printf("Internal error: %v", err)

	message := "Internal server error"
	if !production {
		message = err.Error()
	}

	ctx.JSON(http.StatusInternalServerError, types.APIResponse{
		Success: false,
		Message: message,
	})
}

func AbortWithError(ctx *gin.Context, err error) {
	RespondError(ctx, err)
	ctx.Abort()
}
