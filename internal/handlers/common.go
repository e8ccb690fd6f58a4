package handlers

import (
	"errors"
	"net/http"

	"restaurant_ops_backend/internal/repositories"
	"restaurant_ops_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a numeric path parameter. On failure it writes the 400
// response itself and returns ok=false.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid "+name+" parameter.", c.Param(name)))
		return 0, false
	}
	return id, true
}

// currentUserID returns the authenticated user's ID from the context, or nil
// when the route is reachable without authentication.
func currentUserID(c *gin.Context) *int64 {
	raw, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := raw.(int64)
	if !ok {
		return nil
	}
	return &id
}

// respondStorageOrInternal is the fallback arm of every handler's error
// mapping: repository-level storage outages surface as 503 so clients know
// to retry, everything else is a 500.
func respondStorageOrInternal(c *gin.Context, err error, publicMsg string) {
	if errors.Is(err, repositories.ErrStorageUnavailable) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeStorageUnavailable, "Storage temporarily unavailable, please retry.", ""))
		return
	}
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, publicMsg, "Internal error"))
}
