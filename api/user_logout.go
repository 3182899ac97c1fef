package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLogout drops the stored refresh token so the session can't be
// renewed, then clears both cookies
func (a *API) UserLogout(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	user := mustUser(c)

	err := a.DB.Model(user).Update("refresh_token", nil).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to clear refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	a.clearAuthCookies(c)

	respond(c, http.StatusOK, gin.H{}, "User logged out successfully")
}
