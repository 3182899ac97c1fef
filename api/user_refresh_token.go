package api

import (
	"net/http"

	"devlink/connect-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

// UserRefreshToken rotates the token pair. The presented refresh token
// must match the single stored one exactly, so a token superseded by a
// later refresh (or stolen and replayed) is rejected
func (a *API) UserRefreshToken(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	raw, _ := c.Cookie("refreshToken")
	if raw == "" {
		var data refreshBody
		if err := c.ShouldBind(&data); err == nil {
			raw = data.RefreshToken
		}
	}

	if raw == "" {
		respondError(c, http.StatusUnauthorized, "No refresh token provided")
		return
	}

	claims, err := a.Tokens.ParseRefresh(raw)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Refresh token invalid or expired")
		return
	}

	var user model.User

	err = a.DB.Where("id = ?", claims.UserID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusUnauthorized, "Refresh token invalid or expired")
			return
		}

		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.RefreshToken == nil || *user.RefreshToken != raw {
		respondError(c, http.StatusUnauthorized, "Refresh token has been superseded or used")
		return
	}

	access, refresh, err := a.issueTokenPair(&user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to issue token pair", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	a.setAuthCookies(c, access, refresh)

	respond(c, http.StatusOK, gin.H{
		"accessToken":  access,
		"refreshToken": refresh,
	}, "Token pair refreshed")
}
