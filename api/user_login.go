package api

import (
	"net/http"
	"strings"

	"devlink/connect-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mustUser returns the user resolved by the JWT middleware
func mustUser(c *gin.Context) *model.User {
	return c.MustGet("user").(*model.User)
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) UserLogin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed or invalid request body")

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" {
		respondError(c, http.StatusBadRequest, "Email field can't be empty")
		return
	}

	if data.Password == "" {
		respondError(c, http.StatusBadRequest, "Password field can't be empty")
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(data.Email))).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}

		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := a.Argon.ComparePassword(data.Password, user.PasswordHash)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
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
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	}, "User logged in successfully")
}
