package api

import (
	"net/http"
	"strings"

	"devlink/connect-api/internal/model"
	"devlink/connect-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type resetPasswordBody struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (a *API) UserResetPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetPasswordBody
	if err := c.ShouldBind(&data); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed or invalid request body")

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if data.NewPassword != data.ConfirmPassword {
		respondError(c, http.StatusBadRequest, "Passwords don't match")
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

	hash, err := a.Argon.HashPassword(data.NewPassword)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Model(&user).Update("password_hash", hash).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to persist new password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}
