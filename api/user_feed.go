package api

import (
	"net/http"

	"devlink/connect-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserFeed lists every profile. Credential fields never serialize so
// the models can be returned as-is
func (a *API) UserFeed(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var users []model.User

	err := a.DB.Order("created_at desc").Find(&users).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to fetch user feed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusOK, users, "")
}
