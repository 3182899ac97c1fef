package api

import (
	"net/http"

	"devlink/connect-api/internal/model"
	"devlink/connect-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConnectionSend creates a directed request in its initiating state,
// "ignored" or "interested". A pair of users can only ever have one
// request between them, in either direction, until it's reviewed
func (a *API) ConnectionSend(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	fromUserID := c.MustGet("userID").(string)

	status := c.Param("status")
	toUserID := c.Param("toUserId")

	if err := validators.SendStatusValidator(status); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Self-requests are rejected here, before anything touches the
	// database
	if fromUserID == toUserID {
		respondError(c, http.StatusBadRequest, "You can't send a connection request to yourself")
		return
	}

	var targetExists bool

	r := a.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("id = ?", toUserID).
		Find(&targetExists)
	if r.Error != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to check target user", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if !targetExists {
		respondError(c, http.StatusBadRequest, "User not found")
		return
	}

	var existing model.ConnectionRequest

	err := a.DB.
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			fromUserID, toUserID, toUserID, fromUserID).
		First(&existing).
		Error
	if err == nil {
		respondError(c, http.StatusConflict, "A connection request between these users already exists")
		return
	}
	if err != gorm.ErrRecordNotFound {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to check for existing request", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	id, err := newID()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to generate request ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	request := model.ConnectionRequest{
		ID:         id,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     status,
	}

	if err := a.DB.Create(&request).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to create connection request", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusCreated, request, "Request sent successfully")
}
