package api

import (
	"net/http"

	"devlink/connect-api/internal/model"
	"devlink/connect-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConnectionReview moves a request from "interested" to "accepted" or
// "rejected". The lookup pins the reviewer as recipient and the
// current state, so a request that exists but isn't reviewable answers
// exactly like one that doesn't exist. That keeps non-owners from
// probing which requests are real
func (a *API) ConnectionReview(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	reviewerID := c.MustGet("userID").(string)

	status := c.Param("status")
	connReqID := c.Param("requestId")

	if err := validators.ReviewStatusValidator(status); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var request model.ConnectionRequest

	err := a.DB.
		Where("id = ? AND to_user_id = ? AND status = ?", connReqID, reviewerID, model.StatusInterested).
		First(&request).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Connection request not found")
			return
		}

		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to fetch connection request", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	request.Status = status

	if err := a.DB.Save(&request).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to update connection request", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusCreated, request, "Request "+status+" successfully")
}
