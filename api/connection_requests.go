package api

import (
	"net/http"

	"devlink/connect-api/internal/model"
	"devlink/connect-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type connectionEntry struct {
	model.ConnectionRequest
	FromUser *model.NameRef `json:"fromUser,omitempty"`
	ToUser   *model.NameRef `json:"toUser,omitempty"`
}

// ConnectionRequests lists incoming requests for the authenticated
// user. "interested" resolves the initiator's name fields, "accepted"
// resolves both parties. An empty result is a 404, mirroring the
// behavior the frontend was built against (see DESIGN.md)
func (a *API) ConnectionRequests(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	status := c.Param("status")

	if err := validators.ListStatusValidator(status); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var requests []model.ConnectionRequest

	err := a.DB.
		Where("to_user_id = ? AND status = ?", userID, status).
		Order("created_at desc").
		Find(&requests).
		Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to fetch connection requests", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if len(requests) == 0 {
		respondError(c, http.StatusNotFound, "No requests found")
		return
	}

	ids := make([]string, 0, len(requests)*2)
	for _, r := range requests {
		ids = append(ids, r.FromUserID, r.ToUserID)
	}

	var users []model.User

	err = a.DB.Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to resolve request users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	names := make(map[string]model.NameRef, len(users))
	for _, u := range users {
		names[u.ID] = u.NameRef()
	}

	entries := make([]connectionEntry, 0, len(requests))
	for _, r := range requests {
		e := connectionEntry{ConnectionRequest: r}

		if ref, ok := names[r.FromUserID]; ok {
			e.FromUser = &ref
		}

		if status == model.StatusAccepted {
			if ref, ok := names[r.ToUserID]; ok {
				e.ToUser = &ref
			}
		}

		entries = append(entries, e)
	}

	respond(c, http.StatusOK, entries, "")
}
