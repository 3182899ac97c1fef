package api

import (
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"devlink/connect-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// uploadAvatar pushes the uploaded file to media storage and returns
// the public URL. The object key is namespaced by user and randomized
// so replacing an avatar never collides with the old object
func (a *API) uploadAvatar(c *gin.Context, userID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := userID + "/" + util.RandStr(10) + strings.ToLower(path.Ext(fh.Filename))

	return a.Avatars.Upload(c.Request.Context(), key, contentType, f, fh.Size)
}

// UserAvatar replaces the profile image of the authenticated user
func (a *API) UserAvatar(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Avatar file is required")
		return
	}

	avatarURL, err := a.uploadAvatar(c, userID, fileHeader)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to store the avatar file")

		zap.L().Error("Failed to upload avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user := mustUser(c)

	err = a.DB.Model(user).Update("avatar_url", avatarURL).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to persist avatar URL", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusOK, user, "Avatar updated successfully")
}
