package api

import (
	"net/http"
	"strconv"
	"strings"

	"devlink/connect-api/internal/model"
	"devlink/connect-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newID() (string, error) {
	return gonanoid.Generate(idCharset, 16)
}

// UserRegister creates a new account from a multipart form. The avatar
// file is a hard precondition, registration aborts without it
func (a *API) UserRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	firstName := c.PostForm("firstName")
	lastName := c.PostForm("lastName")
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")
	gender := c.PostForm("gender")

	if err := validators.NameValidator(firstName, lastName); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.EmailValidator(email); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.PasswordValidator(password); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.GenderValidator(gender); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var age *int
	if raw := c.PostForm("age"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "Age must be a positive number")
			return
		}
		age = &n
	}

	var skills model.StringSlice
	for _, s := range strings.Split(c.PostForm("skills"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	var found bool

	r := a.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&found)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		respondError(c, http.StatusConflict, "This email is already registered. Please login or use a different email")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Avatar file is required")
		return
	}

	userID, err := newID()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	avatarURL, err := a.uploadAvatar(c, userID, fileHeader)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to store the avatar file")

		zap.L().Error("Failed to upload avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	hash, err := a.Argon.HashPassword(password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	about := c.PostForm("about")
	if about == "" {
		about = model.DefaultAbout
	}

	user := model.User{
		ID:           userID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Age:          age,
		Gender:       gender,
		AvatarURL:    avatarURL,
		About:        about,
		Skills:       skills,
	}
	user.Normalize()

	if err := a.DB.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusCreated, user, "User registered successfully")
}
