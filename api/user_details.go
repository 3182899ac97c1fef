package api

import (
	"net/http"

	"devlink/connect-api/internal/model"
	"devlink/connect-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) UserDetails(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	userID := c.Param("id")

	var user model.User

	err := a.DB.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}

		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusOK, user, "")
}

type userUpdateBody struct {
	LastName *string            `json:"lastName"`
	Age      *int               `json:"age"`
	Gender   *string            `json:"gender"`
	About    *string            `json:"about"`
	Skills   *model.StringSlice `json:"skills"`
}

// UserUpdate applies a partial update of the mutable profile fields.
// Immutable fields (id, email, firstName) are simply not part of the
// accepted body
func (a *API) UserUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	userID := c.Param("id")

	var data userUpdateBody
	if err := c.BindJSON(&data); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed or invalid JSON request body")

		zap.L().Error("Failed to read JSON body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var user model.User

	err := a.DB.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}

		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.LastName != nil {
		user.LastName = *data.LastName
	}
	if data.Age != nil {
		if *data.Age <= 0 {
			respondError(c, http.StatusBadRequest, "Age must be a positive number")
			return
		}
		user.Age = data.Age
	}
	if data.Gender != nil {
		if err := validators.GenderValidator(*data.Gender); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		user.Gender = *data.Gender
	}
	if data.About != nil {
		user.About = *data.About
	}
	if data.Skills != nil {
		if err := validators.SkillsValidator(*data.Skills); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		user.Skills = *data.Skills
	}

	user.Normalize()

	if err := a.DB.Save(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to update user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	respond(c, http.StatusOK, user, "User updated successfully")
}
