package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/middleware"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe echoes the token identity. Providers also get their profile when
// one exists.
func (h *MeHandler) GetMe(c *gin.Context) {
	id := userID(c)
	role := c.GetString(middleware.ContextUserRole)

	out := gin.H{
		"id":   id,
		"role": role,
	}

	if role == middleware.RoleProvider {
		var profile models.ProviderProfile
		err := h.db.Where("provider_id = ?", id).First(&profile).Error
		switch {
		case err == nil:
			out["profile"] = profile
		case !errors.Is(err, gorm.ErrRecordNotFound):
			httperr.Internal(c, "failed_to_get_profile", "Could not load the profile.")
			return
		}
	}

	c.JSON(http.StatusOK, out)
}
