package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-booking/internal/audit"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/httpresp"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/validators"
)

type ServiceOfferingHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceOfferingHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ServiceOfferingHandler {
	return &ServiceOfferingHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type CreateServiceOfferingRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
	DurationMin int    `json:"duration_min" binding:"required,min=1,max=720"`
	PriceCents  int64  `json:"price_cents" binding:"required,min=1"`
}

// Price and duration changes apply to new reservations only; existing ones
// keep their snapshot.
type UpdateServiceOfferingRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
	DurationMin *int    `json:"duration_min,omitempty" binding:"omitempty,min=1,max=720"`
	PriceCents  *int64  `json:"price_cents,omitempty" binding:"omitempty,min=1"`
	Active      *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceOfferingHandler) List(c *gin.Context) {
	providerID := userID(c)

	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("provider_id = ?", providerID)

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var offerings []models.ServiceOffering
	if err := q.Order("id ASC").Find(&offerings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_offerings", "Could not list services.")
		return
	}

	httpresp.List(c, offerings)
}

func (h *ServiceOfferingHandler) Create(c *gin.Context) {
	providerID := userID(c)

	var req CreateServiceOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	offering := models.ServiceOffering{
		ProviderID:  providerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		PriceCents:  req.PriceCents,
		Active:      true,
	}

	if err := h.db.Create(&offering).Error; err != nil {
		httperr.Internal(c, "failed_to_create_offering", "Could not create the service.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		ActorID:    &providerID,
		Action:     "service_offering_created",
		Entity:     "service_offering",
		EntityID:   &offering.ID,
	})

	httpresp.Created(c, offering)
}

func (h *ServiceOfferingHandler) Update(c *gin.Context) {
	providerID := userID(c)

	id, err := idParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var offering models.ServiceOffering
	if err := h.db.
		Where("id = ? AND provider_id = ?", id, providerID).
		First(&offering).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_offering_not_found", "Service not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_offering", "Could not load the service.")
		return
	}

	var req UpdateServiceOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	if req.Name != nil {
		offering.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		offering.Description = *req.Description
	}
	if req.DurationMin != nil {
		offering.DurationMin = *req.DurationMin
	}
	if req.PriceCents != nil {
		offering.PriceCents = *req.PriceCents
	}
	if req.Active != nil {
		offering.Active = *req.Active
	}

	if err := h.db.Save(&offering).Error; err != nil {
		httperr.Internal(c, "failed_to_update_offering", "Could not update the service.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		ActorID:    &providerID,
		Action:     "service_offering_updated",
		Entity:     "service_offering",
		EntityID:   &offering.ID,
	})

	httpresp.OK(c, offering)
}
