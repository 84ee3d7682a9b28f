package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

type CustomerSummary struct {
	CustomerID   uint      `json:"customer_id"`
	Reservations int64     `json:"reservations"`
	Completed    int64     `json:"completed"`
	LastDate     time.Time `json:"last_date"`
}

// ======================================================
// LIST CUSTOMERS (PROVIDER)
// ======================================================

func (h *CustomerHandler) List(c *gin.Context) {
	providerID := userID(c)

	var rows []CustomerSummary
	if err := h.db.
		Model(&models.Reservation{}).
		Select(
			"customer_id, COUNT(*) AS reservations, "+
				"COUNT(*) FILTER (WHERE status = ?) AS completed, MAX(date) AS last_date",
			"completed",
		).
		Where("provider_id = ?", providerID).
		Group("customer_id").
		Order("last_date DESC").
		Scan(&rows).Error; err != nil {

		httperr.Internal(c, "failed_to_list_customers", "Could not list customers.")
		return
	}

	c.JSON(http.StatusOK, rows)
}
