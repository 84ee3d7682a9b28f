package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/httpresp"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/reservation"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves what any booking client may read about a provider.
type PublicHandler struct {
	db           *gorm.DB
	availability availabilityGetter
	busy         busyLister
	quote        quoter
}

func NewPublicHandler(db *gorm.DB, availability availabilityGetter, busy busyLister, quote quoter) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		busy:         busy,
		quote:        quote,
	}
}

////////////////////////////////////////////////////////
// OFFERINGS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListOfferings(c *gin.Context) {
	providerID, err := idParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	q := h.db.Where("provider_id = ? AND active = true", providerID)

	if query := strings.TrimSpace(strings.ToLower(c.Query("query"))); query != "" {
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

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	providerID, err := idParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	offeringID, err := uintQuery(c, "service_offering_id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	res, err := h.availability.Execute(c.Request.Context(), reservation.AvailabilityInput{
		ProviderID:        providerID,
		ServiceOfferingID: offeringID,
		Date:              c.Query("date"),
		OnlyAvailable:     c.Query("only_available") == "true",
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// BusyIntervals lists the pending and confirmed reservations of a day
// without revealing who booked them.
func (h *PublicHandler) BusyIntervals(c *gin.Context) {
	providerID, err := idParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.FromError(c, httperr.ErrValidation("date", "date_required"))
		return
	}

	busy, err := h.busy.Execute(c.Request.Context(), providerID, date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, busy)
}

////////////////////////////////////////////////////////
// QUOTE
////////////////////////////////////////////////////////

func (h *PublicHandler) Quote(c *gin.Context) {
	providerID, err := idParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	offeringID, err := uintQuery(c, "service_offering_id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	in := reservation.QuoteInput{
		ProviderID:        providerID,
		ServiceOfferingID: offeringID,
		Recurring:         c.Query("recurring") == "true",
	}

	if raw := c.Query("distance_miles"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httperr.FromError(c, httperr.ErrValidation("distance_miles", ""))
			return
		}
		in.DistanceMiles = &d
	}

	if in.Recurring {
		n, err := strconv.Atoi(c.Query("occurrence_count"))
		if err != nil {
			httperr.FromError(c, httperr.ErrValidation("occurrence_count", ""))
			return
		}
		in.OccurrenceCount = n
	}

	q, err := h.quote.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, q)
}
