package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/httpresp"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	create   reservationCreator
	attach   paymentAttacher
	cancel   reservationCanceller
	complete reservationCompleter
	byDate   dayLister
	byMonth  monthLister
}

func NewReservationHandler(
	create reservationCreator,
	attach paymentAttacher,
	cancel reservationCanceller,
	complete reservationCompleter,
	byDate dayLister,
	byMonth monthLister,
) *ReservationHandler {
	return &ReservationHandler{
		create:   create,
		attach:   attach,
		cancel:   cancel,
		complete: complete,
		byDate:   byDate,
		byMonth:  byMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	ProviderID        uint     `json:"provider_id" binding:"required"`
	ServiceOfferingID uint     `json:"service_offering_id" binding:"required"`
	Date              string   `json:"date" binding:"required,isodate"`
	StartTime         string   `json:"start_time" binding:"required,hhmm"`
	Address           string   `json:"address" binding:"required,max=255"`
	Notes             string   `json:"notes" binding:"max=255"`
	IsRecurring       bool     `json:"is_recurring"`
	Frequency         string   `json:"frequency" binding:"omitempty,frequency"`
	OccurrenceCount   int      `json:"occurrence_count" binding:"omitempty,occurrences"`
	DistanceMiles     *float64 `json:"distance_miles" binding:"omitempty,min=0"`
}

type AttachPaymentRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,max=100"`
	IncludeSeries    bool   `json:"include_series"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	res, err := h.create.Execute(c.Request.Context(), reservation.CreateReservationInput{
		ProviderID:        req.ProviderID,
		ServiceOfferingID: req.ServiceOfferingID,
		CustomerID:        userID(c),
		Date:              req.Date,
		StartTime:         req.StartTime,
		Address:           req.Address,
		Notes:             req.Notes,
		IsRecurring:       req.IsRecurring,
		Frequency:         scheduling.Frequency(req.Frequency),
		OccurrenceCount:   req.OccurrenceCount,
		DistanceMiles:     req.DistanceMiles,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	// a series with no bookable occurrence
	if len(res.Booked()) == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error_code":  "slot_no_longer_available",
			"message":     "None of the requested dates are available.",
			"occurrences": res.Occurrences,
		})
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// PAYMENT
// ======================================================

func (h *ReservationHandler) AttachPayment(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req AttachPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	confirmed, err := h.attach.Execute(c.Request.Context(), reservation.AttachPaymentInput{
		ReservationID:    id,
		PaymentReference: req.PaymentReference,
		IncludeSeries:    req.IncludeSeries,
		ActorID:          userID(c),
		ActorRole:        userRole(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, confirmed)
}

// ======================================================
// CANCEL
// ======================================================

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	// the cancellation time is the server clock
	out, err := h.cancel.Execute(c.Request.Context(), reservation.CancelReservationInput{
		ReservationID: id,
		ActorID:       userID(c),
		ActorRole:     userRole(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// COMPLETE
// ======================================================

func (h *ReservationHandler) Complete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	res, err := h.complete.Execute(c.Request.Context(), userID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// LIST
// ======================================================

func (h *ReservationHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.FromError(c, httperr.ErrValidation("date", "date_required"))
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.FromError(c, httperr.ErrValidation("date", "invalid_date"))
		return
	}

	rows, err := h.byDate.Execute(c.Request.Context(), userID(c), date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *ReservationHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.FromError(c, httperr.ErrValidation("year", "invalid_year"))
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.FromError(c, httperr.ErrValidation("month", "invalid_month"))
		return
	}

	rows, err := h.byMonth.Execute(c.Request.Context(), userID(c), year, time.Month(month))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"reservations": rows,
	})
}
