package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/beauty-booking/internal/validators"
	"github.com/BruksfildServices01/beauty-booking/internal/workflow"
)

// ======================================================
// HANDLER
// ======================================================

type BookingSessionHandler struct {
	flow bookingFlow
}

func NewBookingSessionHandler(flow bookingFlow) *BookingSessionHandler {
	return &BookingSessionHandler{flow: flow}
}

// ======================================================
// REQUESTS
// ======================================================

type StartSessionRequest struct {
	ProviderID        uint `json:"provider_id" binding:"required"`
	ServiceOfferingID uint `json:"service_offering_id" binding:"required"`
}

// Date and time are checked by the workflow so a bad value lands on the
// session's error overlay.
type SelectDateRequest struct {
	Date string `json:"date"`
}

type SelectTimeRequest struct {
	Time string `json:"time"`
}

type SubmitDetailsRequest struct {
	Address         string   `json:"address" binding:"max=255"`
	Notes           string   `json:"notes" binding:"max=255"`
	IsRecurring     bool     `json:"is_recurring"`
	Frequency       string   `json:"frequency"`
	OccurrenceCount int      `json:"occurrence_count"`
	DistanceMiles   *float64 `json:"distance_miles"`
}

type PaymentSuccessRequest struct {
	PaymentReference string `json:"payment_reference"`
}

type PaymentFailureRequest struct {
	Message string `json:"message"`
}

// ======================================================
// ENDPOINTS
// ======================================================

func (h *BookingSessionHandler) Start(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	v, err := h.flow.Start(c.Request.Context(), booking.StartInput{
		ProviderID:        req.ProviderID,
		ServiceOfferingID: req.ServiceOfferingID,
		CustomerID:        userID(c),
	})
	respond(c, http.StatusCreated, v, err)
}

func (h *BookingSessionHandler) Get(c *gin.Context) {
	v, err := h.flow.Get(c.Request.Context(), c.Param("id"), userID(c))
	respond(c, http.StatusOK, v, err)
}

func (h *BookingSessionHandler) SelectDate(c *gin.Context) {
	var req SelectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	v, err := h.flow.SelectDate(c.Request.Context(), c.Param("id"), userID(c), req.Date)
	respond(c, http.StatusOK, v, err)
}

func (h *BookingSessionHandler) SelectTime(c *gin.Context) {
	var req SelectTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	v, err := h.flow.SelectTime(c.Request.Context(), c.Param("id"), userID(c), req.Time)
	respond(c, http.StatusOK, v, err)
}

func (h *BookingSessionHandler) SubmitDetails(c *gin.Context) {
	var req SubmitDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	v, err := h.flow.SubmitDetails(c.Request.Context(), c.Param("id"), userID(c), workflow.Details{
		Address:         req.Address,
		Notes:           req.Notes,
		Recurring:       req.IsRecurring,
		Frequency:       scheduling.Frequency(req.Frequency),
		OccurrenceCount: req.OccurrenceCount,
		DistanceMiles:   req.DistanceMiles,
	})
	respond(c, http.StatusOK, v, err)
}

func (h *BookingSessionHandler) Back(c *gin.Context) {
	v, err := h.flow.Back(c.Request.Context(), c.Param("id"), userID(c))
	respond(c, http.StatusOK, v, err)
}

func (h *BookingSessionHandler) PaymentSuccess(c *gin.Context) {
	var req PaymentSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	v, err := h.flow.PaymentSucceeded(c.Request.Context(), c.Param("id"), userID(c), req.PaymentReference)
	respond(c, http.StatusOK, v, err)
}

func (h *BookingSessionHandler) PaymentFailure(c *gin.Context) {
	var req PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.FromError(c, validators.FieldError(err))
		return
	}

	v, err := h.flow.PaymentFailed(c.Request.Context(), c.Param("id"), userID(c), req.Message)
	respond(c, http.StatusOK, v, err)
}

func respond(c *gin.Context, status int, v *booking.View, err error) {
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(status, v)
}
