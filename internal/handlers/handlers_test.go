package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/beauty-booking/internal/dto"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
	"github.com/BruksfildServices01/beauty-booking/internal/middleware"
	"github.com/BruksfildServices01/beauty-booking/internal/models"
	"github.com/BruksfildServices01/beauty-booking/internal/scheduling"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/beauty-booking/internal/usecase/reservation"
	"github.com/BruksfildServices01/beauty-booking/internal/validators"
	"github.com/BruksfildServices01/beauty-booking/internal/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
	validators.Register()
}

// ======================================================
// STUBS
// ======================================================

type createFunc func(reservation.CreateReservationInput) (*reservation.CreateReservationResult, error)

func (f createFunc) Execute(_ context.Context, in reservation.CreateReservationInput) (*reservation.CreateReservationResult, error) {
	return f(in)
}

type attachFunc func(reservation.AttachPaymentInput) ([]models.Reservation, error)

func (f attachFunc) Execute(_ context.Context, in reservation.AttachPaymentInput) ([]models.Reservation, error) {
	return f(in)
}

type cancelFunc func(reservation.CancelReservationInput) (*reservation.CancelReservationResult, error)

func (f cancelFunc) Execute(_ context.Context, in reservation.CancelReservationInput) (*reservation.CancelReservationResult, error) {
	return f(in)
}

type completeFunc func(providerID, id uint) (*models.Reservation, error)

func (f completeFunc) Execute(_ context.Context, providerID, id uint) (*models.Reservation, error) {
	return f(providerID, id)
}

type dayFunc func(providerID uint, date time.Time) ([]dto.ReservationListDTO, error)

func (f dayFunc) Execute(_ context.Context, providerID uint, date time.Time) ([]dto.ReservationListDTO, error) {
	return f(providerID, date)
}

type monthFunc func(providerID uint, year int, month time.Month) ([]dto.ReservationListDTO, error)

func (f monthFunc) Execute(_ context.Context, providerID uint, year int, month time.Month) ([]dto.ReservationListDTO, error) {
	return f(providerID, year, month)
}

type availabilityFunc func(reservation.AvailabilityInput) (*reservation.AvailabilityResult, error)

func (f availabilityFunc) Execute(_ context.Context, in reservation.AvailabilityInput) (*reservation.AvailabilityResult, error) {
	return f(in)
}

type busyFunc func(providerID uint, date string) ([]reservation.BusyInterval, error)

func (f busyFunc) Execute(_ context.Context, providerID uint, date string) ([]reservation.BusyInterval, error) {
	return f(providerID, date)
}

type quoteFunc func(reservation.QuoteInput) (*reservation.QuoteResult, error)

func (f quoteFunc) Execute(_ context.Context, in reservation.QuoteInput) (*reservation.QuoteResult, error) {
	return f(in)
}

// ======================================================
// HELPERS
// ======================================================

// asUser stands in for AuthMiddleware.
func asUser(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func reservationRouter(h *ReservationHandler) *gin.Engine {
	r := gin.New()
	r.POST("/reservations", asUser(500, middleware.RoleCustomer), h.Create)
	r.PATCH("/reservations/:id/payment", asUser(500, middleware.RoleCustomer), h.AttachPayment)
	r.POST("/reservations/:id/cancel", asUser(500, middleware.RoleCustomer), h.Cancel)
	r.PATCH("/me/reservations/:id/complete", asUser(1, middleware.RoleProvider), h.Complete)
	r.POST("/me/reservations/:id/cancel", asUser(1, middleware.RoleProvider), h.Cancel)
	r.GET("/me/reservations", asUser(1, middleware.RoleProvider), h.ListByDate)
	r.GET("/me/reservations/month", asUser(1, middleware.RoleProvider), h.ListByMonth)
	return r
}

const createBody = `{
	"provider_id": 1,
	"service_offering_id": 10,
	"date": "2025-06-10",
	"start_time": "10:00",
	"address": "12 Elm St"
}`

// ======================================================
// RESERVATIONS
// ======================================================

func TestCreateReservationEndpoint(t *testing.T) {
	var got reservation.CreateReservationInput
	id := uint(41)
	h := &ReservationHandler{create: createFunc(func(in reservation.CreateReservationInput) (*reservation.CreateReservationResult, error) {
		got = in
		return &reservation.CreateReservationResult{
			ReservationID:   id,
			TotalPriceCents: 6000,
			TravelFeeCents:  1000,
			Occurrences:     []reservation.OccurrenceOutcome{{Date: "2025-06-10", Status: reservation.OccurrenceBooked, ReservationID: &id}},
		}, nil
	})}

	w := do(reservationRouter(h), http.MethodPost, "/reservations", createBody)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(500), got.CustomerID)
	assert.Equal(t, "10:00", got.StartTime)

	body := decode(t, w)
	assert.Equal(t, float64(41), body["reservation_id"])
	assert.Equal(t, float64(6000), body["total_price_cents"])
}

func TestCreateReservationErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"bad json", `{`, nil, http.StatusBadRequest, "invalid_request"},
		{"bad time", strings.Replace(createBody, `"10:00"`, `"10am"`, 1), nil, http.StatusBadRequest, "invalid_start_time"},
		{"bad frequency", strings.Replace(createBody, `"address"`, `"frequency": "daily", "address"`, 1), nil, http.StatusBadRequest, "invalid_frequency"},
		{"missing address", strings.Replace(createBody, `"12 Elm St"`, `""`, 1), nil, http.StatusBadRequest, "address_required"},
		{"conflict", createBody, httperr.ErrSlotConflict(), http.StatusConflict, "slot_no_longer_available"},
		{"policy", createBody, httperr.ErrPolicy("too_soon"), http.StatusUnprocessableEntity, "too_soon"},
		{"not found", createBody, httperr.ErrNotFound("service_offering_not_found"), http.StatusNotFound, "service_offering_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &ReservationHandler{create: createFunc(func(reservation.CreateReservationInput) (*reservation.CreateReservationResult, error) {
				return nil, tc.err
			})}

			w := do(reservationRouter(h), http.MethodPost, "/reservations", tc.body)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode(t, w)["error_code"])
		})
	}
}

func TestCreateSeriesWithNothingBooked(t *testing.T) {
	series := "s-1"
	h := &ReservationHandler{create: createFunc(func(reservation.CreateReservationInput) (*reservation.CreateReservationResult, error) {
		return &reservation.CreateReservationResult{
			SeriesID: &series,
			Occurrences: []reservation.OccurrenceOutcome{
				{Date: "2025-06-10", Status: reservation.OccurrenceConflict},
				{Date: "2025-06-17", Status: reservation.OccurrencePolicyViolation, Reason: "blackout"},
			},
		}, nil
	})}

	w := do(reservationRouter(h), http.MethodPost, "/reservations", createBody)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, decode(t, w)["occurrences"], 2)
}

func TestAttachPaymentEndpoint(t *testing.T) {
	h := &ReservationHandler{attach: attachFunc(func(in reservation.AttachPaymentInput) ([]models.Reservation, error) {
		if in.ActorRole != reservation.RoleCustomer {
			return nil, httperr.ErrNotFound("reservation_not_found")
		}
		if in.PaymentReference == "declined" {
			return nil, httperr.ErrPayment("Card declined by issuer.")
		}
		return []models.Reservation{{ID: in.ReservationID, Status: "confirmed"}}, nil
	})}
	r := reservationRouter(h)

	w := do(r, http.MethodPatch, "/reservations/41/payment", `{"payment_reference": "pay_1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = do(r, http.MethodPatch, "/reservations/41/payment", `{"payment_reference": "declined"}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "Card declined by issuer.", decode(t, w)["message"])

	w = do(r, http.MethodPatch, "/reservations/abc/payment", `{"payment_reference": "pay_1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/reservations/41/payment", `{}`)
	assert.Equal(t, "payment_reference_required", decode(t, w)["error_code"])
}

func TestCancelEndpoint(t *testing.T) {
	var got reservation.CancelReservationInput
	h := &ReservationHandler{cancel: cancelFunc(func(in reservation.CancelReservationInput) (*reservation.CancelReservationResult, error) {
		got = in
		return &reservation.CancelReservationResult{
			Reservation:       &models.Reservation{ID: in.ReservationID, Status: "cancelled"},
			RefundPercentage:  50,
			RefundTier:        scheduling.RefundPartial,
			RefundAmountCents: 3000,
			RefundStatus:      reservation.RefundIssued,
		}, nil
	})}
	r := reservationRouter(h)

	w := do(r, http.MethodPost, "/reservations/41/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(500), got.ActorID)
	assert.Equal(t, reservation.RoleCustomer, got.ActorRole)

	body := decode(t, w)
	assert.Equal(t, float64(50), body["refund_percentage"])
	assert.Equal(t, float64(3000), body["refund_amount_cents"])

	// a client supplied timestamp never reaches the use case
	w = do(r, http.MethodPost, "/reservations/41/cancel", `{"cancelled_at": "2025-06-01T16:00:00Z"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, got.CancelledAt)

	w = do(r, http.MethodPost, "/me/reservations/41/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(1), got.ActorID)
	assert.Equal(t, reservation.RoleProvider, got.ActorRole)
}

func TestCompleteEndpoint(t *testing.T) {
	h := &ReservationHandler{complete: completeFunc(func(providerID, id uint) (*models.Reservation, error) {
		if id == 2 {
			return nil, httperr.ErrPolicy("appointment_not_finished")
		}
		return &models.Reservation{ID: id, ProviderID: providerID, Status: "completed"}, nil
	})}
	r := reservationRouter(h)

	w := do(r, http.MethodPatch, "/me/reservations/1/complete", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["provider_id"])

	w = do(r, http.MethodPatch, "/me/reservations/2/complete", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListEndpoints(t *testing.T) {
	h := &ReservationHandler{
		byDate: dayFunc(func(providerID uint, date time.Time) ([]dto.ReservationListDTO, error) {
			return []dto.ReservationListDTO{{ID: 1, Status: "pending"}}, nil
		}),
		byMonth: monthFunc(func(providerID uint, year int, month time.Month) ([]dto.ReservationListDTO, error) {
			return nil, nil
		}),
	}
	r := reservationRouter(h)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/me/reservations?date=2025-06-10", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/me/reservations", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/me/reservations?date=10-06-2025", "").Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/me/reservations/month?year=2025&month=6", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/me/reservations/month?year=2025&month=13", "").Code)
}

// ======================================================
// PUBLIC
// ======================================================

func TestPublicEndpoints(t *testing.T) {
	h := &PublicHandler{
		availability: availabilityFunc(func(in reservation.AvailabilityInput) (*reservation.AvailabilityResult, error) {
			if in.Date == "" {
				return nil, httperr.ErrValidation("date", "date_required")
			}
			return &reservation.AvailabilityResult{Date: in.Date, Slots: []scheduling.SlotAvailability{
				{Start: scheduling.ClockOf(9, 0), End: scheduling.ClockOf(10, 0), Available: true},
			}}, nil
		}),
		busy: busyFunc(func(providerID uint, date string) ([]reservation.BusyInterval, error) {
			return []reservation.BusyInterval{{StartTime: "10:00", DurationMinutes: 60}}, nil
		}),
		quote: quoteFunc(func(in reservation.QuoteInput) (*reservation.QuoteResult, error) {
			q := scheduling.Quote(scheduling.PriceInput{BaseCents: 5000, DistanceMiles: in.DistanceMiles, Recurring: in.Recurring})
			return &reservation.QuoteResult{PerOccurrence: q, Occurrences: 1, SeriesTotalCents: q.TotalCents}, nil
		}),
	}

	r := gin.New()
	r.GET("/providers/:id/availability", h.Availability)
	r.GET("/providers/:id/reservations", h.BusyIntervals)
	r.GET("/providers/:id/quote", h.Quote)

	w := do(r, http.MethodGet, "/providers/1/availability?date=2025-06-10&service_offering_id=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode(t, w)["slots"].([]any)
	assert.Equal(t, "09:00", slots[0].(map[string]any)["start"])

	w = do(r, http.MethodGet, "/providers/1/availability?date=2025-06-10", "")
	assert.Equal(t, "service_offering_id_required", decode(t, w)["error_code"])

	w = do(r, http.MethodGet, "/providers/1/reservations?date=2025-06-10", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	assert.Equal(t, map[string]any{"start_time": "10:00", "duration_minutes": float64(60)}, data[0])

	w = do(r, http.MethodGet, "/providers/1/quote?service_offering_id=10&recurring=true&occurrence_count=4", "")
	require.Equal(t, http.StatusOK, w.Code)
	per := decode(t, w)["per_occurrence"].(map[string]any)
	assert.Equal(t, float64(500), per["discount_cents"])

	w = do(r, http.MethodGet, "/providers/1/quote?service_offering_id=10&distance_miles=far", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ======================================================
// BOOKING SESSIONS
// ======================================================

type stubFlow struct {
	bookingFlow
	lastDate string
	view     *booking.View
	err      error
}

func (s *stubFlow) SelectDate(_ context.Context, _ string, _ uint, date string) (*booking.View, error) {
	s.lastDate = date
	return s.view, s.err
}

func (s *stubFlow) PaymentFailed(_ context.Context, _ string, _ uint, _ string) (*booking.View, error) {
	return s.view, s.err
}

func TestBookingSessionEndpoints(t *testing.T) {
	sess := workflow.NewSession("s1", 1, 10, 500, time.Now())
	flow := &stubFlow{view: &booking.View{Session: sess}}
	h := NewBookingSessionHandler(flow)

	r := gin.New()
	r.POST("/booking-sessions/:id/date", asUser(500, middleware.RoleCustomer), h.SelectDate)
	r.POST("/booking-sessions/:id/payment/failure", asUser(500, middleware.RoleCustomer), h.PaymentFailure)

	w := do(r, http.MethodPost, "/booking-sessions/s1/date", `{"date": "2025-06-10"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-06-10", flow.lastDate)
	assert.Equal(t, "selecting_date", decode(t, w)["session"].(map[string]any)["step"])

	flow.err = httperr.ErrInvalidState("not_awaiting_payment")
	w = do(r, http.MethodPost, "/booking-sessions/s1/payment/failure", `{"message": "declined"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "not_awaiting_payment", decode(t, w)["error_code"])
}
