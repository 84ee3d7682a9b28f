package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("create occurrence: %w", ErrSlotConflict())

	assert.True(t, IsKind(err, KindSlotConflict))
	assert.True(t, IsBusiness(err, "slot_no_longer_available"))
	assert.False(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(errors.New("boom"), KindValidation))
}

func TestIsExclusionConflict(t *testing.T) {
	assert.True(t, IsExclusionConflict(&pgconn.PgError{Code: "23P01"}))
	assert.True(t, IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "40001"})))
	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsExclusionConflict(errors.New("plain")))
}

func TestFromErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", ErrValidation("address", "missing_address"), http.StatusBadRequest, "missing_address"},
		{"conflict", ErrSlotConflict(), http.StatusConflict, "slot_no_longer_available"},
		{"pg conflict", &pgconn.PgError{Code: "23P01"}, http.StatusConflict, "slot_no_longer_available"},
		{"payment", ErrPayment("card declined"), http.StatusPaymentRequired, "payment_failed"},
		{"policy", ErrPolicy("too_soon"), http.StatusUnprocessableEntity, "too_soon"},
		{"not found", ErrNotFound("reservation_not_found"), http.StatusNotFound, "reservation_not_found"},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			FromError(c, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var body HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestPaymentMessageIsVerbatim(t *testing.T) {
	var be BusinessError
	require.True(t, errors.As(ErrPayment("Insufficient funds"), &be))
	assert.Equal(t, "Insufficient funds", be.Message)
}
