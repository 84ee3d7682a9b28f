package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/config"
	"github.com/BruksfildServices01/beauty-booking/internal/httperr"
)

func TestNewSelectsGateway(t *testing.T) {
	log := zap.NewNop()

	g, err := New(&config.Config{PaymentProvider: "none"}, log)
	require.NoError(t, err)
	assert.Equal(t, "none", g.Name())

	_, err = New(&config.Config{PaymentProvider: "mercadopago"}, log)
	assert.Error(t, err, "missing token")

	_, err = New(&config.Config{PaymentProvider: "stripe"}, log)
	assert.Error(t, err, "missing key")

	g, err = New(&config.Config{PaymentProvider: "stripe", StripeSecretKey: "sk_test_123"}, log)
	require.NoError(t, err)
	assert.Equal(t, "stripe", g.Name())

	_, err = New(&config.Config{PaymentProvider: "paypal"}, log)
	assert.Error(t, err)
}

func TestNoopGateway(t *testing.T) {
	ctx := context.Background()
	g := Noop{}

	assert.True(t, httperr.IsKind(g.Verify(ctx, " ", 100), httperr.KindPayment))
	assert.NoError(t, g.Verify(ctx, "ref-1", 100))

	r, err := g.Refund(ctx, "ref-1", 2750)
	require.NoError(t, err)
	assert.Equal(t, int64(2750), r.AmountCents)
}

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, int64(5500), toCents(55.0))
	assert.Equal(t, int64(1999), toCents(19.99))
	assert.Equal(t, 27.5, fromCents(2750))
}

func TestMercadoPagoRejectsNonNumericReference(t *testing.T) {
	g, err := NewMercadoPago("TEST-token")
	require.NoError(t, err)

	err = g.Verify(context.Background(), "abc", 100)
	assert.True(t, httperr.IsKind(err, httperr.KindPayment))
}
