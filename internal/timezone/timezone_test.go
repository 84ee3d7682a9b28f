package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	assert.NotNil(t, loc)

	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Not/AZone"))
	assert.True(t, IsValid("UTC"))
}

func TestParseDateAndStartOfDay(t *testing.T) {
	d, err := ParseDate("2025-01-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), d)

	noon := time.Date(2025, 1, 31, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, d, StartOfDay(noon, time.UTC))

	_, err = ParseDate("31/01/2025", time.UTC)
	assert.Error(t, err)
}
