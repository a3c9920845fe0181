package quotation_test

import (
	"testing"

	"github.com/bathcraft/washroom-api/internal/quotation"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹0.00", quotation.FormatINR(0))
	assert.Equal(t, "₹999.00", quotation.FormatINR(999))
	assert.Equal(t, "₹14,160.00", quotation.FormatINR(14160))
	assert.Equal(t, "₹12,34,567.50", quotation.FormatINR(1234567.5))
	assert.Equal(t, "-₹500.25", quotation.FormatINR(-500.25))
}

func TestRoundPaise(t *testing.T) {
	assert.Equal(t, 7473.6, quotation.RoundPaise(7473.599999999))
	assert.Equal(t, 10.13, quotation.RoundPaise(10.125))
}

func TestRoundOff(t *testing.T) {
	rounded, adj := quotation.RoundOff(14159.6)
	assert.Equal(t, 14160.0, rounded)
	assert.InDelta(t, 0.4, adj, 1e-9)

	rounded, adj = quotation.RoundOff(60993.4)
	assert.Equal(t, 60993.0, rounded)
	assert.InDelta(t, -0.4, adj, 1e-9)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "18%", quotation.FormatPercent(18))
	assert.Equal(t, "12.5%", quotation.FormatPercent(12.5))
}
