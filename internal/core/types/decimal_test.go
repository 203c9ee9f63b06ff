package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityParse(t *testing.T) {
	cases := []struct {
		in   string
		want Quantity
	}{
		{"0", 0},
		{"1", 10000},
		{"1.5", 15000},
		{"0.0001", 1},
		{"-2.25", -22500},
		{"+3", 30000},
		{".5", 5000},
		{"1.23456", 12345}, // extra digits truncated, not rounded
		{" 7 ", 70000},
	}
	for _, tc := range cases {
		got, err := NewQuantityFromString(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestQuantityParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3"} {
		_, err := NewQuantityFromString(in)
		assert.Error(t, err, in)
	}
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "1.5000", MustQuantity("1.5").String())
	assert.Equal(t, "-2.2500", MustQuantity("-2.25").String())
	assert.Equal(t, "0.0000", Quantity(0).String())
}

func TestQuantityDecimal(t *testing.T) {
	// 1.5 * 2.00 must come out exact through the decimal bridge.
	got := MustQuantity("1.5").Decimal().Mul(MustMoney("2.00"))
	assert.True(t, got.Equal(MustMoney("3.00")), "got %s", got)
}
