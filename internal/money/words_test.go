package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestInWords(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "Zero Only"},
		{"1", "Indian Rupee One Only"},
		{"19", "Indian Rupee Nineteen Only"},
		{"45", "Indian Rupee Forty Five Only"},
		{"100", "Indian Rupee One Hundred Only"},
		{"999", "Indian Rupee Nine Hundred Ninety Nine Only"},
		{"5000", "Indian Rupee Five Thousand Only"},
		{"123456", "Indian Rupee One Lakh Twenty Three Thousand Four Hundred Fifty Six Only"},
		{"10000000", "Indian Rupee One Crore Only"},
		{"12345678", "Indian Rupee One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Only"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, InWords(decimal.RequireFromString(tc.in)), "words for %s", tc.in)
	}
}

func TestInWordsIgnoresPaise(t *testing.T) {
	require.Equal(t, "Indian Rupee Five Thousand Only", InWords(decimal.RequireFromString("5000.75")))
}
