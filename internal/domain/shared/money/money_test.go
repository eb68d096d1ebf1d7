package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
	}{
		{"100.00", 10000},
		{"100", 10000},
		{"99.5", 9950},
		{"0.01", 1},
		{"-12.34", -1234},
		{".50", 50},
	}
	for _, tc := range cases {
		m, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.cents, m.Cents, tc.in)
	}
}

func TestParseRejectsMalformedAmounts(t *testing.T) {
	for _, in := range []string{"", "abc", "10.123", "10.x", "1.2.3"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestMulNightsIsExact(t *testing.T) {
	nightly := MustParse("100.00")
	total := nightly.MulNights(3)
	assert.Equal(t, int64(30000), total.Cents)
	assert.Equal(t, "300.00", total.String())

	// The classic float trap: 3 nights at 0.10 must be exactly 0.30.
	assert.Equal(t, "0.30", MustParse("0.10").MulNights(3).String())
}

func TestString(t *testing.T) {
	assert.Equal(t, "100.00", FromCents(10000).String())
	assert.Equal(t, "0.05", FromCents(5).String())
	assert.Equal(t, "-1.50", FromCents(-150).String())
}

func TestPredicates(t *testing.T) {
	assert.True(t, FromCents(0).IsZero())
	assert.False(t, FromCents(0).Positive())
	assert.True(t, FromCents(1).Positive())
	assert.False(t, FromCents(-1).Positive())
	assert.Equal(t, int64(150), FromCents(100).Add(FromCents(50)).Cents)
}
