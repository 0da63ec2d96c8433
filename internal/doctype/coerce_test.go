package doctype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
	}{
		{"$1,234.56", 1234.56},
		{"85.5%", 85.5},
		{"-42.10", -42.10},
		{"USD 99", 99},
		{1234.56, 1234.56},
		{float32(2.5), 2.5},
		{7, 7},
		{int64(12), 12},
		{"", 0},
		{nil, 0},
	}
	for _, tc := range cases {
		got, err := Float(tc.in)
		require.NoError(t, err, "input %v", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "input %v", tc.in)
	}
}

func TestFloatRejectsNonNumeric(t *testing.T) {
	_, err := Float([]string{"x"})
	assert.Error(t, err)

	_, err = Float("1.2.3")
	assert.Error(t, err)
}

func TestInt(t *testing.T) {
	got, err := Int("128 rooms")
	require.NoError(t, err)
	assert.Equal(t, 128, got)

	got, err = Int(85.9)
	require.NoError(t, err)
	assert.Equal(t, 85, got)
}

func TestDate(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"2024-03-15", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"03/15/2024", "2024-03-15"},
		{"Mar 15, 2024", "2024-03-15"},
		{"15 Mar 2024", "2024-03-15"},
		{time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), "2024-03-15"},
		{"", ""},
		{nil, ""},
	}
	for _, tc := range cases {
		got, err := Date(tc.in)
		require.NoError(t, err, "input %v", tc.in)
		assert.Equal(t, tc.want, got, "input %v", tc.in)
	}
}

func TestDateRejectsGarbage(t *testing.T) {
	_, err := Date("not a date")
	assert.Error(t, err)
}

func TestStr(t *testing.T) {
	assert.Equal(t, "hello", Str("  hello "))
	assert.Equal(t, "1234.5", Str(1234.5))
	assert.Equal(t, "", Str(nil))
}
