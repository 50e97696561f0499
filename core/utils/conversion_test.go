package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "abc", want: "abc"},
		{name: "integral float", in: float64(42), want: "42"},
		{name: "fractional float", in: 12.5, want: "12.5"},
		{name: "bool true", in: true, want: "TRUE"},
		{name: "bool false", in: false, want: "FALSE"},
		{name: "int", in: 7, want: "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat("12.5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	f, ok = ToFloat(" 3 ")
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = ToFloat(float64(2))
	assert.True(t, ok)
	assert.Equal(t, 2.0, f)

	_, ok = ToFloat("abc")
	assert.False(t, ok)

	_, ok = ToFloat(nil)
	assert.False(t, ok)
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool("1"))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool(float64(1)))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool(nil))
}
