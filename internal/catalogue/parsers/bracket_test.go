// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glitchcat/glitchcat/internal/catalogue"
)

func TestDecodeToken(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantValue string
		wantError string
		hasError  bool
	}{
		{name: "integer value keeps raw digits", token: "200(5)", wantValue: "200", wantError: "5", hasError: true},
		{name: "two decimals scale by 100", token: "0.10(2)", wantValue: "0.10", wantError: "0.02", hasError: true},
		{name: "one decimal scales by 10", token: "24.0(55)", wantValue: "24.0", wantError: "5.5", hasError: true},
		{name: "epoch", token: "55000.0(1)", wantValue: "55000.0", wantError: "0.1", hasError: true},
		{name: "exact decimal keeps trailing zero", token: "1.0(10)", wantValue: "1.0", wantError: "1.0", hasError: true},
		{name: "exponent counts as fractional characters", token: "1.0e-6(3)", wantValue: "1.0e-6", wantError: "0.0003", hasError: true},
		{name: "leading zeros in error", token: "3.14(05)", wantValue: "3.14", wantError: "0.05", hasError: true},
		{name: "unbracketed token unchanged", token: "-1e-15", wantValue: "-1e-15"},
		{name: "name unchanged", token: "J0534+2200", wantValue: "J0534+2200"},
		{name: "empty token", token: "", wantValue: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := DecodeToken(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, m.Value)
			assert.Equal(t, tt.wantError, m.Error)
			assert.Equal(t, tt.hasError, m.HasError)
		})
	}
}

func TestDecodeToken_Malformed(t *testing.T) {
	for _, tok := range []string{"1.0(5", "1.0()", "1.0(a)", "2(3)x", "1(2)(3)", "5(-1)"} {
		t.Run(tok, func(t *testing.T) {
			_, err := DecodeToken(tok)
			require.Error(t, err)
			assert.ErrorIs(t, err, catalogue.ErrMalformedBracket)
			assert.Contains(t, err.Error(), tok)
		})
	}
}

func TestDecodeToken_Idempotent(t *testing.T) {
	for _, tok := range []string{"24.0(55)", "200(5)", "plain"} {
		first, err := DecodeToken(tok)
		require.NoError(t, err)
		second, err := DecodeToken(tok)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestMeasurement_Float(t *testing.T) {
	m, err := DecodeToken("0.10(2)")
	require.NoError(t, err)

	v, err := m.Float()
	require.NoError(t, err)
	assert.InDelta(t, 0.10, v, 1e-12)

	e, ok, err := m.ErrorFloat()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 0.02, e, 1e-12)

	_, ok, err = Measurement{Value: "1"}.ErrorFloat()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpandErrors(t *testing.T) {
	positions := func(i int) bool { return i == 1 || i == 2 }

	out, err := ExpandErrors([]string{"A", "1.5(3)", "7", "Z"}, positions)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "1.5", "0.3", "7", "-", "Z"}, out)

	out, err = ExpandErrors([]string{"A", "7"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "7"}, out)
}

func TestExpandErrors_ReportsTokenIndex(t *testing.T) {
	_, err := ExpandErrors([]string{"A", "B", "3.0(x)"}, nil)
	require.Error(t, err)

	var pe *catalogue.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Index)
	assert.Equal(t, "3.0(x)", pe.Token)
}

func TestShiftDecimal(t *testing.T) {
	assert.Equal(t, "5", shiftDecimal("5", 0))
	assert.Equal(t, "0.5", shiftDecimal("5", 1))
	assert.Equal(t, "0.005", shiftDecimal("5", 3))
	assert.Equal(t, "12.34", shiftDecimal("1234", 2))
	assert.Equal(t, "0.12", shiftDecimal("012", 2))
}
