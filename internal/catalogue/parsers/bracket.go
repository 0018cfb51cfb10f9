// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"strconv"
	"strings"

	"github.com/glitchcat/glitchcat/internal/catalogue"
)

// Measurement is a nominal value with an optional uncertainty, both kept as
// the literal text that appeared in the catalogue.
type Measurement struct {
	Value    string
	Error    string
	HasError bool
}

// Float parses the nominal value.
func (m Measurement) Float() (float64, error) {
	return strconv.ParseFloat(m.Value, 64)
}

// ErrorFloat parses the uncertainty. ok is false when there is none.
func (m Measurement) ErrorFloat() (v float64, ok bool, err error) {
	if !m.HasError {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(m.Error, 64)
	return v, err == nil, err
}

// DecodeToken splits a "V(E)" token into its value and uncertainty. The
// uncertainty digits apply to the last decimal places of V: when V has d
// characters after its '.', E is divided by 10^d. Tokens without '(' are
// returned unchanged with no uncertainty.
func DecodeToken(tok string) (Measurement, error) {
	open := strings.IndexByte(tok, '(')
	if open < 0 {
		return Measurement{Value: tok}, nil
	}

	value := tok[:open]
	rest := tok[open+1:]
	if !strings.HasSuffix(rest, ")") {
		return Measurement{}, &catalogue.ParseError{Line: -1, Index: -1, Token: tok, Message: "missing closing bracket", Err: catalogue.ErrMalformedBracket}
	}
	digits := strings.TrimSuffix(rest, ")")
	if !isDigits(digits) {
		return Measurement{}, &catalogue.ParseError{Line: -1, Index: -1, Token: tok, Message: "uncertainty is not a run of digits", Err: catalogue.ErrMalformedBracket}
	}

	decimals := 0
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		decimals = len(value) - dot - 1
	}
	return Measurement{Value: value, Error: shiftDecimal(digits, decimals), HasError: true}, nil
}

// ExpandErrors decodes every token of one record into a value token followed,
// when present, by its uncertainty. Unbracketed tokens at positions where
// sentinel reports true are followed by catalogue.ErrorSentinel so the row
// keeps one error column per value-bearing field. A nil sentinel never adds one.
func ExpandErrors(tokens []string, sentinel func(i int) bool) ([]string, error) {
	out := make([]string, 0, 2*len(tokens))
	for i, tok := range tokens {
		m, err := DecodeToken(tok)
		if err != nil {
			pe := err.(*catalogue.ParseError)
			pe.Index = i
			return nil, pe
		}
		out = append(out, m.Value)
		switch {
		case m.HasError:
			out = append(out, m.Error)
		case sentinel != nil && sentinel(i):
			out = append(out, catalogue.ErrorSentinel)
		}
	}
	return out, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// shiftDecimal renders digits / 10^places exactly, e.g. ("55", 1) -> "5.5"
// and ("2", 2) -> "0.02".
func shiftDecimal(digits string, places int) string {
	if places <= 0 {
		return digits
	}
	if len(digits) <= places {
		digits = strings.Repeat("0", places-len(digits)+1) + digits
	}
	whole := strings.TrimLeft(digits[:len(digits)-places], "0")
	if whole == "" {
		whole = "0"
	}
	return whole + "." + digits[len(digits)-places:]
}
