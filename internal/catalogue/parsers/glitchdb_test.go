// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glitchcat/glitchcat/internal/catalogue"
)

const glitchHeaderText = "# ATNF glitch table\n# NAME  JNAME  MJD  DF/F  DF1/F1  Q  TD  REF\n#---------------------------------------\n"

func TestParseGlitchRows(t *testing.T) {
	text := glitchHeaderText +
		"J0000+0000 J0000+0000.0 55000.0(1) 1.0e-6(3) 0.10(2) 0.5 24.0(55) abc01\n" +
		"\n" +
		"B0531+21  J0534+2200  58064.555 0.4(1) 200(5) - - shw+18\n"

	rows, err := ParseGlitchRows(text)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"J0000+0000", "J0000+0000.0",
		"55000.0", "0.1",
		"1.0e-6", "0.0003",
		"0.10", "0.02",
		"0.5", "-",
		"24.0", "5.5",
		"abc01",
	}, rows[0])
	assert.Len(t, rows[0], len(GlitchHeader))

	assert.Equal(t, []string{
		"B0531+21", "J0534+2200",
		"58064.555", "-",
		"0.4", "0.1",
		"200", "5",
		"-", "-",
		"-", "-",
		"shw+18",
	}, rows[1])
}

func TestParseGlitchRows_HeaderOnly(t *testing.T) {
	rows, err := ParseGlitchRows(glitchHeaderText)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = ParseGlitchRows("one line")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseGlitchRows_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  error
		wantLine int
	}{
		{
			name:     "short row",
			body:     "J1 J1 55000.0(1) 1e-6 0.1 0.5 24.0(55) ref\nJ2 J2 55000.0\n",
			wantErr:  catalogue.ErrRowWidth,
			wantLine: 1,
		},
		{
			name:     "long row",
			body:     "\nJ1 J1 55000.0 1e-6 0.1 0.5 24.0 ref extra\n",
			wantErr:  catalogue.ErrRowWidth,
			wantLine: 1,
		},
		{
			name:     "malformed bracket",
			body:     "J1 J1 55000.0(1 1e-6 0.1 0.5 24.0 ref\n",
			wantErr:  catalogue.ErrMalformedBracket,
			wantLine: 0,
		},
		{
			name:     "bracket on exempt column shifts width",
			body:     "J1 J1 55000.0 1e-6 0.1 0.5 24.0 ref(1)\n",
			wantErr:  catalogue.ErrRowWidth,
			wantLine: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGlitchRows(glitchHeaderText + tt.body)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var pe *catalogue.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantLine, pe.Line)
		})
	}
}

func TestGlitchDBParser_CanHandle(t *testing.T) {
	p := NewGlitchDBParser()

	assert.True(t, p.CanHandle(catalogue.Source{Format: "glitchdb"}))
	assert.True(t, p.CanHandle(catalogue.Source{ID: "psrcat_tar/glitch.db"}))
	assert.False(t, p.CanHandle(catalogue.Source{ID: "psrcat.db"}))
}

func TestGlitchDBParser_Parse(t *testing.T) {
	p := NewGlitchDBParser()
	src := catalogue.Source{
		Content: []byte(glitchHeaderText + "J0000+0000 J0000+0000.0 55000.0(1) 1.0e-6(3) 0.10(2) 0.5 24.0(55) abc01\n"),
		ID:      "glitch.db",
	}

	table, err := p.Parse(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, GlitchHeader, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, catalogue.Text("55000.0"), table.Cell(0, "Glitch Epoch"))
	assert.Equal(t, catalogue.Text("24.0"), table.Cell(0, "T_d"))
	assert.Equal(t, catalogue.Text("5.5"), table.Rows[0][11])
}

func TestGlitchDBParser_ParseErrorNamesSource(t *testing.T) {
	p := NewGlitchDBParser()
	_, err := p.Parse(context.Background(), catalogue.Source{
		Content: []byte(glitchHeaderText + "J1 J1\n"),
		ID:      "glitch.db",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glitch.db line 0")
}
