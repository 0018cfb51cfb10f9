// SPDX-License-Identifier: Apache-2.0

// Package parsers implements the catalogue formats: the JBCA HTML glitch
// table, the fixed-column ATNF glitch.db and the keyed ATNF psrcat.db.
package parsers

import "github.com/glitchcat/glitchcat/internal/catalogue"

// NewDefaultPipeline builds a Pipeline with every parser registered. The HTML
// and keyed parsers sniff content, so they are registered before glitchdb,
// which only matches on its hint or file name.
func NewDefaultPipeline(policy EndPolicy) *catalogue.Pipeline {
	return catalogue.NewPipeline(
		NewJBCAParser(),
		NewPsrcatParser(policy),
		NewGlitchDBParser(),
	)
}
