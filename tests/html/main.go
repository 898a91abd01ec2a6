//go:build gofuzz
// +build gofuzz

package fuzz

import (
	"bytes"

	"github.com/tdewolff/minhtml"
)

var cfgs = []*minhtml.Cfg{
	nil,
	{KeepClosingTags: true, KeepHTMLAndHeadOpeningTags: true, KeepComments: true},
	{EnsureSpecCompliantUnquotedAttributeValues: true, KeepSpacesBetweenAttributes: true},
	{PreserveBraceTemplateSyntax: true, PreserveChevronPercentTemplateSyntax: true},
	{RemoveBangs: true, RemoveProcessingInstructions: true, DoNotMinifyDoctype: true},
}

// Fuzz minifies the input with several configurations. The output may never be longer than
// the input and minifying it again must not change it.
func Fuzz(data []byte) int {
	for _, c := range cfgs {
		out := minhtml.Minify(data, c)
		if len(data) < len(out) {
			panic("output longer than input")
		} else if !bytes.Equal(minhtml.Minify(out, c), out) {
			panic("output not stable")
		}
	}
	return 1
}
