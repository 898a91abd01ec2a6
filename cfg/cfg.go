// Package cfg holds the options that control HTML minification.
package cfg

// Cfg is the configuration of a minification. It is never mutated by the minifier and can
// be shared between goroutines.
type Cfg struct {
	// DoNotMinifyDoctype keeps <!doctype html> as written instead of <!doctypehtml>.
	DoNotMinifyDoctype bool
	// EnsureSpecCompliantUnquotedAttributeValues quotes attribute values containing
	// characters that the WHATWG specification prohibits in unquoted values.
	EnsureSpecCompliantUnquotedAttributeValues bool
	// KeepClosingTags prevents omission of closing tags.
	KeepClosingTags bool
	// KeepComments keeps all comments.
	KeepComments bool
	// KeepHTMLAndHeadOpeningTags keeps <html> and <head> opening tags without attributes.
	KeepHTMLAndHeadOpeningTags bool
	// KeepInputTypeTextAttr keeps type=text on <input>.
	KeepInputTypeTextAttr bool
	// KeepSpacesBetweenAttributes writes a space between attributes even after quoted values.
	KeepSpacesBetweenAttributes bool
	// KeepSSIComments keeps SSI comments. These are always kept, the option exists for
	// compatibility with existing command lines.
	KeepSSIComments bool
	// MinifyCSS minifies <style> contents and style attributes.
	MinifyCSS bool
	// MinifyJS minifies <script> contents with a JS type.
	MinifyJS bool
	// PreserveBraceTemplateSyntax copies {{ }}, {# #} and {% %} through untouched.
	PreserveBraceTemplateSyntax bool
	// PreserveChevronPercentTemplateSyntax copies <% %> through untouched.
	PreserveChevronPercentTemplateSyntax bool
	// RemoveBangs removes all <!...> declarations, including the doctype.
	RemoveBangs bool
	// RemoveProcessingInstructions removes all <?...?> processing instructions.
	RemoveProcessingInstructions bool
}

// Default is the zero configuration used when nil is passed.
var Default = &Cfg{}

// Or returns c, or Default if c is nil.
func Or(c *Cfg) *Cfg {
	if c == nil {
		return Default
	}
	return c
}
