package service

import "github.com/microcosm-cc/bluemonday"

// htmlPolicy mirrors the editor's output: basic formatting, lists, headings,
// code blocks, links, and images. Everything else, scripts above all, is
// stripped.
var htmlPolicy = newHTMLPolicy()

func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "strong", "em", "u", "ol", "ul", "li",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"blockquote", "code", "pre",
	)

	p.AllowAttrs("href", "target").OnElements("a")
	p.AllowAttrs("src", "alt", "width", "height", "class").OnElements("img")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)

	return p
}

// SanitizeHTML strips everything the policy does not allow from user-supplied
// rich text. Stored content is always sanitized; responses serve it as-is.
func SanitizeHTML(content string) string {
	return htmlPolicy.Sanitize(content)
}
