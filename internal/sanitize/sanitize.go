// Package sanitize filters user-authored markup before it is displayed.
//
// Sanitize is allowlist based: a fixed set of structural and text-formatting
// elements survive as live markup, script and style elements are removed
// together with their content, and every other tag is escaped so it renders
// as visible text. The transform is idempotent and never fails; input the
// tokenizer cannot make sense of comes out as escaped text.
//
// Sanitize is applied at render time only. Stored overlays keep the raw text
// the author typed.
package sanitize

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
)

// allowedElements are the element names that survive as live markup.
var allowedElements = map[string]bool{
	"a":          true,
	"b":          true,
	"blockquote": true,
	"br":         true,
	"code":       true,
	"em":         true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"hr":         true,
	"i":          true,
	"li":         true,
	"ol":         true,
	"p":          true,
	"pre":        true,
	"strong":     true,
	"ul":         true,
}

// droppedElements are removed together with everything they contain.
var droppedElements = map[string]bool{
	"script": true,
	"style":  true,
}

// urlAttributes carry URLs and are checked for executable schemes.
var urlAttributes = map[string]bool{
	"href": true,
	"src":  true,
}

var unsafeSchemes = []string{"javascript:", "vbscript:", "data:"}

// Allowed reports whether name is an allowlisted element.
func Allowed(name string) bool {
	return allowedElements[strings.ToLower(name)]
}

// Sanitize returns markup with only allowlisted elements left live.
func Sanitize(markup string) string {
	var out strings.Builder
	out.Grow(len(markup))

	z := nethtml.NewTokenizer(strings.NewReader(markup))
	skipping := "" // name of the dropped element whose content is being skipped

	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			// A tag cut off by end of input is still in Raw; keep it as text.
			if skipping == "" {
				out.WriteString(escapeText(string(z.Raw())))
			}
			return out.String()
		}

		raw := string(z.Raw())
		if skipping != "" {
			if tt == nethtml.EndTagToken {
				name, _ := z.TagName()
				if string(name) == skipping {
					skipping = ""
				}
			}
			continue
		}

		switch tt {
		case nethtml.TextToken:
			out.WriteString(escapeText(raw))
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			tok := z.Token()
			switch {
			case droppedElements[tok.Data]:
				// The tokenizer treats script/style content as raw text even
				// for <script/>, so skip until the matching end tag.
				skipping = tok.Data
			case allowedElements[tok.Data]:
				out.WriteString(renderStartTag(tok, tt == nethtml.SelfClosingTagToken))
			default:
				out.WriteString(html.EscapeString(raw))
			}
		case nethtml.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case droppedElements[tag]:
				// Stray closing tag with no opener.
			case allowedElements[tag]:
				out.WriteString("</" + tag + ">")
			default:
				out.WriteString(html.EscapeString(raw))
			}
		case nethtml.CommentToken, nethtml.DoctypeToken:
			// Dropped.
		}
	}
}

// escapeText normalizes text so that exactly the five special characters
// are escaped. Unescaping first keeps the transform idempotent.
func escapeText(s string) string {
	if s == "" {
		return ""
	}
	return html.EscapeString(html.UnescapeString(s))
}

func renderStartTag(tok nethtml.Token, selfClosing bool) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tok.Data)
	for _, attr := range tok.Attr {
		if !attributeAllowed(attr) {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Val))
		b.WriteByte('"')
	}
	if selfClosing {
		b.WriteString(" /")
	}
	b.WriteByte('>')
	return b.String()
}

func attributeAllowed(attr nethtml.Attribute) bool {
	key := attr.Key
	if attr.Namespace != "" || key == "" {
		return false
	}
	if strings.HasPrefix(key, "on") || key == "style" {
		return false
	}
	if !validAttributeName(key) {
		return false
	}
	if urlAttributes[key] {
		v := strings.ToLower(strings.Join(strings.Fields(attr.Val), ""))
		for _, scheme := range unsafeSchemes {
			if strings.HasPrefix(v, scheme) {
				return false
			}
		}
	}
	return true
}

// validAttributeName rejects names the tokenizer accepted but that would not
// re-tokenize to the same attribute (quotes, '<', '=' and the like).
func validAttributeName(key string) bool {
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == ':', r == '.':
		default:
			return false
		}
	}
	return true
}
