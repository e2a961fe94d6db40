// Package shortcode implements the embedded-shortcode expansion pass applied to every
// rendered body: [name attr="v"] and [name attr="v"]inner[/name].
package shortcode

import (
	"context"
	"html"
	"regexp"
	"strings"
)

// Handler renders one shortcode. inner is the raw enclosed body ("" for self-closing tags);
// handlers that want nested shortcodes expanded call Expand on it themselves.
type Handler func(ctx context.Context, attrs map[string]string, inner string) string

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

func (r *Registry) Register(name string, h Handler) {
	r.handlers[strings.ToLower(name)] = h
}

// With returns a copy of r with h registered under name; r itself is left untouched.
// Used to bind request-scoped handlers.
func (r *Registry) With(name string, h Handler) *Registry {
	out := &Registry{handlers: make(map[string]Handler, len(r.handlers)+1)}
	for k, v := range r.handlers {
		out.handlers[k] = v
	}
	out.handlers[strings.ToLower(name)] = h
	return out
}

var (
	openTag  = regexp.MustCompile(`\[([a-zA-Z0-9_-]+)([^\]]*?)(/?)\]`)
	attrPair = regexp.MustCompile(`([a-zA-Z0-9_-]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
)

// Expand replaces every registered shortcode in body. Unknown shortcodes are left verbatim.
func (r *Registry) Expand(ctx context.Context, body string) string {
	if len(r.handlers) == 0 || !strings.Contains(body, "[") {
		return body
	}

	var b strings.Builder
	pos := 0
	for pos < len(body) {
		loc := openTag.FindStringSubmatchIndex(body[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		name := strings.ToLower(body[pos+loc[2] : pos+loc[3]])

		h, ok := r.handlers[name]
		if !ok {
			b.WriteString(body[pos:end])
			pos = end
			continue
		}

		attrs := ParseAttrs(body[pos+loc[4] : pos+loc[5]])
		selfClosing := loc[7] > loc[6]

		b.WriteString(body[pos:start])

		inner, next := "", end
		if !selfClosing {
			if innerEnd, after, ok := closingTag(body, end, body[pos+loc[2]:pos+loc[3]]); ok {
				inner = body[end:innerEnd]
				next = after
			}
		}

		b.WriteString(h(ctx, attrs, inner))
		pos = next
	}
	b.WriteString(body[pos:])
	return b.String()
}

// closingTag finds the [/name] that pairs with an opening tag ending at from.
// Same-name enclosing tags opened in between nest.
func closingTag(body string, from int, name string) (innerEnd, next int, ok bool) {
	closing := "[/" + name + "]"
	depth := 1
	pos := from
	for {
		i := strings.Index(body[pos:], closing)
		if i < 0 {
			return 0, 0, false
		}
		at := pos + i
		for _, m := range openTag.FindAllStringSubmatchIndex(body[pos:at], -1) {
			if body[pos+m[2]:pos+m[3]] == name && m[7] == m[6] {
				depth++
			}
		}
		depth--
		if depth == 0 {
			return at, at + len(closing), true
		}
		pos = at + len(closing)
	}
}

// ParseAttrs reads name="value", name='value' and name=value pairs. Names are lower-cased.
// Bodies are stored sanitized, so entity-encoded quotes are decoded first.
func ParseAttrs(s string) map[string]string {
	attrs := map[string]string{}
	for _, m := range attrPair.FindAllStringSubmatch(html.UnescapeString(s), -1) {
		val := m[2]
		if val == "" {
			val = m[3]
		}
		if val == "" {
			val = m[4]
		}
		attrs[strings.ToLower(m[1])] = val
	}
	return attrs
}
