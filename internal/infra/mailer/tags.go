package mailer

import (
	"context"
	"regexp"
	"sort"
)

// TagFunc renders an email placeholder for a completed payment.
type TagFunc func(ctx context.Context, paymentID uint) string

type Tag struct {
	Name        string
	Description string
	Render      TagFunc
}

// Tags is the registry of {placeholders} available to purchase emails.
type Tags struct {
	tags map[string]Tag
}

func NewTags() *Tags {
	return &Tags{tags: map[string]Tag{}}
}

func (t *Tags) Register(name, description string, fn TagFunc) {
	t.tags[name] = Tag{Name: name, Description: description, Render: fn}
}

// List returns the registered tags sorted by name.
func (t *Tags) List() []Tag {
	out := make([]Tag, 0, len(t.tags))
	for _, tag := range t.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var placeholder = regexp.MustCompile(`\{([a-z0-9_]+)\}`)

// Render replaces every registered {tag} in tmpl. Unknown placeholders are kept.
func (t *Tags) Render(ctx context.Context, tmpl string, paymentID uint) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		tag, ok := t.tags[m[1:len(m)-1]]
		if !ok {
			return m
		}
		return tag.Render(ctx, paymentID)
	})
}
