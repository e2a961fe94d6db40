package shortcode

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register("upper", func(ctx context.Context, _ map[string]string, inner string) string {
		return strings.ToUpper(inner)
	})
	r.Register("greet", func(_ context.Context, attrs map[string]string, _ string) string {
		return "hello " + attrs["name"]
	})
	return r
}

func TestExpandEnclosing(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, "a BODY b", r.Expand(context.Background(), "a [upper]body[/upper] b"))
}

func TestExpandSelfClosing(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, "<p>hello ann</p>", r.Expand(context.Background(), `<p>[greet name="ann"/]</p>`))
	assert.Equal(t, "hello bob!", r.Expand(context.Background(), `[greet name=bob]!`))
}

func TestExpandLeavesUnknownShortcodes(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, "[gallery id=\"3\"] hello x", r.Expand(context.Background(), `[gallery id="3"] [greet name='x']`))
}

func TestExpandNoShortcodes(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, "<div>plain</div>", r.Expand(context.Background(), "<div>plain</div>"))
	assert.Equal(t, "[upper]x", NewRegistry().Expand(context.Background(), "[upper]x"))
}

func TestParseAttrs(t *testing.T) {
	attrs := ParseAttrs(` ID="1,2" price_id='all' Class=wide`)
	assert.Equal(t, map[string]string{"id": "1,2", "price_id": "all", "class": "wide"}, attrs)
}

func TestWithDoesNotMutate(t *testing.T) {
	r := newTestRegistry()
	scoped := r.With("bye", func(context.Context, map[string]string, string) string { return "bye" })

	assert.Equal(t, "bye hello ann", scoped.Expand(context.Background(), `[bye/] [greet name="ann"/]`))
	assert.Equal(t, "[bye/]", r.Expand(context.Background(), "[bye/]"))
}

func TestExpandNestedSameName(t *testing.T) {
	r := newTestRegistry()

	assert.Equal(t, "A[UPPER]B[/UPPER]C", r.Expand(context.Background(), "[upper]a[upper]b[/upper]c[/upper]"))
	assert.Equal(t, "X [UPPER/] Y!", r.Expand(context.Background(), "[upper]x [upper/] y[/upper]!"))
	assert.Equal(t, "A[/upper]", r.Expand(context.Background(), "[upper]a[/upper][/upper]"))
}

func TestParseAttrsEncodedQuotes(t *testing.T) {
	attrs := ParseAttrs(` id=&#34;3&#34; message=&#39;Members only&#39;`)
	assert.Equal(t, map[string]string{"id": "3", "message": "Members only"}, attrs)
}
