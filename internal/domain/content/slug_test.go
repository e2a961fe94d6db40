package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSlug(t *testing.T) {
	assert.Equal(t, "the-field-guide", MakeSlug("The Field  Guide!"))
	assert.Equal(t, "a-b", MakeSlug("--a -- b--"))
	assert.Equal(t, "post", MakeSlug("???"))
}

func TestPermalinks(t *testing.T) {
	assert.Equal(t, "https://shop.test/posts/guide", Permalink("https://shop.test/", "guide"))
	assert.Equal(t, "https://shop.test/products/guide", ProductPermalink("https://shop.test", "guide"))
}
