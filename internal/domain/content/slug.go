package content

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

/*
	Slug / permalink helpers
	------------------------
	- Responsible ONLY for:
	  • generating slugs
	  • de-duplicating them against a table
	  • building public URLs
	- No access logic here
*/

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// MakeSlug generates a URL-safe base slug from a title.
// Example: "The Field Guide!" -> "the-field-guide"
func MakeSlug(title string) string {
	base := strings.ToLower(strings.TrimSpace(title))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "post"
	}
	return base
}

// UniqueSlug appends -2, -3, ... until slug is free in model's table.
//
// IMPORTANT: pass db in, do NOT import the database package here (avoids import cycle).
func UniqueSlug(db *gorm.DB, model any, base string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("db is nil")
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		if err := db.Model(model).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Permalink builds the public URL of a post.
// Example: ("https://shop.example", "field-guide") -> "https://shop.example/posts/field-guide"
func Permalink(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/posts/" + slug
}

// ProductPermalink builds the public URL of a catalog product.
func ProductPermalink(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/products/" + slug
}
