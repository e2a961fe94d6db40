package access

import (
	"fmt"
	"html"
	"strings"
)

const (
	MessageRestricted = "This content is restricted to buyers."

	anyProductLabel = "any product"
)

// productLink renders the display string of one required product.
func productLink(permalink, title string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(permalink), html.EscapeString(title))
}

func denialMessage(ruleCount int, required []string) string {
	if len(required) == 0 {
		return MessageRestricted
	}

	if ruleCount > 1 {
		var b strings.Builder
		b.WriteString("This content is restricted to buyers of:")
		b.WriteString("<ul>")
		for _, p := range required {
			b.WriteString("<li>")
			b.WriteString(p)
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
		return b.String()
	}

	return fmt.Sprintf("This content is restricted to buyers of %s.", required[0])
}
