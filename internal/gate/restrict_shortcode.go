package gate

import (
	"strings"

	"content-restriction/internal/domain/restriction"
)

// RestrictShortcode gates an inline fragment:
//
//	[restrict id="12,any" price_id="2" message="Members only" class="wide"]...[/restrict]
const RestrictShortcode = "restrict"

// RulesFromAttrs builds the rule set of a restrict shortcode. Every id shares price_id.
func RulesFromAttrs(attrs map[string]string) restriction.Rules {
	var rules restriction.Rules
	for _, id := range strings.Split(attrs["id"], ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		rules = append(rules, restriction.Rule{Product: id, PriceOption: attrs["price_id"]})
	}
	return rules.Normalize()
}
