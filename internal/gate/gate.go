// Package gate swaps restricted post bodies for a purchase notice.
package gate

import (
	"context"
	"html"
	"strings"

	"content-restriction/internal/domain/access"
	"content-restriction/internal/domain/restriction"
	"content-restriction/internal/render/shortcode"

	"github.com/microcosm-cc/bluemonday"
)

// RuleSource reads the restriction set stored for a post.
type RuleSource interface {
	GetRestriction(ctx context.Context, postID uint) restriction.Rules
}

type Gate struct {
	evaluator  *access.Evaluator
	rules      RuleSource
	shortcodes *shortcode.Registry
	policy     *bluemonday.Policy
}

func New(evaluator *access.Evaluator, rules RuleSource, shortcodes *shortcode.Registry) *Gate {
	if shortcodes == nil {
		shortcodes = shortcode.NewRegistry()
	}
	return &Gate{
		evaluator:  evaluator,
		rules:      rules,
		shortcodes: shortcodes,
		policy:     bluemonday.UGCPolicy(),
	}
}

// Filter renders the body of post postID for v.
func (g *Gate) Filter(ctx context.Context, v access.Viewer, postID uint, body string) string {
	reg := g.scoped(v, postID)
	if postID == 0 {
		return reg.Expand(ctx, body)
	}
	return g.filterRestricted(ctx, reg, v, body, g.rules.GetRestriction(ctx, postID), "", postID, "")
}

// FilterRestricted gates body behind rules. A non-empty message replaces the computed
// denial message and class is appended to the notice's css classes. The shortcode pass
// runs on whichever body is returned.
func (g *Gate) FilterRestricted(ctx context.Context, v access.Viewer, body string, rules restriction.Rules, message string, postID uint, class string) string {
	return g.filterRestricted(ctx, g.scoped(v, postID), v, body, rules, message, postID, class)
}

func (g *Gate) filterRestricted(ctx context.Context, reg *shortcode.Registry, v access.Viewer, body string, rules restriction.Rules, message string, postID uint, class string) string {
	// Whoever can edit the post always sees it.
	if rules.Restricted() && !g.evaluator.Identity.CanEdit(ctx, v, postID) {
		d := g.evaluator.Evaluate(ctx, v, rules, postID)
		if !d.Granted {
			if strings.TrimSpace(message) != "" {
				d.Message = g.policy.Sanitize(message)
			}
			body = Notice(d.Message, class)
		}
	}
	return reg.Expand(ctx, body)
}

// Notice wraps a denial message in the styled block that replaces restricted content.
func Notice(message, class string) string {
	classes := strings.TrimSpace("edd_cr_message " + html.EscapeString(class))
	return `<div class="` + classes + `">` + message + `</div>`
}

// scoped binds the restrict shortcode to the viewer and post being rendered.
func (g *Gate) scoped(v access.Viewer, postID uint) *shortcode.Registry {
	var reg *shortcode.Registry
	reg = g.shortcodes.With(RestrictShortcode, func(ctx context.Context, attrs map[string]string, inner string) string {
		rules := RulesFromAttrs(attrs)
		return g.filterRestricted(ctx, reg, v, inner, rules, attrs["message"], postID, attrs["class"])
	})
	return reg
}
