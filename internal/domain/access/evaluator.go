package access

import (
	"context"
	"strings"

	"content-restriction/internal/domain/restriction"
)

// OverrideFunc may replace the computed grant/deny outcome. It never sees or changes the message.
type OverrideFunc func(granted bool, v Viewer, rules restriction.Rules) bool

type Evaluator struct {
	Identity IdentityOracle
	Catalog  CatalogOracle

	// Forum enables the moderator shortcut (community/forum deployments).
	Forum bool

	Override OverrideFunc
}

func NewEvaluator(identity IdentityOracle, catalog CatalogOracle) *Evaluator {
	return &Evaluator{Identity: identity, Catalog: catalog}
}

// Evaluate decides whether v may see a post restricted by rules.
// postID is optional (0) and only feeds the editor shortcut.
func (e *Evaluator) Evaluate(ctx context.Context, v Viewer, rules restriction.Rules, postID uint) Decision {
	granted, message := e.evaluate(ctx, v, rules, postID)

	if e.Override != nil {
		granted = e.Override(granted, v, rules)
	}

	if granted {
		return Decision{Granted: true}
	}
	if message == "" {
		message = MessageRestricted
	}
	return Decision{Granted: false, Message: message}
}

func (e *Evaluator) evaluate(ctx context.Context, v Viewer, rules restriction.Rules, postID uint) (bool, string) {
	if len(rules) == 0 {
		return true, ""
	}

	if e.shortcut(ctx, v, postID) {
		return true, ""
	}

	required := make([]string, 0, len(rules))

	for _, r := range rules {
		if r.IsEmpty() {
			return true, ""
		}

		if r.IsAny() {
			if v.Authenticated() && e.Identity.HasAnyPurchase(ctx, v.ID) {
				return true, ""
			}
			// Nothing after an unsatisfied "any" can change the outcome.
			required = append(required, anyProductLabel)
			break
		}

		productID, ok := r.ProductID()
		if !ok || !e.Catalog.Exists(ctx, productID) {
			return true, ""
		}

		if v.Authenticated() {
			if author, ok := e.Identity.ProductAuthor(ctx, productID); ok && author == v.ID {
				return true, ""
			}
		}

		label, priceOptionID, matchable := e.requirement(ctx, r, productID)
		if matchable && v.Authenticated() && e.Identity.HasPurchased(ctx, v.ID, productID, priceOptionID) {
			return true, ""
		}
		required = append(required, label)
	}

	return false, denialMessage(len(rules), required)
}

func (e *Evaluator) shortcut(ctx context.Context, v Viewer, postID uint) bool {
	if e.Identity.HasCapability(ctx, v, CapManageOptions) {
		return true
	}
	if postID != 0 && e.Identity.CanEdit(ctx, v, postID) {
		return true
	}
	if e.Forum && e.Identity.HasCapability(ctx, v, CapModerate) {
		return true
	}
	return false
}

// requirement returns the display string for r and the price option a purchase must match
// (nil = any option of the product). matchable is false when r names a variant that no
// purchase can carry.
func (e *Evaluator) requirement(ctx context.Context, r restriction.Rule, productID uint) (label string, priceOptionID *uint, matchable bool) {
	permalink := e.Catalog.Permalink(ctx, productID)
	title := e.Catalog.Title(ctx, productID)

	if e.Catalog.HasVariablePricing(ctx, productID) && r.HasConcretePriceOption() {
		optionID, ok := r.PriceOptionID()
		if !ok {
			return productLink(permalink, title+" - "+strings.TrimSpace(r.PriceOption)), nil, false
		}
		name := e.Catalog.PriceOptionName(ctx, productID, optionID)
		return productLink(permalink, title+" - "+name), &optionID, true
	}

	return productLink(permalink, title), nil, true
}
