// Package receipt lists the posts a purchase unlocked, for the confirmation page and
// the purchase email.
package receipt

import (
	"context"
	"fmt"
	"html"
	"strings"

	"content-restriction/internal/domain/content"
	"content-restriction/internal/infra/mailer"

	"go.uber.org/zap"
)

// PageListTag is the email placeholder rendered by PageList.
const PageListTag = "page_list"

type PageStore interface {
	PaymentProductIDs(ctx context.Context, paymentID uint) ([]uint, error)
	GetProtectedPosts(ctx context.Context, productID uint) ([]uint, error)
	PostsByIDs(ctx context.Context, ids []uint) ([]content.Post, error)
	PostPermalink(post content.Post) string
}

type Extender struct {
	store PageStore
	log   *zap.Logger
}

func NewExtender(store PageStore, log *zap.Logger) *Extender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extender{store: store, log: log}
}

// RestrictedPages returns the published posts unlocked by the products of a payment,
// deduplicated and ordered by id.
func (e *Extender) RestrictedPages(ctx context.Context, paymentID uint) ([]content.Post, error) {
	if paymentID == 0 {
		return nil, nil
	}

	productIDs, err := e.store.PaymentProductIDs(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("payment products: %w", err)
	}

	seen := map[uint]struct{}{}
	var postIDs []uint
	for _, productID := range productIDs {
		ids, err := e.store.GetProtectedPosts(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("protected posts of product %d: %w", productID, err)
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			postIDs = append(postIDs, id)
		}
	}
	if len(postIDs) == 0 {
		return nil, nil
	}

	posts, err := e.store.PostsByIDs(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	out := posts[:0]
	for _, p := range posts {
		if p.Status == content.StatusPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

// ReceiptSection renders the "Pages" block of the order confirmation view.
// Empty when the payment unlocked nothing.
func (e *Extender) ReceiptSection(ctx context.Context, paymentID uint) (string, error) {
	posts, err := e.RestrictedPages(ctx, paymentID)
	if err != nil || len(posts) == 0 {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<h3>Pages</h3><table><tbody><tr><td>`)
	b.WriteString(`<ul class="edd-cr-receipt">`)
	for _, p := range posts {
		fmt.Fprintf(&b, `<li><a href="%s" class="edd_download_file_link">%s</a></li>`,
			html.EscapeString(e.store.PostPermalink(p)), html.EscapeString(p.Title))
	}
	b.WriteString(`</ul></td></tr></tbody></table>`)
	return b.String(), nil
}

// PageList renders the {page_list} email placeholder. Failures render nothing.
func (e *Extender) PageList(ctx context.Context, paymentID uint) string {
	posts, err := e.RestrictedPages(ctx, paymentID)
	if err != nil {
		e.log.Warn("page list unavailable", zap.Uint("payment_id", paymentID), zap.Error(err))
		return ""
	}
	if len(posts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div class="edd_cr_accessible_pages">Pages</div>`)
	b.WriteString(`<ul>`)
	for _, p := range posts {
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`,
			html.EscapeString(e.store.PostPermalink(p)), html.EscapeString(p.Title))
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// RegisterEmailTags adds {page_list} to the purchase email placeholders.
func (e *Extender) RegisterEmailTags(tags *mailer.Tags) {
	tags.Register(PageListTag, "Shows a list of restricted pages the customer has access to", e.PageList)
}
