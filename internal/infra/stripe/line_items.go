package stripe

import (
	stripego "github.com/stripe/stripe-go/v75"
)

// PriceIDs returns the Stripe price of every line item of an expanded session.
func PriceIDs(s *stripego.CheckoutSession) []string {
	if s == nil || s.LineItems == nil {
		return nil
	}
	out := make([]string, 0, len(s.LineItems.Data))
	for _, li := range s.LineItems.Data {
		if li == nil || li.Price == nil || li.Price.ID == "" {
			continue
		}
		out = append(out, li.Price.ID)
	}
	return out
}

// CustomerEmail prefers the email typed at checkout over the customer record.
func CustomerEmail(s *stripego.CheckoutSession) string {
	if s == nil {
		return ""
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	if s.Customer != nil && s.Customer.Email != "" {
		return s.Customer.Email
	}
	return s.CustomerEmail
}
