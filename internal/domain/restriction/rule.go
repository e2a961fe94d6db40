package restriction

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Sentinels stored in a rule.
const (
	AnyProduct      = "any" // satisfied by any purchase at all
	AllPriceOptions = "all" // any price option of the product satisfies the rule
)

// Rule is one product (optionally one price option of it) a post is restricted to.
type Rule struct {
	Product     string `json:"product"`
	PriceOption string `json:"price_option,omitempty"`
}

// IsAny reports whether the rule is the "any product" sentinel.
func (r Rule) IsAny() bool {
	return strings.EqualFold(strings.TrimSpace(r.Product), AnyProduct)
}

// IsEmpty reports whether the rule names no product at all.
func (r Rule) IsEmpty() bool {
	return strings.TrimSpace(r.Product) == ""
}

// ProductID returns the numeric product id. False for "any", empty and malformed refs.
func (r Rule) ProductID() (uint, bool) {
	return parseID(r.Product)
}

// PriceOptionID returns the concrete price option id. False for "", "all" and malformed refs.
func (r Rule) PriceOptionID() (uint, bool) {
	if strings.EqualFold(strings.TrimSpace(r.PriceOption), AllPriceOptions) {
		return 0, false
	}
	return parseID(r.PriceOption)
}

// HasConcretePriceOption mirrors the stored form: anything but "" or "all".
func (r Rule) HasConcretePriceOption() bool {
	p := strings.TrimSpace(r.PriceOption)
	return p != "" && !strings.EqualFold(p, AllPriceOptions)
}

// UnmarshalJSON accepts ids stored either as strings or as numbers.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw struct {
		Product     json.RawMessage `json:"product"`
		PriceOption json.RawMessage `json:"price_option"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Product = rawToString(raw.Product)
	r.PriceOption = rawToString(raw.PriceOption)
	return nil
}

func rawToString(m json.RawMessage) string {
	if len(m) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(m, &n); err == nil {
		return n.String()
	}
	return ""
}

func parseID(s string) (uint, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
