package restriction

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// Rules is the ordered restriction set attached to a post.
// Insertion order is the display order of denial messages; empty means unrestricted.
//
// It is stored as an opaque jsonb column. Anything that does not decode is read back as
// an empty set: malformed restriction data must never break rendering.
type Rules []Rule

func (rs Rules) Restricted() bool { return len(rs) > 0 }

// ProductIDs returns the distinct numeric products referenced, in rule order.
func (rs Rules) ProductIDs() []uint {
	seen := make(map[uint]struct{}, len(rs))
	out := make([]uint, 0, len(rs))
	for _, r := range rs {
		id, ok := r.ProductID()
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Normalize trims refs and lower-cases sentinels. A rule without a product is kept
// (it lifts the restriction at evaluation time) with its price option cleared.
func (rs Rules) Normalize() Rules {
	out := make(Rules, 0, len(rs))
	for _, r := range rs {
		r.Product = strings.TrimSpace(r.Product)
		r.PriceOption = strings.TrimSpace(r.PriceOption)
		if r.Product == "" {
			out = append(out, Rule{})
			continue
		}
		if r.IsAny() {
			r.Product = AnyProduct
			r.PriceOption = ""
		}
		if strings.EqualFold(r.PriceOption, AllPriceOptions) {
			r.PriceOption = AllPriceOptions
		}
		out = append(out, r)
	}
	return out
}

func (rs Rules) Value() (driver.Value, error) {
	if rs == nil {
		rs = Rules{}
	}
	b, err := json.Marshal(rs)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (rs *Rules) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*rs = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		*rs = nil
		return nil
	}

	var out Rules
	if err := json.Unmarshal(data, &out); err != nil {
		*rs = nil
		return nil
	}
	*rs = out
	return nil
}

// GormDataType keeps AutoMigrate on jsonb.
func (Rules) GormDataType() string { return "jsonb" }
