package domain

import "fmt"

// ============================================================
// Business profile
// ============================================================

// Defaults applied to profiles that omit the corresponding fields.
const (
	DefaultLocale   = "es-AR"
	DefaultCurrency = "ARS"
	DefaultStyle    = "amigable"
	DefaultSignoff  = "¡Gracias!"
)

// BusinessProfile is the merchant configuration that grounds every reply:
// catalog, pricing policy, tone and textual policies.
type BusinessProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DefaultLocale string    `json:"defaultLocale"`
	Currency      string    `json:"currency"`
	Tone          Tone      `json:"tone"`
	Policies      Policies  `json:"policies"`
	Payments      Payments  `json:"payments"`
	Catalog       []Product `json:"catalog"`
}

// Tone describes how the assistant talks and how it closes a reply.
type Tone struct {
	Style   string `json:"style"`
	Signoff string `json:"signoff"`
}

// Policies holds optional free-text policy strings.
type Policies struct {
	Delivery   string `json:"delivery,omitempty"`
	Returns    string `json:"returns,omitempty"`
	Disclaimer string `json:"disclaimer,omitempty"`
	Stock      string `json:"stock,omitempty"`
}

// Payments lists percentage discounts in display order and an optional installment plan.
type Payments struct {
	Discounts    []Discount       `json:"discounts"`
	Installments *InstallmentPlan `json:"installments,omitempty"`
}

// Discount is a percentage off the base price, e.g. cash or bank transfer.
type Discount struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
	Key     string  `json:"key"`
}

// InstallmentPlan splits the base price into Count payments.
// Installments are always computed interest-free.
type InstallmentPlan struct {
	Count      int    `json:"count"`
	NoInterest bool   `json:"noInterest"`
	Label      string `json:"label"`
}

// Product is one catalog entry. Price is in whole currency units.
type Product struct {
	SKU     string         `json:"sku"`
	Title   string         `json:"title"`
	Price   int64          `json:"price"`
	WeightG *int           `json:"weight_g,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// WithDefaults returns a copy of the profile with missing locale, currency
// and tone fields filled in. The catalog and payments are shared, not copied.
func (b BusinessProfile) WithDefaults() *BusinessProfile {
	if b.DefaultLocale == "" {
		b.DefaultLocale = DefaultLocale
	}
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	if b.Tone.Style == "" {
		b.Tone.Style = DefaultStyle
	}
	if b.Tone.Signoff == "" {
		b.Tone.Signoff = DefaultSignoff
	}
	return &b
}

// Validate checks the profile invariants: unique SKUs, non-negative prices,
// discount percentages within [0,100] and at least one installment.
func (b *BusinessProfile) Validate() error {
	if b.ID == "" {
		return &ErrValidation{Field: "id", Message: "is required"}
	}
	seen := make(map[string]bool, len(b.Catalog))
	for i, p := range b.Catalog {
		if p.SKU == "" {
			return &ErrValidation{Field: fmt.Sprintf("catalog[%d].sku", i), Message: "is required"}
		}
		if seen[p.SKU] {
			return &ErrValidation{Field: fmt.Sprintf("catalog[%d].sku", i), Message: "duplicated sku " + p.SKU}
		}
		seen[p.SKU] = true
		if p.Price < 0 {
			return &ErrValidation{Field: fmt.Sprintf("catalog[%d].price", i), Message: "must be >= 0"}
		}
	}
	for i, d := range b.Payments.Discounts {
		if d.Percent < 0 || d.Percent > 100 {
			return &ErrValidation{Field: fmt.Sprintf("payments.discounts[%d].percent", i), Message: "must be within [0,100]"}
		}
	}
	if inst := b.Payments.Installments; inst != nil && inst.Count < 1 {
		return &ErrValidation{Field: "payments.installments.count", Message: "must be >= 1"}
	}
	return nil
}
