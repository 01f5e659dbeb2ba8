// Package offer computes deterministic prices, discounts and installments for
// a business catalog and formats them for the reply locale. The language model
// only ever sees these formatted strings.
package offer

import (
	"github.com/kvothesson/chat-saas-gateway/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compute returns one offer per catalog product, keyed by SKU in catalog order.
// Installments are present only when the profile has a plan with a positive count.
func Compute(profile *domain.BusinessProfile, locale string) *domain.Offers {
	money := MoneyFor(locale, profile.Currency)
	out := domain.NewOffers(len(profile.Catalog))

	for _, p := range profile.Catalog {
		o := domain.Offer{
			SKU:           p.SKU,
			Title:         p.Title,
			BasePrice:     p.Price,
			FormattedBase: money.Format(p.Price),
			Discounts:     make([]domain.DiscountOffer, 0, len(profile.Payments.Discounts)),
		}

		for _, d := range profile.Payments.Discounts {
			v := DiscountedPrice(p.Price, d.Percent)
			o.Discounts = append(o.Discounts, domain.DiscountOffer{
				Key:       d.Key,
				Label:     d.Label,
				Value:     v,
				Formatted: money.Format(v),
			})
		}

		if plan := profile.Payments.Installments; plan != nil && plan.Count > 0 {
			each := PerInstallment(p.Price, plan.Count)
			o.Installments = &domain.InstallmentOffer{
				Label:          plan.Label,
				PerInstallment: each,
				Count:          plan.Count,
				FormattedEach:  money.Format(each),
			}
		}

		out.Put(o)
	}
	return out
}

// DiscountedPrice is round(base * (1 - percent/100)), half-up to whole units.
func DiscountedPrice(base int64, percent float64) int64 {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(percent).Div(hundred))
	return decimal.NewFromInt(base).Mul(factor).Round(0).IntPart()
}

// PerInstallment is round(base / count), half-up to whole units. Interest-free.
func PerInstallment(base int64, count int) int64 {
	return decimal.NewFromInt(base).Div(decimal.NewFromInt(int64(count))).Round(0).IntPart()
}
