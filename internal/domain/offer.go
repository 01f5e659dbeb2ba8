package domain

// ============================================================
// Offers: computed per request, never persisted
// ============================================================

// Offer is the priced, locale-formatted view of one catalog product.
type Offer struct {
	SKU           string            `json:"sku"`
	Title         string            `json:"title"`
	BasePrice     int64             `json:"base_price"`
	FormattedBase string            `json:"formatted_base"`
	Discounts     []DiscountOffer   `json:"discounts"`
	Installments  *InstallmentOffer `json:"installments,omitempty"`
}

// DiscountOffer is a discounted price for one configured discount.
type DiscountOffer struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Value     int64  `json:"value"`
	Formatted string `json:"formatted"`
}

// InstallmentOffer is the per-payment amount of an installment plan.
type InstallmentOffer struct {
	Label          string `json:"label"`
	PerInstallment int64  `json:"perInstallment"`
	Count          int    `json:"count"`
	FormattedEach  string `json:"formattedEach"`
}

// Offers maps SKUs to offers while keeping catalog order.
type Offers struct {
	order []string
	bySKU map[string]Offer
}

// NewOffers creates an empty offer set sized for n products.
func NewOffers(n int) *Offers {
	return &Offers{
		order: make([]string, 0, n),
		bySKU: make(map[string]Offer, n),
	}
}

// Put stores an offer. A repeated SKU keeps its first position and takes the new values.
func (o *Offers) Put(offer Offer) {
	if _, ok := o.bySKU[offer.SKU]; !ok {
		o.order = append(o.order, offer.SKU)
	}
	o.bySKU[offer.SKU] = offer
}

// Get returns the offer for a SKU.
func (o *Offers) Get(sku string) (Offer, bool) {
	offer, ok := o.bySKU[sku]
	return offer, ok
}

// All returns the offers in catalog order.
func (o *Offers) All() []Offer {
	out := make([]Offer, 0, len(o.order))
	for _, sku := range o.order {
		out = append(out, o.bySKU[sku])
	}
	return out
}

// Len returns the number of distinct SKUs.
func (o *Offers) Len() int {
	return len(o.order)
}
