package prompt_test

import (
	"strings"
	"testing"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
	"github.com/kvothesson/chat-saas-gateway/internal/offer"
	"github.com/kvothesson/chat-saas-gateway/internal/prompt"
)

func sampleProfile() *domain.BusinessProfile {
	return &domain.BusinessProfile{
		ID:       "ring-jewelers",
		Name:     "Ring Jewelers",
		Currency: "ARS",
		Tone:     domain.Tone{Style: "cálido", Signoff: `¡Gracias por elegir "Ring"! 💍`},
		Policies: domain.Policies{
			Delivery:   "Envíos en 3 a 5 días hábiles.",
			Stock:      "Stock sujeto a confirmación.",
			Disclaimer: "Precios sujetos a cambio.",
		},
		Payments: domain.Payments{
			Discounts:    []domain.Discount{{Label: "Efectivo", Percent: 15, Key: "cash"}},
			Installments: &domain.InstallmentPlan{Count: 3, NoInterest: true, Label: "Cuotas sin interés"},
		},
		Catalog: []domain.Product{
			{SKU: "CINT-A", Title: "Cintillo A", Price: 633800},
			{SKU: "CINT-B", Title: "Cintillo B", Price: 720000},
		},
	}
}

func TestBuild_ContainsPersonaAndRules(t *testing.T) {
	p := sampleProfile()
	out := prompt.Build(p, "es-AR", offer.Compute(p, "es-AR"))

	for _, want := range []string{
		`negocio "Ring Jewelers"`,
		"Habla en es-AR",
		"Tono: cálido",
		"EXCLUSIVAMENTE",
		"No inventes stock, precios ni tiempos",
		"NO recalcules",
		"- Envíos: Envíos en 3 a 5 días hábiles.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestBuild_SignoffAndPricingNoteVerbatim(t *testing.T) {
	p := sampleProfile()
	out := prompt.Build(p, "es-AR", offer.Compute(p, "es-AR"))

	if !strings.Contains(out, p.Tone.Signoff) {
		t.Errorf("expected signoff %q verbatim", p.Tone.Signoff)
	}
	note := p.Policies.Stock + " " + p.Policies.Disclaimer
	if !strings.Contains(out, note) {
		t.Errorf("expected pricing note %q verbatim", note)
	}
}

func TestBuild_CatalogSection(t *testing.T) {
	p := sampleProfile()
	offers := offer.Compute(p, "es-AR")
	out := prompt.Build(p, "es-AR", offers)

	for _, o := range offers.All() {
		for _, want := range []string{
			"- " + o.SKU + " · " + o.Title,
			"Precio base: " + o.FormattedBase,
			"• Efectivo: " + o.Discounts[0].Formatted,
			"• Cuotas sin interés: 3 pagos de " + o.Installments.FormattedEach,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected catalog line %q", want)
			}
		}
	}
	if strings.Index(out, "CINT-A") > strings.Index(out, "CINT-B") {
		t.Error("expected catalog order to be preserved")
	}
}

func TestBuild_NeverLeaksRawAmounts(t *testing.T) {
	p := sampleProfile()
	out := prompt.Build(p, "en-US", offer.Compute(p, "en-US"))

	for _, raw := range []string{"633800", "538730", "720000", "240000"} {
		if strings.Contains(out, raw) {
			t.Errorf("expected raw amount %s to be absent from prompt", raw)
		}
	}
}

func TestBuild_EmptyCatalog(t *testing.T) {
	p := sampleProfile()
	p.Catalog = nil
	out := prompt.Build(p, "es-AR", offer.Compute(p, "es-AR"))

	if !strings.HasSuffix(out, "CATÁLOGO RELEVANTE (con ofertas):") {
		t.Errorf("expected empty catalog section, got tail %q", out[len(out)-60:])
	}
	if !strings.Contains(out, p.Tone.Signoff) {
		t.Error("expected signoff even without offers")
	}
	if strings.Contains(out, "Si hablaste de precios") {
		t.Error("expected no pricing note without offers")
	}
}

func TestPricingNote(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Policies
		want string
	}{
		{"both", domain.Policies{Stock: "a", Disclaimer: "b"}, "a b"},
		{"stock only", domain.Policies{Stock: "a"}, "a"},
		{"disclaimer only", domain.Policies{Disclaimer: "b"}, "b"},
		{"none", domain.Policies{Delivery: "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prompt.PricingNote(tt.in); got != tt.want {
				t.Errorf("PricingNote() = %q, want %q", got, tt.want)
			}
		})
	}
}
