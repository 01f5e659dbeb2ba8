// Package prompt assembles the grounding instruction sent to the language model.
//
// The instruction only carries pre-formatted amounts. Raw numeric offer state
// never reaches the model, so it has nothing to recompute.
package prompt

import (
	"fmt"
	"strings"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
)

// Build renders the persona, the hard rules, the closing template and the
// catalog section for one request.
func Build(profile *domain.BusinessProfile, locale string, offers *domain.Offers) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Eres un agente comercial del negocio \"%s\". Habla en %s. Tono: %s.\n\n", profile.Name, locale, profile.Tone.Style)

	b.WriteString("Reglas:\n")
	b.WriteString("- Usa EXCLUSIVAMENTE la información de catálogo y de ofertas calculadas que te paso. No inventes stock, precios ni tiempos.\n")
	b.WriteString("- Si falta información clave, pide SOLO un dato adicional de manera breve.\n")
	b.WriteString("- Formatea como chat amigable estilo WhatsApp, con bullets y emojis moderados. Evita párrafos largos.\n")
	b.WriteString("- Cuando menciones precios, utiliza los números ya FORMATEADOS provistos y NO recalcules.\n")
	b.WriteString(closing(profile, offers))

	if p := policies(profile.Policies); p != "" {
		b.WriteString("\nPOLÍTICAS:\n")
		b.WriteString(p)
	}

	b.WriteString("\nCATÁLOGO RELEVANTE (con ofertas):")
	for _, o := range offers.All() {
		writeOffer(&b, o)
	}
	return b.String()
}

// PricingNote joins the stock and disclaimer policies, in that order.
func PricingNote(p domain.Policies) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{p.Stock, p.Disclaimer} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func closing(profile *domain.BusinessProfile, offers *domain.Offers) string {
	line := fmt.Sprintf("- Cierra con: \"%s\".", profile.Tone.Signoff)
	if note := PricingNote(profile.Policies); note != "" && offers.Len() > 0 {
		line += fmt.Sprintf(" Si hablaste de precios, añade: \"%s\".", note)
	}
	return line + "\n"
}

func policies(p domain.Policies) string {
	var b strings.Builder
	if p.Delivery != "" {
		fmt.Fprintf(&b, "- Envíos: %s\n", p.Delivery)
	}
	if p.Returns != "" {
		fmt.Fprintf(&b, "- Cambios y devoluciones: %s\n", p.Returns)
	}
	return b.String()
}

func writeOffer(b *strings.Builder, o domain.Offer) {
	fmt.Fprintf(b, "\n- %s · %s", o.SKU, o.Title)
	fmt.Fprintf(b, "\n  Precio base: %s", o.FormattedBase)
	for _, d := range o.Discounts {
		fmt.Fprintf(b, "\n  • %s: %s", d.Label, d.Formatted)
	}
	if inst := o.Installments; inst != nil {
		fmt.Fprintf(b, "\n  • %s: %d pagos de %s", inst.Label, inst.Count, inst.FormattedEach)
	}
}
