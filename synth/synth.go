// Package synth flattens catalog entities into plain-text documents used
// as embedding input. Output is a pure function of the input: fields are
// emitted in a fixed order and empty optional fields are omitted, so
// identical source data always yields byte-identical content.
package synth

import (
	"fmt"
	"strings"

	"github.com/luxmx/lucerna/catalog"
)

// Product renders a product-level document: name, code, category,
// description and finishes, in that order.
func Product(p catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Producto: %s\n", p.Name)
	fmt.Fprintf(&b, "Código: %s", p.Code)
	if p.Category != nil {
		fmt.Fprintf(&b, "\nCategoría: %s", p.Category.Name)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\nDescripción: %s", p.Description)
	}
	if len(p.Finishes) > 0 {
		fmt.Fprintf(&b, "\nAcabados: %s", joinFinishes(p.Finishes))
	}
	return b.String()
}

// Variant renders a variant-level document: parent product name and code,
// variant name and code, included components as presence-only flags, then
// the available light tones.
func Variant(p catalog.Product, v catalog.Variant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Producto: %s\n", p.Name)
	fmt.Fprintf(&b, "Código de producto: %s\n", p.Code)
	fmt.Fprintf(&b, "Variante: %s\n", v.Name)
	fmt.Fprintf(&b, "Código de variante: %s", v.Code)
	if v.IncludesLED {
		b.WriteString("\nIncluye LED")
	}
	if v.IncludesDriver {
		b.WriteString("\nIncluye Driver")
	}
	if len(v.LightTones) > 0 {
		fmt.Fprintf(&b, "\nTonos de luz: %s", joinTones(v.LightTones))
	}
	return b.String()
}

// Configuration renders a configuration-level document: a compound
// "product - variant" label, the SKU, then wattage and lumens on a shared
// line. Voltage and dimensions each add a line only when present.
func Configuration(p catalog.Product, v catalog.Variant, c catalog.Configuration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Producto: %s - %s\n", p.Name, v.Name)
	fmt.Fprintf(&b, "SKU: %s\n", c.SKU)
	fmt.Fprintf(&b, "Potencia: %dW, Lúmenes: %d", c.Watts, c.Lumens)
	if c.Voltage != "" {
		fmt.Fprintf(&b, "\nVoltaje: %s", c.Voltage)
	}
	if c.DiameterMM > 0 {
		fmt.Fprintf(&b, "\nDiámetro: %dmm", c.DiameterMM)
	}
	if c.LengthMM > 0 {
		fmt.Fprintf(&b, "\nLargo: %dmm", c.LengthMM)
	}
	if c.WidthMM > 0 {
		fmt.Fprintf(&b, "\nAncho: %dmm", c.WidthMM)
	}
	return b.String()
}

// Accessory renders an accessory-level document. Every block past name and
// code is optional.
func Accessory(a catalog.Accessory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Accesorio: %s\n", a.Name)
	fmt.Fprintf(&b, "Código: %s", a.Code)
	if a.Description != "" {
		fmt.Fprintf(&b, "\nDescripción: %s", a.Description)
	}
	if a.Watts > 0 {
		fmt.Fprintf(&b, "\nPotencia: %dW", a.Watts)
	}
	if a.Voltage != "" {
		fmt.Fprintf(&b, "\nVoltaje: %s", a.Voltage)
	}
	if len(a.LightTones) > 0 {
		fmt.Fprintf(&b, "\nTonos de luz compatibles: %s", joinTones(a.LightTones))
	}
	if len(a.Finishes) > 0 {
		fmt.Fprintf(&b, "\nAcabados: %s", joinFinishes(a.Finishes))
	}
	return b.String()
}

func joinFinishes(finishes []catalog.Finish) string {
	names := make([]string, len(finishes))
	for i, f := range finishes {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

// joinTones renders tone names with a Kelvin annotation when known,
// e.g. "Cálido (3000K), Neutro".
func joinTones(tones []catalog.LightTone) string {
	parts := make([]string, len(tones))
	for i, t := range tones {
		if t.Kelvin > 0 {
			parts[i] = fmt.Sprintf("%s (%dK)", t.Name, t.Kelvin)
		} else {
			parts[i] = t.Name
		}
	}
	return strings.Join(parts, ", ")
}
