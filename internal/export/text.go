package export

import (
	"fmt"
	"strings"
)

const dateLayout = "02/01/2006"

type TextSink struct {
	Issuer string
	Money  *MoneyFormatter
}

func (s *TextSink) Render(doc Document) (Artifact, error) {
	q := doc.Quotation
	c := doc.Contact

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	if s.Issuer != "" {
		line("%s", s.Issuer)
	}
	line("Cotización %s", q.Number)
	line("Fecha: %s", q.CreatedAt.Format(dateLayout))
	line("Válida hasta: %s (%d días)", q.ValidUntil.Format(dateLayout), q.ValidUntilDays)
	line("")

	line("Empresa: %s", c.CompanyName)
	line("Contacto: %s", c.ContactName)
	line("Email: %s", c.Email)
	if c.Phone != "" {
		line("Teléfono: %s", c.Phone)
	}
	if c.Address != "" {
		line("Dirección: %s", c.Address)
	}
	if c.RFC != "" {
		line("RFC: %s", c.RFC)
	}
	line("")

	line("Producto cotizado:")
	line("- Nombre: %s", q.ProductName)
	line("- SKU: %s", q.SKU)
	if q.SelectedColor != "" {
		line("- Color: %s", q.SelectedColor)
	}
	if q.SelectedSize != "" {
		line("- Talla: %s", q.SelectedSize)
	}
	line("- Cantidad: %d", q.Quantity)
	line("- Tipo de cliente: %s", businessLabel(q.BusinessType))
	line("")

	for _, row := range summaryRows(q, s.Money) {
		line("%-36s %s", row.label+":", row.value)
	}

	return Artifact{
		Filename:    filename(q, FormatText),
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(b.String()),
	}, nil
}
