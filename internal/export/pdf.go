package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

type PDFSink struct {
	Issuer string
	Money  *MoneyFormatter
}

func (s *PDFSink) Render(doc Document) (Artifact, error) {
	q := doc.Quotation
	c := doc.Contact

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Cotización "+q.Number, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Cotización"))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	if s.Issuer != "" {
		pdf.Cell(0, 5, tr(s.Issuer))
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, tr(fmt.Sprintf("No. %s  -  %s", q.Number, q.CreatedAt.Format(dateLayout))))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Válida hasta %s (%d días)", q.ValidUntil.Format(dateLayout), q.ValidUntilDays)))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, tr("Datos de la empresa"))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	for _, f := range []struct{ label, value string }{
		{"Empresa", c.CompanyName},
		{"Contacto", c.ContactName},
		{"Email", c.Email},
		{"Teléfono", c.Phone},
		{"Dirección", c.Address},
		{"RFC", c.RFC},
	} {
		if f.value == "" {
			continue
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %s", f.label, f.value)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, tr("Producto cotizado"))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	details := []string{
		"Nombre: " + q.ProductName,
		"SKU: " + q.SKU,
	}
	if q.SelectedColor != "" {
		details = append(details, "Color: "+q.SelectedColor)
	}
	if q.SelectedSize != "" {
		details = append(details, "Talla: "+q.SelectedSize)
	}
	details = append(details,
		fmt.Sprintf("Cantidad: %d", q.Quantity),
		"Tipo de cliente: "+businessLabel(q.BusinessType),
	)
	for _, d := range details {
		pdf.Cell(0, 6, tr("- "+d))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	for _, row := range summaryRows(q, s.Money) {
		style := ""
		if row.total {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(110, 7, tr(row.label), "B", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, tr(row.value), "B", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("render pdf: %w", err)
	}

	return Artifact{
		Filename:    filename(q, FormatPDF),
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}
