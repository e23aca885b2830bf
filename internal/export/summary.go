package export

import (
	"fmt"

	"github.com/safar/promo-store/internal/pricing"
)

type summaryRow struct {
	label string
	value string
	total bool
}

// summaryRows is the price table shared by the text and PDF renderers.
func summaryRows(q pricing.Quotation, money *MoneyFormatter) []summaryRow {
	d := q.Discounts
	return []summaryRow{
		{label: "Precio unitario", value: money.Format(q.UnitPrice)},
		{label: "Subtotal", value: money.Format(q.Subtotal)},
		{label: "Descuento por volumen", value: fmt.Sprintf("%d%%", d.QuantityPct)},
		{label: "Descuento por tipo de cliente", value: fmt.Sprintf("%d%%", d.BusinessPct)},
		{label: "Descuento por lealtad", value: fmt.Sprintf("%d%%", d.LoyaltyPct)},
		{label: fmt.Sprintf("Descuento total (%d%%)", d.TotalPct), value: money.Format(q.DiscountAmount.Neg())},
		{label: "Subtotal con descuento", value: money.Format(q.DiscountedSubtotal)},
		{label: fmt.Sprintf("IVA (%s)", Percent(q.TaxRate)), value: money.Format(q.Tax)},
		{label: "Total", value: money.Format(q.Total), total: true},
	}
}
