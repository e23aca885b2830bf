package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func sampleDocument(t *testing.T) Document {
	t.Helper()

	now := func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	a := pricing.NewAssembler(nil, now)

	q, err := a.Build(pricing.Request{
		Product: &models.Product{
			ID:        7,
			SKU:       "TERM-500",
			Name:      "Termo acero 500ml",
			BasePrice: decimal.NewFromInt(299),
		},
		Quantity:      25,
		BusinessType:  pricing.BusinessEmpresa,
		SelectedColor: "Negro",
	})
	require.NoError(t, err)

	return Document{
		Quotation: q,
		Contact: Contact{
			CompanyName: "Regalos Corporativos SA",
			ContactName: "Ana Torres",
			Email:       "ana@regalos.mx",
			RFC:         "RCO010203AB1",
		},
	}
}

func englishMoney() *MoneyFormatter {
	return NewMoneyFormatter(language.English, "$")
}

func TestMoneyFormatter(t *testing.T) {
	m := englishMoney()

	assert.Equal(t, "$7,630.48", m.Format(decimal.RequireFromString("7630.48")))
	assert.Equal(t, "$897.00", m.Format(decimal.NewFromInt(897)))
	assert.Equal(t, "-$1,234.50", m.Format(decimal.RequireFromString("-1234.5")))
	assert.Equal(t, "$0.00", m.Format(decimal.Zero))
	assert.Equal(t, "$99,999,990,099,999.99", m.Format(decimal.RequireFromString("99999990099999.99")))
	assert.Equal(t, "$1,000,000.00", m.Format(decimal.NewFromInt(1000000)))
	assert.Equal(t, "$12.35", m.Format(decimal.RequireFromString("12.345")))
	assert.Equal(t, "$0.00", m.Format(decimal.RequireFromString("-0.001")))
}

func TestMoneyFormatterMexicanLocale(t *testing.T) {
	m := NewMoneyFormatter(DefaultLocale, "$")

	assert.Equal(t, "$1,234,567.89", m.Format(decimal.RequireFromString("1234567.89")))
}

func TestTextSinkPrintsLargeTotalsExactly(t *testing.T) {
	product := &models.Product{SKU: "BIG-1", Name: "Pedido masivo", BasePrice: decimal.RequireFromString("99999.99")}
	q, err := pricing.BuildQuotation(pricing.Request{Product: product, Quantity: 1000000001, BusinessType: pricing.BusinessParticular})
	require.NoError(t, err)

	art, err := (&TextSink{Issuer: "Promo Store", Money: englishMoney()}).Render(Document{Quotation: q})
	require.NoError(t, err)

	body := string(art.Body)
	assert.Contains(t, body, englishMoney().Format(q.Subtotal))
	assert.Contains(t, body, "$99,999,990,099,999.99")
	assert.Contains(t, body, "$96,279,990,468,279.99")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "16%", Percent(pricing.TaxRate))
}

func TestTextSink(t *testing.T) {
	doc := sampleDocument(t)
	sink := &TextSink{Issuer: "Promo Store", Money: englishMoney()}

	art, err := sink.Render(doc)
	require.NoError(t, err)

	assert.Equal(t, "cotizacion_TERM-500.txt", art.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", art.ContentType)

	body := string(art.Body)
	for _, want := range []string{
		"Promo Store",
		"Cotización " + doc.Quotation.Number,
		"Fecha: 14/03/2025",
		"Válida hasta: 13/04/2025 (30 días)",
		"Empresa: Regalos Corporativos SA",
		"RFC: RCO010203AB1",
		"- Color: Negro",
		"- Cantidad: 25",
		"- Tipo de cliente: Empresa",
		"$299.00",
		"$7,475.00",
		"Descuento total (12%):",
		"-$897.00",
		"$6,578.00",
		"IVA (16%):",
		"$1,052.48",
		"$7,630.48",
	} {
		assert.Contains(t, body, want)
	}

	assert.NotContains(t, body, "Teléfono")
	assert.NotContains(t, body, "Talla")
}

func TestJSONSinkPreservesAmounts(t *testing.T) {
	doc := sampleDocument(t)

	art, err := (&JSONSink{}).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "cotizacion_TERM-500.json", art.Filename)
	assert.Equal(t, "application/json", art.ContentType)

	var raw map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(art.Body, &raw))
	assert.Equal(t, "7630.48", raw["quotation"]["total"])
	assert.Equal(t, "1052.48", raw["quotation"]["tax"])
	assert.Equal(t, "Ana Torres", raw["contact"]["contact_name"])

	var decoded Document
	require.NoError(t, json.Unmarshal(art.Body, &decoded))
	assert.True(t, decoded.Quotation.Total.Equal(doc.Quotation.Total))
	assert.True(t, decoded.Quotation.DiscountAmount.Equal(doc.Quotation.DiscountAmount))
	assert.Equal(t, doc.Quotation.Discounts, decoded.Quotation.Discounts)
}

func TestPDFSink(t *testing.T) {
	doc := sampleDocument(t)

	art, err := (&PDFSink{Issuer: "Promo Store", Money: englishMoney()}).Render(doc)
	require.NoError(t, err)

	assert.Equal(t, "cotizacion_TERM-500.pdf", art.Filename)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.True(t, bytes.HasPrefix(art.Body, []byte("%PDF-")))
	assert.Greater(t, len(art.Body), 500)
}

func TestSinksDoNotTouchTheQuotation(t *testing.T) {
	doc := sampleDocument(t)
	before := doc.Quotation

	for _, format := range []string{FormatText, FormatJSON, FormatPDF} {
		sink, err := ForFormat(format, "Promo Store")
		require.NoError(t, err)

		_, err = sink.Render(doc)
		require.NoError(t, err)
	}

	assert.True(t, before.Total.Equal(doc.Quotation.Total))
	assert.Equal(t, before.Number, doc.Quotation.Number)
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   interface{}
	}{
		{"txt", &TextSink{}},
		{"TEXT", &TextSink{}},
		{" json ", &JSONSink{}},
		{"pdf", &PDFSink{}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			sink, err := ForFormat(tt.format, "")
			require.NoError(t, err)
			assert.IsType(t, tt.want, sink)
		})
	}

	_, err := ForFormat("docx", "")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFilenameFallsBackToNumber(t *testing.T) {
	q := pricing.Quotation{Number: "COT-42"}
	assert.True(t, strings.HasSuffix(filename(q, FormatPDF), "COT-42.pdf"))
}
