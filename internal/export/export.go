package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/safar/promo-store/internal/pricing"
)

var ErrUnknownFormat = errors.New("unknown export format")

const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

type Contact struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	RFC         string `json:"rfc,omitempty"`
}

// Document is what a sink renders: a finished quotation plus the contact it
// was requested by. Sinks only present these values, they never recompute
// them.
type Document struct {
	Quotation pricing.Quotation `json:"quotation"`
	Contact   Contact           `json:"contact"`
}

type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

type Sink interface {
	Render(doc Document) (Artifact, error)
}

// ForFormat picks the sink for a format name such as "pdf". issuer is the
// company shown as the quotation's author.
func ForFormat(format, issuer string) (Sink, error) {
	money := NewMoneyFormatter(DefaultLocale, "$")

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, "text":
		return &TextSink{Issuer: issuer, Money: money}, nil
	case FormatJSON:
		return &JSONSink{}, nil
	case FormatPDF:
		return &PDFSink{Issuer: issuer, Money: money}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func filename(q pricing.Quotation, ext string) string {
	base := q.SKU
	if base == "" {
		base = q.Number
	}
	return fmt.Sprintf("cotizacion_%s.%s", base, ext)
}

var businessLabels = map[pricing.BusinessType]string{
	pricing.BusinessParticular:   "Particular",
	pricing.BusinessEmpresa:      "Empresa",
	pricing.BusinessMayorista:    "Mayorista",
	pricing.BusinessDistribuidor: "Distribuidor",
}

func businessLabel(bt pricing.BusinessType) string {
	if label, ok := businessLabels[bt]; ok {
		return label
	}
	return string(bt)
}
