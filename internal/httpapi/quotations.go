package httpapi

import (
	"mime"
	"net/http"

	"github.com/safar/promo-store/internal/export"
	"github.com/safar/promo-store/internal/quotation"
)

// PreviewQuotation prices a product without a contact form. The storefront
// calls it whenever the product, quantity or business type changes.
func (h *Handlers) PreviewQuotation(w http.ResponseWriter, r *http.Request) {
	var in quotation.QuoteInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Log, err)
		return
	}

	q, err := h.Quotes.Quote(r.Context(), in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, q)
}

func (h *Handlers) SubmitQuotation(w http.ResponseWriter, r *http.Request) {
	var in quotation.SubmitInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Log, err)
		return
	}

	doc, err := h.Quotes.Submit(r.Context(), in)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, doc)
}

func (h *Handlers) ExportQuotation(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatPDF
	}

	var in quotation.SubmitInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.Log, err)
		return
	}

	art, err := h.Quotes.Export(r.Context(), in, format)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(art.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(art.Body)
}

// contentDisposition quotes or RFC 2231-encodes the filename as needed, since
// it is derived from a free-form SKU.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
