package quotation

import (
	"context"
	"errors"
	"fmt"

	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/export"
	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/pricing"
	"go.uber.org/zap"
)

type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type QuoteInput struct {
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
	BusinessType  string `json:"business_type"`
	SelectedColor string `json:"selected_color"`
	SelectedSize  string `json:"selected_size"`
}

type SubmitInput struct {
	QuoteInput
	Contact ContactForm `json:"contact"`
}

type Service struct {
	products  ProductReader
	assembler *pricing.Assembler
	forms     *formValidator
	issuer    string
	log       *zap.Logger
}

func NewService(products ProductReader, assembler *pricing.Assembler, issuer string, log *zap.Logger) *Service {
	return &Service{
		products:  products,
		assembler: assembler,
		forms:     newFormValidator(),
		issuer:    issuer,
		log:       log,
	}
}

// Quote prices a product for the given quantity and customer type. An
// unknown or missing product yields pricing.ErrMissingProduct.
func (s *Service) Quote(ctx context.Context, in QuoteInput) (pricing.Quotation, error) {
	product, err := s.product(ctx, in.ProductID)
	if err != nil {
		return pricing.Quotation{}, err
	}

	q, err := s.assembler.Build(pricing.Request{
		Product:       product,
		Quantity:      in.Quantity,
		BusinessType:  pricing.BusinessType(in.BusinessType),
		SelectedColor: in.SelectedColor,
		SelectedSize:  in.SelectedSize,
	})
	if err != nil {
		return pricing.Quotation{}, err
	}

	s.log.Info("quotation generated",
		zap.String("quotation_number", q.Number),
		zap.Int64("product_id", q.ProductID),
		zap.Int("quantity", q.Quantity),
		zap.String("business_type", string(q.BusinessType)),
		zap.String("total", q.Total.StringFixed(2)))

	return q, nil
}

// Submit validates the contact form before pricing. An invalid form returns
// FieldErrors and no quotation is computed.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (export.Document, error) {
	form := in.Contact.trimmed()
	if err := s.forms.Validate(form); err != nil {
		return export.Document{}, err
	}

	q, err := s.Quote(ctx, in.QuoteInput)
	if err != nil {
		return export.Document{}, err
	}

	return export.Document{Quotation: q, Contact: form.contact()}, nil
}

// Export submits the form and renders the result. Unknown formats are
// rejected before anything is computed.
func (s *Service) Export(ctx context.Context, in SubmitInput, format string) (export.Artifact, error) {
	sink, err := export.ForFormat(format, s.issuer)
	if err != nil {
		return export.Artifact{}, err
	}

	doc, err := s.Submit(ctx, in)
	if err != nil {
		return export.Artifact{}, err
	}

	art, err := sink.Render(doc)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("export quotation %s: %w", doc.Quotation.Number, err)
	}
	return art, nil
}

func (s *Service) product(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pricing.ErrMissingProduct
	}

	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, database.ErrProductNotFound) {
		return nil, pricing.ErrMissingProduct
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return p, nil
}
