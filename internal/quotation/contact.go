package quotation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/safar/promo-store/internal/export"
)

// ContactForm is the "Datos de la empresa" form submitted with a quotation.
type ContactForm struct {
	CompanyName string `json:"company_name" validate:"required"`
	ContactName string `json:"contact_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	RFC         string `json:"rfc" validate:"omitempty,min=12,max=13,alphanum"`
}

func (f ContactForm) trimmed() ContactForm {
	return ContactForm{
		CompanyName: strings.TrimSpace(f.CompanyName),
		ContactName: strings.TrimSpace(f.ContactName),
		Email:       strings.TrimSpace(f.Email),
		Phone:       strings.TrimSpace(f.Phone),
		Address:     strings.TrimSpace(f.Address),
		RFC:         strings.ToUpper(strings.TrimSpace(f.RFC)),
	}
}

func (f ContactForm) contact() export.Contact {
	return export.Contact{
		CompanyName: f.CompanyName,
		ContactName: f.ContactName,
		Email:       f.Email,
		Phone:       f.Phone,
		Address:     f.Address,
		RFC:         f.RFC,
	}
}

// FieldErrors maps a form field (by its JSON name) to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

var fieldNames = map[string]string{
	"CompanyName": "company_name",
	"ContactName": "contact_name",
	"Email":       "email",
	"RFC":         "rfc",
}

var fieldMessages = map[string]string{
	"company_name": "El nombre de la empresa es obligatorio",
	"contact_name": "La persona de contacto es obligatoria",
}

type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	return &formValidator{v: validator.New()}
}

// Validate returns nil or a FieldErrors describing every invalid field.
func (fv *formValidator) Validate(form ContactForm) error {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate contact form: %w", err)
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		name := fieldNames[fe.Field()]
		if name == "" {
			name = strings.ToLower(fe.Field())
		}
		out[name] = message(name, fe.Tag())
	}
	return out
}

func message(field, tag string) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	switch {
	case field == "email" && tag == "required":
		return "El correo electrónico es obligatorio"
	case field == "email":
		return "El correo electrónico no es válido"
	case field == "rfc":
		return "El RFC debe tener 12 o 13 caracteres alfanuméricos"
	default:
		return "Valor inválido"
	}
}
