package catalog

import (
	"fmt"
	"io"

	"github.com/safar/promo-store/internal/models"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Products []models.Product `yaml:"products"`
}

// LoadSeed decodes a YAML catalog and validates every product in it. Missing
// statuses default to active.
func LoadSeed(r io.Reader) ([]models.Product, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	for i := range f.Products {
		p := &f.Products[i]
		if p.Status == "" {
			p.Status = models.ProductStatusActive
		}
		if err := ValidateProduct(p); err != nil {
			return nil, fmt.Errorf("product %d (%s): %w", i, p.SKU, err)
		}
	}

	return f.Products, nil
}
