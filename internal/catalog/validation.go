package catalog

import (
	"fmt"
	"strings"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("%w: product sku is required", ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	if p.TotalStock != nil && *p.TotalStock < 0 {
		return fmt.Errorf("%w: total stock must not be negative", ErrValidation)
	}
	if p.ReorderLevel != nil && *p.ReorderLevel < 0 {
		return fmt.Errorf("%w: reorder level must not be negative", ErrValidation)
	}
	if p.CostPrice.IsNegative() || p.SellingPrice.IsNegative() {
		return fmt.Errorf("%w: prices must not be negative", ErrValidation)
	}
	return nil
}
