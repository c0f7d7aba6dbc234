package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest is the create/update payload.
type ProductRequest struct {
	SKU          string     `json:"sku" validate:"required"`
	Name         string     `json:"name" validate:"required"`
	Category     string     `json:"category"`
	Manufacturer string     `json:"manufacturer"`
	Stock        *int       `json:"stock" validate:"omitempty,gte=0"`
	TotalStock   *int       `json:"total_stock" validate:"omitempty,gte=0"`
	ReorderLevel *int       `json:"reorder_level" validate:"omitempty,gte=0"`
	CostPrice    string     `json:"cost_price"`
	SellingPrice string     `json:"selling_price"`
	ExpiryDate   *time.Time `json:"expiry_date"`
}

// ToProduct converts the request into the domain model. Price strings keep
// JSON clients from shipping binary floats for money.
func (req ProductRequest) ToProduct() (Product, error) {
	p := Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		Stock:        req.Stock,
		TotalStock:   req.TotalStock,
		ReorderLevel: req.ReorderLevel,
		ExpiryDate:   req.ExpiryDate,
	}
	var err error
	if p.CostPrice, err = parsePrice(req.CostPrice); err != nil {
		return Product{}, err
	}
	if p.SellingPrice, err = parsePrice(req.SellingPrice); err != nil {
		return Product{}, err
	}
	return p, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
