package catalog

import "errors"

var (
	// ErrNotFound indicates the referenced product does not exist.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrDuplicateSKU indicates a SKU collision on create or update.
	ErrDuplicateSKU = errors.New("catalog: duplicate sku")
	// ErrValidation indicates the payload failed business validation.
	ErrValidation = errors.New("catalog: validation failed")
)
