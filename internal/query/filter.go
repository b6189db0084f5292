package query

import (
	"math"
	"strings"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
)

// Predicate is a backend independent product filter. A zero Predicate
// matches everything.
type Predicate struct {
	// NameContains is matched as a case-insensitive substring.
	NameContains string
	MinPrice     *float64
	MaxPrice     *float64
}

func (p Predicate) IsEmpty() bool {
	return p.NameContains == "" && p.MinPrice == nil && p.MaxPrice == nil
}

// Match reports whether a product with the given name and price satisfies
// the predicate. Bounds are inclusive.
func (p Predicate) Match(name string, price float64) bool {
	if p.NameContains != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(p.NameContains)) {
		return false
	}
	if p.MinPrice != nil && price < *p.MinPrice {
		return false
	}
	if p.MaxPrice != nil && price > *p.MaxPrice {
		return false
	}
	return true
}

// CompileFilter turns optional filter parameters into a Predicate.
func CompileFilter(nameContains *string, minPrice, maxPrice *float64) (Predicate, error) {
	var p Predicate

	if nameContains != nil {
		p.NameContains = strings.TrimSpace(*nameContains)
	}

	if minPrice != nil {
		if err := checkBound("min_price", *minPrice); err != nil {
			return Predicate{}, err
		}
		v := *minPrice
		p.MinPrice = &v
	}
	if maxPrice != nil {
		if err := checkBound("max_price", *maxPrice); err != nil {
			return Predicate{}, err
		}
		v := *maxPrice
		p.MaxPrice = &v
	}

	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return Predicate{}, models.ErrInvalidRange.WithField("min_price", "")
	}
	return p, nil
}

func checkBound(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.ErrInvalidValue.WithField(field, "must be a finite number")
	}
	if v < 0 {
		return models.ErrInvalidValue.WithField(field, "must not be negative")
	}
	return nil
}
