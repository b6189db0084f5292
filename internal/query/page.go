package query

import (
	"fmt"
	"strings"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
)

const (
	DefaultLimit = 100
	MinLimit     = 1
	MaxLimit     = 200
	MaxSkip      = 10000
)

// Policy selects how an out of range limit is handled.
type Policy int

const (
	// PolicyClamp moves the limit to the nearest bound. Used by best-effort
	// read APIs.
	PolicyClamp Policy = iota
	// PolicyReject fails with INVALID_VALUE. Used by typed APIs.
	PolicyReject
)

func (p Policy) String() string {
	if p == PolicyReject {
		return "reject"
	}
	return "clamp"
}

type SortField string

const (
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
)

var sortFields = map[SortField]struct{}{
	SortByName:  {},
	SortByPrice: {},
}

type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// PageParams are the raw paging and sorting parameters; nil means absent.
type PageParams struct {
	Limit  *int
	Skip   *int
	SortBy *string
	Order  *string
}

// Page is a validated paging and sorting request.
type Page struct {
	Limit     int64
	Skip      int64
	SortBy    SortField
	Direction Direction
}

// ValidatePage applies defaults and bounds to raw paging parameters.
func ValidatePage(params PageParams, policy Policy) (Page, error) {
	page := Page{
		Limit:     DefaultLimit,
		Skip:      0,
		SortBy:    SortByName,
		Direction: Ascending,
	}

	if params.Limit != nil {
		limit, err := boundLimit(*params.Limit, policy)
		if err != nil {
			return Page{}, err
		}
		page.Limit = int64(limit)
	}

	if params.Skip != nil {
		skip := *params.Skip
		if skip < 0 || skip > MaxSkip {
			return Page{}, models.ErrInvalidValue.WithField("skip", fmt.Sprintf("must be between 0 and %d", MaxSkip))
		}
		page.Skip = int64(skip)
	}

	if params.SortBy != nil {
		field := SortField(*params.SortBy)
		if _, ok := sortFields[field]; !ok {
			return Page{}, models.ErrInvalidSortField.WithField("sort_by", fmt.Sprintf("unsupported sort field %q", *params.SortBy))
		}
		page.SortBy = field
	}

	if params.Order != nil {
		switch strings.ToLower(*params.Order) {
		case "asc":
			page.Direction = Ascending
		case "desc":
			page.Direction = Descending
		default:
			return Page{}, models.ErrInvalidOrder.WithField("order", "")
		}
	}

	return page, nil
}

func boundLimit(limit int, policy Policy) (int, error) {
	if limit >= MinLimit && limit <= MaxLimit {
		return limit, nil
	}
	if policy == PolicyReject {
		return 0, models.ErrInvalidValue.WithField("limit", fmt.Sprintf("must be between %d and %d", MinLimit, MaxLimit))
	}
	if limit < MinLimit {
		return MinLimit, nil
	}
	return MaxLimit, nil
}
