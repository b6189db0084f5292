// Package query turns loosely typed list parameters into a validated,
// bounded product query.
package query

// Params is the raw parameter set of a list request as received by a
// transport. Every field is optional.
type Params struct {
	NameContains *string
	MinPrice     *float64
	MaxPrice     *float64
	PageParams
}

// Spec is a validated list request.
type Spec struct {
	Filter Predicate
	Page   Page
}

// Parse compiles the filter and validates paging, failing on the first
// invalid parameter.
func Parse(params Params, policy Policy) (Spec, error) {
	filter, err := CompileFilter(params.NameContains, params.MinPrice, params.MaxPrice)
	if err != nil {
		return Spec{}, err
	}
	page, err := ValidatePage(params.PageParams, policy)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Filter: filter, Page: page}, nil
}
