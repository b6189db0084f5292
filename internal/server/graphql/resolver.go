package graphql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/nguyentranbao-ct/product-gateway/internal/auth"
	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/internal/query"
	"github.com/nguyentranbao-ct/product-gateway/internal/usecase"
)

type credentialKey struct{}

// WithCredential attaches the credential presented with the HTTP request.
func WithCredential(ctx context.Context, cred auth.Credential) context.Context {
	return context.WithValue(ctx, credentialKey{}, cred)
}

func credentialFrom(ctx context.Context) auth.Credential {
	if cred, ok := ctx.Value(credentialKey{}).(auth.Credential); ok {
		return cred
	}
	return auth.APIKey("")
}

type resolver struct {
	products usecase.ProductUsecase
}

func stringArg(args map[string]interface{}, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}

func floatArg(args map[string]interface{}, name string) *float64 {
	switch v := args[name].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

func intArg(args map[string]interface{}, name string) *int {
	if v, ok := args[name].(int); ok {
		return &v
	}
	return nil
}

func listParams(args map[string]interface{}) query.Params {
	return query.Params{
		NameContains: stringArg(args, "nameContains"),
		MinPrice:     floatArg(args, "minPrice"),
		MaxPrice:     floatArg(args, "maxPrice"),
		PageParams: query.PageParams{
			Limit:  intArg(args, "limit"),
			Skip:   intArg(args, "skip"),
			SortBy: stringArg(args, "sortBy"),
			Order:  stringArg(args, "order"),
		},
	}
}

func productInput(args map[string]interface{}) models.ProductInput {
	raw, _ := args["product"].(map[string]interface{})
	var in models.ProductInput
	if name := stringArg(raw, "name"); name != nil {
		in.Name = *name
	}
	in.Price = floatArg(raw, "price")
	return in
}

func toProduct(p *models.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":    p.ID.String(),
		"name":  p.Name,
		"price": p.Price,
	}
}

func toProducts(page *models.ProductPage) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(page.Items))
	for _, p := range page.Items {
		out = append(out, toProduct(p))
	}
	return out
}

func (r *resolver) allProducts(p graphql.ResolveParams) (interface{}, error) {
	page, err := r.products.List(p.Context, listParams(p.Args), query.PolicyReject)
	if err != nil {
		return nil, err
	}
	return toProducts(page), nil
}

func (r *resolver) productCount(p graphql.ResolveParams) (interface{}, error) {
	params := listParams(p.Args)
	one := 1
	params.Limit = &one
	page, err := r.products.List(p.Context, params, query.PolicyReject)
	if err != nil {
		return nil, err
	}
	return int(page.Total), nil
}

func (r *resolver) firstProduct(p graphql.ResolveParams) (interface{}, error) {
	product, err := r.products.GetFirst(p.Context)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toProduct(product), nil
}

// secretProducts lists the catalogue for session token holders only.
func (r *resolver) secretProducts(p graphql.ResolveParams) (interface{}, error) {
	cred := credentialFrom(p.Context)
	if cred.Kind != auth.KindBearer {
		cred = auth.Bearer("")
	}
	if _, err := r.products.Authorize(p.Context, cred); err != nil {
		return nil, err
	}

	page, err := r.products.List(p.Context, query.Params{}, query.PolicyReject)
	if err != nil {
		return nil, err
	}
	return toProducts(page), nil
}

func (r *resolver) addProduct(p graphql.ResolveParams) (interface{}, error) {
	out, err := r.products.Create(p.Context, credentialFrom(p.Context), productInput(p.Args))
	if err != nil {
		return nil, err
	}
	return mutationResult(out), nil
}

func (r *resolver) updateProduct(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	out, err := r.products.Update(p.Context, credentialFrom(p.Context), id, productInput(p.Args))
	if err != nil {
		return nil, err
	}
	return mutationResult(out), nil
}

func (r *resolver) deleteProduct(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	out, err := r.products.Delete(p.Context, credentialFrom(p.Context), id)
	if err != nil {
		return nil, err
	}
	return mutationResult(out), nil
}

// mutationResult folds every outcome, failed ones included, into a value.
func mutationResult(out models.Outcome) map[string]interface{} {
	message := out.Message
	if len(out.Fields) > 0 {
		fields := make([]string, 0, len(out.Fields))
		for _, msg := range out.Fields {
			fields = append(fields, msg)
		}
		sort.Strings(fields)
		message = fmt.Sprintf("%s: %s", out.Message, strings.Join(fields, "; "))
	}

	result := map[string]interface{}{
		"success": out.OK(),
		"message": message,
		"id":      nil,
	}
	if out.ID != "" {
		result["id"] = out.ID
	}
	return result
}
