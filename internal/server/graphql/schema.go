// Package graphql exposes the product gateway as a GraphQL schema served over
// the echo server.
package graphql

import (
	"github.com/graphql-go/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var mutationResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MutationResult",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"id":      &graphql.Field{Type: graphql.ID},
	},
})

var productInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"price": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
	},
})

func filterArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"nameContains": &graphql.ArgumentConfig{Type: graphql.String},
		"minPrice":     &graphql.ArgumentConfig{Type: graphql.Float},
		"maxPrice":     &graphql.ArgumentConfig{Type: graphql.Float},
	}
}

func listArgs() graphql.FieldConfigArgument {
	args := filterArgs()
	args["sortBy"] = &graphql.ArgumentConfig{Type: graphql.String}
	args["order"] = &graphql.ArgumentConfig{Type: graphql.String}
	args["limit"] = &graphql.ArgumentConfig{Type: graphql.Int}
	args["skip"] = &graphql.ArgumentConfig{Type: graphql.Int}
	return args
}

func newSchema(r *resolver) (graphql.Schema, error) {
	productList := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType)))
	result := graphql.NewNonNull(mutationResultType)

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"allProducts": &graphql.Field{
				Type:    productList,
				Args:    listArgs(),
				Resolve: r.allProducts,
			},
			"productCount": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Args:    filterArgs(),
				Resolve: r.productCount,
			},
			"firstProduct": &graphql.Field{
				Type:    productType,
				Resolve: r.firstProduct,
			},
			"secretProducts": &graphql.Field{
				Type:    productList,
				Resolve: r.secretProducts,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addProduct": &graphql.Field{
				Type: result,
				Args: graphql.FieldConfigArgument{
					"product": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: r.addProduct,
			},
			"updateProduct": &graphql.Field{
				Type: result,
				Args: graphql.FieldConfigArgument{
					"id":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"product": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: r.updateProduct,
			},
			"deleteProduct": &graphql.Field{
				Type: result,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deleteProduct,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
