package graphql

import (
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-gateway/internal/usecase"
	log "github.com/nguyentranbao-ct/product-gateway/pkg/logger/logctx"
)

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type Handler struct {
	schema graphql.Schema
}

func NewHandler(products usecase.ProductUsecase) (*Handler, error) {
	schema, err := newSchema(&resolver{products: products})
	if err != nil {
		return nil, fmt.Errorf("build graphql schema: %w", err)
	}
	return &Handler{schema: schema}, nil
}

// Serve executes one operation. Every executed operation answers 200 with
// errors, if any, inside the envelope.
func (h *Handler) Serve(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}

	ctx := WithCredential(c.Request().Context(), middleware.GetCredential(c))
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	if result.HasErrors() {
		log.Infow(ctx, "graphql operation failed", "operation", req.OperationName, "errors", len(result.Errors))
		for i, fe := range result.Errors {
			me, ok := classified(fe)
			if !ok {
				continue
			}
			if me.Err != nil {
				log.Infow(ctx, "graphql error cause", "code", me.Kind, "cause", me.Err.Error())
			}
			result.Errors[i].Message = me.Public()
		}
	}

	return c.JSON(http.StatusOK, result)
}

// classified digs the resolver error out of a formatted error. Clients get
// only its message; the wrapped cause stays in the log.
func classified(fe gqlerrors.FormattedError) (*models.Error, bool) {
	orig := fe.OriginalError()
	if ge, ok := orig.(*gqlerrors.Error); ok {
		orig = ge.OriginalError
	}
	if orig == nil {
		return nil, false
	}
	return models.AsError(orig)
}
