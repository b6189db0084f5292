package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/internal/query"
	"github.com/nguyentranbao-ct/product-gateway/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-gateway/internal/usecase"
)

const HeaderTotalCount = "X-Total-Count"

type Controller interface {
	Root(c echo.Context) error
	Health(c echo.Context, req struct{}) (any, error)

	ListProducts(c echo.Context) error
	FirstProduct(c echo.Context) error
	CreateProduct(c echo.Context) error
	CreateSecureProduct(c echo.Context) error
	UpdateProduct(c echo.Context) error
	DeleteProduct(c echo.Context) error

	Token(c echo.Context) error
}

type controller struct {
	products usecase.ProductUsecase
	auth     usecase.AuthUsecase
}

func NewController(products usecase.ProductUsecase, auth usecase.AuthUsecase) Controller {
	return &controller{
		products: products,
		auth:     auth,
	}
}

// listQuery is the query string of GET /products.
type listQuery struct {
	NameContains *string  `query:"name_contains"`
	MinPrice     *float64 `query:"min_price"`
	MaxPrice     *float64 `query:"max_price"`
	SortBy       *string  `query:"sort_by"`
	Order        *string  `query:"order"`
	Limit        *int     `query:"limit"`
	Skip         *int     `query:"skip"`
}

func (q listQuery) params() query.Params {
	return query.Params{
		NameContains: q.NameContains,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		PageParams: query.PageParams{
			Limit:  q.Limit,
			Skip:   q.Skip,
			SortBy: q.SortBy,
			Order:  q.Order,
		},
	}
}

type writeResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func (h *controller) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "API is running",
	})
}

func (h *controller) Health(c echo.Context, _ struct{}) (any, error) {
	return map[string]string{
		"status":  "healthy",
		"service": "product-gateway",
	}, nil
}

func (h *controller) ListProducts(c echo.Context) error {
	var q listQuery
	if err := middleware.BindQuery(c.QueryParams(), &q); err != nil {
		return err
	}

	page, err := h.products.List(c.Request().Context(), q.params(), query.PolicyClamp)
	if err != nil {
		return err
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(page.Total, 10))
	return c.JSON(http.StatusOK, page.Items)
}

func (h *controller) FirstProduct(c echo.Context) error {
	p, err := h.products.GetFirst(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *controller) CreateProduct(c echo.Context) error {
	input, err := h.bindProduct(c)
	if err != nil {
		return err
	}

	cred := middleware.GetCredential(c)
	out, err := h.products.Create(c.Request().Context(), cred, input)
	if err != nil {
		return err
	}
	return renderOutcome(c, out)
}

func (h *controller) CreateSecureProduct(c echo.Context) error {
	input, err := h.bindProduct(c)
	if err != nil {
		return err
	}

	cred := middleware.GetCredential(c)
	out, err := h.products.CreateSecure(c.Request().Context(), cred, input)
	if err != nil {
		return err
	}
	return renderOutcome(c, out)
}

func (h *controller) UpdateProduct(c echo.Context) error {
	input, err := h.bindProduct(c)
	if err != nil {
		return err
	}

	cred := middleware.GetCredential(c)
	out, err := h.products.Update(c.Request().Context(), cred, c.Param("id"), input)
	if err != nil {
		return err
	}
	return renderOutcome(c, out)
}

func (h *controller) DeleteProduct(c echo.Context) error {
	cred := middleware.GetCredential(c)
	out, err := h.products.Delete(c.Request().Context(), cred, c.Param("id"))
	if err != nil {
		return err
	}
	return renderOutcome(c, out)
}

// bindProduct decodes the request body. A malformed body is reported only
// to callers whose credential verifies.
func (h *controller) bindProduct(c echo.Context) (models.ProductInput, error) {
	var input models.ProductInput
	if err := c.Bind(&input); err != nil {
		if _, authErr := h.products.Authorize(c.Request().Context(), middleware.GetCredential(c)); authErr != nil {
			return input, authErr
		}
		return input, err
	}
	return input, nil
}

// renderOutcome writes a successful outcome and turns domain failures into
// REST errors.
func renderOutcome(c echo.Context, out models.Outcome) error {
	switch out.Status {
	case models.OutcomeSuccess:
		return c.JSON(http.StatusOK, writeResponse{Message: out.Message, ID: out.ID})
	case models.OutcomeValidationError:
		return &middleware.ResponseError{
			Status:       http.StatusBadRequest,
			ErrorCode:    string(models.KindValidation),
			ErrorMessage: out.Message,
			ErrorData:    out.Fields,
		}
	default:
		return out.Err()
	}
}
