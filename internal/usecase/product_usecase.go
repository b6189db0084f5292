package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/nguyentranbao-ct/product-gateway/internal/auth"
	"github.com/nguyentranbao-ct/product-gateway/internal/models"
	"github.com/nguyentranbao-ct/product-gateway/internal/query"
	"github.com/nguyentranbao-ct/product-gateway/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/product-gateway/pkg/ctxval"
	log "github.com/nguyentranbao-ct/product-gateway/pkg/logger/logctx"
)

// ProductUsecase is the only path to the product collection. Reads validate
// their parameters before touching the store; writes also authorize first.
type ProductUsecase interface {
	List(ctx context.Context, params query.Params, policy query.Policy) (*models.ProductPage, error)
	GetFirst(ctx context.Context) (*models.Product, error)
	Create(ctx context.Context, cred auth.Credential, input models.ProductInput) (models.Outcome, error)
	CreateSecure(ctx context.Context, cred auth.Credential, input models.ProductInput) (models.Outcome, error)
	Update(ctx context.Context, cred auth.Credential, id string, input models.ProductInput) (models.Outcome, error)
	Delete(ctx context.Context, cred auth.Credential, id string) (models.Outcome, error)
	// Authorize checks a credential the same way the writes do.
	Authorize(ctx context.Context, cred auth.Credential) (auth.Identity, error)
}

type Validator interface {
	Validate(i interface{}) error
}

type productUsecase struct {
	repo      mongodb.ProductRepository
	verifiers auth.Verifiers
	validate  Validator
}

func NewProductUsecase(repo mongodb.ProductRepository, verifiers auth.Verifiers, validate Validator) ProductUsecase {
	return &productUsecase{
		repo:      repo,
		verifiers: verifiers,
		validate:  validate,
	}
}

func (uc *productUsecase) List(ctx context.Context, params query.Params, policy query.Policy) (*models.ProductPage, error) {
	spec, err := query.Parse(params, policy)
	if err != nil {
		return nil, err
	}

	page, err := uc.repo.Find(ctx, spec)
	if err != nil {
		return nil, backendError(ctx, "list products", err)
	}
	return page, nil
}

func (uc *productUsecase) GetFirst(ctx context.Context) (*models.Product, error) {
	p, err := uc.repo.FindOne(ctx, query.Predicate{})
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFound.WithField("", "No products found")
	}
	if err != nil {
		return nil, backendError(ctx, "get first product", err)
	}
	return p, nil
}

func (uc *productUsecase) Authorize(ctx context.Context, cred auth.Credential) (auth.Identity, error) {
	identity, err := uc.verifiers.Verify(ctx, cred)
	if err != nil {
		log.Infow(ctx, "credential rejected", "kind", cred.Kind, "error", err)
		return auth.Identity{}, err
	}
	ctxval.SetCaller(ctx, identity.Subject, string(identity.Kind))
	return identity, nil
}

func (uc *productUsecase) Create(ctx context.Context, cred auth.Credential, input models.ProductInput) (models.Outcome, error) {
	if _, err := uc.Authorize(ctx, cred); err != nil {
		return models.Outcome{}, err
	}
	return uc.insert(ctx, input, func(p models.ProductInput) string {
		return fmt.Sprintf("Product '%s' added.", p.Name)
	})
}

// CreateSecure is Create restricted to API key callers.
func (uc *productUsecase) CreateSecure(ctx context.Context, cred auth.Credential, input models.ProductInput) (models.Outcome, error) {
	if cred.Kind != auth.KindAPIKey {
		cred = auth.APIKey("")
	}
	if _, err := uc.Authorize(ctx, cred); err != nil {
		return models.Outcome{}, err
	}
	return uc.insert(ctx, input, func(models.ProductInput) string {
		return "Secure product added"
	})
}

func (uc *productUsecase) insert(ctx context.Context, input models.ProductInput, message func(models.ProductInput) string) (models.Outcome, error) {
	if outcome, ok := uc.checkInput(&input); !ok {
		return outcome, nil
	}

	id, err := uc.repo.InsertOne(ctx, input.Fields())
	if err != nil {
		return models.Outcome{}, backendError(ctx, "insert product", err)
	}

	log.Infow(ctx, "product created", "id", id, "name", input.Name)
	return models.Succeeded(id, message(input)), nil
}

func (uc *productUsecase) Update(ctx context.Context, cred auth.Credential, id string, input models.ProductInput) (models.Outcome, error) {
	if _, err := uc.Authorize(ctx, cred); err != nil {
		return models.Outcome{}, err
	}

	oid, err := models.ParseObjectID(id)
	if err != nil {
		return models.InvalidIdentifier(id), nil
	}
	if outcome, ok := uc.checkInput(&input); !ok {
		return outcome, nil
	}

	matched, err := uc.repo.UpdateOne(ctx, oid, input.Fields())
	if err != nil {
		return models.Outcome{}, backendError(ctx, "update product", err)
	}
	if matched == 0 {
		return models.NotFound(id), nil
	}

	log.Infow(ctx, "product updated", "id", id)
	return models.Succeeded(id, "Product updated"), nil
}

func (uc *productUsecase) Delete(ctx context.Context, cred auth.Credential, id string) (models.Outcome, error) {
	if _, err := uc.Authorize(ctx, cred); err != nil {
		return models.Outcome{}, err
	}

	oid, err := models.ParseObjectID(id)
	if err != nil {
		return models.InvalidIdentifier(id), nil
	}

	deleted, err := uc.repo.DeleteOne(ctx, oid)
	if err != nil {
		return models.Outcome{}, backendError(ctx, "delete product", err)
	}
	if deleted == 0 {
		return models.NotFound(id), nil
	}

	log.Infow(ctx, "product deleted", "id", id)
	return models.Succeeded(id, "Product deleted"), nil
}

// checkInput normalizes input in place and reports a validation outcome when
// it breaks the product invariants.
func (uc *productUsecase) checkInput(input *models.ProductInput) (models.Outcome, bool) {
	input.Normalize()
	err := uc.validate.Validate(input)
	if err == nil {
		return models.Outcome{}, true
	}

	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
	} else {
		fields["body"] = err.Error()
	}
	return models.ValidationFailed("Invalid product", fields), false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// backendError classifies an unexpected store failure. Classified errors
// pass through untouched.
func backendError(ctx context.Context, op string, err error) error {
	if _, ok := models.AsError(err); ok {
		return err
	}
	log.Errorw(ctx, "store call failed", "op", op, "error", err)
	return models.ErrBackendUnavailable.Wrap(err)
}
