package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"

	"github.com/cstockton/go-conv"
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-gateway/internal/models"
)

// BindAndValidate bind request context and validate request struct.
// Bind includes request body, params, query and headers.
// Validate request struct, response bad request with error message if the request is invalid.
func BindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}

	if err := bindHeader(c.Request().Header, req); err != nil {
		return err
	}

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

// BindQuery decode query parameters to struct by tag `query:"<name>"`.
// Pointer fields stay nil when the parameter is absent. A value that cannot
// be converted fails with INVALID_VALUE naming the parameter.
func BindQuery(values url.Values, dst interface{}) error {
	getValueFn := func(tagValue string) (interface{}, bool, error) {
		if !values.Has(tagValue) {
			return nil, false, nil
		}
		return values.Get(tagValue), true, nil
	}

	err := bindStruct(dst, "query", getValueFn)
	var be *BindError
	if errors.As(err, &be) {
		return models.ErrInvalidValue.WithField(be.Tag, fmt.Sprintf("cannot parse %v", be.Value))
	}
	return err
}

// bindHeader decode http header to struct by tag `header:"<header_name>"`
// out must be a pointer to a struct
func bindHeader(header http.Header, dst interface{}) error {
	getValueFn := func(tagValue string) (interface{}, bool, error) {
		v := header.Get(tagValue)
		return v, v != "", nil
	}

	return bindStruct(dst, "header", getValueFn)
}

// BindError reports a value that could not be converted to its field type.
type BindError struct {
	Struct string
	Field  string
	Tag    string
	Type   reflect.Type
	Value  interface{}
	Err    error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("cannot parse %s.%s as %s from: %#v / %s", e.Struct, e.Field, e.Type, e.Value, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// bindStruct decode to struct by custom tag `tagName:"tagValue"`
// dst must be a pointer to a struct
func bindStruct(dst interface{}, tagName string, getValueFn func(tagValue string) (interface{}, bool, error)) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Ptr {
		return fmt.Errorf("non-pointer passed to Unmarshal")
	}

	indirect := reflect.Indirect(ptr)
	structType := indirect.Type()

	numField := structType.NumField()
	for i := 0; i < numField; i++ {
		structField := structType.Field(i)
		tagValue := structField.Tag.Get(tagName)
		if tagValue == "-" || tagValue == "" {
			continue
		}

		value, ok, err := getValueFn(tagValue)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		field := indirect.Field(i)
		target := field
		if field.Kind() == reflect.Ptr {
			target = reflect.New(field.Type().Elem()).Elem()
		}
		if err := convertValue(target, value); err != nil {
			return &BindError{
				Struct: structType.Name(),
				Field:  structField.Name,
				Tag:    tagValue,
				Type:   field.Type(),
				Value:  value,
				Err:    err,
			}
		}
		if field.Kind() == reflect.Ptr {
			field.Set(target.Addr())
		}
	}

	return nil
}

// convertValue parses integer kinds from their decimal string form, so a
// fractional value is rejected and an out-of-range value saturates at the
// bound of its sign. Other kinds go through conv.Infer.
func convertValue(target reflect.Value, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return conv.Infer(target, value)
	}
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, target.Type().Bits())
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return err
		}
		target.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, target.Type().Bits())
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return err
		}
		target.SetUint(n)
		return nil
	}
	return conv.Infer(target, value)
}
