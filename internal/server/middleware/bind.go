package middleware

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/cstockton/go-conv"
	"github.com/labstack/echo/v4"
)

// BindAndValidate binds path params, query, body and headers into req, then validates it.
// Headers are read from fields tagged `header:"<name>"`. Validation failures become 400s.
func BindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}

	if err := bindHeader(c.Request().Header, req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

// bindHeader decodes http headers into a struct by tag `header:"<header_name>"`.
// dst must be a pointer to a struct
func bindHeader(header http.Header, dst interface{}) error {
	getValueFn := func(tagValue string) (interface{}, bool) {
		values := header.Values(tagValue)
		if len(values) == 0 {
			return nil, false
		}
		return values[0], true
	}

	return bindStruct(dst, "header", getValueFn)
}

// bindStruct decodes into a struct by custom tag `tagName:"tagValue"`. Fields whose
// value is absent keep what the previous binder put there.
func bindStruct(dst interface{}, tagName string, getValueFn func(tagValue string) (interface{}, bool)) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind %s: destination must be a pointer to a struct, got %T", tagName, dst)
	}

	indirect := ptr.Elem()
	structType := indirect.Type()
	for i := 0; i < structType.NumField(); i++ {
		structField := structType.Field(i)
		tagValue := structField.Tag.Get(tagName)
		if tagValue == "-" || tagValue == "" || !structField.IsExported() {
			continue
		}

		value, ok := getValueFn(tagValue)
		if !ok {
			continue
		}
		field := indirect.Field(i)
		if err := conv.Infer(field, value); err != nil {
			return fmt.Errorf("cannot parse %s.%s as %s from: %#v / %s",
				structType.Name(), structField.Name, field.Type(), value, err)
		}
	}

	return nil
}
