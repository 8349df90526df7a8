// Package validation configures gin's validator engine and turns binding
// failures into field-level error details.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupOnce sync.Once

// Setup registers json/form tag names and the nullable types with gin's validator.
// It is safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		v.RegisterCustomTypeFunc(nullStringValue, dto.NullString{})
		v.RegisterStructValidation(coordinatePair, dto.CreateTreeRequest{}, dto.UpdateTreeRequest{})
	})
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// nullStringValue exposes the inner string so string rules apply; null and absent validate as empty.
func nullStringValue(field reflect.Value) interface{} {
	if v, ok := field.Interface().(dto.NullString); ok && v.Set && v.Valid {
		return v.String
	}
	return nil
}

// IsUUID reports whether s is a canonical hyphenated UUID, the same rule body fields use.
func IsUUID(s string) bool {
	Setup()
	return binding.Validator.Engine().(*validator.Validate).Var(s, "required,uuid") == nil
}

// coordinatePair requires latitude and longitude to arrive together.
func coordinatePair(sl validator.StructLevel) {
	var lat, lng *float64
	switch r := sl.Current().Interface().(type) {
	case dto.CreateTreeRequest:
		lat, lng = r.Latitude, r.Longitude
	case dto.UpdateTreeRequest:
		lat, lng = r.Latitude, r.Longitude
	default:
		return
	}
	if lat != nil && lng == nil {
		sl.ReportError(lng, "longitude", "Longitude", "required_with", "latitude")
	}
	if lng != nil && lat == nil {
		sl.ReportError(lat, "latitude", "Latitude", "required_with", "longitude")
	}
}

// BindJSON decodes the request body into dst, dropping unknown fields, and validates it.
// Numeric strings are accepted for number fields. Every violation is returned, not just the first.
func BindJSON(r *http.Request, dst interface{}) []dto.ErrorDetail {
	Setup()

	var body []byte
	if r.Body != nil {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return Translate(err)
		}
		body = bytes.TrimSpace(raw)
	}

	details, failed, err := decodeFields(body, dst)
	if err != nil {
		return Translate(err)
	}
	details = append(details, validate(dst, failed)...)
	if len(details) > 0 {
		return details
	}

	if e, ok := dst.(interface{ IsEmpty() bool }); ok && e.IsEmpty() {
		return []dto.ErrorDetail{{Field: "value", Message: `"value" must have at least 1 key`}}
	}
	return nil
}

// BindQuery maps query parameters into dst (coercing numeric strings), applies
// form defaults and validates.
func BindQuery(r *http.Request, dst interface{}) []dto.ErrorDetail {
	Setup()

	values := r.URL.Query()
	details := checkNumbers(values, reflect.TypeOf(dst))
	failed := make(map[string]bool, len(details))
	for _, d := range details {
		failed[d.Field] = true
		values.Del(d.Field)
	}

	if err := binding.MapFormWithTag(dst, values, "form"); err != nil {
		return append(details, Translate(err)...)
	}
	return append(details, validate(dst, failed)...)
}

// validate runs the struct rules, leaving out fields that already failed to decode.
func validate(dst interface{}, failed map[string]bool) []dto.ErrorDetail {
	err := binding.Validator.ValidateStruct(dst)
	if err == nil {
		return nil
	}
	var details []dto.ErrorDetail
	for _, d := range Translate(err) {
		if !failed[d.Field] {
			details = append(details, d)
		}
	}
	return details
}

// decodeFields copies every known key of a JSON object into dst field by field,
// so one bad field does not hide the next. The returned set names the fields that failed.
func decodeFields(body []byte, dst interface{}) ([]dto.ErrorDetail, map[string]bool, error) {
	if len(body) == 0 {
		return nil, nil, nil
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, nil, json.Unmarshal(body, dst)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil {
		return nil, nil, err
	}

	var details []dto.ErrorDetail
	failed := make(map[string]bool)
	target := v.Elem()
	for _, f := range reflect.VisibleFields(target.Type()) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		raw, ok := object[name]
		if !ok {
			continue
		}

		field := target.FieldByIndex(f.Index)
		if decodeField(raw, field) {
			continue
		}
		failed[name] = true
		details = append(details, dto.ErrorDetail{Field: name, Message: fmt.Sprintf("%q must be %s", name, fieldKind(f.Type))})
	}
	return details, failed, nil
}

// decodeField decodes raw into field, falling back to a quoted number for numeric fields.
// On failure the field is reset to its zero value.
func decodeField(raw json.RawMessage, field reflect.Value) bool {
	ptr := field.Addr().Interface()
	err := json.Unmarshal(raw, ptr)
	if err == nil {
		return true
	}
	field.Set(reflect.Zero(field.Type()))

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || !isNumber(field.Type()) {
		return false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return false
	}
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}
	if json.Unmarshal([]byte(s), ptr) != nil {
		field.Set(reflect.Zero(field.Type()))
		return false
	}
	return true
}

func isNumber(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func fieldKind(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == reflect.TypeOf(dto.NullString{}) {
		return "a string"
	}
	return kindName(t)
}

// checkNumbers reports numeric query parameters that do not parse, by name,
// since gin's form mapper does not say which field failed.
func checkNumbers(values map[string][]string, t reflect.Type) []dto.ErrorDetail {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var details []dto.ErrorDetail
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			details = append(details, checkNumbers(values, f.Type)...)
			continue
		}
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		raw := values[name]
		if len(raw) == 0 || raw[0] == "" {
			continue
		}

		kind := f.Type.Kind()
		if kind == reflect.Ptr {
			kind = f.Type.Elem().Kind()
		}
		var err error
		switch kind {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			_, err = strconv.ParseInt(raw[0], 10, 64)
		case reflect.Float32, reflect.Float64:
			_, err = strconv.ParseFloat(raw[0], 64)
		default:
			continue
		}
		if err != nil {
			details = append(details, dto.ErrorDetail{Field: name, Message: fmt.Sprintf("%q must be a number", name)})
		}
	}
	return details
}

// Translate converts binding and decoding errors into error details.
func Translate(err error) []dto.ErrorDetail {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]dto.ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, dto.ErrorDetail{Field: fe.Field(), Message: Message(fe)})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "value"
		}
		return []dto.ErrorDetail{{Field: field, Message: fmt.Sprintf("%q must be %s", field, kindName(typeErr.Type))}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []dto.ErrorDetail{{Field: "body", Message: "request body must be valid JSON"}}
	}

	return []dto.ErrorDetail{{Field: "value", Message: err.Error()}}
}

// Message renders a validator failure in the API's wording.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%q must be greater than or equal to %q", field, strings.ToLower(fe.Param()))
	case "required_with":
		return fmt.Sprintf("%q is required when %q is set", field, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("%q must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("%q failed on the '%s' rule", field, fe.Tag())
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Map, reflect.Struct:
		return "of type object"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "a valid value"
	}
}
