package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Source names the request input a validation contract applies to.
type Source string

const (
	SourceBody   Source = "body"
	SourceQuery  Source = "query"
	SourceParams Source = "params"
)

func (s Source) contextKey() string { return "validated_" + string(s) }

// FieldError is one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the 400 envelope produced by the validator.
type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

var setupOnce sync.Once

// setupValidator teaches gin's validator engine to report wire field names
// (json, form or uri tag) and registers the custom "digits" rule.
func setupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(wireName)
		_ = v.RegisterValidation("digits", isDigits)
	})
}

func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// isDigits accepts non-empty ASCII digit strings that fit in an int64.
func isDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// ValidateBody parses the JSON body into T and checks its binding rules.
func ValidateBody[T any]() gin.HandlerFunc { return validate[T](SourceBody) }

// ValidateQuery parses the query string into T and checks its binding rules.
func ValidateQuery[T any]() gin.HandlerFunc { return validate[T](SourceQuery) }

// ValidateParams parses the path parameters into T and checks its binding rules.
func ValidateParams[T any]() gin.HandlerFunc { return validate[T](SourceParams) }

func validate[T any](src Source) gin.HandlerFunc {
	setupValidator()
	return func(c *gin.Context) {
		var v T
		var err error
		switch src {
		case SourceBody:
			err = c.ShouldBindJSON(&v)
			if errors.Is(err, io.EOF) {
				// Empty body: report the missing fields rather than a parse error.
				err = binding.Validator.ValidateStruct(&v)
			}
		case SourceQuery:
			err = c.ShouldBindQuery(&v)
		case SourceParams:
			err = c.ShouldBindUri(&v)
		}
		if err != nil {
			ValidationFailures.WithLabelValues(string(src)).Inc()
			fields := conversionErrors(err, rawValues(c, src), reflect.TypeOf(v), src.tag())
			if len(fields) == 0 {
				fields = FieldErrors(err, reflect.TypeOf(v))
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{Errors: fields})
			return
		}
		c.Set(src.contextKey(), v)
		c.Next()
	}
}

// Body returns the value produced by ValidateBody[T].
func Body[T any](c *gin.Context) T { return c.MustGet(SourceBody.contextKey()).(T) }

// Query returns the value produced by ValidateQuery[T].
func Query[T any](c *gin.Context) T { return c.MustGet(SourceQuery.contextKey()).(T) }

// Params returns the value produced by ValidateParams[T].
func Params[T any](c *gin.Context) T { return c.MustGet(SourceParams.contextKey()).(T) }

// tag is the struct tag gin maps the source's raw values with.
func (s Source) tag() string {
	switch s {
	case SourceQuery:
		return "form"
	case SourceParams:
		return "uri"
	default:
		return ""
	}
}

func rawValues(c *gin.Context, src Source) map[string][]string {
	switch src {
	case SourceQuery:
		return c.Request.URL.Query()
	case SourceParams:
		out := make(map[string][]string, len(c.Params))
		for _, p := range c.Params {
			out[p.Key] = []string{p.Value}
		}
		return out
	default:
		return nil
	}
}

// conversionErrors names the query or path fields whose raw value does not
// convert to the contract field's type. gin reports these as a bare
// *strconv.NumError without the field name.
func conversionErrors(err error, values map[string][]string, t reflect.Type, tag string) []FieldError {
	var numErr *strconv.NumError
	if tag == "" || !errors.As(err, &numErr) {
		return nil
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var out []FieldError
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "" || name == "-" {
			continue
		}
		raw := values[name]
		if len(raw) == 0 || raw[0] == "" {
			continue
		}
		if !convertible(raw[0], f.Type) {
			out = append(out, FieldError{
				Field:   name,
				Message: fmt.Sprintf("Expected %s, received %q", kindName(f.Type), raw[0]),
			})
		}
	}
	return out
}

func convertible(s string, t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var err error
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, err = strconv.ParseInt(s, 10, t.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		_, err = strconv.ParseUint(s, 10, t.Bits())
	case reflect.Float32, reflect.Float64:
		_, err = strconv.ParseFloat(s, t.Bits())
	case reflect.Bool:
		_, err = strconv.ParseBool(s)
	}
	return err == nil
}

// FieldErrors converts a binding error into one FieldError per violation.
// t is the contract type and is used to resolve cross-field rule parameters.
func FieldErrors(err error, t reflect.Type) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fieldPath(fe), Message: ruleMessage(fe, t)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Expected %s, received %s", kindName(typeErr.Type), typeErr.Value),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []FieldError{{Field: "", Message: "Malformed JSON body"}}
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return []FieldError{{Field: "", Message: fmt.Sprintf("Invalid number %q", numErr.Num)}}
	}

	return []FieldError{{Field: "", Message: err.Error()}}
}

// fieldPath drops the leading struct name from the validator namespace,
// e.g. "CreatePostRequest.authorId" becomes "authorId".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError, t reflect.Type) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Number must be greater than %s", fe.Param())
	case "digits":
		name := fe.Field()
		if name == "id" {
			name = "ID"
		}
		return name + " must be a number"
	case "nefield":
		return fmt.Sprintf("Must differ from %s", structFieldWireName(t, fe.Param()))
	default:
		return fmt.Sprintf("Failed the %q rule", fe.Tag())
	}
}

func structFieldWireName(t reflect.Type, goName string) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return goName
	}
	if f, ok := t.FieldByName(goName); ok {
		return wireName(f)
	}
	return goName
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer:
		return kindName(t.Elem())
	default:
		return t.String()
	}
}
