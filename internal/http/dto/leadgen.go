package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type LeadGenRequest struct {
	Product   string `json:"product" binding:"required"`
	Customers string `json:"customers" binding:"required"`
}

// DecodeLeadGenRequest reads product and customers from a JSON object. Scalars of any
// JSON type are converted to their string form; null, empty arrays and empty objects
// count as absent. Bodies that are not a JSON object return an error.
func DecodeLeadGenRequest(body []byte) (LeadGenRequest, error) {
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return LeadGenRequest{}, err
	}

	return LeadGenRequest{
		Product:   coerceString(fields["product"]),
		Customers: coerceString(fields["customers"]),
	}, nil
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case []any:
		if len(t) == 0 {
			return ""
		}
	case map[string]any:
		if len(t) == 0 {
			return ""
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// GenerationResponse is the enveloped success body.
type GenerationResponse struct {
	Data    string `json:"data"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

var registerOnce sync.Once

// RegisterJSONFieldNames makes validation errors report JSON field names.
func RegisterJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// ToFieldErrors itemizes validator errors. It returns nil when err holds none.
func ToFieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Type:     "field",
			Value:    fe.Value(),
			Msg:      fieldMessage(fe),
			Path:     fe.Field(),
			Location: "body",
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return fe.StructField() + " is required"
	}
	return "Invalid value"
}
