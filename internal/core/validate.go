// AngelaMos | 2026
// validate.go

package core

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Normalizer is implemented by request types that trim or fold their fields
// before validation.
type Normalizer interface {
	Normalize()
}

// DecodeAndValidate reads a JSON body into dst and validates it, writing the
// 400 response itself on failure. Callers return when it reports false.
func DecodeAndValidate(
	w http.ResponseWriter,
	r *http.Request,
	v *validator.Validate,
	dst any,
) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}

	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}

	if err := v.Struct(dst); err != nil {
		ValidationFailed(w, err)
		return false
	}

	return true
}

// ValidUUID reports whether s is a canonical UUID. Handlers use it to turn
// malformed path ids into 404s before touching storage.
func ValidUUID(s string) bool {
	return uuid.Validate(s) == nil && len(s) == 36
}
