package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"ProductsAPI/pkg/kit"
)

const (
	msgValidationFailed = "Validation failed"

	msgNameRequired        = "Name is required and must be a non-empty string."
	msgDescriptionRequired = "Description is required and must be a non-empty string."
	msgPriceRequired       = "Price is required and must be a positive number."
	msgCategoryRequired    = "Category is required and must be a non-empty string."
	msgInStockBoolean      = "inStock must be a boolean if provided."

	msgNameInvalid        = "Name must be a non-empty string if provided."
	msgDescriptionInvalid = "Description must be a non-empty string if provided."
	msgPriceInvalid       = "Price must be a positive number if provided."
	msgCategoryInvalid    = "Category must be a non-empty string if provided."

	msgEmptyUpdate   = "Request body cannot be empty for product update."
	msgNoValidFields = "No valid fields provided for product update."
)

// Body is a decoded JSON object keyed by field name. Keeping the raw values
// lets validation tell an absent field from one with the wrong type.
type Body map[string]json.RawMessage

// Validator checks product payloads. It never short-circuits: every
// violation is collected before failing.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Create validates a full product. On success every required field of the
// returned patch is set.
func (val *Validator) Create(body Body) (ProductPatch, error) {
	var (
		out  ProductPatch
		errs []string
	)

	if s, ok := val.text(body["name"]); ok {
		out.Name = &s
	} else {
		errs = append(errs, msgNameRequired)
	}
	if s, ok := val.text(body["description"]); ok {
		out.Description = &s
	} else {
		errs = append(errs, msgDescriptionRequired)
	}
	if f, ok := val.price(body["price"]); ok {
		out.Price = &f
	} else {
		errs = append(errs, msgPriceRequired)
	}
	if s, ok := val.text(body["category"]); ok {
		out.Category = &s
	} else {
		errs = append(errs, msgCategoryRequired)
	}
	if raw, present := body["inStock"]; present {
		if b, ok := boolean(raw); ok {
			out.InStock = &b
		} else {
			errs = append(errs, msgInStockBoolean)
		}
	}

	if len(errs) > 0 {
		return ProductPatch{}, kit.Validation(msgValidationFailed, errs...)
	}
	return out, nil
}

// Update validates a partial product. Absent fields are fine; present ones
// must be valid, and at least one must be accepted.
func (val *Validator) Update(body Body) (ProductPatch, error) {
	var (
		out      ProductPatch
		errs     []string
		accepted bool
	)

	if raw, present := body["name"]; present {
		if s, ok := val.text(raw); ok {
			out.Name, accepted = &s, true
		} else {
			errs = append(errs, msgNameInvalid)
		}
	}
	if raw, present := body["description"]; present {
		if s, ok := val.text(raw); ok {
			out.Description, accepted = &s, true
		} else {
			errs = append(errs, msgDescriptionInvalid)
		}
	}
	if raw, present := body["price"]; present {
		if f, ok := val.price(raw); ok {
			out.Price, accepted = &f, true
		} else {
			errs = append(errs, msgPriceInvalid)
		}
	}
	if raw, present := body["category"]; present {
		if s, ok := val.text(raw); ok {
			out.Category, accepted = &s, true
		} else {
			errs = append(errs, msgCategoryInvalid)
		}
	}
	if raw, present := body["inStock"]; present {
		if b, ok := boolean(raw); ok {
			out.InStock, accepted = &b, true
		} else {
			errs = append(errs, msgInStockBoolean)
		}
	}

	switch {
	case len(body) == 0:
		errs = append(errs, msgEmptyUpdate)
	case !accepted:
		errs = append(errs, msgNoValidFields)
	}

	if len(errs) > 0 {
		return ProductPatch{}, kit.Validation(msgValidationFailed, errs...)
	}
	return out, nil
}

func (val *Validator) text(raw json.RawMessage) (string, bool) {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, val.v.Var(strings.TrimSpace(s), "required") == nil
}

func (val *Validator) price(raw json.RawMessage) (float64, bool) {
	var f float64
	if isNull(raw) || json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	return f, val.v.Var(f, "gt=0") == nil
}

func boolean(raw json.RawMessage) (bool, bool) {
	var b bool
	if isNull(raw) || json.Unmarshal(raw, &b) != nil {
		return false, false
	}
	return b, true
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
