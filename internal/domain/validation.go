package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors is a list of user-facing problems that block a save
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	return strings.Join(v, "; ")
}

var tourValidator = newTourValidator()

func newTourValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

var fieldLabels = map[string]string{
	"Code":         "tour code",
	"CustomerName": "customer name",
	"GuideID":      "assigned guide",
	"StartDate":    "start date",
	"EndDate":      "end date",
	"Pax":          "pax",
	"Quantity":     "quantity",
	"UnitPrice":    "unit price",
	"Amount":       "amount",
}

// ValidateForSave checks a manually edited tour. It returns nil when the
// tour can be saved.
func ValidateForSave(t *Tour) ValidationErrors {
	err := tourValidator.Struct(t)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{err.Error()}
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, describeFieldError(fe))
	}
	return out
}

func describeFieldError(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.StructField()]
	if !ok {
		label = fe.StructField()
	}

	// Namespace looks like Tour.Services[2].UnitPrice for list items
	prefix := ""
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) >= 3 {
		if owner := parts[len(parts)-2]; strings.HasSuffix(owner, "]") {
			open := strings.LastIndex(owner, "[")
			idx, err := strconv.Atoi(owner[open+1 : len(owner)-1])
			if err == nil {
				noun := "item"
				switch owner[:open] {
				case "Services":
					noun = "service"
				case "OtherExpenses":
					noun = "expense"
				}
				prefix = fmt.Sprintf("%s #%d: ", noun, idx+1)
			}
		}
	}

	switch fe.Tag() {
	case "notblank", "required":
		return prefix + label + " is required"
	case "gte":
		return prefix + label + " cannot be negative"
	default:
		return prefix + label + " is invalid"
	}
}
