// Package form holds the field-presence checks and display helpers used while a DOTS
// transaction form is being filled in.
package form

import (
	"strings"

	"github.com/farhandwi/dots/internal/domain/entity"
)

// baseRequiredFields must be filled on every form type
var baseRequiredFields = []string{
	"trx_type",
	"form_type",
	"company_code",
	"cost_center",
	"bp",
	"currency",
	"amount",
	"description",
}

var extraRequiredFields = map[string][]string{
	entity.FormTypeCashInAdvance: {"due_date"},
	entity.FormTypeReimbursement: {"invoice_number", "invoice_date"},
	entity.FormTypeDirectPayment: {"invoice_number", "invoice_date", "bank_account"},
}

// IsEmpty reports whether a value is blank after trimming whitespace
func IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

// AreFieldsFilled reports whether every named field is non-empty.
// Unknown field names count as empty.
func AreFieldsFilled(data entity.FormData, fields ...string) bool {
	for _, name := range fields {
		value, ok := data.Get(name)
		if !ok || IsEmpty(value) {
			return false
		}
	}
	return true
}

// HasFilledData reports whether any field of the form holds a value
func HasFilledData(data entity.FormData) bool {
	for _, field := range data.Fields() {
		if !IsEmpty(field.Value) {
			return true
		}
	}
	return false
}

// HasFilledDataSpecific reports whether any of the named fields holds a value
func HasFilledDataSpecific(data entity.FormData, fields ...string) bool {
	for _, name := range fields {
		if value, ok := data.Get(name); ok && !IsEmpty(value) {
			return true
		}
	}
	return false
}

// RequiredFields returns the fields that must be filled for the given form type
func RequiredFields(formType string) []string {
	required := append([]string{}, baseRequiredFields...)
	return append(required, extraRequiredFields[formType]...)
}

// IsRequiredFieldsFilled reports whether all fields required by the form's type are filled
func IsRequiredFieldsFilled(data entity.FormData) bool {
	return AreFieldsFilled(data, RequiredFields(data.FormType)...)
}

// MissingFields lists the required fields that are still empty
func MissingFields(data entity.FormData) []string {
	var missing []string
	for _, name := range RequiredFields(data.FormType) {
		if !AreFieldsFilled(data, name) {
			missing = append(missing, name)
		}
	}
	return missing
}
