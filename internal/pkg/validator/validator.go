// Package validator checks request payloads against their `validate` tags and
// reports failures keyed by the JSON field name.
package validator

// Validator validates a struct according to its `validate` tags.
type Validator interface {
	Validate(data any) error
}
