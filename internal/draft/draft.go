package draft

import (
	"strings"
	"sync"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Draft is the checkout context gathered across screens before submission.
// The customer email is never stored here; it is only read from the final
// checkout form.
type Draft struct {
	Method        ConsumptionMethod `json:"consumitionMethod"`
	TableNumber   string            `json:"tableNumber,omitempty"`
	CustomerName  string            `json:"customerName,omitempty"`
	CustomerPhone string            `json:"customerTelefone,omitempty"`
}

// Store holds the draft of one session.
type Store struct {
	mu    sync.Mutex
	draft Draft
}

// NewStore returns a store with an empty draft.
func NewStore() *Store {
	return &Store{}
}

// SetConsumptionMethod records the method without validation.
func (s *Store) SetConsumptionMethod(m ConsumptionMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Method = m
}

// SetTableNumber records a free-text table identifier without validation.
func (s *Store) SetTableNumber(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.TableNumber = table
}

// Current returns a copy of the stored draft.
func (s *Store) Current() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Finalize runs the validation gate on candidate against a cart holding
// cartLines lines. On success candidate replaces the stored draft; on failure
// the stored draft is left untouched and a *ValidationError is returned.
func (s *Store) Finalize(candidate Draft, cartLines int) error {
	if err := Validate(candidate, cartLines); err != nil {
		return err
	}
	s.Replace(candidate)
	return nil
}

// Replace stores d without running the gate. Callers must have validated d.
func (s *Store) Replace(d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}

// Merge overlays the non-empty customer fields of form onto d.
func (d Draft) Merge(name, phone string) Draft {
	if v := strings.TrimSpace(name); v != "" {
		d.CustomerName = v
	}
	if v := strings.TrimSpace(phone); v != "" {
		d.CustomerPhone = v
	}
	return d
}

// gateInput lists the gate rules in the order they are reported.
type gateInput struct {
	TableNumber   string            `validate:"required_if=Method comer"`
	CustomerName  string            `validate:"required"`
	CustomerPhone string            `validate:"required"`
	Method        ConsumptionMethod `validate:"required,oneof=comer levar"`
	CartLines     int               `validate:"gt=0"`
}

var gate = validatorv10.New()

// Validate is the checkout gate. It never mutates anything.
func Validate(d Draft, cartLines int) error {
	in := gateInput{
		TableNumber:   strings.TrimSpace(d.TableNumber),
		CustomerName:  strings.TrimSpace(d.CustomerName),
		CustomerPhone: strings.TrimSpace(d.CustomerPhone),
		Method:        d.Method,
		CartLines:     cartLines,
	}
	err := gate.Struct(in)
	if err == nil {
		return nil
	}
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok || len(ve) == 0 {
		return &ValidationError{Field: "order", Message: MsgMissingInformation}
	}
	return toValidationError(ve[0])
}

func toValidationError(fe validatorv10.FieldError) *ValidationError {
	switch fe.StructField() {
	case "TableNumber":
		return &ValidationError{Field: "tableNumber", Message: MsgTableRequired}
	case "CustomerName":
		return &ValidationError{Field: "customerName", Message: MsgMissingInformation}
	case "CustomerPhone":
		return &ValidationError{Field: "customerTelefone", Message: MsgMissingInformation}
	case "Method":
		return &ValidationError{Field: "consumitionMethod", Message: MsgMissingInformation}
	default:
		return &ValidationError{Field: "products", Message: MsgMissingInformation}
	}
}
