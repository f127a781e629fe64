// Package validation проверяет форму входящих JSON-документов до того, как они попадут в ядро.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const rootField = "(root)"

// Validator проверяет документ по скомпилированной JSON Schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// New компилирует схему.
func New(schema string) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, fmt.Errorf("compile json schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

func mustNew(schema string) *Validator {
	v, err := New(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// NewCheckoutValidator возвращает валидатор запроса на оформление заказа.
func NewCheckoutValidator() *Validator { return mustNew(checkoutSchema) }

// NewStatusValidator возвращает валидатор запроса на смену статуса заказа.
func NewStatusValidator() *Validator { return mustNew(statusSchema) }

// Validate возвращает *domain.ValidationError со списком полей или nil.
func (v *Validator) Validate(body []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return domain.NewValidationError(domain.FieldError{Field: "body", Message: "malformed JSON"})
	}
	if result.Valid() {
		return nil
	}

	fields := make([]domain.FieldError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		fields = append(fields, domain.FieldError{
			Field:   fieldPath(e),
			Message: e.Description(),
		})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return domain.NewValidationError(fields...)
}

// fieldPath строит путь поля; для required указывает отсутствующее свойство.
func fieldPath(e gojsonschema.ResultError) string {
	field := e.Field()
	if e.Type() == "required" {
		if property, ok := e.Details()["property"].(string); ok {
			if field == rootField {
				return property
			}
			return field + "." + property
		}
	}
	if field == rootField {
		return "body"
	}
	return strings.TrimPrefix(field, rootField+".")
}
