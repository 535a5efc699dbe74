package catalog

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/ecommerce/product-service/internal/domain/catalog"
	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var (
	categoryNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s&-]+$`)
	productNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9\s&\-.,()]+$`)
)

// RegisterValidations installs the catalog validation tags on v. It must run
// once, before NewValidatorRegistry.
func RegisterValidations(v *validator.Validate) error {
	// decimals are validated through their canonical string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	tags := map[string]validator.Func{
		"notblank":        nonstandard.NotBlank,
		"category_name":   matches(categoryNamePattern),
		"product_name":    matches(productNamePattern),
		"decimal_gte":     decimalGTE,
		"price_precision": pricePrecision,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register validation %q: %w", tag, err)
		}
	}
	return nil
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

func decimalGTE(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	return value.GreaterThanOrEqual(bound)
}

func pricePrecision(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return WithinPrecision(value, catalog.PricePrecision, catalog.PriceScale)
}

// WithinPrecision reports whether d fits a column with the given total digits
// and decimal places. Trailing fractional zeros are not significant.
func WithinPrecision(d decimal.Decimal, precision, scale int) bool {
	intPart, frac, _ := strings.Cut(d.Abs().String(), ".")
	if len(frac) > scale {
		return false
	}
	return len(strings.TrimLeft(intPart, "0")) <= precision-scale
}

// rule is one validator tag and the message reported when it fails.
// A failing stop rule skips the remaining rules of its field.
type rule struct {
	tag     string
	message string
	stop    bool
}

func required(message string) rule {
	return rule{tag: "required", message: message, stop: true}
}

// fieldRules binds a JSON field name to the value it is checked against.
type fieldRules[T any] struct {
	field string
	value func(*T) any
	rules []rule
}

// RequestValidator checks one request shape and returns every violation.
type RequestValidator interface {
	Validate(req any) (shared.FieldErrors, error)
}

// ruleSet is the declarative validator of request type T. Every field is
// evaluated; rules of a field run in declaration order.
type ruleSet[T any] struct {
	validate *validator.Validate
	fields   []fieldRules[T]
}

func (s *ruleSet[T]) Validate(req any) (shared.FieldErrors, error) {
	var target *T
	switch r := req.(type) {
	case *T:
		target = r
	case T:
		target = &r
	default:
		return nil, fmt.Errorf("validator for %T cannot check %T", *new(T), req)
	}

	violations := shared.FieldErrors{}
	for _, f := range s.fields {
		value := f.value(target)
		for _, r := range f.rules {
			err := s.validate.Var(value, r.tag)
			if err == nil {
				continue
			}
			if _, ok := err.(validator.ValidationErrors); !ok {
				return nil, fmt.Errorf("field %s rule %s: %w", f.field, r.tag, err)
			}
			violations.Add(f.field, r.message)
			if r.stop {
				break
			}
		}
	}
	return violations, nil
}

func categoryNameRules[T any](name func(*T) string) fieldRules[T] {
	return fieldRules[T]{
		field: "name",
		value: func(r *T) any { return name(r) },
		rules: []rule{
			{tag: "notblank", message: "Category name is required.", stop: true},
			{tag: "min=1,max=100", message: "Category name must be between 1 and 100 characters."},
			{tag: "category_name", message: "Category name can only contain letters, numbers, spaces, ampersands, and hyphens."},
		},
	}
}

func productRules[T any](get func(*T) (string, *string, any, any, any)) []fieldRules[T] {
	return []fieldRules[T]{
		{
			field: "name",
			value: func(r *T) any { name, _, _, _, _ := get(r); return name },
			rules: []rule{
				{tag: "notblank", message: "Product name is required.", stop: true},
				{tag: "min=1,max=100", message: "Product name must be between 1 and 100 characters."},
				{tag: "product_name", message: "Product name contains invalid characters."},
			},
		},
		{
			field: "description",
			value: func(r *T) any { _, desc, _, _, _ := get(r); return desc },
			rules: []rule{
				{tag: "omitempty,max=255", message: "Product description cannot exceed 255 characters."},
			},
		},
		{
			field: "price",
			value: func(r *T) any { _, _, price, _, _ := get(r); return price },
			rules: []rule{
				required("Product price is required."),
				{tag: "decimal_gte=0", message: "Product price must be greater than or equal to 0."},
				{tag: "price_precision", message: "Product price must not exceed 10 digits with 2 decimal places."},
			},
		},
		{
			field: "stock",
			value: func(r *T) any { _, _, _, stock, _ := get(r); return stock },
			rules: []rule{
				required("Product stock is required."),
				{tag: "gte=0", message: "Product stock must be greater than or equal to 0."},
				{tag: "lte=1000000", message: "Product stock cannot exceed 1,000,000 units."},
			},
		},
		{
			field: "categoryId",
			value: func(r *T) any { _, _, _, _, categoryID := get(r); return categoryID },
			rules: []rule{
				required("Category ID is required."),
				{tag: "gt=0", message: "Category ID must be a positive integer."},
			},
		},
	}
}

// ValidatorRegistry maps each request type to its validator. It is built
// once at startup and shared read-only between requests.
type ValidatorRegistry struct {
	validators map[reflect.Type]RequestValidator
}

// NewValidatorRegistry builds the validators of every catalog request shape.
// v must already carry the tags installed by RegisterValidations.
func NewValidatorRegistry(v *validator.Validate) *ValidatorRegistry {
	reg := &ValidatorRegistry{validators: make(map[reflect.Type]RequestValidator)}

	register(reg, &ruleSet[CreateCategoryRequest]{
		validate: v,
		fields: []fieldRules[CreateCategoryRequest]{
			categoryNameRules(func(r *CreateCategoryRequest) string { return r.Name }),
		},
	})
	register(reg, &ruleSet[UpdateCategoryRequest]{
		validate: v,
		fields: []fieldRules[UpdateCategoryRequest]{
			categoryNameRules(func(r *UpdateCategoryRequest) string { return r.Name }),
		},
	})
	register(reg, &ruleSet[CreateProductRequest]{
		validate: v,
		fields: productRules(func(r *CreateProductRequest) (string, *string, any, any, any) {
			return r.Name, r.Description, r.Price, r.Stock, r.CategoryID
		}),
	})
	register(reg, &ruleSet[UpdateProductRequest]{
		validate: v,
		fields: productRules(func(r *UpdateProductRequest) (string, *string, any, any, any) {
			return r.Name, r.Description, r.Price, r.Stock, r.CategoryID
		}),
	})
	register(reg, &ruleSet[UpdateStockRequest]{
		validate: v,
		fields: []fieldRules[UpdateStockRequest]{
			{
				field: "newStock",
				value: func(r *UpdateStockRequest) any { return r.NewStock },
				rules: []rule{
					required("Stock is required."),
					{tag: "gte=0", message: "Stock must be greater than or equal to 0."},
					{tag: "lte=1000000", message: "Stock cannot exceed 1,000,000 units."},
				},
			},
		},
	})

	return reg
}

func register[T any](reg *ValidatorRegistry, set *ruleSet[T]) {
	reg.validators[reflect.TypeFor[T]()] = set
}

// Validate runs the validator registered for req's type. It returns a
// Validation domain error when at least one field is invalid.
func (r *ValidatorRegistry) Validate(req any) error {
	t := reflect.TypeOf(req)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	v, ok := r.validators[t]
	if !ok {
		return fmt.Errorf("no validator registered for %v", t)
	}

	violations, err := v.Validate(req)
	if err != nil {
		return err
	}
	if violations.Empty() {
		return nil
	}
	return shared.Validation(violations)
}

// Has reports whether a validator is registered for values of type t.
func (r *ValidatorRegistry) Has(t reflect.Type) bool {
	_, ok := r.validators[t]
	return ok
}
