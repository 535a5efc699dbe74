package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindTable(t *testing.T) {
	tests := []struct {
		kind     Kind
		category Category
		status   int
		code     string
	}{
		{KindBadRequest, CategoryClient, http.StatusBadRequest, "BadRequest"},
		{KindValidation, CategoryClient, http.StatusBadRequest, "ValidationError"},
		{KindUnauthorized, CategoryClient, http.StatusUnauthorized, "Unauthorized"},
		{KindForbidden, CategoryClient, http.StatusForbidden, "Forbidden"},
		{KindNotFound, CategoryClient, http.StatusNotFound, "NotFound"},
		{KindConflict, CategoryClient, http.StatusConflict, "Conflict"},
		{KindBusinessRule, CategoryClient, http.StatusBadRequest, "BusinessRule"},
		{KindConfiguration, CategoryServer, http.StatusInternalServerError, "Configuration"},
		{KindDatabase, CategoryServer, http.StatusInternalServerError, "Database"},
		{KindExternalDependency, CategoryServer, http.StatusBadGateway, "ExternalDependency"},
		{KindServiceUnavailable, CategoryServer, http.StatusServiceUnavailable, "ServiceUnavailable"},
		{KindInternal, CategoryServer, http.StatusInternalServerError, "InternalError"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.kind.Category())
			assert.Equal(t, tt.status, tt.kind.StatusCode())
			assert.Equal(t, tt.code, tt.kind.Code())
			assert.NotEmpty(t, tt.kind.ExceptionType())
		})
	}

	t.Run("unknown kind falls back to internal", func(t *testing.T) {
		assert.Equal(t, "InternalError", Kind(99).Code())
		assert.Equal(t, http.StatusInternalServerError, Kind(99).StatusCode())
	})
}

func TestNotFound(t *testing.T) {
	err := NotFound("Category", 42)

	assert.Equal(t, "Category with identifier '42' was not found.", err.Error())
	assert.Equal(t, KindNotFound, err.Kind())
	assert.Equal(t, http.StatusNotFound, err.StatusCode())
	assert.Equal(t, "NotFound", err.Code())
	assert.Equal(t, map[string]any{"entityName": "Category", "key": 42}, err.Details())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestConflict(t *testing.T) {
	err := Conflict("Product", "Hammer")

	assert.Equal(t, "The Product with the 'Hammer' already exists.", err.Error())
	assert.Equal(t, CategoryClient, err.Category())
	assert.Equal(t, http.StatusConflict, err.StatusCode())
	assert.Equal(t, "Hammer", err.Details()["key"])
}

func TestBusinessRuleViolation(t *testing.T) {
	err := BusinessRuleViolation("MinimumStock", "stock below threshold")

	assert.Equal(t, "The business rule 'MinimumStock' was violated: stock below threshold.", err.Message())
	assert.Equal(t, "BusinessRule", err.Code())
	assert.Equal(t, "MinimumStock", err.Details()["rule"])
}

func TestDatabaseFailure(t *testing.T) {
	cause := errors.New("connection reset")
	err := DatabaseFailure("Failed to add category", cause)

	assert.Equal(t, "Database operation 'Failed to add category' failed.", err.Message())
	assert.Equal(t, CategoryServer, err.Category())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "Failed to add category", err.Details()["operation"])
}

func TestServiceUnavailable(t *testing.T) {
	err := ServiceUnavailable("Database")

	assert.Equal(t, "Service 'Database' is currently unavailable.", err.Message())
	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode())
}

func TestDomainError_Immutability(t *testing.T) {
	original := NotFound("Product", "abc")

	details := original.Details()
	details["key"] = "mutated"
	assert.Equal(t, "abc", original.Details()["key"])

	withCode := original.WithCode("ProductMissing")
	assert.Equal(t, "NotFound", original.Code())
	assert.Equal(t, "ProductMissing", withCode.Code())

	withDetail := original.WithDetail("hint", "check the id")
	assert.Nil(t, original.Details()["hint"])
	assert.Equal(t, "check the id", withDetail.Details()["hint"])
}

func TestAsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", Conflict("Category", "Tools"))

	de, ok := AsDomainError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindConflict, de.Kind())
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestValidation(t *testing.T) {
	fields := FieldErrors{}
	fields.Add("name", "Category name is required.")
	fields.Add("name", "Category name must be between 1 and 100 characters.")
	fields["empty"] = nil

	err := Validation(fields)

	assert.Equal(t, "One or more validation errors occurred.", err.Message())
	assert.Equal(t, "ValidationError", err.Code())
	assert.Equal(t, map[string][]string{
		"name": {"Category name is required.", "Category name must be between 1 and 100 characters."},
	}, err.ValidationErrors())
	assert.NotContains(t, err.Details(), "empty")
	assert.True(t, errors.Is(err, ErrValidation))

	t.Run("copies are independent", func(t *testing.T) {
		got := err.ValidationErrors()
		got["name"][0] = "changed"
		assert.Equal(t, "Category name is required.", err.ValidationErrors()["name"][0])
	})

	t.Run("single field", func(t *testing.T) {
		single := FieldValidation("price", "Product price is required.")
		assert.Equal(t, "Validation failed for price", single.Message())
		assert.Equal(t, []string{"Product price is required."}, single.ValidationErrors()["price"])
	})

	t.Run("non validation errors have no field map", func(t *testing.T) {
		assert.Nil(t, NotFound("Product", 1).ValidationErrors())
	})
}

func TestArgumentFaults(t *testing.T) {
	missing := MissingParameter("minPrice")
	assert.ErrorIs(t, missing, ErrMissingParameter)
	assert.NotErrorIs(t, missing, ErrInvalidArgument)

	invalid := InvalidArgument("id", "must be a positive integer")
	assert.ErrorIs(t, invalid, ErrInvalidArgument)
	assert.Equal(t, "Parameter 'id' must be a positive integer.", invalid.Error())

	assert.ErrorIs(t, InvalidOperation("stock is locked"), ErrInvalidOperation)
	assert.Equal(t, "stock is locked", InvalidOperation("stock is locked").Error())
	assert.ErrorIs(t, AccessDenied("read only"), ErrAccessDenied)
}
