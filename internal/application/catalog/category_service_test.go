package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecommerce/product-service/internal/domain/catalog"
	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCategory(id int, name string) *catalog.Category {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &catalog.Category{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
}

func TestCategoryService_Create_Success(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("ExistsByName", ctx, "Tools").Return(false, nil)
	repo.On("Add", ctx, mock.MatchedBy(func(c *catalog.Category) bool {
		return c.Name == "Tools"
	})).Return(newTestCategory(1, "Tools"), nil)

	result, err := service.Create(ctx, CreateCategoryRequest{Name: "Tools"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.ID)
	assert.Equal(t, "Tools", result.Name)
	repo.AssertExpectations(t)
}

func TestCategoryService_Create_DuplicateName(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)
	ctx := context.Background()

	repo.On("ExistsByName", ctx, "Tools").Return(true, nil)

	result, err := service.Create(ctx, CreateCategoryRequest{Name: "Tools"})

	assert.Nil(t, result)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, shared.KindConflict, de.Kind())
	assert.Equal(t, "Tools", de.Details()["key"])
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCategoryService_Create_ConstraintRace(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)
	ctx := context.Background()

	// another request inserted the name between the check and the write
	repo.On("ExistsByName", ctx, "Tools").Return(false, nil)
	repo.On("Add", ctx, mock.Anything).Return(nil, shared.Conflict("Category", "Tools"))

	_, err := service.Create(ctx, CreateCategoryRequest{Name: "Tools"})

	assert.True(t, shared.IsKind(err, shared.KindConflict))
}

func TestCategoryService_Create_RepositoryError(t *testing.T) {
	repo := new(MockCategoryRepository)
	service := NewCategoryService(repo)
	ctx := context.Background()

	dbErr := shared.DatabaseFailure("Failed to check category name", errors.New("connection refused"))
	repo.On("ExistsByName", ctx, "Tools").Return(false, dbErr)

	_, err := service.Create(ctx, CreateCategoryRequest{Name: "Tools"})

	assert.ErrorIs(t, err, shared.ErrDatabase)
}

func TestCategoryService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("GetByID", ctx, 7).Return(newTestCategory(7, "Garden"), nil)

		result, err := NewCategoryService(repo).GetByID(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, "Garden", result.Name)
	})

	t.Run("absent", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("GetByID", ctx, 7).Return(nil, nil)

		result, err := NewCategoryService(repo).GetByID(ctx, 7)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.EqualError(t, err, "Category with identifier '7' was not found.")
	})
}

func TestCategoryService_GetByName_NotFound(t *testing.T) {
	repo := new(MockCategoryRepository)
	ctx := context.Background()
	repo.On("GetByName", ctx, "Missing").Return(nil, nil)

	_, err := NewCategoryService(repo).GetByName(ctx, "Missing")

	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "Missing", de.Details()["key"])
	assert.Equal(t, "Category", de.Details()["entityName"])
}

func TestCategoryService_GetAll(t *testing.T) {
	repo := new(MockCategoryRepository)
	ctx := context.Background()
	repo.On("GetAll", ctx).Return([]catalog.Category{*newTestCategory(2, "Garden"), *newTestCategory(1, "Tools")}, nil)

	result, err := NewCategoryService(repo).GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Garden", result[0].Name)
	assert.Equal(t, "Tools", result[1].Name)
}

func TestCategoryService_Update_Success(t *testing.T) {
	repo := new(MockCategoryRepository)
	cache := newMapNameCache()
	cache.names[1] = "Tools"
	service := NewCategoryService(repo, WithCategoryNameCache(cache))
	ctx := context.Background()

	repo.On("GetByID", ctx, 1).Return(newTestCategory(1, "Tools"), nil)
	repo.On("GetByName", ctx, "Hand Tools").Return(nil, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(c *catalog.Category) bool {
		return c.ID == 1 && c.Name == "Hand Tools"
	})).Return(newTestCategory(1, "Hand Tools"), nil)

	result, err := service.Update(ctx, 1, UpdateCategoryRequest{Name: "Hand Tools"})

	require.NoError(t, err)
	assert.Equal(t, "Hand Tools", result.Name)
	assert.Equal(t, []int{1}, cache.invalidated)
	assert.NotContains(t, cache.names, 1)
}

func TestCategoryService_Update_SameNameKeepsOwnName(t *testing.T) {
	repo := new(MockCategoryRepository)
	ctx := context.Background()

	repo.On("GetByID", ctx, 1).Return(newTestCategory(1, "Tools"), nil)
	repo.On("GetByName", ctx, "Tools").Return(newTestCategory(1, "Tools"), nil)
	repo.On("Update", ctx, mock.Anything).Return(newTestCategory(1, "Tools"), nil)

	_, err := NewCategoryService(repo).Update(ctx, 1, UpdateCategoryRequest{Name: "Tools"})

	assert.NoError(t, err)
}

func TestCategoryService_Update_NotFoundBeforeUniqueness(t *testing.T) {
	repo := new(MockCategoryRepository)
	ctx := context.Background()

	repo.On("GetByID", ctx, 9).Return(nil, nil)

	_, err := NewCategoryService(repo).Update(ctx, 9, UpdateCategoryRequest{Name: "Tools"})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCategoryService_Update_NameTaken(t *testing.T) {
	repo := new(MockCategoryRepository)
	ctx := context.Background()

	repo.On("GetByID", ctx, 1).Return(newTestCategory(1, "Tools"), nil)
	repo.On("GetByName", ctx, "Garden").Return(newTestCategory(2, "Garden"), nil)

	_, err := NewCategoryService(repo).Update(ctx, 1, UpdateCategoryRequest{Name: "Garden"})

	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, shared.KindConflict, de.Kind())
	assert.Equal(t, "Garden", de.Details()["key"])
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCategoryService_Update_NoRowWritten(t *testing.T) {
	repo := new(MockCategoryRepository)
	ctx := context.Background()

	repo.On("GetByID", ctx, 1).Return(newTestCategory(1, "Tools"), nil)
	repo.On("GetByName", ctx, "Hand Tools").Return(nil, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil, nil)

	_, err := NewCategoryService(repo).Update(ctx, 1, UpdateCategoryRequest{Name: "Hand Tools"})

	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, shared.KindServiceUnavailable, de.Kind())
	assert.Equal(t, 503, de.StatusCode())
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("absent returns false on every call", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		repo.On("ExistsByID", ctx, 5).Return(false, nil)
		service := NewCategoryService(repo)

		for range 2 {
			deleted, err := service.Delete(ctx, 5)
			assert.NoError(t, err)
			assert.False(t, deleted)
		}
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("present", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		cache := newMapNameCache()
		repo.On("ExistsByID", ctx, 5).Return(true, nil)
		repo.On("Delete", ctx, 5).Return(true, nil)

		deleted, err := NewCategoryService(repo, WithCategoryNameCache(cache)).Delete(ctx, 5)

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, []int{5}, cache.invalidated)
	})
}
