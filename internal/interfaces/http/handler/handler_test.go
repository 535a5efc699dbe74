package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	catalogapp "github.com/ecommerce/product-service/internal/application/catalog"
	"github.com/ecommerce/product-service/internal/infrastructure/persistence"
	"github.com/ecommerce/product-service/internal/interfaces/http/middleware"
	"github.com/ecommerce/product-service/internal/interfaces/http/router"
	"github.com/ecommerce/product-service/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	registryOnce sync.Once
	registry     *catalogapp.ValidatorRegistry
)

func testRegistry(t *testing.T) *catalogapp.ValidatorRegistry {
	t.Helper()
	registryOnce.Do(func() {
		v, err := middleware.SetupValidator()
		require.NoError(t, err)
		require.NoError(t, catalogapp.RegisterValidations(v))
		registry = catalogapp.NewValidatorRegistry(v)
	})
	return registry
}

// newTestServer wires the catalog handlers over an in-memory store behind
// the request ID and error translation middleware.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)

	translator, err := middleware.NewErrorTranslator(zap.NewNop(), noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(middleware.RequestID(), translator.Middleware())

	validators := testRegistry(t)
	router.NewRouter(engine).
		Register(NewCategoryHandler(categoryService).Routes(validators)).
		Register(NewProductHandler(productService).Routes(validators)).
		Setup()

	return engine
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequestWithContext(context.Background(), method, path, nil)
	} else {
		req = httptest.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// createCategory posts a category and returns its id
func createCategory(t *testing.T, engine *gin.Engine, name string) int {
	t.Helper()
	w := doRequest(engine, "POST", "/api/categories", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int(decodeObject(t, w)["id"].(float64))
}

// createProduct posts a product and returns its id
func createProduct(t *testing.T, engine *gin.Engine, body string) string {
	t.Helper()
	w := doRequest(engine, "POST", "/api/products", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeObject(t, w)["id"].(string)
}
