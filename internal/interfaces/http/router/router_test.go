package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) {
	c.Status(http.StatusOK)
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("catalog", "/catalog")
	group.GET("/products", ok)
	group.POST("/products", ok)

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_WithAPIVersion(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("sync", "/sync")
	group.GET("/sources", ok)

	NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/sync/sources", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/sources", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup_AllMethods(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("catalog", "/catalog")
	group.GET("/products/:id", ok).
		PUT("/products/:id", ok).
		PATCH("/products/:id/status", ok).
		DELETE("/products/:id", ok)

	NewRouter(engine).Register(group).Setup()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/catalog/products/1", nil))
		assert.Equal(t, http.StatusOK, w.Code, method)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/catalog/products/1/status", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()

	var order []string
	group := NewDomainGroup("sync", "/sync")
	group.Use(func(c *gin.Context) {
		order = append(order, "middleware")
		c.Next()
	})
	group.GET("/runs", func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	})

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/runs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"middleware", "handler"}, order)
}

func TestDomainGroup_Accessors(t *testing.T) {
	group := NewDomainGroup("catalog", "/catalog")
	assert.Equal(t, "catalog", group.Name())
	assert.Equal(t, "/catalog", group.Prefix())
}
