package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouterMountsRegistrarsUnderVersionPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	NewRouter(engine).
		Register(RegistrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		})).
		Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestGroupAppliesPrefixAndMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	guard := func(c *gin.Context) {
		if c.GetHeader("X-Allow") != "yes" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}

	NewRouter(engine, WithAPIVersion("v2")).
		Register(NewGroup("/admin", guard).Register(RegistrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/things", func(c *gin.Context) { c.Status(http.StatusOK) })
		}))).
		Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/admin/things", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v2/admin/things", nil)
	req.Header.Set("X-Allow", "yes")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
