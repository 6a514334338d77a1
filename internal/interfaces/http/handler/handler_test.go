package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/occtelecom/backend/internal/domain/identity"
	"github.com/occtelecom/backend/internal/infrastructure/auth"
	"github.com/occtelecom/backend/internal/interfaces/http/dto"
	"github.com/occtelecom/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// registrar is anything with RegisterRoutes, matching router.RouteRegistrar
type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func newTestEngine(handlers ...registrar) *gin.Engine {
	engine := gin.New()
	rg := engine.Group("")
	for _, h := range handlers {
		h.RegisterRoutes(rg)
	}
	return engine
}

// newAuthedEngine injects fake claims the way the auth middleware would
func newAuthedEngine(claims *auth.Claims, handlers ...registrar) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, claims)
		c.Next()
	})
	rg := engine.Group("")
	for _, h := range handlers {
		h.RegisterRoutes(rg)
	}
	return engine
}

func customerClaims(customerID string) *auth.Claims {
	return &auth.Claims{
		UserID:     "7b9d8dd1-5a2f-4a9c-9a56-2f60733c73b1",
		Role:       identity.RoleCustomer,
		CustomerID: customerID,
	}
}

func perform(t *testing.T, engine *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
