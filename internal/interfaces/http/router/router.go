package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects route registrars and mounts them under a versioned
// API prefix.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// RegistrarFunc adapts a plain function to the RouteRegistrar interface
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) {
	f(rg)
}

// Group bundles registrars under a shared prefix and middleware chain,
// so an audience (public, portal, back-office) is guarded in one place.
type Group struct {
	prefix     string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// NewGroup creates a route group with the given prefix and middleware
func NewGroup(prefix string, middleware ...gin.HandlerFunc) *Group {
	return &Group{
		prefix:     prefix,
		middleware: middleware,
	}
}

// Register adds registrars to the group
func (g *Group) Register(registrars ...RouteRegistrar) *Group {
	g.registrars = append(g.registrars, registrars...)
	return g
}

// RegisterRoutes implements RouteRegistrar
func (g *Group) RegisterRoutes(rg *gin.RouterGroup) {
	sub := rg.Group(g.prefix)
	if len(g.middleware) > 0 {
		sub.Use(g.middleware...)
	}
	for _, registrar := range g.registrars {
		registrar.RegisterRoutes(sub)
	}
}
