package router

import (
	"github.com/gin-gonic/gin"
)

// APIPrefix is the path every service API is mounted under
const APIPrefix = "/api/v1"

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts the registrars of one service under APIPrefix
type Router struct {
	engine     *gin.Engine
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Use adds middleware applied to every API route
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register adds a RouteRegistrar to be mounted by Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group(APIPrefix)
	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// route is one method and path with its handler chain
type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// Resource collects the routes of one resource under a path prefix.
// Routes added through a view returned by With run its guards first;
// all views share the same route table.
type Resource struct {
	prefix string
	routes *[]route
	guards []gin.HandlerFunc
}

// NewResource creates an empty resource mounted at prefix
func NewResource(prefix string) *Resource {
	return &Resource{prefix: prefix, routes: new([]route)}
}

// With returns a view of the resource whose routes run guards before their handlers
func (r *Resource) With(guards ...gin.HandlerFunc) *Resource {
	combined := make([]gin.HandlerFunc, 0, len(r.guards)+len(guards))
	combined = append(combined, r.guards...)
	combined = append(combined, guards...)
	return &Resource{prefix: r.prefix, routes: r.routes, guards: combined}
}

// Handle adds a route for method and path
func (r *Resource) Handle(method, path string, handlers ...gin.HandlerFunc) *Resource {
	chain := make([]gin.HandlerFunc, 0, len(r.guards)+len(handlers))
	chain = append(chain, r.guards...)
	chain = append(chain, handlers...)
	*r.routes = append(*r.routes, route{method: method, path: path, handlers: chain})
	return r
}

// GET registers a GET route
func (r *Resource) GET(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.Handle("GET", path, handlers...)
}

// POST registers a POST route
func (r *Resource) POST(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.Handle("POST", path, handlers...)
}

// PUT registers a PUT route
func (r *Resource) PUT(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.Handle("PUT", path, handlers...)
}

// DELETE registers a DELETE route
func (r *Resource) DELETE(path string, handlers ...gin.HandlerFunc) *Resource {
	return r.Handle("DELETE", path, handlers...)
}

// RegisterRoutes implements RouteRegistrar
func (r *Resource) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(r.prefix)
	for _, rt := range *r.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}
