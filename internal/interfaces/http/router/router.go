// Package router assembles the gin engine and the versioned API routes.
package router

import (
	"github.com/gin-gonic/gin"
)

// APIPrefix is the path every API resource is mounted under.
const APIPrefix = "/api/v1"

// Route binds a method and a path relative to its resource.
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

func route(method, path string, handlers ...gin.HandlerFunc) Route {
	return Route{Method: method, Path: path, Handlers: handlers}
}

// Resource is a named set of routes sharing a path prefix.
type Resource struct {
	Name       string
	Prefix     string
	Middleware []gin.HandlerFunc
	Routes     []Route
}

func (res Resource) mount(api *gin.RouterGroup) {
	group := api.Group(res.Prefix, res.Middleware...)
	for _, r := range res.Routes {
		group.Handle(r.Method, r.Path, r.Handlers...)
	}
}

// Router mounts resources on the versioned API group. Middleware given to
// NewRouter runs before every resource handler.
type Router struct {
	api     *gin.RouterGroup
	mounted []string
}

func NewRouter(engine *gin.Engine, middleware ...gin.HandlerFunc) *Router {
	return &Router{api: engine.Group(APIPrefix, middleware...)}
}

// Mount registers the routes of each resource.
func (r *Router) Mount(resources ...Resource) *Router {
	for _, res := range resources {
		res.mount(r.api)
		r.mounted = append(r.mounted, res.Name)
	}
	return r
}

// Resources lists mounted resource names in mount order.
func (r *Router) Resources() []string {
	return r.mounted
}
