package router

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them on the engine in order.
// Registrars own their full paths: GraphQL lives at /api/graphql while the
// probes and /metrics sit at the root, so there is no shared prefix.
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// NewRouter creates a Router for engine
func NewRouter(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Register queues a registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every queued registrar
func (r *Router) Setup() {
	root := r.engine.Group("")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(root)
	}
}

// Routes lists "METHOD /path" for every mounted route, sorted
func (r *Router) Routes() []string {
	infos := r.engine.Routes()
	routes := make([]string, 0, len(infos))
	for _, info := range infos {
		routes = append(routes, info.Method+" "+info.Path)
	}
	sort.Strings(routes)
	return routes
}

// DomainGroup is a RouteRegistrar built declaratively, for endpoints that
// have no handler type of their own (the prometheus scrape endpoint)
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	subgroups  []*DomainGroup
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates an empty group mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Name identifies the group in start-up logs
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Use adds middleware that runs only for this group's routes
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// HandleFunc adds a gin route
func (dg *DomainGroup) HandleFunc(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: path, handlers: handlers})
	return dg
}

// Handle adds a net/http handler such as promhttp
func (dg *DomainGroup) Handle(method, path string, handler http.Handler) *DomainGroup {
	return dg.HandleFunc(method, path, gin.WrapH(handler))
}

// Group nests a group under this one
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	sub := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, sub := range dg.subgroups {
		sub.RegisterRoutes(group)
	}
}
