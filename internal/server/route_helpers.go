package server

import "net/http"

// RouteHandler is a function type for HTTP handlers.
type RouteHandler func(http.ResponseWriter, *http.Request)

// MethodRouter maps HTTP methods to handlers.
type MethodRouter map[string]RouteHandler

// RouteByMethod routes requests based on HTTP method.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handler(w, r)
}

// RouteResourceCollection dispatches the run/persist pair on one path.
// GET runs the default analysis, POST runs and persists a submitted query.
func RouteResourceCollection(w http.ResponseWriter, r *http.Request, get, post RouteHandler) {
	routes := make(MethodRouter)
	if get != nil {
		routes["GET"] = get
	}
	if post != nil {
		routes["POST"] = post
	}
	RouteByMethod(w, r, routes)
}
