package providers

import (
	"net/http"

	"dmrmonitor/internal/structures"
)

type Middleware func(http.Handler) http.Handler

type RouterProviderInterface interface {
	Get(url string, handler http.Handler, middlewares ...Middleware)
	Post(url string, handler http.Handler, middlewares ...Middleware)
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) add(method, url string, handler http.Handler, middlewares []Middleware) {
	h := methodHandler(method, handler)
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Handler: h,
	})
}

func (rp *RouterProvider) Get(url string, handler http.Handler, middlewares ...Middleware) {
	rp.add(http.MethodGet, url, handler, middlewares)
}

func (rp *RouterProvider) Post(url string, handler http.Handler, middlewares ...Middleware) {
	rp.add(http.MethodPost, url, handler, middlewares)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

func methodHandler(method string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
