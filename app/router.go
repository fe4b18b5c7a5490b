package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)
	// preflight is answered by enableCORS
	router.HandleOPTIONS = false

	router.HandlerFunc(http.MethodGet, "/healthz", app.healthCheckHandler)

	router.HandlerFunc(http.MethodGet, "/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/blogs", app.createBlogHandler)
	router.HandlerFunc(http.MethodGet, "/blogs/:slug", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/blogs/:id", app.updateBlogHandler)

	return app.recoverPanic(app.logRequest(app.enableCORS(app.rateLimit(router))))
}
