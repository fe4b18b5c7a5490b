package main

import (
	"context"
	"net/http"
	"time"
)

// healthCheckHandler reports readiness. The database must answer a ping.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status, code := "available", http.StatusOK
	if err := app.blogService.Ping(ctx); err != nil {
		app.logError(r, err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	env := envelope{
		"status": status,
		"system_info": map[string]string{
			"environment": app.config.Environment,
			"version":     app.config.Version,
		},
	}

	err := app.writeJSON(w, code, env, nil)
	if err != nil {
		app.logger.Error(err.Error())
		http.Error(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
	}
}
