// Package controllers holds the HTTP handlers. Controllers decode and
// validate input, call a service, and translate business outcomes to
// status codes. No business logic lives here.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpradhan/stockroom/app/services"
	"github.com/rpradhan/stockroom/pkg/logger"
	"github.com/rpradhan/stockroom/pkg/middleware"
	"github.com/rpradhan/stockroom/pkg/response"
)

// urlID parses the {id} path parameter.
func urlID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// actorID returns the authenticated user's ID. Handlers behind
// AuthMiddleware can rely on it being present; zero means unauthenticated.
func actorID(r *http.Request) uint {
	id, _ := middleware.UserIDFromCtx(r)
	return id
}

// fail maps a service error to an HTTP response.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(w, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrHistoryNotFound),
		errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, "Insufficient stock")
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w)
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
