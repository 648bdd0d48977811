package main

import (
	"errors"
	"net/http"

	"spanco/internal/domain/catalog"
)

const genericErrorMessage = "Something went wrong!"

// errorWriter renders a status and message in one of the two error shapes.
type errorWriter func(w http.ResponseWriter, status int, message string) error

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.internalServerErrorAs(w, r, err, writeJSONError)
}

func (app *application) internalServerErrorAs(w http.ResponseWriter, r *http.Request, err error, write errorWriter) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	write(w, http.StatusInternalServerError, genericErrorMessage)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.badRequestResponseAs(w, r, err, writeJSONError)
}

func (app *application) badRequestResponseAs(w http.ResponseWriter, r *http.Request, err error, write errorWriter) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	write(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, err.Error())
}

// conflictResponse answers 400: existing clients treat duplicates as bad requests.
func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict response", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "Not authorized, token failed")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// domainError maps a catalog error onto its status and answers with {message}.
func (app *application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	app.respondDomainError(w, r, err, writeJSONError)
}

// productError is domainError for product routes, answering with {success:false, message}.
func (app *application) productError(w http.ResponseWriter, r *http.Request, err error) {
	app.respondDomainError(w, r, err, writeProductError)
}

func (app *application) respondDomainError(w http.ResponseWriter, r *http.Request, err error, write errorWriter) {
	var status int
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrConflict), errors.Is(err, catalog.ErrValidation):
		status = http.StatusBadRequest
	default:
		app.internalServerErrorAs(w, r, err, write)
		return
	}

	app.logger.Warnw("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err.Error())
	write(w, status, catalog.Message(err, err.Error()))
}
