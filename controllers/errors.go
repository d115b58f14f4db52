package controllers

import (
	"errors"
	"net/http"

	"neoevents/errs"

	restful "github.com/emicklei/go-restful/v3"
)

// ErrorResponse is the uniform error body: one or more messages.
type ErrorResponse struct {
	Messages []string `json:"messages"`
}

// writeServiceError translates the typed service failures to HTTP responses:
// not-found to 404, every other typed failure to 400, anything unrecognized
// to a generic 500.
func writeServiceError(response *restful.Response, err error) {
	var notFound *errs.NotFoundError
	if errors.As(err, &notFound) {
		writeErrorMessages(response, http.StatusNotFound, notFound.Message)
		return
	}

	var notValid *errs.NotValidError
	if errors.As(err, &notValid) {
		writeErrorMessages(response, http.StatusBadRequest, notValid.Message)
		return
	}

	var invalidCredentials *errs.InvalidCredentialsError
	if errors.As(err, &invalidCredentials) {
		writeErrorMessages(response, http.StatusBadRequest, invalidCredentials.Message)
		return
	}

	var constraint *errs.ConstraintViolationError
	if errors.As(err, &constraint) {
		writeErrorMessages(response, http.StatusBadRequest, constraint.Messages...)
		return
	}

	writeErrorMessages(response, http.StatusInternalServerError, "An internal error occurred")
}

func writeErrorMessages(response *restful.Response, status int, messages ...string) {
	_ = response.WriteHeaderAndJson(status, ErrorResponse{Messages: messages}, restful.MIME_JSON)
}
