package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/logging"
	"inkwell/store"
)

func TestSendErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{
			name: "validation",
			err:  &models.ValidationError{Fields: map[string]string{"title": "is required"}},
			code: http.StatusBadRequest,
			kind: kindValidation,
		},
		{
			name: "invalid id",
			err:  repositories.ErrInvalidID,
			code: http.StatusBadRequest,
			kind: kindInvalidID,
		},
		{
			name: "not found",
			err:  repositories.ErrNotFound,
			code: http.StatusNotFound,
			kind: kindNotFound,
		},
		{
			name: "wrapped not found",
			err:  errors.Join(errors.New("post abc"), repositories.ErrNotFound),
			code: http.StatusNotFound,
			kind: kindNotFound,
		},
		{
			name: "connection",
			err:  &store.ConnectionError{Err: errors.New("store down")},
			code: http.StatusServiceUnavailable,
			kind: kindUnavailable,
		},
		{
			name: "unknown",
			err:  errors.New("surprise"),
			code: http.StatusInternalServerError,
			kind: kindInternal,
		},
	}

	rp := &responder{log: logging.Discard()}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			rp.sendError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.code, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.kind)
		})
	}
}

func TestSendErrorHidesDetailsInProduction(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	internal := errors.New("badger: table checksum mismatch")

	dev := &responder{production: false, log: logging.Discard()}
	rr := httptest.NewRecorder()
	dev.sendError(rr, req, internal)
	assert.Contains(t, rr.Body.String(), "checksum mismatch")

	prod := &responder{production: true, log: logging.Discard()}
	rr = httptest.NewRecorder()
	prod.sendError(rr, req, internal)
	assert.NotContains(t, rr.Body.String(), "checksum")
	assert.Contains(t, rr.Body.String(), "internal server error")
}

func TestValidationErrorIncludesFields(t *testing.T) {
	rp := &responder{log: logging.Discard()}
	rr := httptest.NewRecorder()

	rp.sendError(rr, httptest.NewRequest(http.MethodGet, "/", nil), &models.ValidationError{
		Fields: map[string]string{"content": "must be at most 2000 characters"},
	})
	assert.Contains(t, rr.Body.String(), `"content"`)
	assert.Contains(t, rr.Body.String(), "2000")
}
