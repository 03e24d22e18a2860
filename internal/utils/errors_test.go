package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeAlreadyProcessed, http.StatusBadRequest},
		{CodeFailedPrecondition, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := E(tc.code, "Op", "msg", nil)
		require.Equal(t, tc.want, HTTPStatus(err), "code %s", tc.code)
	}

	require.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestHTTPStatusWrapped(t *testing.T) {
	inner := E(CodeConflict, "Repo.Insert", "duplicate", nil)
	outer := fmt.Errorf("while applying: %w", inner)
	require.Equal(t, http.StatusConflict, HTTPStatus(outer))
	require.True(t, IsCode(outer, CodeConflict))
	require.False(t, IsCode(outer, CodeNotFound))
}

func TestAppErrorMessage(t *testing.T) {
	err := E(CodeNotFound, "JobService.GetByID", "job not found", ErrNotFound)
	require.Equal(t, "JobService.GetByID: job not found: not found", err.Error())
	require.ErrorIs(t, err, ErrNotFound)

	err = E(CodeInternal, "", "something broke", nil)
	require.Equal(t, "something broke", err.Error())
}
