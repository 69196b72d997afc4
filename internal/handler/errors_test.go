package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/sponsor-cards/internal/repository"
	"github.com/iliyamo/sponsor-cards/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: card_id is required", service.ErrValidation), http.StatusBadRequest},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{repository.ErrCardNotFound, http.StatusNotFound},
		{repository.ErrSponsorNotFound, http.StatusNotFound},
		{repository.ErrCardNotActive, http.StatusBadRequest},
		{repository.ErrAlreadyRedeemed, http.StatusBadRequest},
		{repository.ErrQuotaExhausted, http.StatusBadRequest},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/activate", nil), rec)

	_ = respondError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
