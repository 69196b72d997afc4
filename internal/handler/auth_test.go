package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sponsor-cards/internal/database/dbtest"
	"github.com/iliyamo/sponsor-cards/internal/model"
	"github.com/iliyamo/sponsor-cards/internal/repository"
	"github.com/iliyamo/sponsor-cards/internal/utils"
)

func TestLoginComparesPasswordForUnknownUsers(t *testing.T) {
	db := dbtest.Open(t)
	users := repository.NewUserRepo(db)
	_, err := users.Create(context.Background(), "root", "pw", model.RoleAdmin, nil, 4)
	require.NoError(t, err)

	h := NewAuthHandler(users, "S1", 0, 4)
	var hashes []string
	h.verify = func(hash, plain string) bool {
		hashes = append(hashes, hash)
		return utils.VerifyPassword(hash, plain)
	}

	login := func(body string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, h.Login(e.NewContext(req, rec)))
		return rec
	}

	unknown := login(`{"username":"ghost","password":"pw"}`)
	wrong := login(`{"username":"root","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	require.Len(t, hashes, 2, "both failures run one bcrypt comparison")
	assert.Equal(t, h.dummyHash, hashes[0])
	assert.True(t, strings.HasPrefix(hashes[0], "$2a$04$"), "placeholder uses the configured cost")
}
