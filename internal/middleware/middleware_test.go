package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sponsor-cards/internal/config"
	"github.com/iliyamo/sponsor-cards/internal/utils"
)

const secret = "test-secret"

func bearer(t *testing.T, id utils.Identity, key string) string {
	t.Helper()
	tok, err := utils.SignIdentity(id, key, 0)
	require.NoError(t, err)
	return "Bearer " + tok
}

func sponsorID(v int64) *int64 { return &v }

func TestAuthorize(t *testing.T) {
	sponsor := utils.Identity{ID: 2, Role: "sponsor", SponsorID: sponsorID(8)}
	admin := utils.Identity{ID: 1, Role: "admin"}

	cases := []struct {
		name    string
		header  string
		roles   []string
		wantErr bool
	}{
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "lowercase scheme", header: "bearer " + bearer(t, sponsor, secret)[7:], wantErr: true},
		{name: "garbage token", header: "Bearer nope", wantErr: true},
		{name: "other secret", header: bearer(t, sponsor, "S2"), wantErr: true},
		{name: "role mismatch", header: bearer(t, admin, secret), roles: []string{"sponsor"}, wantErr: true},
		{name: "role match", header: bearer(t, sponsor, secret), roles: []string{"sponsor"}},
		{name: "any role", header: bearer(t, admin, secret)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			id, err := Authorize(req, secret, tc.roles...)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				assert.Zero(t, id)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, id.ID)
		})
	}
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/only-sponsor", func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"sponsor_id": *id.SponsorID})
	}, JWTAuth(secret, "sponsor"))

	t.Run("passes identity to handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/only-sponsor", nil)
		req.Header.Set("Authorization", bearer(t, utils.Identity{ID: 2, Role: "sponsor", SponsorID: sponsorID(8)}, secret))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"sponsor_id":8}`, rec.Body.String())
	})

	t.Run("rejects role mismatch with 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/only-sponsor", nil)
		req.Header.Set("Authorization", bearer(t, utils.Identity{ID: 1, Role: "admin"}, secret))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
	})
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/activate", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/activate")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /activate", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))

	setIdentity(c, utils.Identity{ID: 42, Role: "sponsor"})
	assert.Equal(t, "rl:user:42", buildRateKey(cfg, c))
}

func TestParseBucketResult(t *testing.T) {
	res, err := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(4), res.Remaining)

	res, err = parseBucketResult([]interface{}{int64(0), int64(0), int64(750)})
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(750), res.RetryMs)

	_, err = parseBucketResult("nope")
	assert.Error(t, err)
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	e := echo.New()
	rc := NewResponseCache(config.CacheConfig{Enabled: true}, nil)
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil), rc.Middleware())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, rc.Purge(t.Context()))
}

func TestCachePayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"sponsors":[]}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"sponsors":[]}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/public-availability?x=1", nil)
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	a := cacheKey(cfg, req, "/public-availability")
	cfg.KeyStrategy = "route_query"
	b := cacheKey(cfg, req, "/public-availability")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, a)
}
