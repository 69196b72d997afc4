package utils_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sponsor-cards/internal/utils"
)

func sponsorIdentity(id int64) utils.Identity {
	return utils.Identity{ID: 7, Role: "sponsor", SponsorID: &id}
}

func TestSignAndVerifyIdentity(t *testing.T) {
	t.Run("round trip keeps the payload", func(t *testing.T) {
		token, err := utils.SignIdentity(sponsorIdentity(3), "s1", 0)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		got, err := utils.VerifyIdentity(token, "s1")
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "sponsor", got.Role)
		require.NotNil(t, got.SponsorID)
		assert.Equal(t, int64(3), *got.SponsorID)
	})

	t.Run("admin identity has no sponsor binding", func(t *testing.T) {
		token, err := utils.SignIdentity(utils.Identity{ID: 1, Role: "admin"}, "s1", 0)
		require.NoError(t, err)

		got, err := utils.VerifyIdentity(token, "s1")
		require.NoError(t, err)
		assert.Nil(t, got.SponsorID)
	})

	t.Run("header and payload are plain base64url json", func(t *testing.T) {
		token, err := utils.SignIdentity(sponsorIdentity(3), "s1", 0)
		require.NoError(t, err)
		parts := strings.Split(token, ".")

		hdr, err := base64.RawURLEncoding.DecodeString(parts[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"alg":"HS256","typ":"JWT"}`, string(hdr))

		body, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7,"role":"sponsor","sponsor_id":3}`, string(body))

		mac := hmac.New(sha256.New, []byte("s1"))
		mac.Write([]byte(parts[0] + "." + parts[1]))
		assert.Equal(t, base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), parts[2])
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		token, err := utils.SignIdentity(sponsorIdentity(3), "S1", 0)
		require.NoError(t, err)

		_, err = utils.VerifyIdentity(token, "S2")
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("wrong segment count is rejected", func(t *testing.T) {
		token, err := utils.SignIdentity(sponsorIdentity(3), "s1", 0)
		require.NoError(t, err)
		parts := strings.Split(token, ".")

		for _, bad := range []string{
			parts[0] + "." + parts[1],
			token + ".extra",
			"garbage",
			"",
		} {
			_, err := utils.VerifyIdentity(bad, "s1")
			assert.ErrorIs(t, err, utils.ErrInvalidToken, bad)
		}
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		token, err := utils.SignIdentity(sponsorIdentity(3), "s1", 0)
		require.NoError(t, err)
		parts := strings.Split(token, ".")

		forged, err := json.Marshal(map[string]any{"id": 7, "role": "admin", "sponsor_id": 3})
		require.NoError(t, err)
		parts[1] = base64.RawURLEncoding.EncodeToString(forged)

		_, err = utils.VerifyIdentity(strings.Join(parts, "."), "s1")
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("undecodable segments are rejected", func(t *testing.T) {
		_, err := utils.VerifyIdentity("!!.??.**", "s1")
		assert.ErrorIs(t, err, utils.ErrInvalidToken)
	})

	t.Run("positive ttl adds an expiry claim", func(t *testing.T) {
		token, err := utils.SignIdentity(sponsorIdentity(3), "s1", time.Hour)
		require.NoError(t, err)
		body, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
		require.NoError(t, err)
		var claims map[string]any
		require.NoError(t, json.Unmarshal(body, &claims))
		assert.Contains(t, claims, "exp")

		_, err = utils.VerifyIdentity(token, "s1")
		require.NoError(t, err)
	})

	t.Run("non positive ttl never expires", func(t *testing.T) {
		token, err := utils.SignIdentity(sponsorIdentity(3), "s1", -time.Minute)
		require.NoError(t, err)
		body, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
		require.NoError(t, err)
		assert.NotContains(t, string(body), "exp")
	})

	t.Run("empty secret cannot sign", func(t *testing.T) {
		_, err := utils.SignIdentity(sponsorIdentity(3), "", 0)
		assert.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, utils.VerifyPassword(hash, "hunter2"))
	assert.False(t, utils.VerifyPassword(hash, "hunter3"))
	assert.False(t, utils.VerifyPassword("not-a-hash", "hunter2"))

	_, err = utils.HashPassword(strings.Repeat("x", 73), 4)
	assert.ErrorIs(t, err, utils.ErrPasswordTooLong)

	hash, err = utils.HashPassword("hunter2", 1)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "hunter2"), "cost below the minimum is clamped")
}
