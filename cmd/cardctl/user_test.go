package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sponsor-cards/internal/database/dbtest"
	"github.com/iliyamo/sponsor-cards/internal/model"
	"github.com/iliyamo/sponsor-cards/internal/repository"
)

func TestUserOptsValidate(t *testing.T) {
	cases := []struct {
		name string
		opts userOpts
		ok   bool
	}{
		{"sponsor with id", userOpts{username: "bar", password: "pw", role: model.RoleSponsor, sponsorID: 3}, true},
		{"admin", userOpts{username: "root", password: "pw", role: model.RoleAdmin}, true},
		{"sponsor without id", userOpts{username: "bar", password: "pw", role: model.RoleSponsor}, false},
		{"admin with sponsor", userOpts{username: "root", password: "pw", role: model.RoleAdmin, sponsorID: 1}, false},
		{"unknown role", userOpts{username: "x", password: "pw", role: "owner"}, false},
		{"missing password", userOpts{username: "x", role: model.RoleAdmin}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	sid := dbtest.SeedSponsor(t, db, "Bar", 1, 1)

	id, err := createUser(ctx, db, userOpts{username: "bar", password: "pw", role: model.RoleSponsor, sponsorID: sid}, 4)
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = createUser(ctx, db, userOpts{username: "ghost", password: "pw", role: model.RoleSponsor, sponsorID: 99}, 4)
	assert.ErrorIs(t, err, repository.ErrSponsorNotFound)
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{{"migrate"}, {"user", "add"}, {"sponsor", "add"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
