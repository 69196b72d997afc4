package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sponsor-cards/internal/database/dbtest"
	"github.com/iliyamo/sponsor-cards/internal/model"
	"github.com/iliyamo/sponsor-cards/internal/repository"
)

// The triggers below change a row between the engine's gate read and its
// guarded update, the window a concurrent request would hit on MySQL.
// One connection serialises whole transactions, so without them the
// guards in the conditional updates never decide anything.

func TestActivateLosesRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dbtest.SeedCard(t, f.db, "C1", model.CardStatusInactive)

	// a competing activation lands first; ours then matches no row
	_, err := f.db.Exec(`
CREATE TRIGGER competing_activation BEFORE UPDATE OF status ON cards
WHEN OLD.status = 'non_attiva' AND NEW.status = 'attiva'
BEGIN
    UPDATE cards SET status = 'attiva', activated_at = '2020-01-01 00:00:00' WHERE id = OLD.id;
    SELECT RAISE(IGNORE);
END`)
	require.NoError(t, err)

	res, err := f.svc.Activate(ctx, "C1")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, model.CardStatusActive, res.Status, "reports the committed status, not the gate read")

	card, err := f.cards.Get(ctx, "C1")
	require.NoError(t, err)
	require.NotNil(t, card.ActivatedAt)
	assert.True(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Equal(*card.ActivatedAt), "winner's timestamp kept")
	assert.Zero(t, dbtest.TotalScans(t, f.db))
}

func TestRedeemLosesCardRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sid := dbtest.SeedSponsor(t, f.db, "Bar", 3, 3)
	dbtest.SeedCard(t, f.db, "C1", model.CardStatusActive)

	// another redemption got the card first: the guarded update matches nothing
	_, err := f.db.Exec(`
CREATE TRIGGER competing_redemption BEFORE UPDATE OF status ON cards
WHEN NEW.status = 'utilizzata'
BEGIN
    SELECT RAISE(IGNORE);
END`)
	require.NoError(t, err)

	_, err = f.svc.Redeem(ctx, "C1", sponsorOf(sid))
	assert.ErrorIs(t, err, repository.ErrAlreadyRedeemed)

	card, err := f.cards.Get(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, model.CardStatusActive, card.Status)
	assert.Nil(t, card.SponsorID)
	assert.Nil(t, card.UsedAt)

	left, err := f.sponsors.Remaining(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 3, left)
	assert.Zero(t, dbtest.TotalScans(t, f.db))
}

func TestRedeemLosesQuotaRaceAndRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sid := dbtest.SeedSponsor(t, f.db, "Bar", 2, 2)
	dbtest.SeedCard(t, f.db, "C1", model.CardStatusActive)

	// the last units are consumed after the gate read but before our
	// decrement, and after the card row was already written
	_, err := f.db.Exec(`
CREATE TRIGGER competing_quota AFTER UPDATE OF status ON cards
WHEN NEW.status = 'utilizzata'
BEGIN
    UPDATE sponsors SET remaining_uses = 0 WHERE id = NEW.sponsor_id;
END`)
	require.NoError(t, err)

	_, err = f.svc.Redeem(ctx, "C1", sponsorOf(sid))
	assert.ErrorIs(t, err, repository.ErrQuotaExhausted)

	// the card update that preceded the failed decrement is undone
	card, err := f.cards.Get(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, model.CardStatusActive, card.Status)
	assert.Nil(t, card.SponsorID)
	assert.Nil(t, card.UsedAt)

	left, err := f.sponsors.Remaining(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 2, left)
	assert.Zero(t, dbtest.TotalScans(t, f.db))
}
