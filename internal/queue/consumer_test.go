package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEvent(t *testing.T) {
	sid := int64(4)
	line := FormatEvent(CardEvent{
		Type:       EventCardRedeemed,
		CardID:     "C1",
		Status:     "utilizzata",
		SponsorID:  &sid,
		ActorID:    9,
		OccurredAt: "2024-05-04T12:30:00Z",
	})
	assert.Equal(t, "[2024-05-04T12:30:00Z] card.redeemed | card_id=C1 | status=utilizzata | sponsor_id=4 | actor_id=9\n", line)

	line = FormatEvent(CardEvent{Type: EventCardActivated, CardID: "C2", Status: "attiva", OccurredAt: "t"})
	assert.Contains(t, line, "sponsor_id=-")
}

func TestHandleMessage(t *testing.T) {
	dir := t.TempDir()

	t.Run("appends one line per event", func(t *testing.T) {
		for _, id := range []string{"C1", "C2"} {
			body, err := json.Marshal(CardEvent{Type: EventCardActivated, CardID: id, Status: "attiva", OccurredAt: "t"})
			require.NoError(t, err)
			require.NoError(t, HandleMessage(dir, body))
		}
		data, err := os.ReadFile(filepath.Join(dir, "cards.log"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "card_id=C1")
		assert.Contains(t, string(data), "card_id=C2")
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		assert.Error(t, HandleMessage(dir, []byte("{not json")))
		assert.Error(t, HandleMessage(dir, []byte(`{"type":"card.activated"}`)))
	})
}
