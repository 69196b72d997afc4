// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types published after a committed card transition.
const (
	EventCardActivated = "card.activated"
	EventCardRedeemed  = "card.redeemed"
)

// CardEvent is published when a card transition has been committed.  It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type CardEvent struct {
	Type       string `json:"type"`
	CardID     string `json:"card_id"`
	Status     string `json:"status"`
	SponsorID  *int64 `json:"sponsor_id,omitempty"`
	ActorID    int64  `json:"actor_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
