package model

import "time"

// Card status values.  A card only ever moves forward through
// non_attiva -> attiva -> utilizzata; utilizzata is terminal.
const (
	CardStatusInactive = "non_attiva"
	CardStatusActive   = "attiva"
	CardStatusUsed     = "utilizzata"
)

// Card represents a physical redemption card as stored in the
// `cards` table.  The ID is the identifier printed or encoded on
// the card itself, so it is a string rather than a surrogate key.
//
// Fields:
//  ID          – identifier printed on the card (primary key).
//  Status      – lifecycle status (non_attiva, attiva, utilizzata).
//  ActivatedAt – when the card was activated (null until then).
//  UsedAt      – when the card was redeemed (null until then).
//  SponsorID   – sponsor that redeemed the card (null until then).
type Card struct {
	ID          string     // cards.id
	Status      string     // cards.status
	ActivatedAt *time.Time // cards.activated_at (nullable)
	UsedAt      *time.Time // cards.used_at (nullable)
	SponsorID   *int64     // cards.sponsor_id (nullable)
}

// ValidCardStatus reports whether s is one of the three lifecycle states.
func ValidCardStatus(s string) bool {
	switch s {
	case CardStatusInactive, CardStatusActive, CardStatusUsed:
		return true
	}
	return false
}
