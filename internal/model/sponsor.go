package model

// Sponsor represents a partner that redeems cards against a bounded
// quota.  It corresponds to a row in the `sponsors` table.
// MaxUses is fixed at creation; RemainingUses starts equal to it and
// only ever decreases, one unit per redeemed card.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name of the sponsor.
//  Type          – free-form category (e.g. bar, shop).
//  MaxUses       – redemption ceiling set at creation.
//  RemainingUses – redemptions still available, 0..MaxUses.
type Sponsor struct {
	ID            int64  `json:"id"`             // sponsors.id
	Name          string `json:"name"`           // sponsors.name
	Type          string `json:"type"`           // sponsors.type
	MaxUses       int    `json:"max_uses"`       // sponsors.max_uses
	RemainingUses int    `json:"remaining_uses"` // sponsors.remaining_uses
}
