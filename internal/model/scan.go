package model

import "time"

// Scan actions recorded in the audit trail.
const (
	ScanActionActivation = "attivazione"
	ScanActionRedemption = "utilizzo"
)

// Scan is an immutable audit entry written together with every card
// transition.  Rows in the `scans` table are only ever inserted.
//
// Fields:
//  ID        – monotonic primary key.
//  CardID    – card that changed state.
//  SponsorID – acting sponsor for redemptions, null for activations.
//  Timestamp – when the transition happened (UTC).
//  Action    – attivazione or utilizzo.
type Scan struct {
	ID        int64     // scans.id
	CardID    string    // scans.card_id
	SponsorID *int64    // scans.sponsor_id (nullable)
	Timestamp time.Time // scans.timestamp
	Action    string    // scans.action
}
