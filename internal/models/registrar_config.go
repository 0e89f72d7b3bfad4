package models

import "time"

// RegistrarConfig is the single global configuration row. AutomaticEnrollment
// gates whether freed seats are backfilled from the waitlist; it is always
// re-read from the store inside the transaction that depends on it.
type RegistrarConfig struct {
	AutomaticEnrollment bool      `db:"automatic_enrollment" json:"automatic_enrollment"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
