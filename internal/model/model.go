// Package model contains the VaultCast domain records.
//
// Records are flat documents: they round-trip unchanged between the record
// store, the JSON API and the CLI. Validation rules live in `validate` tags and
// are enforced by internal/validation.
package model

import "time"

// Base carries the identity and timestamps every stored record shares.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordID returns the record's identifier.
func (b Base) RecordID() string { return b.ID }

// Stamp sets ID (when empty) and timestamps for a write at now.
func (b *Base) Stamp(id string, now time.Time) {
	if b.ID == "" {
		b.ID = id
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// BaseRecord gives generic code access to the embedded Base.
func (b *Base) BaseRecord() *Base { return b }
