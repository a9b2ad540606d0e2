package projection

import "time"

// Metadata holds the row timestamps a store keeps next to an aggregate.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Created returns metadata for a row inserted at ts.
func Created(ts time.Time) Metadata {
	return Metadata{CreatedAt: ts, UpdatedAt: ts}
}

// Touched keeps the creation time and moves UpdatedAt to ts.
func (m Metadata) Touched(ts time.Time) Metadata {
	return Metadata{CreatedAt: m.CreatedAt, UpdatedAt: ts}
}

// CreatedAtPtr returns nil when the store did not record a creation time.
func (m Metadata) CreatedAtPtr() *time.Time {
	return timePtr(m.CreatedAt)
}

// UpdatedAtPtr returns nil when the store did not record an update time.
func (m Metadata) UpdatedAtPtr() *time.Time {
	return timePtr(m.UpdatedAt)
}

func timePtr(ts time.Time) *time.Time {
	if ts.IsZero() {
		return nil
	}
	return &ts
}

// Projection is a loaded aggregate plus its row metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New pairs entity with meta.
func New[T any](entity T, meta Metadata) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: meta}
}
