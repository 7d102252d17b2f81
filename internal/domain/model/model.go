// Package model contains domain models passed between layers.
package model

// DefaultName substitutes for a display name that could not be retrieved.
const DefaultName = "未知用户"

const identifierLength = 17

// Identifier is a 17-digit Steam64 account identifier.
type Identifier string

// Valid reports whether the identifier is exactly 17 decimal digits.
func (id Identifier) Valid() bool {
	if len(id) != identifierLength {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Field holds the outcome of a single attribute fetch: a value on success,
// or the failure reason. The zero value is a failure with no reason.
type Field[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successfully fetched value.
func Ok[T any](v T) Field[T] {
	return Field[T]{Value: v}
}

// Fail wraps a fetch failure with its reason.
func Fail[T any](err error) Field[T] {
	return Field[T]{Err: err}
}

// OK reports whether the fetch succeeded.
func (f Field[T]) OK() bool {
	return f.Err == nil
}

// Profile is the best-effort attribute bundle retrieved for an identifier.
// Each field is independently optional; absence carries the fetch failure.
type Profile struct {
	ID Identifier

	// GameHours is playtime of the watched title, in hours.
	GameHours Field[float64]

	// VisibilityLevel is the profile-visibility value, reused as a coarse
	// rank signal.
	VisibilityLevel Field[int]

	// GameCount is the number of owned titles.
	GameCount Field[int]

	// Name is the display name.
	Name Field[string]

	FriendCount Field[int]
	BadgeCount  Field[int]
}

// CoreMissing reports whether all three core attributes are absent. Such a
// profile is triaged as a suspected account instead of being scored.
func (p Profile) CoreMissing() bool {
	return !p.GameHours.OK() && !p.VisibilityLevel.OK() && !p.GameCount.OK()
}

// Complete reports whether every attribute fetch succeeded.
func (p Profile) Complete() bool {
	return p.GameHours.OK() &&
		p.VisibilityLevel.OK() &&
		p.GameCount.OK() &&
		p.Name.OK() &&
		p.FriendCount.OK() &&
		p.BadgeCount.OK()
}

// DisplayName returns the fetched name, or DefaultName when absent.
func (p Profile) DisplayName() string {
	if p.Name.OK() {
		return p.Name.Value
	}
	return DefaultName
}
