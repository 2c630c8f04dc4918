package models

import "time"

// ✅ Interaction kinds (like, pass)
const (
	InteractionKindLike = "like"
	InteractionKindPass = "pass"
)

// ✅ Interaction statuses returned to clients
const (
	StatusLiked         = "liked"
	StatusMatched       = "matched"
	StatusPassed        = "passed"
	StatusAlreadyPassed = "already_passed"
)

// MaxMessageLength bounds message text after trimming.
const MaxMessageLength = 1000

// Typing presence windows. Entries older than TypingStaleAfter are pruned on
// the next write; readers treat entries older than TypingFreshWithin as
// not-currently-typing even before the next prune.
const (
	TypingStaleAfter  = 10 * time.Second
	TypingFreshWithin = 5 * time.Second
)

// DefaultMood is assigned when a profile is created or has no mood yet.
const DefaultMood = "Chill"

// Moods is the closed set of self-reported moods used for discovery.
var Moods = []string{"Happy", "Chill", "Energetic", "Anxious", "Focused", "Social"}

// IsValidMood reports whether mood is in the closed set.
func IsValidMood(mood string) bool {
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}
