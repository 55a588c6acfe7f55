package model

import (
	"time"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/enums"
)

// MatchAction is a directed edge actor -> target. At most one action exists
// per ordered pair; recording a new one overwrites the previous.
type MatchAction struct {
	ActorUserID  int64
	TargetUserID int64
	Action       enums.MatchAction
	CreatedAt    time.Time
}

// MutualMatch is an undirected relationship stored as a canonical pair with
// the lower user id first. At most one record exists per unordered pair.
type MutualMatch struct {
	ID        int64
	UserAID   int64
	UserBID   int64
	Score     int
	CreatedAt time.Time
}

// OtherUser resolves the counterpart of userID in the canonical pair.
func (m MutualMatch) OtherUser(userID int64) int64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// CanonicalPair orders two user ids lower-first for match storage.
func CanonicalPair(userID, targetID int64) (int64, int64) {
	if userID > targetID {
		return targetID, userID
	}
	return userID, targetID
}
