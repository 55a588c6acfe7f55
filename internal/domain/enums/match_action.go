package enums

import "strings"

type MatchAction string

const (
	MatchActionLike      MatchAction = "LIKE"
	MatchActionPass      MatchAction = "PASS"
	MatchActionSuperLike MatchAction = "SUPER_LIKE"
)

func ParseMatchAction(input string) (MatchAction, bool) {
	switch MatchAction(strings.ToUpper(strings.TrimSpace(input))) {
	case MatchActionLike:
		return MatchActionLike, true
	case MatchActionPass:
		return MatchActionPass, true
	case MatchActionSuperLike:
		return MatchActionSuperLike, true
	default:
		return "", false
	}
}

// Positive reports whether the action expresses interest in the target.
// PASS never participates in mutual-match detection.
func (a MatchAction) Positive() bool {
	return a == MatchActionLike || a == MatchActionSuperLike
}
