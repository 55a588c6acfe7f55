package scoring

// Result is a transient score computation outcome. Breakdown exposes the raw
// per-factor sub-scores for debugging and is not a stable contract surface.
type Result struct {
	Score     int
	Reasons   []string
	Breakdown map[string]float64
}

func clampScore(weighted float64) int {
	score := int(weighted)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
