package scoring

import (
	"fmt"
	"strings"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
)

// ScorePartner computes the 0-100 compatibility score between two user
// profiles. distanceKM is nil when either side has no usable coordinates;
// hasPriorInteraction marks that the pair has interacted before (a recorded
// like in either direction).
func ScorePartner(a, b model.Profile, distanceKM *float64, hasPriorInteraction bool, w PartnerWeights) Result {
	breakdown := make(map[string]float64, 5)
	reasons := make([]string, 0, 5)

	fitness := fitnessSimilarity(a.FitnessLevel, b.FitnessLevel, &reasons)
	breakdown["fitness"] = fitness

	shared := SharedInterests(a.Interests, b.Interests)
	interests := interestOverlap(a.Interests, b.Interests, shared, &reasons)
	breakdown["interests"] = interests

	proximity := proximityScore(distanceKM, &reasons)
	breakdown["proximity"] = proximity

	schedule := scheduleOverlap(a.Availability, b.Availability, &reasons)
	breakdown["schedule"] = schedule

	interaction := 0.0
	if hasPriorInteraction {
		interaction = 100
		reasons = append(reasons, "You've already shown interest in each other")
	}
	breakdown["interaction"] = interaction

	weighted := fitness*w.Fitness +
		interests*w.Interests +
		proximity*w.Proximity +
		schedule*w.Schedule +
		interaction*w.Interaction

	return Result{
		Score:     clampScore(weighted),
		Reasons:   reasons,
		Breakdown: breakdown,
	}
}

// SharedInterests returns the deduplicated intersection of two interest sets,
// preserving the order of the first.
func SharedInterests(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	inB := make(map[string]struct{}, len(b))
	for _, tag := range b {
		inB[normalizeTag(tag)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(a))
	shared := make([]string, 0, len(a))
	for _, tag := range a {
		key := normalizeTag(tag)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := inB[key]; ok {
			shared = append(shared, tag)
		}
	}

	return shared
}

func fitnessSimilarity(levelA, levelB *int, reasons *[]string) float64 {
	if levelA == nil || levelB == nil {
		return neutralSubScore
	}

	d := *levelA - *levelB
	if d < 0 {
		d = -d
	}

	switch {
	case d == 0:
		*reasons = append(*reasons, fmt.Sprintf("Same fitness level (%d/10)", *levelA))
		return 100
	case d <= 2:
		*reasons = append(*reasons, fmt.Sprintf("Close fitness levels (%d and %d)", *levelA, *levelB))
		return maxFloat(0, 100-25*float64(d))
	default:
		return maxFloat(0, 100-30*float64(d))
	}
}

func interestOverlap(a, b []string, shared []string, reasons *[]string) float64 {
	// Neither side has declared any interests: no data, stay neutral. A real
	// but empty intersection scores zero.
	if len(a) == 0 && len(b) == 0 {
		return neutralSubScore
	}
	if len(shared) == 0 {
		return 0
	}

	noun := "interests"
	if len(shared) == 1 {
		noun = "interest"
	}
	*reasons = append(*reasons, fmt.Sprintf("%d shared %s: %s", len(shared), noun, strings.Join(shared, ", ")))

	if len(shared) >= 3 {
		return 100
	}
	return minFloat(100, float64(len(shared))*50)
}

func proximityScore(distanceKM *float64, reasons *[]string) float64 {
	if distanceKM == nil {
		return neutralSubScore
	}

	d := *distanceKM
	switch {
	case d <= 2:
		*reasons = append(*reasons, fmt.Sprintf("Very close by (%.1f km)", d))
		return 100
	case d <= 5:
		*reasons = append(*reasons, fmt.Sprintf("Nearby (%.1f km)", d))
		return 80
	case d <= 10:
		*reasons = append(*reasons, fmt.Sprintf("%.1f km away", d))
		return 60
	case d <= 20:
		*reasons = append(*reasons, fmt.Sprintf("%.1f km away", d))
		return 40
	default:
		return 20
	}
}

func scheduleOverlap(a, b map[string][]string, reasons *[]string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return neutralSubScore
	}

	overlap := 0
	for day, slotsA := range a {
		slotsB, ok := b[day]
		if !ok {
			continue
		}
		inB := make(map[string]struct{}, len(slotsB))
		for _, slot := range slotsB {
			inB[normalizeTag(slot)] = struct{}{}
		}
		counted := make(map[string]struct{}, len(slotsA))
		for _, slot := range slotsA {
			key := normalizeTag(slot)
			if _, dup := counted[key]; dup {
				continue
			}
			counted[key] = struct{}{}
			if _, match := inB[key]; match {
				overlap++
			}
		}
	}

	switch {
	case overlap >= 5:
		*reasons = append(*reasons, fmt.Sprintf("%d overlapping availability slots", overlap))
		return 100
	case overlap >= 3:
		*reasons = append(*reasons, fmt.Sprintf("%d overlapping availability slots", overlap))
		return 75
	case overlap >= 1:
		*reasons = append(*reasons, fmt.Sprintf("%d overlapping availability slots", overlap))
		return 50
	default:
		// At least one side reported a schedule and nothing lines up.
		return 25
	}
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
