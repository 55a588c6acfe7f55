package scoring

import (
	"fmt"
	"strings"

	"github.com/nvoropaev/fitmatch/backend/internal/domain/model"
)

// Schedule fit is a fixed placeholder until class start times are compared
// against the user's weekly availability map.
// TODO: decide the day/time-slot granularity for mapping a class's absolute
// start time onto availability slots, then replace this constant.
const classScheduleFitPlaceholder = 75.0

// ScoreClass computes the 0-100 fit between a user profile and a class.
// maxDistanceKM is the user's configured distance preference, maxPrice their
// optional class budget.
func ScoreClass(p model.Profile, c model.Class, distanceKM *float64, maxDistanceKM float64, maxPrice *float64, w ClassWeights) Result {
	breakdown := make(map[string]float64, 5)
	reasons := make([]string, 0, 4)

	shared := SharedInterests(p.Interests, c.Tags)
	interests := classInterestScore(p.Interests, shared, &reasons)
	breakdown["interests"] = interests

	intensity := intensityFit(p.FitnessLevel, c.Intensity, &reasons)
	breakdown["intensity"] = intensity

	breakdown["schedule"] = classScheduleFitPlaceholder

	location := locationConvenience(distanceKM, maxDistanceKM, &reasons)
	breakdown["location"] = location

	price := priceFit(c.Price, maxPrice, &reasons)
	breakdown["price"] = price

	weighted := interests*w.Interests +
		intensity*w.Intensity +
		classScheduleFitPlaceholder*w.Schedule +
		location*w.Location +
		price*w.Price

	return Result{
		Score:     clampScore(weighted),
		Reasons:   reasons,
		Breakdown: breakdown,
	}
}

func classInterestScore(userInterests, shared []string, reasons *[]string) float64 {
	if len(userInterests) == 0 {
		return neutralSubScore
	}
	if len(shared) == 0 {
		// The class covers none of the user's interests but may still be
		// worth surfacing.
		return 30
	}

	*reasons = append(*reasons, fmt.Sprintf("Matches your interests: %s", strings.Join(shared, ", ")))
	return minFloat(100, float64(len(shared))*50)
}

func intensityFit(fitnessLevel *int, intensity int, reasons *[]string) float64 {
	if fitnessLevel == nil {
		return neutralSubScore
	}

	d := *fitnessLevel - intensity
	if d < 0 {
		d = -d
	}

	switch {
	case d == 0:
		*reasons = append(*reasons, fmt.Sprintf("Intensity matches your level (%d/10)", intensity))
		return 100
	case d == 1:
		*reasons = append(*reasons, fmt.Sprintf("Intensity close to your level (%d vs %d)", intensity, *fitnessLevel))
		return 85
	case d == 2:
		return 70
	case d == 3:
		return 50
	default:
		return 30
	}
}

func locationConvenience(distanceKM *float64, maxDistanceKM float64, reasons *[]string) float64 {
	if distanceKM == nil || maxDistanceKM <= 0 {
		return neutralSubScore
	}

	d := *distanceKM
	switch {
	case d <= 0.3*maxDistanceKM:
		*reasons = append(*reasons, fmt.Sprintf("Very convenient location (%.1f km)", d))
		return 100
	case d <= 0.6*maxDistanceKM:
		*reasons = append(*reasons, fmt.Sprintf("Convenient location (%.1f km)", d))
		return 80
	case d <= maxDistanceKM:
		return 60
	case d <= 1.5*maxDistanceKM:
		return 40
	default:
		return 20
	}
}

func priceFit(price float64, maxPrice *float64, reasons *[]string) float64 {
	if maxPrice == nil || *maxPrice <= 0 {
		return neutralSubScore
	}

	budget := *maxPrice
	switch {
	case price <= 0.7*budget:
		*reasons = append(*reasons, "Well within your budget")
		return 100
	case price <= budget:
		*reasons = append(*reasons, "Within your budget")
		return 80
	case price <= 1.2*budget:
		return 50
	default:
		return 20
	}
}
