package scoring

// PartnerWeights are the factor weights for user-to-user scoring. They are
// injectable so individual factors can be isolated in tests; the defaults
// sum to 1.0.
type PartnerWeights struct {
	Fitness     float64
	Interests   float64
	Proximity   float64
	Schedule    float64
	Interaction float64
}

func DefaultPartnerWeights() PartnerWeights {
	return PartnerWeights{
		Fitness:     0.20,
		Interests:   0.30,
		Proximity:   0.25,
		Schedule:    0.20,
		Interaction: 0.05,
	}
}

// ClassWeights are the factor weights for user-to-class scoring.
type ClassWeights struct {
	Interests float64
	Intensity float64
	Schedule  float64
	Location  float64
	Price     float64
}

func DefaultClassWeights() ClassWeights {
	return ClassWeights{
		Interests: 0.35,
		Intensity: 0.25,
		Schedule:  0.20,
		Location:  0.15,
		Price:     0.05,
	}
}

const neutralSubScore = 50.0
