package sim

// Config holds the tunable constants of the game model
type Config struct {
	// Shot generation
	ShotsMin          float64 // Baseline shots drawn uniformly from [ShotsMin, ShotsMax)
	ShotsMax          float64
	HomeIceMultiplier float64
	StrengthEffectCap float64 // Largest fractional shot swing from offense vs defense
	StrengthScale     float64 // Rating gap at which the swing reaches ~76% of the cap

	// Goaltending: overall MinRating..MaxRating maps linearly onto [SaveMin, SaveMax]
	SaveMin float64
	SaveMax float64

	// Power play
	PPMean       float64 // Mean opportunities for a 75-rated offense
	PPStd        float64
	PPConversion float64
	PPWeight     float64

	Noise          float64 // Expected goals get uniform noise in [-Noise, Noise)
	ChemistryBonus float64 // Expected goals scale by 1 + ChemistryBonus*(chemistry-0.5)
	GoalCeiling    int

	// Ties
	OTProbability     float64 // Chance a tied game goes to overtime
	OTGoalProbability float64 // Chance someone scores in overtime before the tie-break

	// Attribution
	LineExponent            float64 // Line shot weight is (line rating sum)^LineExponent
	ScorerAlpha             float64 // Scorer and shot weights use overall^ScorerAlpha
	FatiguePerGame          float64
	FatigueFloor            float64
	AssistProbability       float64
	SecondAssistProbability float64
	HitsMin                 float64
	HitsMax                 float64

	// Clock
	RegulationMinutes float64
	OvertimeMinutes   float64
	RotationMinutes   float64   // Length of one full line-change cycle
	ForwardTOI        []float64 // Ice-time share per forward line
	DefenseTOI        []float64 // Ice-time share per defense pair
}

// DefaultConfig returns the tuning used by the league
func DefaultConfig() Config {
	return Config{
		ShotsMin:          24,
		ShotsMax:          34,
		HomeIceMultiplier: 1.04,
		StrengthEffectCap: 0.25,
		StrengthScale:     15,

		SaveMin: 0.88,
		SaveMax: 0.95,

		PPMean:       3,
		PPStd:        1.2,
		PPConversion: 0.2,
		PPWeight:     0.5,

		Noise:          0.75,
		ChemistryBonus: 0.1,
		GoalCeiling:    12,

		OTProbability:     0.8,
		OTGoalProbability: 0.7,

		LineExponent:            1.5,
		ScorerAlpha:             2,
		FatiguePerGame:          0.002,
		FatigueFloor:            0.5,
		AssistProbability:       0.85,
		SecondAssistProbability: 0.6,
		HitsMin:                 15,
		HitsMax:                 30,

		RegulationMinutes: 60,
		OvertimeMinutes:   5,
		RotationMinutes:   5,
		ForwardTOI:        []float64{0.35, 0.30, 0.22, 0.13},
		DefenseTOI:        []float64{0.40, 0.33, 0.27},
	}
}
