package config

// AssessmentConfig holds the tunable parameters of the assessment core.
// It is built once at startup from the application configuration and is
// read-only afterwards.
type AssessmentConfig struct {
	// MaxDialogueTurns is the hard ceiling on user turns in a follow-up
	// dialogue. The reasoning engine is instructed to finish earlier, but the
	// controller forces completion at this bound to guarantee liveness.
	MaxDialogueTurns int

	// ContextHistoryLimit bounds how many recent history entries feed the
	// context bundle.
	ContextHistoryLimit int

	// DisplayHistoryLimit bounds how many entries the history listing surface
	// returns. Independent from ContextHistoryLimit.
	DisplayHistoryLimit int

	// CautionAgeOver and CautionAgeUnder delimit the age ranges that are
	// surfaced to the reasoning engine with an extra-caution annotation.
	CautionAgeOver  int
	CautionAgeUnder int
}

// DefaultAssessmentConfig returns the built-in defaults
func DefaultAssessmentConfig() *AssessmentConfig {
	return &AssessmentConfig{
		MaxDialogueTurns:    10,
		ContextHistoryLimit: 10,
		DisplayHistoryLimit: 20,
		CautionAgeOver:      65,
		CautionAgeUnder:     12,
	}
}
