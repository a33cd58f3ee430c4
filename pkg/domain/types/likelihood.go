package types

import "fmt"

// Likelihood represents how likely a candidate condition is to explain the
// described symptoms
type Likelihood string

const (
	LikelihoodHigh   Likelihood = "High"
	LikelihoodMedium Likelihood = "Medium"
	LikelihoodLow    Likelihood = "Low"
)

// AllLikelihoods returns all valid likelihood levels
func AllLikelihoods() []Likelihood {
	return []Likelihood{
		LikelihoodHigh,
		LikelihoodMedium,
		LikelihoodLow,
	}
}

// IsValid checks if the likelihood level is valid
func (l Likelihood) IsValid() bool {
	switch l {
	case LikelihoodHigh,
		LikelihoodMedium,
		LikelihoodLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the likelihood level
func (l Likelihood) String() string {
	return string(l)
}

// ParseLikelihood parses a string into a Likelihood
func ParseLikelihood(s string) (Likelihood, error) {
	l := Likelihood(s)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid likelihood level: %s", s)
	}
	return l, nil
}
