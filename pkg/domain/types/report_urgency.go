package types

import "fmt"

// ReportUrgency represents how soon an analyzed medical report should be
// discussed with a clinician. Its vocabulary deliberately differs from
// Urgency and the two are never converted into each other.
type ReportUrgency string

const (
	ReportUrgencyLow      ReportUrgency = "low"
	ReportUrgencyMedium   ReportUrgency = "medium"
	ReportUrgencyHigh     ReportUrgency = "high"
	ReportUrgencyCritical ReportUrgency = "critical"
)

// AllReportUrgencies returns all valid report urgency levels
func AllReportUrgencies() []ReportUrgency {
	return []ReportUrgency{
		ReportUrgencyLow,
		ReportUrgencyMedium,
		ReportUrgencyHigh,
		ReportUrgencyCritical,
	}
}

// IsValid checks if the report urgency level is valid
func (u ReportUrgency) IsValid() bool {
	switch u {
	case ReportUrgencyLow,
		ReportUrgencyMedium,
		ReportUrgencyHigh,
		ReportUrgencyCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the report urgency level
func (u ReportUrgency) String() string {
	return string(u)
}

// ParseReportUrgency parses a string into a ReportUrgency
func ParseReportUrgency(s string) (ReportUrgency, error) {
	u := ReportUrgency(s)
	if !u.IsValid() {
		return "", fmt.Errorf("invalid report urgency level: %s", s)
	}
	return u, nil
}
