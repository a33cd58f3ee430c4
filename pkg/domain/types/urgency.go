package types

import "fmt"

// Urgency represents how quickly a symptom assessment suggests seeking care
type Urgency string

const (
	UrgencyEmergency Urgency = "Emergency"
	UrgencyUrgent    Urgency = "Urgent"
	UrgencyNonUrgent Urgency = "Non-urgent"
)

// AllUrgencies returns all valid urgency levels
func AllUrgencies() []Urgency {
	return []Urgency{
		UrgencyEmergency,
		UrgencyUrgent,
		UrgencyNonUrgent,
	}
}

// IsValid checks if the urgency level is valid
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyEmergency,
		UrgencyUrgent,
		UrgencyNonUrgent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the urgency level
func (u Urgency) String() string {
	return string(u)
}

// ParseUrgency parses a string into an Urgency
func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(s)
	if !u.IsValid() {
		return "", fmt.Errorf("invalid urgency level: %s", s)
	}
	return u, nil
}
