package model

import (
	"time"

	"github.com/anamnesis-lab/anamnesis/pkg/domain/types"
)

// UserProfile holds the personal data used to personalize an assessment.
// Profiles are created at signup and maintained outside this service; the
// assessment core only reads them.
type UserProfile struct {
	UserID       types.UserID
	FullName     string `masq:"secret"`
	Age          int
	HealthIssues string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
