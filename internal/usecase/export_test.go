package usecase

import "time"

// DefaultPageLimit and MaxPageLimit expose the unexported page-limit
// constants to the external test package.
const (
	DefaultPageLimit = defaultPageLimit
	MaxPageLimit     = maxPageLimit
)

// SetNow exposes the unexported clock of SubmissionService to the
// external test package.
func (s *SubmissionService) SetNow(now func() time.Time) {
	s.now = now
}
