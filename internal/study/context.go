package study

import "github.com/rcwolf97/market-research-study-simulator/internal/profile"

// Context is the per-conversation view of the study handed to each turn
// executor call. It is passed by value so an executor sees an immutable
// snapshot; only the orchestrator mutates its own copy when it advances to
// the next discussion block.
type Context struct {
	StudyTitle     string
	StudySummary   string
	UserPopulation string
	Block          Block
	Profile        profile.Profile
}

// NewContext builds the initial context for one conversation, pointing at
// the first discussion block.
func NewContext(s *Study, population string, p profile.Profile) Context {
	first, _ := s.Block(0)
	return Context{
		StudyTitle:     s.StudyName,
		StudySummary:   s.StudySummary,
		UserPopulation: population,
		Block:          first,
		Profile:        p,
	}
}
