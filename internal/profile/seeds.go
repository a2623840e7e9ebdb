package profile

import (
	"fmt"
	"math/rand"
)

// Demographic attribute table sampled when no explicit seed is supplied.
// Values mirror the panel composition used for clinician studies.
var (
	seedAgeRanges = [][2]int{{33, 42}, {43, 52}, {53, 62}, {63, 70}}
	seedGenders   = []string{"male", "female"}
	seedUrban     = []string{"urban", "suburban", "rural"}
	seedAcademic  = []string{"academic", "non-academic"}
	seedStates    = []string{
		"California", "Texas", "Florida", "New York", "Pennsylvania",
		"Illinois", "Ohio", "Georgia", "North Carolina", "Michigan",
		"Arizona", "Washington", "Tennessee", "Massachusetts", "Colorado",
	}
)

// RandomSeed draws one demographic seed from the attribute table. The age
// range is drawn first and then narrowed to a concrete age.
func RandomSeed(rng *rand.Rand) Seed {
	ageRange := seedAgeRanges[rng.Intn(len(seedAgeRanges))]
	age := ageRange[0] + rng.Intn(ageRange[1]-ageRange[0]+1)
	return Seed{
		Age:      fmt.Sprintf("%d", age),
		Gender:   seedGenders[rng.Intn(len(seedGenders))],
		Urban:    seedUrban[rng.Intn(len(seedUrban))],
		Academic: seedAcademic[rng.Intn(len(seedAcademic))],
		State:    seedStates[rng.Intn(len(seedStates))],
	}
}

// Descriptor renders the short human-readable summary persisted alongside
// each generated profile.
func (s Seed) Descriptor() string {
	return fmt.Sprintf("%syo %s, %s, %s, %s", s.Age, s.Gender, s.Urban, s.Academic, s.State)
}
