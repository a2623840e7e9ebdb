package dialogue

// Turn roles use the wire convention of the researcher's point of view:
// the researcher speaks as the assistant, the simulated respondent as the
// user.
const (
	RoleResearcher = "assistant"
	RoleRespondent = "user"
)

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Dialogue is the append-only transcript of one conversation. It is owned
// by a single orchestrator instance, so access is not synchronized; the
// accessors return copies so callers cannot mutate internal state.
type Dialogue struct {
	turns []Turn
}

func New() *Dialogue {
	return &Dialogue{}
}

func (d *Dialogue) AppendResearcher(content string) {
	d.turns = append(d.turns, Turn{Role: RoleResearcher, Content: content})
}

func (d *Dialogue) AppendRespondent(content string) {
	d.turns = append(d.turns, Turn{Role: RoleRespondent, Content: content})
}

func (d *Dialogue) Len() int { return len(d.turns) }

func (d *Dialogue) Empty() bool { return len(d.turns) == 0 }

// Turns returns a copy of the full transcript.
func (d *Dialogue) Turns() []Turn {
	out := make([]Turn, len(d.turns))
	copy(out, d.turns)
	return out
}

// Window returns a copy of the last n turns, or the whole transcript when
// it is shorter. Used to bound the simulated respondent's recall.
func (d *Dialogue) Window(n int) []Turn {
	if n >= len(d.turns) {
		return d.Turns()
	}
	out := make([]Turn, n)
	copy(out, d.turns[len(d.turns)-n:])
	return out
}
