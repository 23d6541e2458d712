package domain

// Step is an immutable record of one grammar rewrite: the Terminal
// nonterminal at Position was replaced by Char, drawn uniformly from an
// alphabet of AlphabetSize characters.
//
// Steps are appended in draw order, so Index is 0-based and monotonically
// increasing with no gaps. The log is the only place randomness is consumed:
// replaying a captured log reconstructs the identical tree without ever
// touching the random source.
type Step struct {
	Index        int    `json:"index"`
	Position     int    `json:"position"`
	AlphabetSize int    `json:"alphabet_size"`
	Char         string `json:"char"`
}

// Recording is a captured derivation: everything the replay surface needs to
// reconstruct snapshots without the key itself. Stores persist Recordings so
// a visualization client can page through steps after the generation request
// has completed.
type Recording struct {
	Length       int    `json:"length"`
	AlphabetSize int    `json:"alphabet_size"`
	Steps        []Step `json:"steps"`
}

// CloneSteps returns a defensive copy of a step log. Stores and transports
// hand logs across goroutine boundaries; callers must never share the
// backing array of a result they intend to retain.
func CloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}
