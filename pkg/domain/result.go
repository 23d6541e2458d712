package domain

// DefaultLength is the key length used when a request does not specify one.
const DefaultLength = 16

// GenerationRequest describes one derivation: which alphabet modes to
// combine and how many characters to produce. The engine rejects Length <= 0
// with ErrInvalidLength; transports substitute DefaultLength before calling
// when the caller omitted the field.
type GenerationRequest struct {
	Modes  []string `json:"modes"`
	Length int      `json:"length,omitempty"`
}

// GenerationResult is the complete outcome of one derivation. It is
// constructed atomically: on any validation failure no partial tree or step
// log is ever returned.
type GenerationResult struct {
	Key          string `json:"key"`
	Tree         *Tree  `json:"tree"`
	Steps        []Step `json:"steps"`
	AlphabetSize int    `json:"alphabet_size"`
}

// Tier buckets an entropy ratio into a coarse quality signal.
type Tier string

const (
	TierWeak     Tier = "weak"
	TierModerate Tier = "moderate"
	TierStrong   Tier = "strong"
)

// TierFor maps a normalized entropy ratio to its quality tier. The
// thresholds are a documented policy, not a hard contract: weak below 0.5,
// moderate below 0.75, strong at or above.
func TierFor(ratio float64) Tier {
	switch {
	case ratio < 0.5:
		return TierWeak
	case ratio < 0.75:
		return TierModerate
	default:
		return TierStrong
	}
}

// EntropyResult reports the Shannon entropy of a generated key.
// MaxBits is log2(alphabetSize), the ceiling if every position were
// independently uniform over the full alphabet, not over the characters
// actually observed.
type EntropyResult struct {
	Bits    float64 `json:"entropy"`
	MaxBits float64 `json:"max_entropy"`
	Ratio   float64 `json:"ratio"`
	Tier    Tier    `json:"tier"`
}
