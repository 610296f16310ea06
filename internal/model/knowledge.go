package model

// KnowledgeEntry is a stored question/answer unit usable for automated
// resolution. Entries are created and updated only by the knowledge-base
// loader; the pipeline treats them as read-only.
type KnowledgeEntry struct {
	ID       string   `json:"id" yaml:"id"`
	Question string   `json:"question" yaml:"question"`
	Answer   string   `json:"answer" yaml:"answer"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ConfidenceTier is a discrete bucket derived from a similarity distance.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceNone   ConfidenceTier = "none"
)

// Display thresholds for confidence tiers. The auto-resolve cutoff in the
// resolver (0.4) is strictly tighter than the medium display threshold, so a
// match can be shown as medium-confidence context without being accepted as a
// resolution.
const (
	HighDistanceThreshold   = 0.3
	MediumDistanceThreshold = 0.6
)

// TierForDistance derives the display tier for a distance score
// (lower = more similar).
func TierForDistance(distance float64) ConfidenceTier {
	switch {
	case distance < HighDistanceThreshold:
		return ConfidenceHigh
	case distance < MediumDistanceThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceNone
	}
}

// RetrievalMatch is one result of a knowledge search. Produced per query,
// never persisted.
type RetrievalMatch struct {
	Entry    KnowledgeEntry `json:"entry"`
	Distance float64        `json:"distance"`
	Tier     ConfidenceTier `json:"tier"`
}

// NewRetrievalMatch creates a RetrievalMatch with its tier derived from the
// distance.
func NewRetrievalMatch(entry KnowledgeEntry, distance float64) RetrievalMatch {
	return RetrievalMatch{
		Entry:    entry,
		Distance: distance,
		Tier:     TierForDistance(distance),
	}
}
