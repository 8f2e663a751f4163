package models

// Suspect is a profiled threat actor in the case file. The catalog is seeded at startup and
// read-only afterwards.
type Suspect struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Region        string   `json:"region"`
	Motive        string   `json:"motive"`
	Description   string   `json:"description"`
	Tactics       []string `json:"tactics"`
	EvidenceLinks []int64  `json:"evidenceLinks"`
}

// EvidenceDetail is the long-form payload shown when a player opens an evidence item.
type EvidenceDetail struct {
	FullDescription string   `json:"fullDescription"`
	KeyFindings     []string `json:"keyFindings"`
	RelatedSuspects []int64  `json:"relatedSuspects"`
	AnalysisTools   []string `json:"analysisTools"`
}

// EvidenceItem is a single piece of case evidence. Suspect and evidence cross-reference each
// other by id with no referential-integrity guarantee; dangling ids yield empty joins.
type EvidenceItem struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Detail      EvidenceDetail `json:"detailContent"`
	IsUnlocked  bool           `json:"isUnlocked"`
}

// DecisionOption is one selectable choice within a decision point.
type DecisionOption struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Status      string `json:"status,omitempty"`
	Outcome     string `json:"outcome"`
}

// Decision is a narrative branch point. NextStates maps an option id to the narrative step the
// player lands on after choosing it. Option ids and NextStates keys are authored independently
// and can drift; the engine falls back to the intro step for unmapped options.
type Decision struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Options     []DecisionOption  `json:"options"`
	NextStates  map[string]string `json:"nextStates"`
}

// Option returns the option with the given id.
func (d Decision) Option(id string) (DecisionOption, bool) {
	for _, option := range d.Options {
		if option.ID == id {
			return option, true
		}
	}
	return DecisionOption{}, false
}
