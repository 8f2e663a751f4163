package game

import (
	"context"
	"fmt"

	"github.com/tkoskim/breachpoint/internal/errors"
)

// ValidateContent runs an integrity pass over the case catalog and returns a human-readable
// finding per problem.
//
// The runtime tolerates all of these (unmapped options fall back to the intro step, dangling
// cross-references yield empty joins), but they are almost always authoring mistakes, so the
// server logs them at startup and the CLI fails on them.
func (e *Engine) ValidateContent(ctx context.Context) ([]string, error) {
	var findings []string

	decisions, err := e.content.ListDecisions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list decisions")
	}
	for _, decision := range decisions {
		optionIDs := make(map[string]bool, len(decision.Options))
		for _, option := range decision.Options {
			optionIDs[option.ID] = true
			if decision.NextStates[option.ID] == "" {
				findings = append(findings, fmt.Sprintf(
					"decision %d: option %q has no next state, players will fall back to intro",
					decision.ID, option.ID))
			}
		}
		for optionID := range decision.NextStates {
			if !optionIDs[optionID] {
				findings = append(findings, fmt.Sprintf(
					"decision %d: next state for %q references an unknown option",
					decision.ID, optionID))
			}
		}
	}

	suspects, err := e.content.ListSuspects(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list suspects")
	}
	evidence, err := e.content.ListEvidence(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list evidence")
	}

	suspectIDs := make(map[int64]bool, len(suspects))
	for _, suspect := range suspects {
		suspectIDs[suspect.ID] = true
	}
	evidenceIDs := make(map[int64]bool, len(evidence))
	for _, item := range evidence {
		evidenceIDs[item.ID] = true
	}

	for _, suspect := range suspects {
		for _, evidenceID := range suspect.EvidenceLinks {
			if !evidenceIDs[evidenceID] {
				findings = append(findings, fmt.Sprintf(
					"suspect %d: evidence link %d does not exist", suspect.ID, evidenceID))
			}
		}
	}
	for _, item := range evidence {
		for _, suspectID := range item.Detail.RelatedSuspects {
			if !suspectIDs[suspectID] {
				findings = append(findings, fmt.Sprintf(
					"evidence %d: related suspect %d does not exist", item.ID, suspectID))
			}
		}
	}

	return findings, nil
}
