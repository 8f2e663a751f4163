// Package game holds the investigation state machine: it resolves a player's decision-point
// choices against the case catalog and folds the result into their persisted progress.
package game

import (
	"context"
	"log/slog"

	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/models"
	"github.com/tkoskim/breachpoint/internal/repositories"
)

var (
	// ErrDecisionNotFound signals that the decision id does not exist in the catalog.
	ErrDecisionNotFound = errors.NewSentinel("decision not found")
	// ErrInvalidOption signals that the option id does not belong to the decision.
	ErrInvalidOption = errors.NewSentinel("invalid option")
	// ErrUsernameTaken signals a registration with an already-used username.
	ErrUsernameTaken = errors.NewSentinel("username already taken")
)

type Engine struct {
	content  *repositories.ContentRepository
	progress *repositories.ProgressRepository
	users    *repositories.UserRepository
	logger   *slog.Logger
}

func NewEngine(
	content *repositories.ContentRepository,
	progress *repositories.ProgressRepository,
	users *repositories.UserRepository,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		content:  content,
		progress: progress,
		users:    users,
		logger:   logger.With("source", "Engine"),
	}
}

// ChoiceResult is the outcome of a resolved decision.
type ChoiceResult struct {
	Progress models.UserProgress
	Outcome  string
}

// ChooseOption records the player's choice at a decision point and advances their narrative
// state.
//
// All validation happens before any write: an unknown decision or a foreign option id rejects
// the request and leaves the progress store untouched. The chosen option's transition is looked
// up in the decision's NextStates table; authored content can drift, so a missing entry falls
// back to the intro step instead of failing the player. The create-or-merge of the progress
// record is a single atomic upsert: a first-time player gets a fresh record with the full time
// budget, a returning player has the choice merged over their decision map (re-choosing the
// same decision overwrites just that entry) and currentStep advanced unconditionally.
func (e *Engine) ChooseOption(
	ctx context.Context,
	decisionID int64,
	userID int64,
	optionID string,
) (*ChoiceResult, error) {
	decision, err := e.content.GetDecision(ctx, decisionID)
	if err != nil {
		return nil, errors.Wrap(err, "get decision", slog.Int64("decision_id", decisionID))
	}
	if decision == nil {
		return nil, ErrDecisionNotFound
	}

	option, ok := decision.Option(optionID)
	if !ok {
		return nil, errors.Wrap(ErrInvalidOption, "resolve option",
			slog.Int64("decision_id", decisionID), slog.String("option_id", optionID))
	}

	nextStep := decision.NextStates[optionID]
	if nextStep == "" {
		e.logger.WarnContext(ctx, "option has no transition, falling back to intro",
			slog.Int64("decision_id", decisionID), slog.String("option_id", optionID))
		nextStep = models.StepIntro
	}

	progress, err := e.progress.Upsert(ctx, userID, func(p *models.UserProgress) {
		p.CurrentStep = nextStep
		p.Decisions[decisionID] = optionID
	})
	if err != nil {
		return nil, errors.Wrap(err, "upsert progress",
			slog.Int64("decision_id", decisionID), slog.Int64("user_id", userID))
	}

	return &ChoiceResult{Progress: *progress, Outcome: option.Outcome}, nil
}

// Register creates a user and seeds their starter progress: the intro step, the full time
// budget, and every evidence item that is unlocked from the start of the case.
func (e *Engine) Register(ctx context.Context, username, password string) (*models.User, error) {
	existing, err := e.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "look up username")
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user, err := e.users.Create(ctx, username, password)
	if err != nil {
		// The username check above races against concurrent registrations; the UNIQUE
		// constraint is the authoritative answer.
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, errors.Wrap(err, "create user")
	}

	starter, err := e.content.StarterEvidenceIDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load starter evidence")
	}
	if _, err = e.progress.Upsert(ctx, user.ID, func(p *models.UserProgress) {
		p.UnlockedEvidence = starter
	}); err != nil {
		return nil, errors.Wrap(err, "seed starter progress", slog.Int64("user_id", user.ID))
	}

	return user, nil
}
