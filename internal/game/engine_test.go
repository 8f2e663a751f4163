package game_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tkoskim/breachpoint/internal/game"
	"github.com/tkoskim/breachpoint/internal/models"
	"github.com/tkoskim/breachpoint/internal/repositories"
	"github.com/tkoskim/breachpoint/internal/sqlite"
	"github.com/tkoskim/breachpoint/internal/testhelpers"
)

type fixture struct {
	dbs      *sqlite.Database
	engine   *game.Engine
	progress *repositories.ProgressRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := testhelpers.NewLogger(io.Discard)
	dbs, err := sqlite.NewDatabase(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, dbs.Close())
	})
	content := repositories.NewContentRepository(dbs, logger)
	progress := repositories.NewProgressRepository(dbs, logger)
	users := repositories.NewUserRepository(dbs, logger)
	return fixture{
		dbs:      dbs,
		engine:   game.NewEngine(content, progress, users, logger),
		progress: progress,
	}
}

// seedIncompleteDecision adds a decision whose "b" option has no transition entry.
func seedIncompleteDecision(t *testing.T, f fixture) {
	t.Helper()
	_, err := f.dbs.ReadWrite.Exec(
		`INSERT INTO decisions (id, title, description, options, next_states) VALUES (?, ?, ?, ?, ?)`,
		2,
		"Containment Strategy",
		"How do you contain the spread?",
		`[{"id":"a","title":"Isolate network","description":"","icon":"plug","outcome":"Segments isolated."},
		  {"id":"b","title":"Full shutdown","description":"","icon":"power-off","outcome":"Everything goes dark."}]`,
		`{"a":"path_a"}`,
	)
	require.NoError(t, err)
}

func TestEngine_ChooseOption_FreshUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.engine.ChooseOption(ctx, 1, 42, "threat_actor")
	require.NoError(t, err)
	require.Equal(t, "actor_analysis", result.Progress.CurrentStep)
	require.Equal(t, int64(42), result.Progress.UserID)
	require.Equal(t, map[int64]string{1: "threat_actor"}, result.Progress.Decisions)
	require.Empty(t, result.Progress.UnlockedEvidence)
	require.Equal(t, models.StartingTimeBudget, result.Progress.TimeRemaining)
	require.Contains(t, result.Outcome, "ShadowVault Group")

	stored, err := f.progress.GetByUser(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, result.Progress.Decisions, stored.Decisions)
}

func TestEngine_ChooseOption_MergesDecisions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	seedIncompleteDecision(t, f)
	ctx := context.Background()

	first, err := f.engine.ChooseOption(ctx, 1, 7, "recovery")
	require.NoError(t, err)
	require.Equal(t, "recovery_operations", first.Progress.CurrentStep)

	second, err := f.engine.ChooseOption(ctx, 2, 7, "a")
	require.NoError(t, err)
	require.Equal(t, "path_a", second.Progress.CurrentStep)
	// The earlier choice survives the merge.
	require.Equal(t, map[int64]string{1: "recovery", 2: "a"}, second.Progress.Decisions)
	require.Equal(t, first.Progress.ID, second.Progress.ID)
}

func TestEngine_ChooseOption_RechoosingOverwrites(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.engine.ChooseOption(ctx, 1, 9, "threat_actor")
	require.NoError(t, err)

	second, err := f.engine.ChooseOption(ctx, 1, 9, "attack_vector")
	require.NoError(t, err)
	require.Equal(t, map[int64]string{1: "attack_vector"}, second.Progress.Decisions)
	require.Equal(t, "vector_analysis", second.Progress.CurrentStep)
	require.False(t, second.Progress.LastUpdated.Before(first.Progress.LastUpdated))
}

func TestEngine_ChooseOption_MissingTransitionFallsBackToIntro(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	seedIncompleteDecision(t, f)
	ctx := context.Background()

	result, err := f.engine.ChooseOption(ctx, 2, 42, "a")
	require.NoError(t, err)
	require.Equal(t, "path_a", result.Progress.CurrentStep)
	require.Equal(t, map[int64]string{2: "a"}, result.Progress.Decisions)
	require.Equal(t, models.StartingTimeBudget, result.Progress.TimeRemaining)

	// Option "b" has no transition entry; the player lands back on intro but the choice is
	// still recorded.
	result, err = f.engine.ChooseOption(ctx, 2, 42, "b")
	require.NoError(t, err)
	require.Equal(t, models.StepIntro, result.Progress.CurrentStep)
	require.Equal(t, map[int64]string{2: "b"}, result.Progress.Decisions)
}

func TestEngine_ChooseOption_Rejections(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	// Unknown decision writes nothing.
	_, err := f.engine.ChooseOption(ctx, 99, 42, "threat_actor")
	require.ErrorIs(t, err, game.ErrDecisionNotFound)
	stored, err := f.progress.GetByUser(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, stored)

	// A foreign option id is rejected before any write.
	_, err = f.engine.ChooseOption(ctx, 1, 42, "nonexistent")
	require.ErrorIs(t, err, game.ErrInvalidOption)
	stored, err = f.progress.GetByUser(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, stored)

	// Rejections also leave existing progress untouched.
	result, err := f.engine.ChooseOption(ctx, 1, 42, "recovery")
	require.NoError(t, err)
	_, err = f.engine.ChooseOption(ctx, 1, 42, "nonexistent")
	require.ErrorIs(t, err, game.ErrInvalidOption)
	stored, err = f.progress.GetByUser(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, result.Progress.Decisions, stored.Decisions)
	require.True(t, stored.LastUpdated.Equal(result.Progress.LastUpdated))
}

func TestEngine_Register(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.engine.Register(ctx, "alice", "hunter2")
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	progress, err := f.progress.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	require.Equal(t, models.StepIntro, progress.CurrentStep)
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6}, progress.UnlockedEvidence)
	require.Equal(t, models.StartingTimeBudget, progress.TimeRemaining)
	require.Empty(t, progress.Decisions)

	// Duplicate registration neither creates a user nor another progress record.
	_, err = f.engine.Register(ctx, "alice", "other")
	require.ErrorIs(t, err, game.ErrUsernameTaken)

	var progressCount int
	require.NoError(t, f.dbs.ReadOnly.Get(&progressCount, `SELECT COUNT(*) FROM user_progress`))
	require.Equal(t, 1, progressCount)
	var userCount int
	require.NoError(t, f.dbs.ReadOnly.Get(&userCount, `SELECT COUNT(*) FROM users`))
	require.Equal(t, 1, userCount)
}

func TestEngine_ValidateContent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	// The shipped catalog is clean.
	findings, err := f.engine.ValidateContent(ctx)
	require.NoError(t, err)
	require.Empty(t, findings)

	seedIncompleteDecision(t, f)
	_, err = f.dbs.ReadWrite.Exec(
		`UPDATE suspects SET evidence_links = '[2,99]' WHERE id = 2`)
	require.NoError(t, err)

	findings, err = f.engine.ValidateContent(ctx)
	require.NoError(t, err)
	require.Len(t, findings, 2)
	require.Contains(t, findings[0], `option "b" has no next state`)
	require.Contains(t, findings[1], "evidence link 99 does not exist")
}
