package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tkoskim/breachpoint/internal/repositories"
	"github.com/tkoskim/breachpoint/internal/testhelpers"
)

func TestContentRepository_Suspects(t *testing.T) {
	t.Parallel()
	dbs := newTestDB(t)
	repo := repositories.NewContentRepository(dbs, testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	suspects, err := repo.ListSuspects(ctx)
	require.NoError(t, err)
	require.Len(t, suspects, 3)
	require.Equal(t, "ShadowVault Group", suspects[0].Name)
	require.Equal(t, "RANSOMWARE", suspects[0].Type)
	require.Equal(t, []int64{2, 4, 5}, suspects[0].EvidenceLinks)
	require.Len(t, suspects[0].Tactics, 3)

	suspect, err := repo.GetSuspect(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, suspect)
	require.Equal(t, "Insider Threat", suspect.Name)
	require.Equal(t, "REVENGE MOTIVE", suspect.Motive)

	missing, err := repo.GetSuspect(ctx, 999)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestContentRepository_Evidence(t *testing.T) {
	t.Parallel()
	dbs := newTestDB(t)
	repo := repositories.NewContentRepository(dbs, testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	items, err := repo.ListEvidence(ctx)
	require.NoError(t, err)
	require.Len(t, items, 6)
	for _, item := range items {
		require.True(t, item.IsUnlocked, "seeded evidence %d should be unlocked", item.ID)
	}

	item, err := repo.GetEvidence(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, "Ransomware Binary Analysis", item.Title)
	require.Contains(t, item.Detail.KeyFindings, "Contains string references to ShadowVault group")
	require.Equal(t, []int64{1}, item.Detail.RelatedSuspects)
	require.Equal(t, []string{"Malware Sandbox", "Decryption Lab"}, item.Detail.AnalysisTools)

	missing, err := repo.GetEvidence(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, missing)

	starter, err := repo.StarterEvidenceIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6}, starter)
}

func TestContentRepository_UpdateEvidence(t *testing.T) {
	t.Parallel()
	dbs := newTestDB(t)
	repo := repositories.NewContentRepository(dbs, testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	locked := false
	title := "Patient Zero Disk Image"
	updated, err := repo.UpdateEvidence(ctx, 1, repositories.EvidencePatch{
		Title:      &title,
		IsUnlocked: &locked,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, title, updated.Title)
	require.False(t, updated.IsUnlocked)
	// Untouched fields survive the partial update.
	require.Equal(t, "DIGITAL EVIDENCE", updated.Type)

	missing, err := repo.UpdateEvidence(ctx, 404, repositories.EvidencePatch{Title: &title})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestContentRepository_Decisions(t *testing.T) {
	t.Parallel()
	dbs := newTestDB(t)
	repo := repositories.NewContentRepository(dbs, testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	decisions, err := repo.ListDecisions(ctx)
	require.NoError(t, err)
	require.Len(t, decisions, 1)

	decision, err := repo.GetDecision(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, decision)
	require.Equal(t, "Investigation Focus", decision.Title)
	require.Len(t, decision.Options, 3)
	require.Equal(t, map[string]string{
		"threat_actor":  "actor_analysis",
		"recovery":      "recovery_operations",
		"attack_vector": "vector_analysis",
	}, decision.NextStates)

	option, ok := decision.Option("recovery")
	require.True(t, ok)
	require.Equal(t, "Recovery Operations", option.Title)
	require.NotEmpty(t, option.Outcome)

	_, ok = decision.Option("nonexistent")
	require.False(t, ok)

	missing, err := repo.GetDecision(ctx, 7)
	require.NoError(t, err)
	require.Nil(t, missing)
}
