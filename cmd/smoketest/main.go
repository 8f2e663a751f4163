package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tkoskim/breachpoint/internal/e2etest"
	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/logging"
	"github.com/tkoskim/breachpoint/internal/random"
)

// TestInvestigation walks one player journey against a running server: register,
// browse the catalog, make a decision, and check the recorded progress.
func TestInvestigation(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return errors.Wrap(err, "wait for ready")
	}

	suffix, err := random.Letters(8)
	if err != nil {
		return errors.Wrap(err, "generate username suffix")
	}
	user, err := client.Register(ctx, "smoketest-"+suffix, "smoketest-password")
	if err != nil {
		return errors.Wrap(err, "register user")
	}

	suspects, err := client.Suspects(ctx)
	if err != nil {
		return errors.Wrap(err, "list suspects")
	}
	if len(suspects) == 0 {
		return errors.New("no suspects in catalog")
	}
	evidence, err := client.Evidence(ctx)
	if err != nil {
		return errors.Wrap(err, "list evidence")
	}
	if len(evidence) == 0 {
		return errors.New("no evidence in catalog")
	}

	decisions, err := client.Decisions(ctx)
	if err != nil {
		return errors.Wrap(err, "list decisions")
	}
	if len(decisions) == 0 {
		return errors.New("no decisions in catalog")
	}
	decision := decisions[0]
	if len(decision.Options) == 0 {
		return errors.New("decision has no options", slog.Int64("decision_id", decision.ID))
	}
	option := decision.Options[0]

	outcome, err := client.Choose(ctx, decision.ID, user.ID, option.ID)
	if err != nil {
		return errors.Wrap(err, "choose option")
	}
	wantStep := decision.NextStates[option.ID]
	if wantStep != "" && outcome.UserProgress.CurrentStep != wantStep {
		return errors.New("unexpected step after choice",
			slog.String("want", wantStep),
			slog.String("got", outcome.UserProgress.CurrentStep))
	}

	progress, err := client.Progress(ctx, user.ID)
	if err != nil {
		return errors.Wrap(err, "get progress")
	}
	if progress.Decisions[decision.ID] != option.ID {
		return errors.New("choice not recorded in progress",
			slog.Int64("decision_id", decision.ID),
			slog.String("option_id", option.ID))
	}

	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 {
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = fmt.Sprintf("http://%s", hostname)
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	client := e2etest.NewClient(url)
	if err := TestInvestigation(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing investigation", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
