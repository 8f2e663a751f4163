package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/models"
	"github.com/tkoskim/breachpoint/internal/sqlite"
)

// ProgressRepository is the single source of truth for per-player investigation state.
//
// Writes go through the single read/write connection with immediate transactions, so every
// read-modify-write on a progress record is serialized. The UNIQUE constraint on user_id backs
// the one-record-per-user invariant even if two creates race.
type ProgressRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewProgressRepository(dbs *sqlite.Database, logger *slog.Logger) *ProgressRepository {
	return &ProgressRepository{
		dbs:    dbs,
		logger: logger.With("source", "ProgressRepository"),
	}
}

// ProgressPatch carries the fields of a partial progress update. Nil fields are left as-is;
// present fields replace the stored value wholesale, including the nested collections.
type ProgressPatch struct {
	CurrentStep      *string           `json:"currentStep"`
	UnlockedEvidence *[]int64          `json:"unlockedEvidence"`
	Decisions        *map[int64]string `json:"decisions"`
	TimeRemaining    *int64            `json:"timeRemaining"`
}

type progressRow struct {
	ID               int64     `db:"id"`
	UserID           int64     `db:"user_id"`
	CurrentStep      string    `db:"current_step"`
	UnlockedEvidence []byte    `db:"unlocked_evidence"`
	Decisions        []byte    `db:"decisions"`
	TimeRemaining    int64     `db:"time_remaining"`
	LastUpdated      time.Time `db:"last_updated"`
}

func (row progressRow) toModel() (models.UserProgress, error) {
	progress := models.UserProgress{
		ID:               row.ID,
		UserID:           row.UserID,
		CurrentStep:      row.CurrentStep,
		UnlockedEvidence: nil,
		Decisions:        nil,
		TimeRemaining:    row.TimeRemaining,
		LastUpdated:      row.LastUpdated,
	}
	if err := json.Unmarshal(row.UnlockedEvidence, &progress.UnlockedEvidence); err != nil {
		return progress, errors.Wrap(err, "decode unlocked evidence", slog.Int64("user_id", row.UserID))
	}
	if err := json.Unmarshal(row.Decisions, &progress.Decisions); err != nil {
		return progress, errors.Wrap(err, "decode decisions", slog.Int64("user_id", row.UserID))
	}
	if progress.UnlockedEvidence == nil {
		progress.UnlockedEvidence = []int64{}
	}
	if progress.Decisions == nil {
		progress.Decisions = map[int64]string{}
	}
	return progress, nil
}

const selectProgress = `SELECT id, user_id, current_step, unlocked_evidence, decisions, time_remaining, last_updated
FROM user_progress WHERE user_id = ?`

// GetByUser returns nil without error when the user has no progress record.
func (r *ProgressRepository) GetByUser(ctx context.Context, userID int64) (*models.UserProgress, error) {
	var row progressRow
	if err := r.dbs.ReadOnly.GetContext(ctx, &row, selectProgress, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "query user progress", slog.Int64("user_id", userID))
	}
	progress, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Upsert atomically creates or modifies the progress record for userID.
//
// A missing record starts from the fresh-investigation defaults before mutate is applied, so
// first-decision bootstrapping and later merges share one code path. lastUpdated refreshes on
// every call. The whole read-mutate-write runs in one immediate transaction.
func (r *ProgressRepository) Upsert(
	ctx context.Context,
	userID int64,
	mutate func(*models.UserProgress),
) (*models.UserProgress, error) {
	var progress models.UserProgress

	err := r.inWriteTx(ctx, func(tx *sqlx.Tx) error {
		var (
			row progressRow
			err error
		)
		if err = tx.GetContext(ctx, &row, selectProgress, userID); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return errors.Wrap(err, "query user progress", slog.Int64("user_id", userID))
			}
			progress = models.NewUserProgress(userID)
		} else if progress, err = row.toModel(); err != nil {
			return err
		}

		mutate(&progress)
		progress.LastUpdated = time.Now().UTC()

		return r.save(ctx, tx, &progress)
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Update applies a partial update to an existing record. Returns nil without error when the
// user has no progress record; Update never creates one.
func (r *ProgressRepository) Update(
	ctx context.Context,
	userID int64,
	patch ProgressPatch,
) (*models.UserProgress, error) {
	var (
		progress models.UserProgress
		found    bool
	)

	err := r.inWriteTx(ctx, func(tx *sqlx.Tx) error {
		var (
			row progressRow
			err error
		)
		if err = tx.GetContext(ctx, &row, selectProgress, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return errors.Wrap(err, "query user progress", slog.Int64("user_id", userID))
		}
		if progress, err = row.toModel(); err != nil {
			return err
		}
		found = true

		if patch.CurrentStep != nil {
			progress.CurrentStep = *patch.CurrentStep
		}
		if patch.UnlockedEvidence != nil {
			progress.UnlockedEvidence = *patch.UnlockedEvidence
		}
		if patch.Decisions != nil {
			progress.Decisions = *patch.Decisions
		}
		if patch.TimeRemaining != nil {
			progress.TimeRemaining = *patch.TimeRemaining
		}
		progress.LastUpdated = time.Now().UTC()

		return r.save(ctx, tx, &progress)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &progress, nil
}

// save writes the record and backfills the internal id from the row.
func (r *ProgressRepository) save(ctx context.Context, tx *sqlx.Tx, progress *models.UserProgress) error {
	unlockedEvidence, err := json.Marshal(progress.UnlockedEvidence)
	if err != nil {
		return errors.Wrap(err, "encode unlocked evidence")
	}
	decisions, err := json.Marshal(progress.Decisions)
	if err != nil {
		return errors.Wrap(err, "encode decisions")
	}

	stmt := `INSERT INTO user_progress (user_id, current_step, unlocked_evidence, decisions, time_remaining, last_updated)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    current_step = excluded.current_step,
    unlocked_evidence = excluded.unlocked_evidence,
    decisions = excluded.decisions,
    time_remaining = excluded.time_remaining,
    last_updated = excluded.last_updated`
	if _, err = tx.ExecContext(ctx, stmt,
		progress.UserID,
		progress.CurrentStep,
		unlockedEvidence,
		decisions,
		progress.TimeRemaining,
		progress.LastUpdated,
	); err != nil {
		return errors.Wrap(err, "save user progress", slog.Int64("user_id", progress.UserID))
	}

	if err = tx.GetContext(ctx, &progress.ID,
		`SELECT id FROM user_progress WHERE user_id = ?`, progress.UserID); err != nil {
		return errors.Wrap(err, "read back progress id", slog.Int64("user_id", progress.UserID))
	}
	return nil
}

func (r *ProgressRepository) inWriteTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.dbs.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			r.logger.ErrorContext(ctx, "failed to rollback transaction", errors.SlogError(rerr))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}
