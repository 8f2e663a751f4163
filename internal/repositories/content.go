package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/models"
	"github.com/tkoskim/breachpoint/internal/sqlite"
)

// ContentRepository reads the case catalog: suspects, evidence items, and decision points.
// The catalog is seeded from fixtures at startup and treated as read-only, except for the
// evidence update used by the surrounding CRUD layer.
type ContentRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewContentRepository(dbs *sqlite.Database, logger *slog.Logger) *ContentRepository {
	return &ContentRepository{
		dbs:    dbs,
		logger: logger.With("source", "ContentRepository"),
	}
}

type suspectRow struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	Type          string `db:"type"`
	Region        string `db:"region"`
	Motive        string `db:"motive"`
	Description   string `db:"description"`
	Tactics       []byte `db:"tactics"`
	EvidenceLinks []byte `db:"evidence_links"`
}

func (row suspectRow) toModel() (models.Suspect, error) {
	suspect := models.Suspect{
		ID:            row.ID,
		Name:          row.Name,
		Type:          row.Type,
		Region:        row.Region,
		Motive:        row.Motive,
		Description:   row.Description,
		Tactics:       nil,
		EvidenceLinks: nil,
	}
	if err := json.Unmarshal(row.Tactics, &suspect.Tactics); err != nil {
		return suspect, errors.Wrap(err, "decode tactics", slog.Int64("suspect_id", row.ID))
	}
	if err := json.Unmarshal(row.EvidenceLinks, &suspect.EvidenceLinks); err != nil {
		return suspect, errors.Wrap(err, "decode evidence links", slog.Int64("suspect_id", row.ID))
	}
	return suspect, nil
}

func (r *ContentRepository) ListSuspects(ctx context.Context) ([]models.Suspect, error) {
	var rows []suspectRow
	stmt := `SELECT id, name, type, region, motive, description, tactics, evidence_links
FROM suspects ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "query suspects")
	}
	suspects := make([]models.Suspect, len(rows))
	for i, row := range rows {
		var err error
		if suspects[i], err = row.toModel(); err != nil {
			return nil, err
		}
	}
	return suspects, nil
}

// GetSuspect returns nil without error when the suspect does not exist.
func (r *ContentRepository) GetSuspect(ctx context.Context, id int64) (*models.Suspect, error) {
	var row suspectRow
	stmt := `SELECT id, name, type, region, motive, description, tactics, evidence_links
FROM suspects WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "query suspect", slog.Int64("suspect_id", id))
	}
	suspect, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &suspect, nil
}

type evidenceRow struct {
	ID            int64          `db:"id"`
	Title         string         `db:"title"`
	Type          string         `db:"type"`
	Description   string         `db:"description"`
	ImageURL      sql.NullString `db:"image_url"`
	DetailContent []byte         `db:"detail_content"`
	IsUnlocked    bool           `db:"is_unlocked"`
}

func (row evidenceRow) toModel() (models.EvidenceItem, error) {
	item := models.EvidenceItem{
		ID:          row.ID,
		Title:       row.Title,
		Type:        row.Type,
		Description: row.Description,
		ImageURL:    row.ImageURL.String,
		Detail:      models.EvidenceDetail{},
		IsUnlocked:  row.IsUnlocked,
	}
	if err := json.Unmarshal(row.DetailContent, &item.Detail); err != nil {
		return item, errors.Wrap(err, "decode detail content", slog.Int64("evidence_id", row.ID))
	}
	return item, nil
}

func (r *ContentRepository) ListEvidence(ctx context.Context) ([]models.EvidenceItem, error) {
	var rows []evidenceRow
	stmt := `SELECT id, title, type, description, image_url, detail_content, is_unlocked
FROM evidence_items ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "query evidence items")
	}
	items := make([]models.EvidenceItem, len(rows))
	for i, row := range rows {
		var err error
		if items[i], err = row.toModel(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// GetEvidence returns nil without error when the evidence item does not exist.
func (r *ContentRepository) GetEvidence(ctx context.Context, id int64) (*models.EvidenceItem, error) {
	var row evidenceRow
	stmt := `SELECT id, title, type, description, image_url, detail_content, is_unlocked
FROM evidence_items WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "query evidence item", slog.Int64("evidence_id", id))
	}
	item, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// StarterEvidenceIDs returns the ids of evidence items that are available from the start of an
// investigation. Registration seeds new player progress with them.
func (r *ContentRepository) StarterEvidenceIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	stmt := `SELECT id FROM evidence_items WHERE is_unlocked = 1 ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &ids, stmt); err != nil {
		return nil, errors.Wrap(err, "query starter evidence")
	}
	return ids, nil
}

// EvidencePatch carries the fields an evidence update may change. Nil fields are left as-is.
type EvidencePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	IsUnlocked  *bool   `json:"isUnlocked"`
}

// UpdateEvidence applies a partial update to an evidence item. Returns nil without error when
// the item does not exist. The core state machine never calls this; it exists for the content
// management surface.
func (r *ContentRepository) UpdateEvidence(ctx context.Context, id int64, patch EvidencePatch) (*models.EvidenceItem, error) {
	stmt := `UPDATE evidence_items SET
    title = COALESCE(?, title),
    description = COALESCE(?, description),
    image_url = COALESCE(?, image_url),
    is_unlocked = COALESCE(?, is_unlocked)
WHERE id = ?`
	result, err := r.dbs.ReadWrite.ExecContext(ctx, stmt,
		patch.Title, patch.Description, patch.ImageURL, patch.IsUnlocked, id)
	if err != nil {
		return nil, errors.Wrap(err, "update evidence item", slog.Int64("evidence_id", id))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return nil, nil
	}
	return r.GetEvidence(ctx, id)
}

type decisionRow struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Options     []byte `db:"options"`
	NextStates  []byte `db:"next_states"`
}

func (row decisionRow) toModel() (models.Decision, error) {
	decision := models.Decision{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Options:     nil,
		NextStates:  nil,
	}
	if err := json.Unmarshal(row.Options, &decision.Options); err != nil {
		return decision, errors.Wrap(err, "decode options", slog.Int64("decision_id", row.ID))
	}
	if err := json.Unmarshal(row.NextStates, &decision.NextStates); err != nil {
		return decision, errors.Wrap(err, "decode next states", slog.Int64("decision_id", row.ID))
	}
	return decision, nil
}

func (r *ContentRepository) ListDecisions(ctx context.Context) ([]models.Decision, error) {
	var rows []decisionRow
	stmt := `SELECT id, title, description, options, next_states FROM decisions ORDER BY id`
	if err := r.dbs.ReadOnly.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "query decisions")
	}
	decisions := make([]models.Decision, len(rows))
	for i, row := range rows {
		var err error
		if decisions[i], err = row.toModel(); err != nil {
			return nil, err
		}
	}
	return decisions, nil
}

// GetDecision returns nil without error when the decision does not exist.
func (r *ContentRepository) GetDecision(ctx context.Context, id int64) (*models.Decision, error) {
	var row decisionRow
	stmt := `SELECT id, title, description, options, next_states FROM decisions WHERE id = ?`
	if err := r.dbs.ReadOnly.GetContext(ctx, &row, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "query decision", slog.Int64("decision_id", id))
	}
	decision, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &decision, nil
}
