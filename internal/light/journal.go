package light

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/saaga0h/celestial-platform/pkg/postgres"
)

// Journal appends override transitions and issued commands to Postgres for
// long-term analysis. Optional: the agent runs without it when no Postgres
// host is configured. Write failures degrade to warnings.
type Journal struct {
	pg     postgres.Client
	group  string
	logger *slog.Logger
}

// NewJournal creates a Postgres-backed journal for a light group
func NewJournal(pgClient postgres.Client, group string, logger *slog.Logger) *Journal {
	return &Journal{
		pg:     pgClient,
		group:  group,
		logger: logger,
	}
}

// Bootstrap creates the journal table if it does not exist
func (j *Journal) Bootstrap(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS lighting_journal (
	id          BIGSERIAL PRIMARY KEY,
	light_group TEXT NOT NULL,
	entry_type  TEXT NOT NULL,
	detail      JSONB NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS lighting_journal_group_time_idx
	ON lighting_journal (light_group, recorded_at);`

	if _, err := j.pg.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to bootstrap lighting journal schema: %w", err)
	}

	j.logger.Info("Lighting journal ready", "group", j.group)
	return nil
}

// RecordCommand appends an issued command entry
func (j *Journal) RecordCommand(ctx context.Context, state LightState, reason string) {
	detail := map[string]interface{}{
		"state":  state,
		"reason": reason,
	}
	j.append(ctx, "command", detail)
}

// RecordTransition appends an override transition entry
func (j *Journal) RecordTransition(ctx context.Context, entered OverrideMode, state OverrideState) {
	detail := map[string]interface{}{
		"entered":           string(entered),
		"active":            state.Active,
		"manual_brightness": state.ManualBrightness,
		"transition_at":     state.LastTransition.UTC().Format(time.RFC3339),
	}
	j.append(ctx, "transition", detail)
}

func (j *Journal) append(ctx context.Context, entryType string, detail map[string]interface{}) {
	jsonData, err := json.Marshal(detail)
	if err != nil {
		j.logger.Warn("Failed to marshal journal entry", "type", entryType, "error", err)
		return
	}

	_, err = j.pg.Exec(ctx,
		`INSERT INTO lighting_journal (light_group, entry_type, detail) VALUES ($1, $2, $3)`,
		j.group, entryType, jsonData)
	if err != nil {
		j.logger.Warn("Failed to append journal entry",
			"group", j.group,
			"type", entryType,
			"error", err)
	}
}
