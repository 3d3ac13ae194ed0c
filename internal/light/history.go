package light

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/saaga0h/celestial-platform/pkg/redis"
)

// TTL for recorded command history (24 hours)
const historyTTL = 24 * time.Hour

// History records issued commands in Redis so other agents and operators
// can inspect what this agent decided. Failures degrade to warnings.
type History struct {
	redis  redis.Client
	group  string
	size   int
	logger *slog.Logger
}

// NewHistory creates a Redis-backed command history for a light group
func NewHistory(redisClient redis.Client, group string, size int, logger *slog.Logger) *History {
	return &History{
		redis:  redisClient,
		group:  group,
		size:   size,
		logger: logger,
	}
}

// historyEntry is the stored shape of one issued command
type historyEntry struct {
	State      LightState `json:"state"`
	Reason     string     `json:"reason"`
	RecordedAt int64      `json:"recorded_at"` // unix milliseconds
}

// RecordCommand appends one issued command to the history list and updates
// the last-command key
func (h *History) RecordCommand(ctx context.Context, state LightState, reason string) {
	entry := historyEntry{
		State:      state,
		Reason:     reason,
		RecordedAt: time.Now().UnixMilli(),
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		h.logger.Warn("Failed to marshal history entry", "group", h.group, "error", err)
		return
	}

	key := redis.LightingHistoryKey(h.group)
	if err := h.redis.LPush(ctx, key, jsonData); err != nil {
		h.logger.Warn("Failed to push command history", "group", h.group, "error", err)
		return
	}

	// Trim to the configured size
	if err := h.redis.LTrim(ctx, key, 0, int64(h.size-1)); err != nil {
		h.logger.Warn("Failed to trim command history", "group", h.group, "error", err)
	}

	if err := h.redis.Expire(ctx, key, historyTTL); err != nil {
		h.logger.Warn("Failed to set TTL on command history", "group", h.group, "error", err)
	}

	lastKey := redis.LightingLastKey(h.group)
	if err := h.redis.Set(ctx, lastKey, jsonData, historyTTL); err != nil {
		h.logger.Warn("Failed to store last command", "group", h.group, "error", err)
	}

	// Log buffer size
	count, err := h.redis.LLen(ctx, key)
	if err != nil {
		h.logger.Warn("Failed to get history size", "group", h.group, "error", err)
	} else {
		h.logger.Debug("Recorded command",
			"group", h.group,
			"reason", reason,
			"buffer_size", count)
	}
}
