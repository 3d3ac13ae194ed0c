package redis

import "fmt"

// Key construction helpers for lighting state recording

// LightingHistoryKey returns the key for the issued-command history (list)
// Pattern: lighting:history:{group}
func LightingHistoryKey(group string) string {
	return fmt.Sprintf("lighting:history:%s", group)
}

// LightingLastKey returns the key holding the most recently issued command
// Pattern: lighting:last:{group}
func LightingLastKey(group string) string {
	return fmt.Sprintf("lighting:last:%s", group)
}
