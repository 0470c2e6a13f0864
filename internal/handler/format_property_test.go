// Package handler provides Telegram bot command handlers.
// Property-based tests for the text rendering helpers.
package handler

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"telegram-run-bot/internal/model"
)

// TestFormatTallyGlyphProperty tests medal glyph assignment.
// For any non-empty ordered score list:
// - Positions 1-3 get gold, silver, bronze
// - The last position gets the clown only when more than four compete
// - Every other position gets the runner
func TestFormatTallyGlyphProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numScores := rapid.IntRange(1, 30).Draw(t, "numScores")
		scores := make([]model.Score, numScores)
		for i := range scores {
			scores[i] = model.Score{
				Username: rapid.StringMatching(`[a-z]{3,10}`).Draw(t, "username"),
				Medals:   int64(rapid.IntRange(1, 100).Draw(t, "medals")),
				Distance: float64(rapid.IntRange(0, 1000).Draw(t, "distance")),
			}
		}

		out := formatTally(model.SomeRows(scores))
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

		// Header plus one line per score
		if len(lines) != numScores+1 {
			t.Fatalf("Expected %d lines, got %d", numScores+1, len(lines))
		}

		for i, line := range lines[1:] {
			position := i + 1
			var expected string
			switch {
			case position == 1:
				expected = "🥇"
			case position == 2:
				expected = "🥈"
			case position == 3:
				expected = "🥉"
			case position == numScores && numScores > 4:
				expected = "🤡"
			default:
				expected = "🏃"
			}
			if !strings.HasPrefix(line, expected+" ") {
				t.Fatalf("Position %d of %d: expected glyph %s, got line %q", position, numScores, expected, line)
			}
		}
	})
}

// TestFormatRunsLineCountProperty tests that the run table always has
// a header plus exactly one line per run, and that legacy rows without
// a timestamp render as NULL.
func TestFormatRunsLineCountProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numRuns := rapid.IntRange(1, 50).Draw(t, "numRuns")
		runs := make([]model.Run, numRuns)
		for i := range runs {
			runs[i] = model.Run{
				ID:       int64(i + 1),
				Distance: float64(rapid.IntRange(0, 100).Draw(t, "distance")),
				UserID:   rapid.Int64Range(1, 1000).Draw(t, "userID"),
			}
		}

		out := formatRuns(model.SomeRows(runs))
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

		if len(lines) != numRuns+1 {
			t.Fatalf("Expected %d lines, got %d", numRuns+1, len(lines))
		}
		for _, line := range lines[1:] {
			if !strings.Contains(line, "NULL") {
				t.Fatalf("Run without timestamp should render NULL, got %q", line)
			}
		}
	})
}
