package handler

import (
	"fmt"
	"strings"

	"telegram-run-bot/internal/model"
)

// Reply texts for reads that matched nothing. The wording is part of
// the bot's chat surface and is pinned by tests.
const (
	msgNoRuns  = "No runs in database."
	msgNoUsers = "No users in database."
	msgNoTally = "Cannot generate tally."
)

// formatRuns renders a run listing as a plain text table.
func formatRuns(runs model.Rows[model.Run]) string {
	if !runs.HasData() {
		return msgNoRuns
	}

	var b strings.Builder
	b.WriteString("#. RunID Distance RunTime\n")
	for i, run := range runs.Items() {
		recorded := "NULL"
		if run.RecordedAt != nil {
			recorded = run.RecordedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(&b, "%d. %d %v %s %d\n", i+1, run.ID, run.Distance, recorded, run.UserID)
	}
	return b.String()
}

// formatUsers renders the chat roster.
func formatUsers(users model.Rows[model.User]) string {
	if !users.HasData() {
		return msgNoUsers
	}

	var b strings.Builder
	b.WriteString("#. UserID UserName\n")
	for i, user := range users.Items() {
		fmt.Fprintf(&b, "%d. %d %s\n", i+1, user.ID, user.Username)
	}
	return b.String()
}

// formatTally renders the medal standings. Scores arrive ordered by
// total distance descending; position one is first place.
func formatTally(scores model.Rows[model.Score]) string {
	if !scores.HasData() {
		return msgNoTally
	}

	items := scores.Items()
	var b strings.Builder
	b.WriteString("#. UserName Medals Distance (km)\n")
	for i, score := range items {
		fmt.Fprintf(&b, "%s %d. %s %d🏅 %vkm\n",
			rankGlyph(i+1, len(items)), i+1, score.Username, score.Medals, score.Distance)
	}
	return b.String()
}

// rankGlyph picks the medal glyph for a 1-based position. The podium
// gets medals, the tail end of a field larger than four gets the
// clown, everyone else is just out running.
func rankGlyph(position, total int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	if position == total && total > 4 {
		return "🤡"
	}
	return "🏃"
}
