package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"telegram-run-bot/internal/model"
)

func ts(sec int64) *time.Time {
	t := time.Unix(sec, 0).UTC()
	return &t
}

func TestFormatRuns(t *testing.T) {
	runs := model.SomeRows([]model.Run{
		{ID: 1, Distance: 1, RecordedAt: ts(61), UserID: 1},
		{ID: 2, Distance: 2, RecordedAt: ts(82), UserID: 2},
	})

	want := "#. RunID Distance RunTime\n" +
		"1. 1 1 1970-01-01 00:01:01 1\n" +
		"2. 2 2 1970-01-01 00:01:22 2\n"
	assert.Equal(t, want, formatRuns(runs))
}

func TestFormatRuns_LegacyNilTimestamp(t *testing.T) {
	runs := model.SomeRows([]model.Run{
		{ID: 7, Distance: 3.5, RecordedAt: nil, UserID: 4},
	})

	want := "#. RunID Distance RunTime\n" +
		"1. 7 3.5 NULL 4\n"
	assert.Equal(t, want, formatRuns(runs))
}

func TestFormatRuns_NoData(t *testing.T) {
	assert.Equal(t, "No runs in database.", formatRuns(model.NoRows[model.Run]()))
}

func TestFormatUsers(t *testing.T) {
	users := model.SomeRows([]model.User{
		{ID: 1, ChatID: "chat1", TelegramID: 1, Username: "meme"},
		{ID: 2, ChatID: "chat1", TelegramID: 2, Username: "youyou"},
	})

	want := "#. UserID UserName\n" +
		"1. 1 meme\n" +
		"2. 2 youyou\n"
	assert.Equal(t, want, formatUsers(users))
}

func TestFormatUsers_NoData(t *testing.T) {
	assert.Equal(t, "No users in database.", formatUsers(model.NoRows[model.User]()))
}

func TestFormatTally(t *testing.T) {
	scores := model.SomeRows([]model.Score{
		{Username: "reuben", Medals: 5, Distance: 20.0},
		{Username: "milton", Medals: 2, Distance: 10.0},
		{Username: "jerrell", Medals: 1, Distance: 1.0},
		{Username: "taigy", Medals: 1, Distance: 0.2},
		{Username: "riley", Medals: 2, Distance: 0.1},
	})

	want := "#. UserName Medals Distance (km)\n" +
		"🥇 1. reuben 5🏅 20km\n" +
		"🥈 2. milton 2🏅 10km\n" +
		"🥉 3. jerrell 1🏅 1km\n" +
		"🏃 4. taigy 1🏅 0.2km\n" +
		"🤡 5. riley 2🏅 0.1km\n"
	assert.Equal(t, want, formatTally(scores))
}

func TestFormatTally_SmallFieldHasNoClown(t *testing.T) {
	scores := model.SomeRows([]model.Score{
		{Username: "a", Medals: 1, Distance: 4},
		{Username: "b", Medals: 1, Distance: 3},
		{Username: "c", Medals: 1, Distance: 2},
		{Username: "d", Medals: 1, Distance: 1},
	})

	want := "#. UserName Medals Distance (km)\n" +
		"🥇 1. a 1🏅 4km\n" +
		"🥈 2. b 1🏅 3km\n" +
		"🥉 3. c 1🏅 2km\n" +
		"🏃 4. d 1🏅 1km\n"
	assert.Equal(t, want, formatTally(scores))
}

func TestFormatTally_NoData(t *testing.T) {
	assert.Equal(t, "Cannot generate tally.", formatTally(model.NoRows[model.Score]()))
}
