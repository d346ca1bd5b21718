package leaderboard

import (
	"math"
	"testing"

	"github.com/warzonemc/mars-api/internal/models"
)

func TestScoreBasicMetrics(t *testing.T) {
	stats := models.NewPlayerStats()
	stats.Kills = 10
	stats.Deaths = 4
	stats.Wins = 3
	stats.XP = 12345
	stats.Messages = models.PlayerMessages{Staff: 1, Global: 2, Team: 3}
	stats.Objectives.FlagCaptures = 7

	tests := []struct {
		scoreType ScoreType
		want      int64
	}{
		{Kills, 10},
		{Deaths, 4},
		{Wins, 3},
		{XP, 12345},
		{MessagesSent, 6},
		{FlagCaptures, 7},
		{Losses, 0},
	}
	for _, tt := range tests {
		if got := Score(stats, tt.scoreType); got != tt.want {
			t.Errorf("Score(%s) = %d, want %d", tt.scoreType, got, tt.want)
		}
	}
}

func TestScorePlaytimeSaturation(t *testing.T) {
	stats := models.NewPlayerStats()
	stats.ServerPlaytime = math.MaxUint32 + 5_000
	stats.GamePlaytime = 42

	if got := Score(stats, ServerPlaytime); got != math.MaxUint32 {
		t.Errorf("ServerPlaytime score = %d, want saturation at %d", got, int64(math.MaxUint32))
	}
	if got := Score(stats, GamePlaytime); got != 42 {
		t.Errorf("GamePlaytime score = %d, want 42", got)
	}
}

func TestScoreHighestKillstreak(t *testing.T) {
	stats := models.NewPlayerStats()
	if got := Score(stats, HighestKillstreak); got != 0 {
		t.Errorf("HighestKillstreak score with no streaks = %d, want 0", got)
	}
	stats.Killstreaks[15] = 2
	stats.Killstreaks[5] = 9
	if got := Score(stats, HighestKillstreak); got != 2 {
		t.Errorf("HighestKillstreak score = %d, want count at max streak", got)
	}
}

func TestParseScoreType(t *testing.T) {
	if st, ok := ParseScoreType("KILLS"); !ok || st != Kills {
		t.Error("KILLS should parse")
	}
	if _, ok := ParseScoreType("kills"); ok {
		t.Error("lowercase metric should not parse")
	}
	if _, ok := ParseScoreType("BOGUS"); ok {
		t.Error("unknown metric should not parse")
	}
}

func TestSplitMember(t *testing.T) {
	id, name, ok := splitMember("u1/Alice")
	if !ok || id != "u1" || name != "Alice" {
		t.Errorf("splitMember = %q/%q/%v, want u1/Alice/true", id, name, ok)
	}
	if _, _, ok := splitMember("noslash"); ok {
		t.Error("member without separator should not parse")
	}
}
