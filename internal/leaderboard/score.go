package leaderboard

import (
	"math"

	"github.com/warzonemc/mars-api/internal/models"
)

// ScoreType is the axis a leaderboard sorts by.
type ScoreType string

const (
	Kills                    ScoreType = "KILLS"
	Deaths                   ScoreType = "DEATHS"
	FirstBloods              ScoreType = "FIRST_BLOODS"
	Wins                     ScoreType = "WINS"
	Losses                   ScoreType = "LOSSES"
	Ties                     ScoreType = "TIES"
	XP                       ScoreType = "XP"
	MessagesSent             ScoreType = "MESSAGES_SENT"
	MatchesPlayed            ScoreType = "MATCHES_PLAYED"
	ServerPlaytime           ScoreType = "SERVER_PLAYTIME"
	GamePlaytime             ScoreType = "GAME_PLAYTIME"
	CoreLeaks                ScoreType = "CORE_LEAKS"
	CoreBlockDestroys        ScoreType = "CORE_BLOCK_DESTROYS"
	DestroyableDestroys      ScoreType = "DESTROYABLE_DESTROYS"
	DestroyableBlockDestroys ScoreType = "DESTROYABLE_BLOCK_DESTROYS"
	FlagCaptures             ScoreType = "FLAG_CAPTURES"
	FlagDrops                ScoreType = "FLAG_DROPS"
	FlagPickups              ScoreType = "FLAG_PICKUPS"
	FlagDefends              ScoreType = "FLAG_DEFENDS"
	FlagHoldTime             ScoreType = "FLAG_HOLD_TIME"
	WoolCaptures             ScoreType = "WOOL_CAPTURES"
	WoolDrops                ScoreType = "WOOL_DROPS"
	WoolPickups              ScoreType = "WOOL_PICKUPS"
	WoolDefends              ScoreType = "WOOL_DEFENDS"
	ControlPointCaptures     ScoreType = "CONTROL_POINT_CAPTURES"
	HighestKillstreak        ScoreType = "HIGHEST_KILLSTREAK"
)

// ParseScoreType validates a raw metric name from the public API.
func ParseScoreType(raw string) (ScoreType, bool) {
	st := ScoreType(raw)
	switch st {
	case Kills, Deaths, FirstBloods, Wins, Losses, Ties, XP, MessagesSent,
		MatchesPlayed, ServerPlaytime, GamePlaytime, CoreLeaks,
		CoreBlockDestroys, DestroyableDestroys, DestroyableBlockDestroys,
		FlagCaptures, FlagDrops, FlagPickups, FlagDefends, FlagHoldTime,
		WoolCaptures, WoolDrops, WoolPickups, WoolDefends,
		ControlPointCaptures, HighestKillstreak:
		return st, true
	}
	return "", false
}

// clamp32 narrows millisecond totals held as 64-bit values to the 32-bit
// score range the sorted sets have always stored. Totals above
// math.MaxUint32 (about 49.7 days of milliseconds) saturate at that value;
// negative totals read as 0.
func clamp32(v int64) int64 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	if v < 0 {
		return 0
	}
	return v
}

// Score derives a player's sorted-set score for the given metric from their
// cumulative stats.
func Score(stats *models.PlayerStats, scoreType ScoreType) int64 {
	switch scoreType {
	case Kills:
		return int64(stats.Kills)
	case Deaths:
		return int64(stats.Deaths)
	case FirstBloods:
		return int64(stats.FirstBloods)
	case Wins:
		return int64(stats.Wins)
	case Losses:
		return int64(stats.Losses)
	case Ties:
		return int64(stats.Ties)
	case XP:
		return int64(stats.XP)
	case MessagesSent:
		return int64(stats.Messages.Total())
	case MatchesPlayed:
		return int64(stats.Matches)
	case ServerPlaytime:
		return clamp32(stats.ServerPlaytime)
	case GamePlaytime:
		return clamp32(stats.GamePlaytime)
	case CoreLeaks:
		return int64(stats.Objectives.CoreLeaks)
	case CoreBlockDestroys:
		return int64(stats.Objectives.CoreBlockDestroys)
	case DestroyableDestroys:
		return int64(stats.Objectives.DestroyableDestroys)
	case DestroyableBlockDestroys:
		return int64(stats.Objectives.DestroyableBlockDestroys)
	case FlagCaptures:
		return int64(stats.Objectives.FlagCaptures)
	case FlagDrops:
		return int64(stats.Objectives.FlagDrops)
	case FlagPickups:
		return int64(stats.Objectives.FlagPickups)
	case FlagDefends:
		return int64(stats.Objectives.FlagDefends)
	case FlagHoldTime:
		return clamp32(stats.Objectives.TotalFlagHoldTime)
	case WoolCaptures:
		return int64(stats.Objectives.WoolCaptures)
	case WoolDrops:
		return int64(stats.Objectives.WoolDrops)
	case WoolPickups:
		return int64(stats.Objectives.WoolPickups)
	case WoolDefends:
		return int64(stats.Objectives.WoolDefends)
	case ControlPointCaptures:
		return int64(stats.Objectives.ControlPointCaptures)
	case HighestKillstreak:
		return int64(stats.HighestKillstreak())
	}
	return 0
}
