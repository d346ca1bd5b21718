package socket

import (
	"context"

	"github.com/warzonemc/mars-api/internal/models"
)

// PlayerRecordListener is the per-player mirror of MapRecordListener,
// writing personal bests into the durable profile.
type PlayerRecordListener struct {
	BaseListener[models.Player]
}

func (PlayerRecordListener) OnKill(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, data *PlayerDeathData, firstBlood bool) {
	if !m.IsTrackingStats() {
		return
	}

	if firstBlood && m.StartedAt != nil {
		elapsed := nowMillis() - *m.StartedAt
		record := player.Stats.Records.FastestFirstBlood
		if record == nil || elapsed < record.Time {
			player.Stats.Records.FastestFirstBlood = &models.FirstBloodRecord{
				MatchID:  m.ID,
				Attacker: player.Simple(),
				Victim:   data.Victim,
				Time:     elapsed,
			}
		}
	}

	if data.Distance != nil && len(m.Participants) >= minParticipantsForProjectileRecord && data.Cause != models.CauseFall {
		record := player.Stats.Records.LongestProjectileKill
		if record == nil || *data.Distance > record.Distance {
			player.Stats.Records.LongestProjectileKill = &models.ProjectileRecord{
				MatchID:  m.ID,
				Player:   player.Simple(),
				Distance: *data.Distance,
			}
		}
	}
}

func (PlayerRecordListener) OnWoolPlace(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, heldTime int64) {
	if !m.IsTrackingStats() {
		return
	}
	record := player.Stats.Records.FastestWoolCapture
	if record == nil || heldTime < record.Value {
		player.Stats.Records.FastestWoolCapture = &models.DurationRecord{
			MatchID: m.ID,
			Player:  player.Simple(),
			Value:   heldTime,
		}
	}
}

func (PlayerRecordListener) OnFlagPlace(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, heldTime int64) {
	if !m.IsTrackingStats() {
		return
	}
	record := player.Stats.Records.FastestFlagCapture
	if record == nil || heldTime < record.Value {
		player.Stats.Records.FastestFlagCapture = &models.DurationRecord{
			MatchID: m.ID,
			Player:  player.Simple(),
			Value:   heldTime,
		}
	}
}

func (PlayerRecordListener) OnMatchEnd(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ *MatchEndData) {
	if !m.IsTrackingStats() {
		return
	}
	participant, ok := m.Participants[player.ID]
	if !ok {
		return
	}

	recordKills := 0
	if record := player.Stats.Records.KillsInMatch; record != nil {
		recordKills = record.Value
	}
	if participant.Stats.Kills > recordKills {
		player.Stats.Records.KillsInMatch = &models.CountRecord{
			MatchID: m.ID,
			Player:  player.Simple(),
			Value:   participant.Stats.Kills,
		}
	}

	recordDeaths := 0
	if record := player.Stats.Records.DeathsInMatch; record != nil {
		recordDeaths = record.Value
	}
	if participant.Stats.Deaths > recordDeaths {
		player.Stats.Records.DeathsInMatch = &models.CountRecord{
			MatchID: m.ID,
			Player:  player.Simple(),
			Value:   participant.Stats.Deaths,
		}
	}
}
