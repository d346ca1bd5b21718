package socket

import (
	"context"

	"github.com/warzonemc/mars-api/internal/models"
)

// minParticipantsForProjectileRecord keeps empty-server target practice out
// of the projectile record books.
const minParticipantsForProjectileRecord = 6

// MapRecordListener maintains the map-wide records on the level snapshot
// embedded in the match. It must run before LeaderboardListener so a record
// beaten by this event is already reflected.
type MapRecordListener struct {
	BaseListener[models.Participant]
}

func (MapRecordListener) OnKill(_ context.Context, _ *ServerContext, m *models.Match, p *models.Participant, data *PlayerDeathData, firstBlood bool) {
	if firstBlood && m.StartedAt != nil {
		elapsed := nowMillis() - *m.StartedAt
		record := m.Level.Records.FastestFirstBlood
		if record == nil || elapsed < record.Time {
			m.Level.Records.FastestFirstBlood = &models.FirstBloodRecord{
				MatchID:  m.ID,
				Attacker: p.Simple(),
				Victim:   data.Victim,
				Time:     elapsed,
			}
		}
	}

	if data.Distance != nil && len(m.Participants) >= minParticipantsForProjectileRecord && data.Cause != models.CauseFall {
		record := m.Level.Records.LongestProjectileKill
		if record == nil || *data.Distance > record.Distance {
			m.Level.Records.LongestProjectileKill = &models.ProjectileRecord{
				MatchID:  m.ID,
				Player:   p.Simple(),
				Distance: *data.Distance,
			}
		}
	}
}

func (MapRecordListener) OnKillstreak(_ context.Context, _ *ServerContext, m *models.Match, p *models.Participant, amount int) {
	current := 0
	if record := m.Level.Records.HighestKillstreak; record != nil {
		current = record.Value
	}
	if amount > current {
		m.Level.Records.HighestKillstreak = &models.CountRecord{
			MatchID: m.ID,
			Player:  p.Simple(),
			Value:   amount,
		}
	}
}

func (MapRecordListener) OnWoolPlace(_ context.Context, _ *ServerContext, m *models.Match, p *models.Participant, heldTime int64) {
	record := m.Level.Records.FastestWoolCapture
	if record == nil || heldTime < record.Value {
		m.Level.Records.FastestWoolCapture = &models.DurationRecord{
			MatchID: m.ID,
			Player:  p.Simple(),
			Value:   heldTime,
		}
	}
}

func (MapRecordListener) OnFlagPlace(_ context.Context, _ *ServerContext, m *models.Match, p *models.Participant, heldTime int64) {
	record := m.Level.Records.FastestFlagCapture
	if record == nil || heldTime < record.Value {
		m.Level.Records.FastestFlagCapture = &models.DurationRecord{
			MatchID: m.ID,
			Player:  p.Simple(),
			Value:   heldTime,
		}
	}
}

func (MapRecordListener) OnMatchEnd(_ context.Context, _ *ServerContext, m *models.Match, p *models.Participant, _ *MatchEndData) {
	recordKills := 0
	if record := m.Level.Records.KillsInMatch; record != nil {
		recordKills = record.Value
	}
	if p.Stats.Kills > recordKills {
		m.Level.Records.KillsInMatch = &models.CountRecord{
			MatchID: m.ID,
			Player:  p.Simple(),
			Value:   p.Stats.Kills,
		}
	}

	recordDeaths := 0
	if record := m.Level.Records.DeathsInMatch; record != nil {
		recordDeaths = record.Value
	}
	if p.Stats.Deaths > recordDeaths {
		m.Level.Records.DeathsInMatch = &models.CountRecord{
			MatchID: m.ID,
			Player:  p.Simple(),
			Value:   p.Stats.Deaths,
		}
	}
}
