package socket

import (
	"context"

	"github.com/warzonemc/mars-api/internal/models"
)

// ParticipantStatListener accumulates the match-local stat bundle embedded in
// the match document. It runs first so participant-derived scalars are
// visible to every later listener.
type ParticipantStatListener struct {
	BaseListener[models.Participant]
}

func (ParticipantStatListener) OnKill(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, data *PlayerDeathData, _ bool) {
	p.Stats.Kills++
	p.Stats.WeaponKills[data.SafeWeapon()]++

	duel := p.Stats.Duels[data.Victim.ID]
	duel.Kills++
	p.Stats.Duels[data.Victim.ID] = duel

	if data.Cause == models.CauseVoid {
		p.Stats.VoidKills++
	}
}

func (ParticipantStatListener) OnDeath(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, data *PlayerDeathData, _ bool) {
	p.Stats.Deaths++

	if data.Cause == models.CauseVoid {
		p.Stats.VoidDeaths++
	}

	if data.IsMurder() {
		p.Stats.WeaponDeaths[data.SafeWeapon()]++
		duel := p.Stats.Duels[data.Attacker.ID]
		duel.Deaths++
		p.Stats.Duels[data.Attacker.ID] = duel
	}
}

func (ParticipantStatListener) OnChat(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, data *PlayerChatData) {
	switch data.Channel {
	case ChatGlobal:
		p.Stats.Messages.Global++
	case ChatTeam:
		p.Stats.Messages.Team++
	case ChatStaff:
		p.Stats.Messages.Staff++
	}
}

func (ParticipantStatListener) OnKillstreak(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, amount int) {
	p.Stats.Killstreaks[amount]++
}

func (ParticipantStatListener) OnKillstreakEnd(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, amount int) {
	p.Stats.KillstreaksEnded[amount]++
}

func (ParticipantStatListener) OnPartyJoin(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, _ string) {
	if p.LastLeftPartyAt != nil {
		p.Stats.TimeAway += nowMillis() - *p.LastLeftPartyAt
	}
}

func (ParticipantStatListener) OnPartyLeave(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant) {
	if p.JoinedPartyAt != nil {
		p.Stats.GamePlaytime += nowMillis() - *p.JoinedPartyAt
	}
}

func (ParticipantStatListener) OnCoreLeak(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, _ float64, blockCount int) {
	p.Stats.Objectives.CoreLeaks++
	p.Stats.Objectives.CoreBlockDestroys += blockCount
}

func (ParticipantStatListener) OnControlPointCapture(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, _ int) {
	p.Stats.Objectives.ControlPointCaptures++
}

func (ParticipantStatListener) OnFlagPlace(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, heldTime int64) {
	p.Stats.Objectives.FlagCaptures++
	p.Stats.Objectives.TotalFlagHoldTime += heldTime
}

func (ParticipantStatListener) OnFlagPickup(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant) {
	p.Stats.Objectives.FlagPickups++
}

func (ParticipantStatListener) OnFlagDrop(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, heldTime int64) {
	p.Stats.Objectives.FlagDrops++
	p.Stats.Objectives.TotalFlagHoldTime += heldTime
}

func (ParticipantStatListener) OnFlagDefend(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant) {
	p.Stats.Objectives.FlagDefends++
}

func (ParticipantStatListener) OnWoolPlace(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, _ int64) {
	p.Stats.Objectives.WoolCaptures++
}

func (ParticipantStatListener) OnWoolPickup(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant) {
	p.Stats.Objectives.WoolPickups++
}

func (ParticipantStatListener) OnWoolDrop(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, _ int64) {
	p.Stats.Objectives.WoolDrops++
}

func (ParticipantStatListener) OnWoolDefend(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant) {
	p.Stats.Objectives.WoolDefends++
}

func (ParticipantStatListener) OnDestroyableDamage(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, _ *models.DestroyableGoal, blockCount int) {
	p.Stats.Objectives.DestroyableBlockDestroys += blockCount
}

func (ParticipantStatListener) OnDestroyableDestroy(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, _ float64, _ int) {
	p.Stats.Objectives.DestroyableDestroys++
}

func (ParticipantStatListener) OnMatchEnd(_ context.Context, _ *ServerContext, m *models.Match, p *models.Participant, end *MatchEndData) {
	big := end.StatsFor(p.ID)

	for block, count := range big.Blocks.BlocksBroken {
		p.Stats.BlocksBroken[block] = count
	}
	for block, count := range big.Blocks.BlocksPlaced {
		p.Stats.BlocksPlaced[block] = count
	}

	p.Stats.BowShotsTaken = big.BowShotsTaken
	p.Stats.BowShotsHit = big.BowShotsHit
	p.Stats.DamageGiven = big.DamageGiven
	p.Stats.DamageTaken = big.DamageTaken
	p.Stats.DamageGivenBow = big.DamageGivenBow

	if p.PartyName != nil && p.JoinedPartyAt != nil && m.EndedAt != nil {
		p.Stats.GamePlaytime += *m.EndedAt - *p.JoinedPartyAt
	}
}
