package socket

import (
	"context"

	"github.com/warzonemc/mars-api/internal/models"
)

// lowPlaytimeMessage is sent to participants whose playtime fell under the
// participation threshold at match end.
const lowPlaytimeMessage = "Your stats were not affected by the outcome of this match as you did not participate for long enough."

// maxFullPresenceTimeAway is the longest a participant may spend outside a
// party while still counting as present for the full match.
const maxFullPresenceTimeAway = 20_000

// ParticipationThreshold is the minimum game playtime (ms) for a match to
// count toward wins/losses/matches: a tenth of the match, capped at a minute.
func ParticipationThreshold(matchLength int64) float64 {
	threshold := 0.10 * float64(matchLength)
	if threshold > 60_000 {
		return 60_000
	}
	return threshold
}

// PlayerStatListener is the persistent mirror of ParticipantStatListener,
// writing the same shapes into the durable player profile.
type PlayerStatListener struct {
	BaseListener[models.Player]
}

func (PlayerStatListener) OnKill(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, data *PlayerDeathData, firstBlood bool) {
	if !m.IsTrackingStats() {
		return
	}

	player.Stats.Kills++
	if firstBlood {
		player.Stats.FirstBloods++
	}
	if data.Cause == models.CauseVoid {
		player.Stats.VoidKills++
	}
	player.Stats.WeaponKills[data.SafeWeapon()]++
}

func (PlayerStatListener) OnDeath(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, data *PlayerDeathData, firstBlood bool) {
	if !m.IsTrackingStats() {
		return
	}

	player.Stats.Deaths++
	if data.Cause == models.CauseVoid {
		player.Stats.VoidDeaths++
	}
	if firstBlood {
		player.Stats.FirstBloodsSuffered++
	}
	if data.IsMurder() {
		player.Stats.WeaponDeaths[data.SafeWeapon()]++
	}
}

func (PlayerStatListener) OnChat(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, data *PlayerChatData) {
	if !m.IsTrackingStats() {
		return
	}
	switch data.Channel {
	case ChatGlobal:
		player.Stats.Messages.Global++
	case ChatTeam:
		player.Stats.Messages.Team++
	case ChatStaff:
		player.Stats.Messages.Staff++
	}
}

func (PlayerStatListener) OnKillstreak(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, amount int) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Killstreaks[amount]++
}

func (PlayerStatListener) OnKillstreakEnd(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, amount int) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.KillstreaksEnded[amount]++
}

func (PlayerStatListener) OnDestroyableDamage(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ *models.DestroyableGoal, blockCount int) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.DestroyableBlockDestroys += blockCount
}

func (PlayerStatListener) OnDestroyableDestroy(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ float64, _ int) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.DestroyableDestroys++
}

func (PlayerStatListener) OnCoreLeak(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ float64, blockCount int) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.CoreLeaks++
	player.Stats.Objectives.CoreBlockDestroys += blockCount
}

func (PlayerStatListener) OnControlPointCapture(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ int) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.ControlPointCaptures++
}

func (PlayerStatListener) OnFlagPlace(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, heldTime int64) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.FlagCaptures++
	player.Stats.Objectives.TotalFlagHoldTime += heldTime
}

func (PlayerStatListener) OnFlagPickup(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.FlagPickups++
}

func (PlayerStatListener) OnFlagDrop(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, heldTime int64) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.FlagDrops++
	player.Stats.Objectives.TotalFlagHoldTime += heldTime
}

func (PlayerStatListener) OnFlagDefend(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.FlagDefends++
}

func (PlayerStatListener) OnWoolPlace(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ int64) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.WoolCaptures++
}

func (PlayerStatListener) OnWoolPickup(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.WoolPickups++
}

func (PlayerStatListener) OnWoolDrop(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player, _ int64) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.WoolDrops++
}

func (PlayerStatListener) OnWoolDefend(_ context.Context, _ *ServerContext, m *models.Match, player *models.Player) {
	if !m.IsTrackingStats() {
		return
	}
	player.Stats.Objectives.WoolDefends++
}

func (PlayerStatListener) OnMatchEnd(_ context.Context, sc *ServerContext, m *models.Match, player *models.Player, end *MatchEndData) {
	if !m.IsTrackingStats() {
		return
	}

	participant, ok := m.Participants[player.ID]
	if !ok {
		return
	}
	result := participant.MatchResult(m, end.WinningParties)

	big := end.StatsFor(player.ID)
	for block, count := range big.Blocks.BlocksBroken {
		player.Stats.BlocksBroken[block] += count
	}
	for block, count := range big.Blocks.BlocksPlaced {
		player.Stats.BlocksPlaced[block] += count
	}
	player.Stats.BowShotsTaken += big.BowShotsTaken
	player.Stats.BowShotsHit += big.BowShotsHit
	player.Stats.DamageGiven += big.DamageGiven
	player.Stats.DamageTaken += big.DamageTaken
	player.Stats.DamageGivenBow += big.DamageGivenBow

	minPlaytime := ParticipationThreshold(m.Length(nowMillis()))
	isPlaying := participant.PartyName != nil

	if float64(participant.Stats.GamePlaytime) > minPlaytime {
		switch result {
		case models.ResultTie:
			player.Stats.Ties++
		case models.ResultWin:
			player.Stats.Wins++
		case models.ResultLose:
			player.Stats.Losses++
		}
		player.Stats.Matches++
	} else {
		sc.SendMessage(player, lowPlaytimeMessage, nil)
	}

	var timeBeforeJoining int64
	if m.StartedAt != nil && participant.FirstJoinedMatchAt > *m.StartedAt {
		timeBeforeJoining = participant.FirstJoinedMatchAt - *m.StartedAt
	}
	if float64(timeBeforeJoining) < minPlaytime {
		player.Stats.MatchesPresentStart++
	}

	if participant.Stats.TimeAway < maxFullPresenceTimeAway && isPlaying {
		player.Stats.MatchesPresentFull++
	}

	if isPlaying {
		player.Stats.MatchesPresentEnd++
	}

	player.Stats.GamePlaytime += participant.Stats.GamePlaytime
}
