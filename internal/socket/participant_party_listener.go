package socket

import (
	"context"

	"github.com/warzonemc/mars-api/internal/models"
)

// ParticipantPartyListener keeps the party bookkeeping fields current.
type ParticipantPartyListener struct {
	BaseListener[models.Participant]
}

func (ParticipantPartyListener) OnPartyJoin(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant, partyName string) {
	joined := nowMillis()
	p.PartyName = &partyName
	p.LastPartyName = &partyName
	p.JoinedPartyAt = &joined
}

func (ParticipantPartyListener) OnPartyLeave(_ context.Context, _ *ServerContext, _ *models.Match, p *models.Participant) {
	left := nowMillis()
	p.PartyName = nil
	p.LastLeftPartyAt = &left
	p.JoinedPartyAt = nil
}
