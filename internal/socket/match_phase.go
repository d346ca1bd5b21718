package socket

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/models"
)

// matchEndExpiry is how long an ended match stays readable in the cache.
const matchEndExpiry = time.Hour

// matchPhaseListener owns the Pre -> InProgress -> Post transitions. It is
// not part of the stat chain; the router invokes it directly.
type matchPhaseListener struct {
	server *ServerContext
}

// onLoad mints a fresh match around a snapshot of the level, including the
// goals shipped in the load payload, and points the server at it.
func (l matchPhaseListener) onLoad(ctx context.Context, data *MatchLoadData) error {
	level, ok := database.FindByID[models.Level](ctx, l.server.State.DB.Levels, data.MapID)
	if !ok {
		return ErrInvalidMatchState
	}

	now := nowMillis()
	matchID := uuid.NewString()
	goals := data.Goals
	level.Goals = &goals
	level.LastMatchID = &matchID

	parties := make(map[string]models.Party, len(data.Parties))
	for _, party := range data.Parties {
		parties[party.Name] = models.Party{
			Name:  party.Name,
			Alias: party.Alias,
			Color: party.Color,
			Min:   party.Min,
			Max:   party.Max,
		}
	}

	newMatch := &models.Match{
		ID:           matchID,
		LoadedAt:     now,
		Level:        *level,
		Parties:      parties,
		Participants: map[string]models.Participant{},
		ServerID:     l.server.ID,
	}

	if err := l.server.State.Matches.Set(ctx, newMatch.ID, newMatch, true); err != nil {
		return err
	}
	l.server.SetCurrentMatchID(ctx, newMatch.ID)
	l.server.State.Logger.Infow("Match loaded", "server", l.server.ID, "match", newMatch.ID)
	return nil
}

func (l matchPhaseListener) onStart(data *MatchStartData, m *models.Match) error {
	if m.State() != models.MatchStatePre {
		return ErrInvalidMatchState
	}

	now := nowMillis()
	m.StartedAt = &now
	for _, simple := range data.Participants {
		m.SaveParticipants(models.ParticipantFromSimple(simple, now))
	}

	l.server.State.Logger.Infow("Match started", "server", l.server.ID, "match", m.ID)
	return nil
}

func (l matchPhaseListener) onEnd(m *models.Match) error {
	if m.State() != models.MatchStateInProgress {
		return ErrInvalidMatchState
	}
	now := nowMillis()
	m.EndedAt = &now
	l.server.State.Logger.Infow("Match ended", "server", l.server.ID, "match", m.ID)
	return nil
}
