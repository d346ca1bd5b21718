package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/warzonemc/mars-api/internal/models"
)

// ErrInvalidMatchState marks an event that arrived while the match was in
// the wrong phase (or missing). The connection recovers by forcing the match
// to end on the originating server.
var ErrInvalidMatchState = errors.New("encountered invalid match state or missing match")

// Router dispatches each inbound event through the fixed listener chain:
// participant-scoped listeners first, player-scoped listeners second, static
// order within each group.
type Router struct {
	Server *ServerContext

	participantListeners []Listener[models.Participant]
	playerListeners      []Listener[models.Player]
}

func NewRouter(server *ServerContext) *Router {
	return &Router{
		Server: server,
		participantListeners: []Listener[models.Participant]{
			ParticipantStatListener{},
			ParticipantPartyListener{},
			MapRecordListener{},
			LeaderboardListener{},
		},
		playerListeners: []Listener[models.Player]{
			PlayerStatListener{},
			PlayerGamemodeStatListener{},
			PlayerXPListener{},
			PlayerRecordListener{},
		},
	}
}

// Route handles one decoded envelope. A returned error is fatal for the
// connection (malformed payloads, missing participants); an invalid match
// state is recovered in place with a ForceMatchEnd emit.
func (r *Router) Route(ctx context.Context, packet *Packet) error {
	var err error
	switch packet.Event {
	case EventMatchLoad:
		err = route(ctx, r, packet.Data, r.onMatchLoad)
	case EventMatchStart:
		err = route(ctx, r, packet.Data, r.onMatchStart)
	case EventMatchEnd:
		err = route(ctx, r, packet.Data, r.onMatchEnd)
	case EventPlayerDeath:
		err = route(ctx, r, packet.Data, r.onPlayerDeath)
	case EventPlayerChat:
		err = route(ctx, r, packet.Data, r.onPlayerChat)
	case EventKillstreak:
		err = route(ctx, r, packet.Data, r.onKillstreak)
	case EventPartyJoin:
		err = route(ctx, r, packet.Data, r.onPartyJoin)
	case EventPartyLeave:
		err = route(ctx, r, packet.Data, r.onPartyLeave)
	case EventDestroyableDamage:
		err = route(ctx, r, packet.Data, r.onDestroyableDamage)
	case EventDestroyableDestroy:
		err = route(ctx, r, packet.Data, r.onDestroyableDestroy)
	case EventCoreLeak:
		err = route(ctx, r, packet.Data, r.onCoreLeak)
	case EventFlagCapture:
		err = route(ctx, r, packet.Data, r.onFlagPlace)
	case EventFlagPickup:
		err = route(ctx, r, packet.Data, r.onFlagPickup)
	case EventFlagDrop:
		err = route(ctx, r, packet.Data, r.onFlagDrop)
	case EventFlagDefend:
		err = route(ctx, r, packet.Data, r.onFlagDefend)
	case EventWoolCapture:
		err = route(ctx, r, packet.Data, r.onWoolPlace)
	case EventWoolPickup:
		err = route(ctx, r, packet.Data, r.onWoolPickup)
	case EventWoolDrop:
		err = route(ctx, r, packet.Data, r.onWoolDrop)
	case EventWoolDefend:
		err = route(ctx, r, packet.Data, r.onWoolDefend)
	case EventControlPointCapture:
		err = route(ctx, r, packet.Data, r.onControlPointCapture)
	default:
		r.Server.State.Logger.Warnw("Event fell through router", "server", r.Server.ID, "event", packet.Event)
		return nil
	}

	if errors.Is(err, ErrInvalidMatchState) {
		r.Server.Call(EventForceMatchEnd, struct{}{})
		r.Server.State.Logger.Warnw("Forcing match end",
			"server", r.Server.ID,
			"match", r.matchID(ctx),
			"event", packet.Event,
			"error", err)
		return nil
	}
	return err
}

// route decodes the payload and runs the handler; decode failures are fatal
// for the connection, not the server.
func route[T any](ctx context.Context, r *Router, raw json.RawMessage, handler func(context.Context, *T) error) error {
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return handler(ctx, &data)
}

func (r *Router) matchID(ctx context.Context) string {
	if m, ok := r.Server.Match(ctx); ok {
		return m.ID
	}
	return "null"
}

// currentMatch loads the server's match; with requireInProgress set, a match
// in any other phase is an invalid match state.
func (r *Router) currentMatch(ctx context.Context, requireInProgress bool) (*models.Match, error) {
	m, ok := r.Server.Match(ctx)
	if !ok {
		return nil, ErrInvalidMatchState
	}
	if requireInProgress && m.State() != models.MatchStateInProgress {
		return nil, ErrInvalidMatchState
	}
	return m, nil
}

// writeBack flushes the mutated match document to the cache.
func (r *Router) writeBack(ctx context.Context, m *models.Match) error {
	return r.Server.State.Matches.Set(ctx, m.ID, m, false)
}

// dispatch runs the full listener chain for one participant: the participant
// group mutates the embedded participant and is saved into the match before
// the player group observes it. The player profile is looked up at the group
// boundary and written back through the cache when the group finishes.
func (r *Router) dispatch(
	ctx context.Context,
	m *models.Match,
	participant models.Participant,
	forParticipant func(Listener[models.Participant], *models.Participant),
	forPlayer func(Listener[models.Player], *models.Player),
) error {
	for _, listener := range r.participantListeners {
		forParticipant(listener, &participant)
	}
	m.SaveParticipants(participant)

	player, ok := r.Server.State.Players.Get(ctx, participant.NameLower())
	if !ok {
		return fmt.Errorf("player %q missing from cache", participant.Name)
	}
	for _, listener := range r.playerListeners {
		forPlayer(listener, player)
	}
	return r.Server.State.Players.Set(ctx, participant.NameLower(), player, false)
}

func (r *Router) participant(m *models.Match, id string) (models.Participant, error) {
	participant, ok := m.Participants[id]
	if !ok {
		return models.Participant{}, fmt.Errorf("participant %q not in match %s", id, m.ID)
	}
	return participant, nil
}

func (r *Router) onMatchLoad(ctx context.Context, data *MatchLoadData) error {
	return matchPhaseListener{server: r.Server}.onLoad(ctx, data)
}

func (r *Router) onMatchStart(ctx context.Context, data *MatchStartData) error {
	m, err := r.currentMatch(ctx, false)
	if err != nil {
		return err
	}
	if err := (matchPhaseListener{server: r.Server}).onStart(data, m); err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onMatchEnd(ctx context.Context, data *MatchEndData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	if err := (matchPhaseListener{server: r.Server}).onEnd(m); err != nil {
		return err
	}

	profiles := make([]*models.Player, 0, len(m.Participants))
	for _, participant := range m.Participants {
		participant := participant
		for _, listener := range r.participantListeners {
			listener.OnMatchEnd(ctx, r.Server, m, &participant, data)
		}
		m.SaveParticipants(participant)

		player, ok := r.Server.State.Players.Get(ctx, participant.NameLower())
		if !ok {
			continue
		}
		for _, listener := range r.playerListeners {
			listener.OnMatchEnd(ctx, r.Server, m, player, data)
		}
		if err := r.Server.State.Players.Set(ctx, participant.NameLower(), player, false); err != nil {
			return err
		}
		profiles = append(profiles, player)
	}

	state := r.Server.State
	for _, profile := range profiles {
		if err := state.DB.Save(ctx, state.DB.Players, profile.ID, profile); err != nil {
			state.Logger.Errorw("Failed to persist profile at match end", "player", profile.ID, "error", err)
		}
	}
	if err := state.DB.Save(ctx, state.DB.Levels, m.Level.ID, &m.Level); err != nil {
		state.Logger.Errorw("Failed to persist level at match end", "level", m.Level.ID, "error", err)
	}
	return state.Matches.SetWithExpiry(ctx, m.ID, m, true, matchEndExpiry)
}

func (r *Router) onPlayerDeath(ctx context.Context, data *PlayerDeathData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}

	firstBlood := m.FirstBlood == nil && data.IsMurder()
	if firstBlood {
		m.FirstBlood = &models.FirstBlood{
			Attacker: *data.Attacker,
			Victim:   data.Victim,
			Date:     nowMillis(),
		}
	}

	if data.IsMurder() {
		attacker, err := r.participant(m, data.Attacker.ID)
		if err != nil {
			return err
		}
		err = r.dispatch(ctx, m, attacker,
			func(l Listener[models.Participant], p *models.Participant) {
				l.OnKill(ctx, r.Server, m, p, data, firstBlood)
			},
			func(l Listener[models.Player], p *models.Player) {
				l.OnKill(ctx, r.Server, m, p, data, firstBlood)
			})
		if err != nil {
			return err
		}
	}

	victim, err := r.participant(m, data.Victim.ID)
	if err != nil {
		return err
	}
	err = r.dispatch(ctx, m, victim,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnDeath(ctx, r.Server, m, p, data, firstBlood)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnDeath(ctx, r.Server, m, p, data, firstBlood)
		})
	if err != nil {
		return err
	}

	death := models.Death{
		ID:        uuid.NewString(),
		Victim:    data.Victim,
		Attacker:  data.Attacker,
		Weapon:    data.Weapon,
		Entity:    data.Entity,
		Distance:  data.Distance,
		Key:       data.Key,
		Cause:     data.Cause,
		ServerID:  r.Server.ID,
		MatchID:   m.ID,
		CreatedAt: nowMillis(),
	}
	if err := r.Server.State.DB.InsertOne(ctx, r.Server.State.DB.Deaths, &death); err != nil {
		r.Server.State.Logger.Errorw("Failed to insert death", "match", m.ID, "error", err)
	}

	return r.writeBack(ctx, m)
}

func (r *Router) onPlayerChat(ctx context.Context, data *PlayerChatData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}

	if participant, ok := m.Participants[data.Player.ID]; ok {
		err = r.dispatch(ctx, m, participant,
			func(l Listener[models.Participant], p *models.Participant) {
				l.OnChat(ctx, r.Server, m, p, data)
			},
			func(l Listener[models.Player], p *models.Player) {
				l.OnChat(ctx, r.Server, m, p, data)
			})
		if err != nil {
			return err
		}
	}

	return r.writeBack(ctx, m)
}

func (r *Router) onKillstreak(ctx context.Context, data *KillstreakData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.Player.ID)
	if err != nil {
		return err
	}

	if data.Ended {
		err = r.dispatch(ctx, m, participant,
			func(l Listener[models.Participant], p *models.Participant) {
				l.OnKillstreakEnd(ctx, r.Server, m, p, data.Amount)
			},
			func(l Listener[models.Player], p *models.Player) {
				l.OnKillstreakEnd(ctx, r.Server, m, p, data.Amount)
			})
	} else {
		err = r.dispatch(ctx, m, participant,
			func(l Listener[models.Participant], p *models.Participant) {
				l.OnKillstreak(ctx, r.Server, m, p, data.Amount)
			},
			func(l Listener[models.Player], p *models.Player) {
				l.OnKillstreak(ctx, r.Server, m, p, data.Amount)
			})
	}
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onPartyJoin(ctx context.Context, data *PartyJoinData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}

	participant, ok := m.Participants[data.Player.ID]
	if !ok {
		partyName := data.PartyName
		participant = models.ParticipantFromSimple(models.SimpleParticipant{
			Name:      data.Player.Name,
			ID:        data.Player.ID,
			PartyName: &partyName,
		}, nowMillis())
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnPartyJoin(ctx, r.Server, m, p, data.PartyName)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnPartyJoin(ctx, r.Server, m, p, data.PartyName)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onPartyLeave(ctx context.Context, data *PartyLeaveData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.Player.ID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnPartyLeave(ctx, r.Server, m, p)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnPartyLeave(ctx, r.Server, m, p)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onDestroyableDamage(ctx context.Context, data *DestroyableDamageData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	destroyable := findDestroyable(m, data.DestroyableID)
	if destroyable == nil {
		return nil
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnDestroyableDamage(ctx, r.Server, m, p, destroyable, data.Damage)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnDestroyableDamage(ctx, r.Server, m, p, destroyable, data.Damage)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onDestroyableDestroy(ctx context.Context, data *DestroyableDestroyData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}

	for _, contribution := range data.Contributions {
		participant, err := r.participant(m, contribution.PlayerID)
		if err != nil {
			return err
		}
		contribution := contribution
		err = r.dispatch(ctx, m, participant,
			func(l Listener[models.Participant], p *models.Participant) {
				l.OnDestroyableDestroy(ctx, r.Server, m, p, contribution.Percentage, contribution.BlockCount)
			},
			func(l Listener[models.Player], p *models.Player) {
				l.OnDestroyableDestroy(ctx, r.Server, m, p, contribution.Percentage, contribution.BlockCount)
			})
		if err != nil {
			return err
		}
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onCoreLeak(ctx context.Context, data *CoreLeakData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}

	for _, contribution := range data.Contributions {
		participant, err := r.participant(m, contribution.PlayerID)
		if err != nil {
			return err
		}
		contribution := contribution
		err = r.dispatch(ctx, m, participant,
			func(l Listener[models.Participant], p *models.Participant) {
				l.OnCoreLeak(ctx, r.Server, m, p, contribution.Percentage, contribution.BlockCount)
			},
			func(l Listener[models.Player], p *models.Player) {
				l.OnCoreLeak(ctx, r.Server, m, p, contribution.Percentage, contribution.BlockCount)
			})
		if err != nil {
			return err
		}
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onFlagPlace(ctx context.Context, data *FlagDropData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnFlagPlace(ctx, r.Server, m, p, data.HeldTime)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnFlagPlace(ctx, r.Server, m, p, data.HeldTime)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onFlagPickup(ctx context.Context, data *FlagEventData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnFlagPickup(ctx, r.Server, m, p)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnFlagPickup(ctx, r.Server, m, p)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onFlagDrop(ctx context.Context, data *FlagDropData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnFlagDrop(ctx, r.Server, m, p, data.HeldTime)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnFlagDrop(ctx, r.Server, m, p, data.HeldTime)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onFlagDefend(ctx context.Context, data *FlagEventData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnFlagDefend(ctx, r.Server, m, p)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnFlagDefend(ctx, r.Server, m, p)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onWoolPlace(ctx context.Context, data *WoolDropData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnWoolPlace(ctx, r.Server, m, p, data.HeldTime)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnWoolPlace(ctx, r.Server, m, p, data.HeldTime)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onWoolPickup(ctx context.Context, data *WoolEventData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnWoolPickup(ctx, r.Server, m, p)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnWoolPickup(ctx, r.Server, m, p)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onWoolDrop(ctx context.Context, data *WoolDropData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnWoolDrop(ctx, r.Server, m, p, data.HeldTime)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnWoolDrop(ctx, r.Server, m, p, data.HeldTime)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onWoolDefend(ctx context.Context, data *WoolEventData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}
	participant, err := r.participant(m, data.PlayerID)
	if err != nil {
		return err
	}

	err = r.dispatch(ctx, m, participant,
		func(l Listener[models.Participant], p *models.Participant) {
			l.OnWoolDefend(ctx, r.Server, m, p)
		},
		func(l Listener[models.Player], p *models.Player) {
			l.OnWoolDefend(ctx, r.Server, m, p)
		})
	if err != nil {
		return err
	}
	return r.writeBack(ctx, m)
}

func (r *Router) onControlPointCapture(ctx context.Context, data *ControlPointCaptureData) error {
	m, err := r.currentMatch(ctx, true)
	if err != nil {
		return err
	}

	contributors := len(data.PlayerIDs)
	for _, playerID := range data.PlayerIDs {
		participant, err := r.participant(m, playerID)
		if err != nil {
			return err
		}
		err = r.dispatch(ctx, m, participant,
			func(l Listener[models.Participant], p *models.Participant) {
				l.OnControlPointCapture(ctx, r.Server, m, p, contributors)
			},
			func(l Listener[models.Player], p *models.Player) {
				l.OnControlPointCapture(ctx, r.Server, m, p, contributors)
			})
		if err != nil {
			return err
		}
	}
	return r.writeBack(ctx, m)
}

func findDestroyable(m *models.Match, id string) *models.DestroyableGoal {
	if m.Level.Goals == nil {
		return nil
	}
	for i := range m.Level.Goals.Destroyables {
		if m.Level.Goals.Destroyables[i].ID == id {
			return &m.Level.Goals.Destroyables[i]
		}
	}
	return nil
}
