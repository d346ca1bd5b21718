package socket

import "github.com/warzonemc/mars-api/internal/models"

// EventType discriminates the envelope. API-bound events arrive from game
// servers; plugin-bound events are emitted back on the same connection.
type EventType string

const (
	// API-bound
	EventMatchLoad           EventType = "MATCH_LOAD"
	EventMatchStart          EventType = "MATCH_START"
	EventMatchEnd            EventType = "MATCH_END"
	EventPlayerDeath         EventType = "PLAYER_DEATH"
	EventKillstreak          EventType = "KILLSTREAK"
	EventPartyJoin           EventType = "PARTY_JOIN"
	EventPartyLeave          EventType = "PARTY_LEAVE"
	EventDestroyableDestroy  EventType = "DESTROYABLE_DESTROY"
	EventDestroyableDamage   EventType = "DESTROYABLE_DAMAGE"
	EventCoreLeak            EventType = "CORE_LEAK"
	EventCoreDamage          EventType = "CORE_DAMAGE" // unused
	EventFlagCapture         EventType = "FLAG_CAPTURE"
	EventFlagPickup          EventType = "FLAG_PICKUP"
	EventFlagDrop            EventType = "FLAG_DROP"
	EventFlagDefend          EventType = "FLAG_DEFEND"
	EventWoolCapture         EventType = "WOOL_CAPTURE"
	EventWoolPickup          EventType = "WOOL_PICKUP"
	EventWoolDrop            EventType = "WOOL_DROP"
	EventWoolDefend          EventType = "WOOL_DEFEND"
	EventControlPointCapture EventType = "CONTROL_POINT_CAPTURE"

	// bi-directional
	EventPlayerChat EventType = "PLAYER_CHAT"

	// plugin-bound
	EventPlayerXPGain     EventType = "PLAYER_XP_GAIN"
	EventForceMatchEnd    EventType = "FORCE_MATCH_END"
	EventMessage          EventType = "MESSAGE"
	EventDisconnectPlayer EventType = "DISCONNECT_PLAYER"
)

type MatchLoadData struct {
	MapID   string                `json:"mapId"`
	Parties []PartyData           `json:"parties"`
	Goals   models.GoalCollection `json:"goals"`
}

type PartyData struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
	Color string `json:"color"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

type MatchStartData struct {
	Participants []models.SimpleParticipant `json:"participants"`
}

type MatchEndData struct {
	WinningParties []string            `json:"winningParties"`
	BigStats       map[string]BigStats `json:"bigStats"`
}

// StatsFor returns the end-of-match bulk stats for a participant, creating an
// empty bundle for participants the server reported nothing for.
func (d *MatchEndData) StatsFor(id string) BigStats {
	if stats, ok := d.BigStats[id]; ok {
		return stats
	}
	return BigStats{}
}

// BigStats are the low-priority counters the plugin batches up and ships only
// once, at match end.
type BigStats struct {
	Blocks         PlayerBlocksData `json:"blocks"`
	BowShotsTaken  int              `json:"bowShotsTaken"`
	BowShotsHit    int              `json:"bowShotsHit"`
	DamageGiven    float64          `json:"damageGiven"`
	DamageTaken    float64          `json:"damageTaken"`
	DamageGivenBow float64          `json:"damageGivenBow"`
}

type PlayerBlocksData struct {
	BlocksPlaced map[string]int `json:"blocksPlaced"`
	BlocksBroken map[string]int `json:"blocksBroken"`
}

type PlayerDeathData struct {
	Victim   models.SimplePlayer  `json:"victim"`
	Attacker *models.SimplePlayer `json:"attacker"`
	Weapon   *string              `json:"weapon"`
	Entity   *string              `json:"entity"`
	Distance *int                 `json:"distance"`
	Key      string               `json:"key"`
	Cause    models.DamageCause   `json:"cause"`
}

// IsMurder reports whether another player caused the death.
func (d *PlayerDeathData) IsMurder() bool {
	return d.Attacker != nil && d.Attacker.ID != d.Victim.ID
}

// SafeWeapon normalizes the weapon name, attributing ranged non-fall deaths
// to a projectile.
func (d *PlayerDeathData) SafeWeapon() string {
	if d.Distance != nil && d.Cause != models.CauseFall {
		return "PROJECTILE"
	}
	if d.Weapon != nil {
		return *d.Weapon
	}
	return "NONE"
}

type ChatChannel string

const (
	ChatStaff  ChatChannel = "STAFF"
	ChatGlobal ChatChannel = "GLOBAL"
	ChatTeam   ChatChannel = "TEAM"
)

type PlayerChatData struct {
	Player       models.SimplePlayer `json:"player"`
	PlayerPrefix string              `json:"playerPrefix"`
	Channel      ChatChannel         `json:"channel"`
	Message      string              `json:"message"`
	ServerID     string              `json:"serverId"`
}

type KillstreakData struct {
	Amount int                 `json:"amount"`
	Player models.SimplePlayer `json:"player"`
	Ended  bool                `json:"ended"`
}

type PartyJoinData struct {
	Player    models.SimplePlayer `json:"player"`
	PartyName string              `json:"partyName"`
}

type PartyLeaveData struct {
	Player models.SimplePlayer `json:"player"`
}

type DestroyableDamageData struct {
	DestroyableID string `json:"destroyableId"`
	Damage        int    `json:"damage"`
	PlayerID      string `json:"playerId"`
}

type GoalContribution struct {
	PlayerID   string  `json:"playerId"`
	Percentage float64 `json:"percentage"`
	BlockCount int     `json:"blockCount"`
}

type DestroyableDestroyData struct {
	DestroyableID string             `json:"destroyableId"`
	Contributions []GoalContribution `json:"contributions"`
}

type CoreLeakData struct {
	CoreID        string             `json:"coreId"`
	Contributions []GoalContribution `json:"contributions"`
}

type ControlPointCaptureData struct {
	PointID   string   `json:"pointId"`
	PlayerIDs []string `json:"playerIds"`
	PartyName string   `json:"partyName"`
}

type FlagEventData struct {
	FlagID   string `json:"flagId"`
	PlayerID string `json:"playerId"`
}

type FlagDropData struct {
	FlagID   string `json:"flagId"`
	PlayerID string `json:"playerId"`
	HeldTime int64  `json:"heldTime"`
}

type WoolEventData struct {
	WoolID   string `json:"woolId"`
	PlayerID string `json:"playerId"`
}

type WoolDropData struct {
	WoolID   string `json:"woolId"`
	PlayerID string `json:"playerId"`
	HeldTime int64  `json:"heldTime"`
}

type MessageData struct {
	Message   string   `json:"message"`
	Sound     *string  `json:"sound"`
	PlayerIDs []string `json:"playerIds"`
}

type PlayerXPGainData struct {
	PlayerID string `json:"playerId"`
	Gain     int    `json:"gain"`
	Reason   string `json:"reason"`
	Notify   bool   `json:"notify"`
}

type DisconnectPlayerData struct {
	PlayerID string `json:"playerId"`
	Reason   string `json:"reason"`
}
