package models

// MatchState is derived from the match timestamps, never stored.
type MatchState int

const (
	MatchStatePre MatchState = iota
	MatchStateInProgress
	MatchStatePost
)

// Match is one game instance on one server. It lives in the match cache for
// its whole life and is persisted to the document store at load and at end.
type Match struct {
	ID           string                  `json:"_id" bson:"_id"`
	LoadedAt     int64                   `json:"loadedAt" bson:"loadedAt"`
	StartedAt    *int64                  `json:"startedAt" bson:"startedAt"`
	EndedAt      *int64                  `json:"endedAt" bson:"endedAt"`
	Level        Level                   `json:"level" bson:"level"`
	Parties      map[string]Party        `json:"parties" bson:"parties"`
	Participants map[string]Participant  `json:"participants" bson:"participants"`
	ServerID     string                  `json:"serverId" bson:"serverId"`
	FirstBlood   *FirstBlood             `json:"firstBlood" bson:"firstBlood"`
}

// IsTrackingStats reports whether personal stats count for this match.
// Arcade levels suppress tracking.
func (m *Match) IsTrackingStats() bool {
	for _, gm := range m.Level.Gamemodes {
		if gm == GamemodeArcade {
			return false
		}
	}
	return true
}

func (m *Match) State() MatchState {
	switch {
	case m.StartedAt == nil:
		return MatchStatePre
	case m.EndedAt == nil:
		return MatchStateInProgress
	default:
		return MatchStatePost
	}
}

// SaveParticipants writes the given participants back into the embedded map.
func (m *Match) SaveParticipants(participants ...Participant) {
	if m.Participants == nil {
		m.Participants = make(map[string]Participant)
	}
	for _, p := range participants {
		m.Participants[p.ID] = p
	}
}

// Length is the match duration in milliseconds; for live matches it is
// measured against now.
func (m *Match) Length(now int64) int64 {
	var start, end int64
	if m.StartedAt != nil {
		start = *m.StartedAt
	}
	end = now
	if m.EndedAt != nil {
		end = *m.EndedAt
	}
	return end - start
}

type FirstBlood struct {
	Attacker SimplePlayer `json:"attacker" bson:"attacker"`
	Victim   SimplePlayer `json:"victim" bson:"victim"`
	Date     int64        `json:"date" bson:"date"`
}

type Party struct {
	Name  string `json:"name" bson:"name"`
	Alias string `json:"alias" bson:"alias"`
	Color string `json:"color" bson:"color"`
	Min   int    `json:"min" bson:"min"`
	Max   int    `json:"max" bson:"max"`
}

// GoalCollection is the snapshot of a level's objectives taken at match load.
type GoalCollection struct {
	Cores         []CoreGoal         `json:"cores" bson:"cores"`
	Destroyables  []DestroyableGoal  `json:"destroyables" bson:"destroyables"`
	Flags         []FlagGoal         `json:"flags" bson:"flags"`
	Wools         []WoolGoal         `json:"wools" bson:"wools"`
	ControlPoints []ControlPointGoal `json:"controlPoints" bson:"controlPoints"`
}

type CoreGoal struct {
	ID           string         `json:"id" bson:"id"`
	Name         string         `json:"name" bson:"name"`
	OwnerName    *string        `json:"ownerName" bson:"ownerName"`
	Material     string         `json:"material" bson:"material"`
	Contributors []SimplePlayer `json:"contributors" bson:"contributors"`
}

type DestroyableGoal struct {
	ID             string         `json:"id" bson:"id"`
	Name           string         `json:"name" bson:"name"`
	OwnerName      *string        `json:"ownerName" bson:"ownerName"`
	Material       string         `json:"material" bson:"material"`
	BlockCount     int            `json:"blockCount" bson:"blockCount"`
	BreaksRequired int            `json:"breaksRequired" bson:"breaksRequired"`
	Contributors   []SimplePlayer `json:"contributors" bson:"contributors"`
}

type FlagGoal struct {
	ID        string  `json:"id" bson:"id"`
	Name      string  `json:"name" bson:"name"`
	OwnerName *string `json:"ownerName" bson:"ownerName"`
	Color     string  `json:"color" bson:"color"`
}

type WoolGoal struct {
	ID        string  `json:"id" bson:"id"`
	OwnerName *string `json:"ownerName" bson:"ownerName"`
	Color     string  `json:"color" bson:"color"`
}

type ControlPointGoal struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}
