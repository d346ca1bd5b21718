package models

import "testing"

func ptr[T any](v T) *T { return &v }

func TestMatchState(t *testing.T) {
	tests := []struct {
		name      string
		startedAt *int64
		endedAt   *int64
		want      MatchState
	}{
		{"pre", nil, nil, MatchStatePre},
		{"in progress", ptr(int64(100)), nil, MatchStateInProgress},
		{"post", ptr(int64(100)), ptr(int64(200)), MatchStatePost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Match{StartedAt: tt.startedAt, EndedAt: tt.endedAt}
			if got := m.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTrackingStats(t *testing.T) {
	tracking := Match{Level: Level{Gamemodes: []string{GamemodeCaptureTheFlag}}}
	if !tracking.IsTrackingStats() {
		t.Error("non-arcade match should track stats")
	}

	arcade := Match{Level: Level{Gamemodes: []string{GamemodeCaptureTheFlag, GamemodeArcade}}}
	if arcade.IsTrackingStats() {
		t.Error("arcade match must not track stats")
	}
}

func TestMatchLength(t *testing.T) {
	m := Match{StartedAt: ptr(int64(1000)), EndedAt: ptr(int64(4000))}
	if got := m.Length(9999); got != 3000 {
		t.Errorf("Length of ended match = %d, want 3000", got)
	}

	live := Match{StartedAt: ptr(int64(1000))}
	if got := live.Length(5000); got != 4000 {
		t.Errorf("Length of live match = %d, want 4000", got)
	}
}

func TestSaveParticipants(t *testing.T) {
	m := Match{}
	m.SaveParticipants(Participant{ID: "u1", Name: "Alice"}, Participant{ID: "u2", Name: "Bob"})
	if len(m.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(m.Participants))
	}

	updated := m.Participants["u1"]
	updated.Stats.Kills = 5
	m.SaveParticipants(updated)
	if m.Participants["u1"].Stats.Kills != 5 {
		t.Error("SaveParticipants should overwrite the embedded entry")
	}
}

func twoPartyMatch() *Match {
	return &Match{
		Parties: map[string]Party{
			"Red":  {Name: "Red"},
			"Blue": {Name: "Blue"},
		},
	}
}

func TestMatchResult(t *testing.T) {
	red := "Red"
	tests := []struct {
		name           string
		partyName      *string
		winningParties []string
		want           PlayerMatchResult
	}{
		{"win", &red, []string{"Red"}, ResultWin},
		{"lose", &red, []string{"Blue"}, ResultLose},
		{"tie on empty winners", &red, nil, ResultTie},
		{"tie on all winners", &red, []string{"Red", "Blue"}, ResultTie},
		{"spectator", nil, []string{"Red"}, ResultIntermediate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Participant{ID: "u1", PartyName: tt.partyName}
			if got := p.MatchResult(twoPartyMatch(), tt.winningParties); got != tt.want {
				t.Errorf("MatchResult = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParticipantFromSimple(t *testing.T) {
	party := "Red"
	p := ParticipantFromSimple(SimpleParticipant{Name: "Alice", ID: "u1", PartyName: &party}, 1234)

	if p.FirstJoinedMatchAt != 1234 {
		t.Errorf("FirstJoinedMatchAt = %d, want 1234", p.FirstJoinedMatchAt)
	}
	if p.JoinedPartyAt == nil || *p.JoinedPartyAt != 1234 {
		t.Error("JoinedPartyAt should be stamped at join")
	}
	if p.LastPartyName == nil || *p.LastPartyName != "Red" {
		t.Error("LastPartyName should mirror the joining party")
	}
	if p.NameLower() != "alice" {
		t.Errorf("NameLower = %q, want alice", p.NameLower())
	}
}
