package models

import "testing"

func TestNewPlayerDefaults(t *testing.T) {
	player := NewPlayer("u1", "Alice", "1.2.3.4", 1000)

	if player.NameLower != "alice" {
		t.Errorf("NameLower = %q, want %q", player.NameLower, "alice")
	}
	if player.FirstJoinedAt != player.LastJoinedAt {
		t.Errorf("FirstJoinedAt %d != LastJoinedAt %d on fresh player", player.FirstJoinedAt, player.LastJoinedAt)
	}
	if len(player.IPs) != 1 || player.IPs[0] != "1.2.3.4" {
		t.Errorf("IPs = %v, want the joining ip only", player.IPs)
	}
	if player.ActiveTagID != nil {
		t.Error("fresh player should not have an active tag")
	}
}

func TestPlayerLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{4999, 1},
		{5000, 2},
		{45000, 10},
		{49999, 10},
		{50000, 11},
	}
	for _, tt := range tests {
		stats := PlayerStats{XP: tt.xp}
		if got := stats.Level(); got != tt.want {
			t.Errorf("Level(xp=%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestHighestKillstreak(t *testing.T) {
	stats := NewPlayerStats()
	if got := stats.HighestKillstreak(); got != 0 {
		t.Errorf("HighestKillstreak with no streaks = %d, want 0", got)
	}

	stats.Killstreaks[5] = 3
	stats.Killstreaks[10] = 1
	if got := stats.HighestKillstreak(); got != 1 {
		t.Errorf("HighestKillstreak = %d, want count at largest streak (1)", got)
	}
}

func TestIDName(t *testing.T) {
	player := Player{ID: "u1", Name: "Alice"}
	if got := player.IDName(); got != "u1/Alice" {
		t.Errorf("IDName = %q, want %q", got, "u1/Alice")
	}
}

func TestSanitizedCopy(t *testing.T) {
	session := "s1"
	player := NewPlayer("u1", "Alice", "1.2.3.4", 0)
	player.Notes = append(player.Notes, StaffNote{ID: 1, Content: "note"})
	player.LastSessionID = &session

	clean := player.SanitizedCopy()
	if len(clean.IPs) != 0 || len(clean.Notes) != 0 || clean.LastSessionID != nil {
		t.Error("SanitizedCopy must strip ips, notes and session reference")
	}
	if len(player.IPs) != 1 {
		t.Error("SanitizedCopy must not mutate the source")
	}
}

func TestModifyGamemodeStatsCreatesBuckets(t *testing.T) {
	player := NewPlayer("u1", "Alice", "ip", 0)
	m := &Match{Level: Level{Gamemodes: []string{GamemodeCaptureTheFlag, GamemodeKingOfTheHill}}}

	player.ModifyGamemodeStats(m, func(stats *PlayerStats) {
		stats.Kills++
	})

	for _, gm := range []string{GamemodeCaptureTheFlag, GamemodeKingOfTheHill} {
		bucket, ok := player.GamemodeStats[gm]
		if !ok {
			t.Fatalf("bucket %s was not created", gm)
		}
		if bucket.Kills != 1 {
			t.Errorf("bucket %s kills = %d, want 1", gm, bucket.Kills)
		}
	}
}

func TestModifyGamemodeStatsArcadeCollapse(t *testing.T) {
	player := NewPlayer("u1", "Alice", "ip", 0)
	m := &Match{Level: Level{Gamemodes: []string{GamemodeArcade, GamemodeDeathmatch}}}

	player.ModifyGamemodeStats(m, func(stats *PlayerStats) {
		stats.Deaths++
	})

	if len(player.GamemodeStats) != 1 {
		t.Fatalf("non-tracking match should collapse to one bucket, got %d", len(player.GamemodeStats))
	}
	if player.GamemodeStats[GamemodeArcade].Deaths != 1 {
		t.Error("arcade bucket should hold the update")
	}
}

func TestModifyGamemodeStatsKeepsExistingBucket(t *testing.T) {
	player := NewPlayer("u1", "Alice", "ip", 0)
	existing := NewPlayerStats()
	existing.Kills = 7
	player.GamemodeStats[GamemodeRage] = existing
	m := &Match{Level: Level{Gamemodes: []string{GamemodeRage}}}

	player.ModifyGamemodeStats(m, func(stats *PlayerStats) {
		stats.Kills++
	})

	if got := player.GamemodeStats[GamemodeRage].Kills; got != 8 {
		t.Errorf("existing bucket kills = %d, want 8", got)
	}
}
