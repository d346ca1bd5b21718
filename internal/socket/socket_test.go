package socket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/warzonemc/mars-api/internal/leaderboard"
	"github.com/warzonemc/mars-api/internal/models"
)

// fakeConn captures outbound packets instead of writing to a socket.
type fakeConn struct {
	packets []*Packet
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	packet, err := DecodePacket(data)
	if err != nil {
		return err
	}
	c.packets = append(c.packets, packet)
	return nil
}

// deadRedis returns a client pointed at nothing; commands fail without
// panicking, which is what the fire-and-forget leaderboard path expects.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func testServer(conn *fakeConn) *ServerContext {
	rdb := deadRedis()
	return &ServerContext{
		ID: "srv1",
		State: &State{
			Redis:        rdb,
			Leaderboards: leaderboard.New(rdb, nil),
			Logger:       zap.NewNop().Sugar(),
		},
		Conn: conn,
	}
}

func matchFixture(length int64) *models.Match {
	start := int64(1_000)
	end := start + length
	return &models.Match{
		ID:        "m1",
		StartedAt: &start,
		EndedAt:   &end,
		Level:     models.Level{ID: "l1", Gamemodes: []string{models.GamemodeCaptureTheFlag}},
		Parties: map[string]models.Party{
			"Red":  {Name: "Red"},
			"Blue": {Name: "Blue"},
		},
		Participants: map[string]models.Participant{},
	}
}

func TestParticipationThreshold(t *testing.T) {
	tests := []struct {
		matchLength int64
		want        float64
	}{
		{600_000, 60_000},
		{100_000, 10_000},
		{1_000_000, 60_000},
		{0, 0},
	}
	for _, tt := range tests {
		if got := ParticipationThreshold(tt.matchLength); got != tt.want {
			t.Errorf("ParticipationThreshold(%d) = %v, want %v", tt.matchLength, got, tt.want)
		}
	}
}

func TestXPGain(t *testing.T) {
	tests := []struct {
		raw   int
		level int
		want  int
	}{
		{40, 1, 360},
		{40, 5, 200},
		{40, 9, 40},
		{40, 10, 40},
		{40, 50, 40},
	}
	for _, tt := range tests {
		if got := XPGain(tt.raw, tt.level); got != tt.want {
			t.Errorf("XPGain(%d, level=%d) = %d, want %d", tt.raw, tt.level, got, tt.want)
		}
	}
}

func TestAwardXPEmitsAppliedGain(t *testing.T) {
	conn := &fakeConn{}
	sc := testServer(conn)
	player := models.NewPlayer("u1", "Alice", "ip", 0)

	AwardXP(context.Background(), sc, &player, 40, "Kill", true, false)

	wantGain := XPGain(40, 1)
	if player.Stats.XP != wantGain {
		t.Errorf("applied XP = %d, want %d", player.Stats.XP, wantGain)
	}
	if len(conn.packets) != 1 || conn.packets[0].Event != EventPlayerXPGain {
		t.Fatalf("expected one PLAYER_XP_GAIN packet, got %v", conn.packets)
	}
	var data PlayerXPGainData
	json.Unmarshal(conn.packets[0].Data, &data)
	if data.Gain != wantGain {
		t.Errorf("packet gain = %d, want the applied increment %d", data.Gain, wantGain)
	}
	if data.PlayerID != "u1" || !data.Notify {
		t.Errorf("packet = %+v, want player u1 with notify", data)
	}
}

func TestAwardXPRawOnly(t *testing.T) {
	conn := &fakeConn{}
	sc := testServer(conn)
	player := models.NewPlayer("u1", "Alice", "ip", 0)

	AwardXP(context.Background(), sc, &player, 200, "Victory", true, true)

	if player.Stats.XP != 200 {
		t.Errorf("rawOnly award applied %d, want exactly 200", player.Stats.XP)
	}
}

func TestParticipantStatListenerKill(t *testing.T) {
	listener := ParticipantStatListener{}
	m := matchFixture(600_000)
	p := models.ParticipantFromSimple(models.SimpleParticipant{Name: "Alice", ID: "u1"}, 0)
	distance := 42
	data := &PlayerDeathData{
		Victim:   models.SimplePlayer{Name: "Bob", ID: "u2"},
		Attacker: &models.SimplePlayer{Name: "Alice", ID: "u1"},
		Distance: &distance,
		Cause:    models.CauseProjectile,
	}

	listener.OnKill(context.Background(), nil, m, &p, data, true)

	if p.Stats.Kills != 1 {
		t.Errorf("kills = %d, want 1", p.Stats.Kills)
	}
	if p.Stats.WeaponKills["PROJECTILE"] != 1 {
		t.Errorf("weapon kills = %v, want PROJECTILE tally", p.Stats.WeaponKills)
	}
	if p.Stats.Duels["u2"].Kills != 1 {
		t.Errorf("duel vs u2 = %+v, want one kill", p.Stats.Duels["u2"])
	}
}

func TestParticipantStatListenerVoidDeath(t *testing.T) {
	listener := ParticipantStatListener{}
	m := matchFixture(600_000)
	p := models.ParticipantFromSimple(models.SimpleParticipant{Name: "Bob", ID: "u2"}, 0)
	data := &PlayerDeathData{
		Victim:   models.SimplePlayer{Name: "Bob", ID: "u2"},
		Attacker: &models.SimplePlayer{Name: "Alice", ID: "u1"},
		Cause:    models.CauseVoid,
	}

	listener.OnDeath(context.Background(), nil, m, &p, data, false)

	if p.Stats.Deaths != 1 || p.Stats.VoidDeaths != 1 {
		t.Errorf("deaths/void = %d/%d, want 1/1", p.Stats.Deaths, p.Stats.VoidDeaths)
	}
	if p.Stats.Duels["u1"].Deaths != 1 {
		t.Errorf("duel vs attacker = %+v, want one death", p.Stats.Duels["u1"])
	}
}

func TestParticipantPartyListener(t *testing.T) {
	listener := ParticipantPartyListener{}
	p := models.ParticipantFromSimple(models.SimpleParticipant{Name: "Alice", ID: "u1"}, 0)

	listener.OnPartyJoin(context.Background(), nil, nil, &p, "Red")
	if p.PartyName == nil || *p.PartyName != "Red" || p.JoinedPartyAt == nil {
		t.Fatalf("join bookkeeping incomplete: %+v", p)
	}

	listener.OnPartyLeave(context.Background(), nil, nil, &p)
	if p.PartyName != nil || p.JoinedPartyAt != nil || p.LastLeftPartyAt == nil {
		t.Fatalf("leave bookkeeping incomplete: %+v", p)
	}
	if p.LastPartyName == nil || *p.LastPartyName != "Red" {
		t.Error("LastPartyName should survive leaving")
	}
}

func TestMapRecordListenerKillstreak(t *testing.T) {
	listener := MapRecordListener{}
	m := matchFixture(600_000)
	p := models.ParticipantFromSimple(models.SimpleParticipant{Name: "Alice", ID: "u1"}, 0)

	listener.OnKillstreak(context.Background(), nil, m, &p, 10)
	if m.Level.Records.HighestKillstreak == nil || m.Level.Records.HighestKillstreak.Value != 10 {
		t.Fatal("killstreak record should be set")
	}

	listener.OnKillstreak(context.Background(), nil, m, &p, 5)
	if m.Level.Records.HighestKillstreak.Value != 10 {
		t.Error("lower killstreak must not overwrite the record")
	}
}

func TestMapRecordListenerProjectileNeedsParticipants(t *testing.T) {
	listener := MapRecordListener{}
	m := matchFixture(600_000)
	p := models.ParticipantFromSimple(models.SimpleParticipant{Name: "Alice", ID: "u1"}, 0)
	distance := 42
	data := &PlayerDeathData{
		Victim:   models.SimplePlayer{Name: "Bob", ID: "u2"},
		Attacker: &models.SimplePlayer{Name: "Alice", ID: "u1"},
		Distance: &distance,
		Cause:    models.CauseProjectile,
	}

	listener.OnKill(context.Background(), nil, m, &p, data, false)
	if m.Level.Records.LongestProjectileKill != nil {
		t.Error("projectile record should need six participants")
	}

	for i := 0; i < 6; i++ {
		id := string(rune('a' + i))
		m.SaveParticipants(models.Participant{ID: id, Name: id})
	}
	listener.OnKill(context.Background(), nil, m, &p, data, false)
	if m.Level.Records.LongestProjectileKill == nil || m.Level.Records.LongestProjectileKill.Distance != 42 {
		t.Error("projectile record should be set at 42")
	}
}

func endedMatchWithParticipant(length, playtime int64, party string) (*models.Match, models.Participant) {
	m := matchFixture(length)
	partyName := party
	p := models.Participant{
		Name:              "Alice",
		ID:                "u1",
		PartyName:         &partyName,
		FirstJoinedMatchAt: *m.StartedAt,
		Stats:             models.NewParticipantStats(),
	}
	p.Stats.GamePlaytime = playtime
	m.SaveParticipants(p)
	return m, p
}

func TestPlayerStatListenerMatchEndWin(t *testing.T) {
	listener := PlayerStatListener{}
	conn := &fakeConn{}
	sc := testServer(conn)
	m, _ := endedMatchWithParticipant(600_000, 120_000, "Red")
	player := models.NewPlayer("u1", "Alice", "ip", 0)
	end := &MatchEndData{WinningParties: []string{"Red"}}

	listener.OnMatchEnd(context.Background(), sc, m, &player, end)

	if player.Stats.Wins != 1 {
		t.Errorf("wins = %d, want 1", player.Stats.Wins)
	}
	if player.Stats.Matches != 1 {
		t.Errorf("matches = %d, want 1", player.Stats.Matches)
	}
	if player.Stats.MatchesPresentEnd != 1 {
		t.Errorf("matchesPresentEnd = %d, want 1", player.Stats.MatchesPresentEnd)
	}
	if player.Stats.MatchesPresentFull != 1 {
		t.Errorf("matchesPresentFull = %d, want 1", player.Stats.MatchesPresentFull)
	}
	if player.Stats.GamePlaytime != 120_000 {
		t.Errorf("gamePlaytime = %d, want 120000", player.Stats.GamePlaytime)
	}
	if len(conn.packets) != 0 {
		t.Error("no consolation message expected for a counted match")
	}
}

func TestPlayerStatListenerMatchEndLowPlaytime(t *testing.T) {
	listener := PlayerStatListener{}
	conn := &fakeConn{}
	sc := testServer(conn)
	m, _ := endedMatchWithParticipant(600_000, 1_000, "Red")
	player := models.NewPlayer("u1", "Alice", "ip", 0)
	end := &MatchEndData{WinningParties: []string{"Red"}}

	listener.OnMatchEnd(context.Background(), sc, m, &player, end)

	if player.Stats.Wins != 0 || player.Stats.Matches != 0 {
		t.Errorf("wins/matches = %d/%d, want 0/0 below threshold", player.Stats.Wins, player.Stats.Matches)
	}
	if len(conn.packets) != 1 || conn.packets[0].Event != EventMessage {
		t.Fatalf("expected one MESSAGE packet, got %v", conn.packets)
	}
}

func TestPlayerXPListenerResultXPIsRawOnly(t *testing.T) {
	listener := PlayerXPListener{}
	conn := &fakeConn{}
	sc := testServer(conn)
	m, _ := endedMatchWithParticipant(600_000, 120_000, "Red")
	player := models.NewPlayer("u1", "Alice", "ip", 0)
	end := &MatchEndData{WinningParties: []string{"Red"}}

	listener.OnMatchEnd(context.Background(), sc, m, &player, end)

	// level 1 player, but result XP bypasses the beginner assist
	if player.Stats.XP != 200 {
		t.Errorf("result XP = %d, want exactly 200", player.Stats.XP)
	}
}

func TestPlayerGamemodeStatListenerEnsuresBucket(t *testing.T) {
	listener := PlayerGamemodeStatListener{}
	m := matchFixture(600_000)
	m.Level.Gamemodes = []string{models.GamemodeArcade}
	player := models.NewPlayer("u1", "Alice", "ip", 0)
	data := &PlayerDeathData{
		Victim:   models.SimplePlayer{Name: "Bob", ID: "u2"},
		Attacker: &models.SimplePlayer{Name: "Alice", ID: "u1"},
		Cause:    models.CauseMelee,
	}

	listener.OnKill(context.Background(), nil, m, &player, data, false)

	bucket, ok := player.GamemodeStats[models.GamemodeArcade]
	if !ok || bucket.Kills != 1 {
		t.Fatalf("arcade bucket = %+v, want one kill recorded", player.GamemodeStats)
	}
}

func TestRouterForcesMatchEndOnMissingMatch(t *testing.T) {
	conn := &fakeConn{}
	router := NewRouter(testServer(conn))

	raw, _ := json.Marshal(PlayerChatData{
		Player:  models.SimplePlayer{Name: "Alice", ID: "u1"},
		Channel: ChatGlobal,
		Message: "hello",
	})
	err := router.Route(context.Background(), &Packet{Event: EventPlayerChat, Data: raw})
	if err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	if len(conn.packets) != 1 || conn.packets[0].Event != EventForceMatchEnd {
		t.Fatalf("expected exactly one FORCE_MATCH_END, got %v", conn.packets)
	}
}

func TestRouterFatalOnMalformedPayload(t *testing.T) {
	conn := &fakeConn{}
	router := NewRouter(testServer(conn))

	err := router.Route(context.Background(), &Packet{Event: EventKillstreak, Data: json.RawMessage(`{"amount":"not a number"}`)})
	if err == nil {
		t.Fatal("malformed payload should be fatal for the connection")
	}
}

func TestSafeWeapon(t *testing.T) {
	weapon := "IRON_SWORD"
	distance := 30

	melee := PlayerDeathData{Weapon: &weapon, Cause: models.CauseMelee}
	if got := melee.SafeWeapon(); got != "IRON_SWORD" {
		t.Errorf("SafeWeapon melee = %q, want IRON_SWORD", got)
	}

	ranged := PlayerDeathData{Weapon: &weapon, Distance: &distance, Cause: models.CauseProjectile}
	if got := ranged.SafeWeapon(); got != "PROJECTILE" {
		t.Errorf("SafeWeapon ranged = %q, want PROJECTILE", got)
	}

	fall := PlayerDeathData{Distance: &distance, Cause: models.CauseFall}
	if got := fall.SafeWeapon(); got != "NONE" {
		t.Errorf("SafeWeapon fall = %q, want NONE", got)
	}

	bare := PlayerDeathData{}
	if got := bare.SafeWeapon(); got != "NONE" {
		t.Errorf("SafeWeapon bare = %q, want NONE", got)
	}
}

func TestIsMurder(t *testing.T) {
	victim := models.SimplePlayer{Name: "Bob", ID: "u2"}
	if (&PlayerDeathData{Victim: victim}).IsMurder() {
		t.Error("no attacker is not a murder")
	}
	if (&PlayerDeathData{Victim: victim, Attacker: &victim}).IsMurder() {
		t.Error("self-kill is not a murder")
	}
	attacker := models.SimplePlayer{Name: "Alice", ID: "u1"}
	if !(&PlayerDeathData{Victim: victim, Attacker: &attacker}).IsMurder() {
		t.Error("distinct attacker should be a murder")
	}
}
