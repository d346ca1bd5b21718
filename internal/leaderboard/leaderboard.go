// Package leaderboard implements the sorted-set score maps keyed by
// (metric x period) on top of redis.
package leaderboard

import (
	"context"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/models"
)

// MaxFetchLimit caps every top-N read.
const MaxFetchLimit = 50

// Entry is one parsed leaderboard row.
type Entry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Leaderboard is one metric's family of sorted sets, one per period bucket.
// Members are "{id}/{name}" strings with integer scores.
type Leaderboard struct {
	ScoreType ScoreType
	rdb       *redis.Client
	players   *mongo.Collection
}

func (l *Leaderboard) key(period Period) string {
	return "lb:" + string(l.ScoreType) + ":" + period.TodayID()
}

// Increment adds delta to the member's score in every period bucket. This is
// the hot path of the stat pipeline; each ZINCRBY is atomic per key.
func (l *Leaderboard) Increment(ctx context.Context, member string, delta int64) {
	for _, period := range Periods {
		l.rdb.ZIncrBy(ctx, l.key(period), float64(delta), member)
	}
}

// SetIfHigher overwrites the member's score in each period where the new
// value beats the stored one. The read-compare-write is not atomic; callers
// are monotone so a lost race never lowers a score.
func (l *Leaderboard) SetIfHigher(ctx context.Context, member string, value int64) {
	for _, period := range Periods {
		key := l.key(period)
		current, err := l.rdb.ZScore(ctx, key, member).Result()
		if err == nil && int64(current) >= value {
			continue
		}
		l.rdb.ZAdd(ctx, key, redis.Z{Score: float64(value), Member: member})
	}
}

// FetchTop returns up to min(limit, MaxFetchLimit) members by descending
// score. Ordering within equal scores follows redis lexical ordering.
func (l *Leaderboard) FetchTop(ctx context.Context, period Period, limit int) []Entry {
	if limit > MaxFetchLimit {
		limit = MaxFetchLimit
	}
	if limit <= 0 {
		return []Entry{}
	}
	raw, err := l.rdb.ZRevRangeWithScores(ctx, l.key(period), 0, int64(limit-1)).Result()
	if err != nil {
		return []Entry{}
	}
	entries := make([]Entry, 0, len(raw))
	for _, z := range raw {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, name, ok := splitMember(member)
		if !ok {
			continue
		}
		entries = append(entries, Entry{ID: id, Name: name, Score: int64(z.Score)})
	}
	return entries
}

// Position returns the member's zero-based reverse rank in the period.
func (l *Leaderboard) Position(ctx context.Context, member string, period Period) (int64, bool) {
	rank, err := l.rdb.ZRevRank(ctx, l.key(period), member).Result()
	if err != nil {
		return 0, false
	}
	return rank, true
}

// PopulateAllTime rebuilds the all-time sorted set from the durable player
// collection, ordered by the metric's derived score.
func (l *Leaderboard) PopulateAllTime(ctx context.Context) {
	players := database.All[models.Player](ctx, l.players)
	sort.Slice(players, func(i, j int) bool {
		return Score(&players[i].Stats, l.ScoreType) > Score(&players[j].Stats, l.ScoreType)
	})
	members := make([]redis.Z, 0, len(players))
	for i := range players {
		members = append(members, redis.Z{
			Score:  float64(Score(&players[i].Stats, l.ScoreType)),
			Member: players[i].IDName(),
		})
	}
	if len(members) > 0 {
		l.rdb.ZAdd(ctx, l.key(AllTime), members...)
	}
}

func splitMember(member string) (id, name string, ok bool) {
	id, name, ok = strings.Cut(member, "/")
	if !ok || id == "" {
		return "", "", false
	}
	return id, name, true
}

// Leaderboards bundles one Leaderboard per metric.
type Leaderboards struct {
	Kills                    *Leaderboard
	Deaths                   *Leaderboard
	FirstBloods              *Leaderboard
	Wins                     *Leaderboard
	Losses                   *Leaderboard
	Ties                     *Leaderboard
	XP                       *Leaderboard
	MessagesSent             *Leaderboard
	MatchesPlayed            *Leaderboard
	ServerPlaytime           *Leaderboard
	GamePlaytime             *Leaderboard
	CoreLeaks                *Leaderboard
	CoreBlockDestroys        *Leaderboard
	DestroyableDestroys      *Leaderboard
	DestroyableBlockDestroys *Leaderboard
	FlagCaptures             *Leaderboard
	FlagDrops                *Leaderboard
	FlagPickups              *Leaderboard
	FlagDefends              *Leaderboard
	FlagHoldTime             *Leaderboard
	WoolCaptures             *Leaderboard
	WoolDrops                *Leaderboard
	WoolPickups              *Leaderboard
	WoolDefends              *Leaderboard
	ControlPointCaptures     *Leaderboard
	HighestKillstreak        *Leaderboard
}

func New(rdb *redis.Client, players *mongo.Collection) *Leaderboards {
	build := func(st ScoreType) *Leaderboard {
		return &Leaderboard{ScoreType: st, rdb: rdb, players: players}
	}
	return &Leaderboards{
		Kills:                    build(Kills),
		Deaths:                   build(Deaths),
		FirstBloods:              build(FirstBloods),
		Wins:                     build(Wins),
		Losses:                   build(Losses),
		Ties:                     build(Ties),
		XP:                       build(XP),
		MessagesSent:             build(MessagesSent),
		MatchesPlayed:            build(MatchesPlayed),
		ServerPlaytime:           build(ServerPlaytime),
		GamePlaytime:             build(GamePlaytime),
		CoreLeaks:                build(CoreLeaks),
		CoreBlockDestroys:        build(CoreBlockDestroys),
		DestroyableDestroys:      build(DestroyableDestroys),
		DestroyableBlockDestroys: build(DestroyableBlockDestroys),
		FlagCaptures:             build(FlagCaptures),
		FlagDrops:                build(FlagDrops),
		FlagPickups:              build(FlagPickups),
		FlagDefends:              build(FlagDefends),
		FlagHoldTime:             build(FlagHoldTime),
		WoolCaptures:             build(WoolCaptures),
		WoolDrops:                build(WoolDrops),
		WoolPickups:              build(WoolPickups),
		WoolDefends:              build(WoolDefends),
		ControlPointCaptures:     build(ControlPointCaptures),
		HighestKillstreak:        build(HighestKillstreak),
	}
}

// ByScoreType resolves the leaderboard for a metric.
func (l *Leaderboards) ByScoreType(st ScoreType) *Leaderboard {
	switch st {
	case Kills:
		return l.Kills
	case Deaths:
		return l.Deaths
	case FirstBloods:
		return l.FirstBloods
	case Wins:
		return l.Wins
	case Losses:
		return l.Losses
	case Ties:
		return l.Ties
	case XP:
		return l.XP
	case MessagesSent:
		return l.MessagesSent
	case MatchesPlayed:
		return l.MatchesPlayed
	case ServerPlaytime:
		return l.ServerPlaytime
	case GamePlaytime:
		return l.GamePlaytime
	case CoreLeaks:
		return l.CoreLeaks
	case CoreBlockDestroys:
		return l.CoreBlockDestroys
	case DestroyableDestroys:
		return l.DestroyableDestroys
	case DestroyableBlockDestroys:
		return l.DestroyableBlockDestroys
	case FlagCaptures:
		return l.FlagCaptures
	case FlagDrops:
		return l.FlagDrops
	case FlagPickups:
		return l.FlagPickups
	case FlagDefends:
		return l.FlagDefends
	case FlagHoldTime:
		return l.FlagHoldTime
	case WoolCaptures:
		return l.WoolCaptures
	case WoolDrops:
		return l.WoolDrops
	case WoolPickups:
		return l.WoolPickups
	case WoolDefends:
		return l.WoolDefends
	case ControlPointCaptures:
		return l.ControlPointCaptures
	case HighestKillstreak:
		return l.HighestKillstreak
	}
	return nil
}

// PopulateAllTime rebuilds every metric's all-time set.
func (l *Leaderboards) PopulateAllTime(ctx context.Context) {
	for _, lb := range l.all() {
		lb.PopulateAllTime(ctx)
	}
}

func (l *Leaderboards) all() []*Leaderboard {
	return []*Leaderboard{
		l.Kills, l.Deaths, l.FirstBloods, l.Wins, l.Losses, l.Ties, l.XP,
		l.MessagesSent, l.MatchesPlayed, l.ServerPlaytime, l.GamePlaytime,
		l.CoreLeaks, l.CoreBlockDestroys, l.DestroyableDestroys,
		l.DestroyableBlockDestroys, l.FlagCaptures, l.FlagDrops,
		l.FlagPickups, l.FlagDefends, l.FlagHoldTime, l.WoolCaptures,
		l.WoolDrops, l.WoolPickups, l.WoolDefends, l.ControlPointCaptures,
		l.HighestKillstreak,
	}
}
