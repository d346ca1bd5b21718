// Package database owns the MongoDB connection and the typed Redis
// read-through caches layered on top of it.
package database

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/warzonemc/mars-api/internal/models"
)

const dbName = "mars-api"

const (
	minPoolSize      = 2
	maxPoolSize      = 8
	connectTimeout   = 5 * time.Second
	selectionTimeout = 5 * time.Second
)

// Database wraps the mongo handle and the typed collections.
type Database struct {
	client *mongo.Client
	Mongo  *mongo.Database

	Players     *mongo.Collection
	Sessions    *mongo.Collection
	Punishments *mongo.Collection
	Ranks       *mongo.Collection
	Tags        *mongo.Collection
	Matches     *mongo.Collection
	Levels      *mongo.Collection
	Deaths      *mongo.Collection
}

// Connect dials mongo and pings it; failure here is fatal to startup.
func Connect(ctx context.Context, url string, logger *zap.Logger) (*Database, error) {
	opts := options.Client().
		ApplyURI(url).
		SetMinPoolSize(minPoolSize).
		SetMaxPoolSize(maxPoolSize).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(selectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	db := client.Database(dbName)
	if err := db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	sugar := logger.Sugar()
	sugar.Info("Connected to database successfully")

	return &Database{
		client:      client,
		Mongo:       db,
		Players:     db.Collection("players"),
		Sessions:    db.Collection("session"),
		Punishments: db.Collection("punishment"),
		Ranks:       db.Collection("ranks"),
		Tags:        db.Collection("tag"),
		Matches:     db.Collection("match"),
		Levels:      db.Collection("levels"),
		Deaths:      db.Collection("deaths"),
	}, nil
}

func (d *Database) Disconnect(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Save upserts a document under its _id.
func (d *Database) Save(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	opts := options.Update().SetUpsert(true)
	_, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc}, opts)
	return err
}

func (d *Database) InsertOne(ctx context.Context, coll *mongo.Collection, doc any) error {
	_, err := coll.InsertOne(ctx, doc)
	return err
}

// FindByID decodes the document with the given _id into out. Returns false
// when no document matches.
func FindByID[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, bool) {
	var out T
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if err != nil {
		return nil, false
	}
	return &out, true
}

// FindByIDOrName resolves a document by _id or by its lowercased name.
func FindByIDOrName[T any](ctx context.Context, coll *mongo.Collection, key string) (*T, bool) {
	var out T
	err := coll.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": key},
		bson.M{"nameLower": strings.ToLower(key)},
	}}).Decode(&out)
	if err != nil {
		return nil, false
	}
	return &out, true
}

func FindByName[T any](ctx context.Context, coll *mongo.Collection, name string) (*T, bool) {
	var out T
	err := coll.FindOne(ctx, bson.M{"nameLower": strings.ToLower(name)}).Decode(&out)
	if err != nil {
		return nil, false
	}
	return &out, true
}

// FindAll drains a filter query into a slice; errors collapse to an empty
// slice the same way the admin surface treats missing data.
func FindAll[T any](ctx context.Context, coll *mongo.Collection, filter any) []T {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil
	}
	return out
}

func All[T any](ctx context.Context, coll *mongo.Collection) []T {
	return FindAll[T](ctx, coll, bson.M{})
}

// DeleteByID removes the document and reports how many were deleted.
func (d *Database) DeleteByID(ctx context.Context, coll *mongo.Collection, id string) int64 {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0
	}
	return res.DeletedCount
}

// EnsurePlayerNameUniqueness renames any other player row squatting on the
// given name so that nameLower stays unique. The displaced row gets a
// throwaway placeholder name.
func (d *Database) EnsurePlayerNameUniqueness(ctx context.Context, name, keepID string) error {
	tempName := fmt.Sprintf(">WZPlayer%d", rand.Intn(1001))
	_, err := d.Players.UpdateMany(ctx, bson.M{
		"nameLower": strings.ToLower(name),
		"_id":       bson.M{"$ne": keepID},
	}, bson.M{
		"$set": bson.M{"name": tempName, "nameLower": tempName},
	})
	return err
}

func (d *Database) PlayerPunishments(ctx context.Context, player *models.Player) []models.Punishment {
	puns := FindAll[models.Punishment](ctx, d.Punishments, bson.M{"target.id": player.ID})
	if puns == nil {
		return []models.Punishment{}
	}
	return puns
}

// ActivePlayerPunishments filters for punishments still in force, oldest
// first.
func (d *Database) ActivePlayerPunishments(ctx context.Context, player *models.Player, now int64) []models.Punishment {
	all := d.PlayerPunishments(ctx, player)
	active := make([]models.Punishment, 0, len(all))
	for _, pun := range all {
		if pun.IsActive(now) {
			active = append(active, pun)
		}
	}
	for i := 1; i < len(active); i++ {
		for j := i; j > 0 && active[j].IssuedAt < active[j-1].IssuedAt; j-- {
			active[j], active[j-1] = active[j-1], active[j]
		}
	}
	return active
}

// IPBans returns punishments whose target ip set includes ip and whose kind
// is an ip ban.
func (d *Database) IPBans(ctx context.Context, ip string) []models.Punishment {
	return FindAll[models.Punishment](ctx, d.Punishments, bson.M{
		"targetIps":   ip,
		"action.kind": models.PunishmentIPBan,
	})
}

func (d *Database) FindSessionForPlayer(ctx context.Context, player *models.Player, sessionID string) (*models.Session, bool) {
	var session models.Session
	err := d.Sessions.FindOne(ctx, bson.M{"_id": sessionID, "player.id": player.ID}).Decode(&session)
	if err != nil {
		return nil, false
	}
	return &session, true
}

// HangingSessions are sessions on a server that were never closed.
func (d *Database) HangingSessions(ctx context.Context, serverID string) []models.Session {
	return FindAll[models.Session](ctx, d.Sessions, bson.M{"serverId": serverID, "endedAt": nil})
}

// AltsForPlayer finds other accounts sharing any of the player's ips.
func (d *Database) AltsForPlayer(ctx context.Context, player *models.Player) []models.Player {
	return FindAll[models.Player](ctx, d.Players, bson.M{
		"ips": bson.M{"$in": player.IPs},
		"_id": bson.M{"$ne": player.ID},
	})
}

// DefaultRanks are the ranks granted to every player on login.
func (d *Database) DefaultRanks(ctx context.Context) []models.Rank {
	return FindAll[models.Rank](ctx, d.Ranks, bson.M{"applyOnJoin": true})
}
