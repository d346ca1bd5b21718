package models

// Gamemode identifiers as sent by the maps endpoint and match load payloads.
const (
	GamemodeAttackDefend      = "ATTACK_DEFEND"
	GamemodeArcade            = "ARCADE"
	GamemodeBlitz             = "BLITZ"
	GamemodeBlitzRage         = "BLITZ_RAGE"
	GamemodeCaptureTheFlag    = "CAPTURE_THE_FLAG"
	GamemodeControlThePoint   = "CONTROL_THE_POINT"
	GamemodeCaptureTheWool    = "CAPTURE_THE_WOOL"
	GamemodeDestroyTheCore    = "DESTROY_THE_CORE"
	GamemodeDestroyTheMonument = "DESTROY_THE_MONUMENT"
	GamemodeFreeForAll        = "FREE_FOR_ALL"
	GamemodeFlagFootball      = "FLAG_FOOTBALL"
	GamemodeKingOfTheHill     = "KING_OF_THE_HILL"
	GamemodeKingOfTheFlag     = "KING_OF_THE_FLAG"
	GamemodeMixed             = "MIXED"
	GamemodeRage              = "RAGE"
	GamemodeRaceForWool       = "RACE_FOR_WOOL"
	GamemodeScorebox          = "SCOREBOX"
	GamemodeDeathmatch        = "DEATHMATCH"
)

// Level is a map document. A snapshot of it (including the load payload's
// goals) is embedded in every match loaded on it; the durable row accumulates
// the map-wide records.
type Level struct {
	ID           string             `json:"_id" bson:"_id"`
	LoadedAt     int64              `json:"loadedAt" bson:"loadedAt"`
	Name         string             `json:"name" bson:"name"`
	NameLower    string             `json:"nameLower" bson:"nameLower"`
	Version      string             `json:"version" bson:"version"`
	Gamemodes    []string           `json:"gamemodes" bson:"gamemodes"`
	UpdatedAt    int64              `json:"updatedAt" bson:"updatedAt"`
	Authors      []LevelContributor `json:"authors" bson:"authors"`
	Contributors []LevelContributor `json:"contributors" bson:"contributors"`
	Goals        *GoalCollection    `json:"goals" bson:"goals"`
	LastMatchID  *string            `json:"lastMatchId" bson:"lastMatchId"`
	Records      LevelRecords       `json:"records" bson:"records"`
}

type LevelContributor struct {
	UUID         string  `json:"uuid" bson:"uuid"`
	Contribution *string `json:"contribution" bson:"contribution"`
}

// LevelRecords are the map-wide bests, mirrored per-player in PlayerRecords.
type LevelRecords struct {
	HighestKillstreak     *CountRecord      `json:"highestKillstreak" bson:"highestKillstreak"`
	LongestProjectileKill *ProjectileRecord `json:"longestProjectileKill" bson:"longestProjectileKill"`
	FastestWoolCapture    *DurationRecord   `json:"fastestWoolCapture" bson:"fastestWoolCapture"`
	FastestFlagCapture    *DurationRecord   `json:"fastestFlagCapture" bson:"fastestFlagCapture"`
	FastestFirstBlood     *FirstBloodRecord `json:"fastestFirstBlood" bson:"fastestFirstBlood"`
	KillsInMatch          *CountRecord      `json:"killsInMatch" bson:"killsInMatch"`
	DeathsInMatch         *CountRecord      `json:"deathsInMatch" bson:"deathsInMatch"`
}

// LevelColor maps a player level threshold to a chat color.
type LevelColor struct {
	Level int    `json:"level" bson:"level" yaml:"level"`
	Color string `json:"color" bson:"color" yaml:"color"`
}
