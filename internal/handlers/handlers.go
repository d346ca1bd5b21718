// Package handlers implements the REST admin surface.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/warzonemc/mars-api/internal/config"
	"github.com/warzonemc/mars-api/internal/database"
	"github.com/warzonemc/mars-api/internal/leaderboard"
	"github.com/warzonemc/mars-api/internal/models"
	"github.com/warzonemc/mars-api/internal/webhook"
)

// maxBodySize limits the size of request bodies to 1MB
const maxBodySize = 1048576

type Config struct {
	AppConfig    *config.Config
	DB           *database.Database
	Redis        *redis.Client
	Players      *database.Cache[models.Player]
	Matches      *database.Cache[models.Match]
	Leaderboards *leaderboard.Leaderboards
	Webhooks     *webhook.Client
	Logger       *zap.Logger
}

type Handler struct {
	db           *database.Database
	redis        *redis.Client
	players      *database.Cache[models.Player]
	matches      *database.Cache[models.Match]
	leaderboards *leaderboard.Leaderboards
	webhooks     *webhook.Client
	logger       *zap.SugaredLogger
	validate     *validator.Validate

	token           string
	enableIPHashing bool
	data            *config.Data
}

func New(cfg Config) *Handler {
	return &Handler{
		db:              cfg.DB,
		redis:           cfg.Redis,
		players:         cfg.Players,
		matches:         cfg.Matches,
		leaderboards:    cfg.Leaderboards,
		webhooks:        cfg.Webhooks,
		logger:          cfg.Logger.Sugar(),
		validate:        validator.New(),
		token:           cfg.AppConfig.Token,
		enableIPHashing: cfg.AppConfig.Options.EnableIPHashing,
		data:            &cfg.AppConfig.Data,
	}
}

// Routes assembles the chi router. Reads of public data stay open; every
// mutating route goes through the auth middleware.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Mars-Server-ID"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}))

	r.Get("/status", h.Status)

	r.Route("/mc", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Post("/{playerID}/prelogin", h.PreLogin)
				r.Post("/{playerID}/login", h.Login)
				r.Post("/logout", h.Logout)
				r.Post("/{playerID}/punishments", h.IssuePunishment)
				r.Get("/{playerID}/punishments", h.GetPlayerPunishments)
				r.Get("/{playerID}/lookup", h.LookupPlayer)
				r.Post("/{playerID}/notes", h.AddPlayerNote)
				r.Delete("/{playerID}/notes/{noteID}", h.DeletePlayerNote)
				r.Put("/{playerID}/active_tag", h.SetActiveTag)
				r.Put("/{playerID}/tags/{tagID}", h.AddPlayerTag)
				r.Delete("/{playerID}/tags/{tagID}", h.DeletePlayerTag)
				r.Put("/{playerID}/ranks/{rankID}", h.AddPlayerRank)
				r.Delete("/{playerID}/ranks/{rankID}", h.DeletePlayerRank)
			})
			r.Get("/{playerID}", h.PlayerProfile)
		})

		r.Route("/punishments", func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Get("/types", h.GetPunishmentTypes)
			r.Get("/{punishmentID}", h.GetPunishment)
			r.Post("/{punishmentID}/revert", h.RevertPunishment)
		})

		r.Route("/ranks", func(r chi.Router) {
			r.Get("/", h.GetRanks)
			r.Get("/{rankID}", h.GetRank)
			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Post("/", h.CreateRank)
				r.Put("/{rankID}", h.UpdateRank)
				r.Delete("/{rankID}", h.DeleteRank)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.GetTags)
			r.Get("/{tagID}", h.GetTag)
			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Post("/", h.CreateTag)
				r.Put("/{tagID}", h.UpdateTag)
				r.Delete("/{tagID}", h.DeleteTag)
			})
		})

		r.Route("/maps", func(r chi.Router) {
			r.Get("/", h.GetMaps)
			r.Get("/{mapID}", h.GetMap)
			r.With(h.AuthMiddleware).Post("/", h.AddMaps)
		})

		r.Get("/matches/{matchID}", h.GetMatch)
		r.Get("/leaderboards/{scoreType}/{period}", h.GetLeaderboard)

		r.Route("/servers", func(r chi.Router) {
			r.With(h.AuthMiddleware).Post("/{serverID}/startup", h.ServerStartup)
			r.Get("/{serverID}/status", h.ServerStatus)
			r.Get("/{serverID}/events", h.ServerEvents)
		})

		r.Get("/broadcasts", h.GetBroadcasts)
		r.Get("/levels/colors", h.GetLevelColors)

		r.Route("/perks", func(r chi.Router) {
			r.Get("/join_sounds", h.GetJoinSounds)
			r.With(h.AuthMiddleware).Post("/join_sounds/{playerID}/sound", h.SetJoinSound)
		})

		r.With(h.AuthMiddleware).Post("/reports", h.CreateReport)
	})

	return r
}

// Status is the liveness endpoint.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "OK"})
}
