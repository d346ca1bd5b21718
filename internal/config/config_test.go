package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func setupDataFiles(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("MARS_LEVEL_COLORS_PATH", writeFile(t, dir, "level_colors.yml", "- level: 10\n  color: aqua\n"))
	t.Setenv("MARS_JOIN_SOUNDS_PATH", writeFile(t, dir, "join_sounds.yml", "- id: horn\n  name: Horn\n  description: [loud]\n  sound: horn.sound\n  permission: mars.horn\n  guiIcon: HORN\n  guiSlot: 3\n  volume: 1.0\n  pitch: 1.0\n"))
	t.Setenv("MARS_BROADCASTS_PATH", writeFile(t, dir, "broadcasts.yml", "- name: welcome\n  message: hi\n  newline: true\n"))
	t.Setenv("MARS_PUNTYPES_PATH", writeFile(t, dir, "punishment_types.yml", "- name: Cheating\n  short: cheat\n  message: no cheating\n  material: BARRIER\n  position: 1\n  actions:\n    - kind: BAN\n      length: -1\n"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	properties := writeFile(t, dir, "config.properties", `
listen-port = 3000
listen-host = 0.0.0.0
mongo-url = mongodb://localhost:27017
redis-host = localhost:6379
enable-ip-hashing = true
webhooks.punishments = https://discord.test/pun
webhooks.reports = https://discord.test/rep
`)
	t.Setenv("MARS_API_TOKEN", "secret")
	t.Setenv("MARS_CONFIG_PATH", properties)
	t.Setenv("MARS_HTTP_PORT", "9000")
	setupDataFiles(t, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Token != "secret" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.HTTPPort != 9000 || cfg.WSPort != 7000 {
		t.Errorf("ports = %d/%d, want 9000/7000", cfg.HTTPPort, cfg.WSPort)
	}
	if cfg.Options.MongoURL != "mongodb://localhost:27017" {
		t.Errorf("MongoURL = %q", cfg.Options.MongoURL)
	}
	if cfg.Options.RedisHost != "localhost:6379" {
		t.Errorf("RedisHost = %q", cfg.Options.RedisHost)
	}
	if !cfg.Options.EnableIPHashing {
		t.Error("EnableIPHashing should be true")
	}
	if cfg.Options.PunishmentsWebhookURL != "https://discord.test/pun" {
		t.Errorf("PunishmentsWebhookURL = %q", cfg.Options.PunishmentsWebhookURL)
	}

	if len(cfg.Data.LevelColors) != 1 || cfg.Data.LevelColors[0].Color != "aqua" {
		t.Errorf("LevelColors = %+v", cfg.Data.LevelColors)
	}
	if len(cfg.Data.JoinSounds) != 1 || cfg.Data.JoinSounds[0].GuiSlot != 3 {
		t.Errorf("JoinSounds = %+v", cfg.Data.JoinSounds)
	}
	if len(cfg.Data.PunishmentTypes) != 1 || cfg.Data.PunishmentTypes[0].Actions[0].Length != -1 {
		t.Errorf("PunishmentTypes = %+v", cfg.Data.PunishmentTypes)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("MARS_API_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load without MARS_API_TOKEN should fail")
	}
}

func TestLoadRequiresRedisHost(t *testing.T) {
	dir := t.TempDir()
	properties := writeFile(t, dir, "config.properties", "mongo-url = mongodb://localhost:27017\n")
	t.Setenv("MARS_API_TOKEN", "secret")
	t.Setenv("MARS_CONFIG_PATH", properties)
	setupDataFiles(t, dir)

	if _, err := Load(); err == nil {
		t.Fatal("Load without redis-host should fail")
	}
}
