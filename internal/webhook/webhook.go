// Package webhook delivers Discord embed notifications. Delivery is
// fire-and-forget: failures are logged and swallowed, never surfaced to the
// request that triggered them.
package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/warzonemc/mars-api/internal/models"
)

const requestTimeout = 10 * time.Second

type embedColor int

const (
	colorPunishment embedColor = 0xD32F2F
	colorReport     embedColor = 0xFFA000
	colorNote       embedColor = 0x1976D2
)

type payload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       embedColor   `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Client posts templated embeds to the configured webhook URLs.
type Client struct {
	http   *http.Client
	logger *zap.SugaredLogger

	punishmentsURL string
	reportsURL     string
	notesURL       string
}

func NewClient(punishmentsURL, reportsURL, notesURL string, logger *zap.SugaredLogger) *Client {
	return &Client{
		http:           &http.Client{Timeout: requestTimeout},
		logger:         logger,
		punishmentsURL: punishmentsURL,
		reportsURL:     reportsURL,
		notesURL:       notesURL,
	}
}

// SendPunishment announces a new punishment.
func (c *Client) SendPunishment(pun *models.Punishment) {
	punisher := "Console"
	if pun.Punisher != nil {
		punisher = pun.Punisher.Name
	}
	fields := []embedField{
		{Name: "Player", Value: pun.Target.Name, Inline: true},
		{Name: "Staff", Value: punisher, Inline: true},
		{Name: "Type", Value: string(pun.Action.Kind), Inline: true},
		{Name: "Reason", Value: pun.Reason.Name, Inline: true},
		{Name: "Offence", Value: fmt.Sprintf("#%d", pun.Offence), Inline: true},
	}
	if pun.Action.Length != models.PermanentLength {
		fields = append(fields, embedField{
			Name:   "Duration",
			Value:  (time.Duration(pun.Action.Length) * time.Millisecond).String(),
			Inline: true,
		})
	} else {
		fields = append(fields, embedField{Name: "Duration", Value: "Permanent", Inline: true})
	}
	c.post(c.punishmentsURL, embed{
		Title:  "Punishment issued",
		Color:  colorPunishment,
		Fields: fields,
	})
}

// SendReport announces an in-game player report.
func (c *Client) SendReport(serverID string, reporter, target models.SimplePlayer, reason string, onlineStaff []string) {
	staff := "None"
	if len(onlineStaff) > 0 {
		staff = strings.Join(onlineStaff, ", ")
	}
	c.post(c.reportsURL, embed{
		Title: "Player reported",
		Color: colorReport,
		Fields: []embedField{
			{Name: "Player", Value: target.Name, Inline: true},
			{Name: "Reporter", Value: reporter.Name, Inline: true},
			{Name: "Server", Value: serverID, Inline: true},
			{Name: "Reason", Value: reason, Inline: false},
			{Name: "Online staff", Value: staff, Inline: false},
		},
	})
}

// SendNewNote announces a staff note added to a profile.
func (c *Client) SendNewNote(player models.SimplePlayer, note *models.StaffNote) {
	c.post(c.notesURL, embed{
		Title:       fmt.Sprintf("Note added to %s", player.Name),
		Description: note.Content,
		Color:       colorNote,
		Fields: []embedField{
			{Name: "Author", Value: note.Author.Name, Inline: true},
			{Name: "Note ID", Value: fmt.Sprintf("%d", note.ID), Inline: true},
		},
	})
}

// SendDeletedNote announces a staff note removal.
func (c *Client) SendDeletedNote(player models.SimplePlayer, note *models.StaffNote) {
	c.post(c.notesURL, embed{
		Title:       fmt.Sprintf("Note deleted from %s", player.Name),
		Description: note.Content,
		Color:       colorNote,
		Fields: []embedField{
			{Name: "Author", Value: note.Author.Name, Inline: true},
			{Name: "Note ID", Value: fmt.Sprintf("%d", note.ID), Inline: true},
		},
	})
}

func (c *Client) post(url string, e embed) {
	if url == "" {
		return
	}
	e.Timestamp = time.Now().UTC().Format(time.RFC3339)

	go func() {
		body, err := json.Marshal(payload{Embeds: []embed{e}})
		if err != nil {
			c.logger.Warnw("Failed to encode webhook payload", "error", err)
			return
		}
		resp, err := c.http.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			c.logger.Warnw("Webhook delivery failed", "error", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			c.logger.Warnw("Webhook delivery rejected", "status", resp.StatusCode)
		}
	}()
}
