package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"guild-ledger/internal/models"
	"guild-ledger/internal/storage"
)

// ErrValidation marks a rejected event payload. Nothing is written
// when validation fails.
var ErrValidation = errors.New("invalid event payload")

// EventPayload carries the fields of one incoming lifecycle event.
// Timestamps are RFC 3339 strings as received from the command layer;
// blank or unparseable values fall back to the current time.
type EventPayload struct {
	Name      string
	Username  string
	By        string
	Rank      string
	From      string
	To        string
	Extra     string
	Timestamp string
	JoinedAt  string
	Warnings  *int
}

// requiredFields lists the payload fields each event type must carry.
var requiredFields = map[string][]string{
	models.EventJoin:      {"username", "by"},
	models.EventKick:      {"username", "by"},
	models.EventLeft:      {"username", "by"},
	models.EventPromote:   {"username", "by", "to"},
	models.EventDemote:    {"username", "by", "to"},
	models.EventWarn:      {"username", "by", "extra"},
	models.EventBlacklist: {"username", "by", "extra"},
}

func (p EventPayload) field(name string) string {
	switch name {
	case "username":
		return p.Username
	case "by":
		return p.By
	case "to":
		return p.To
	case "extra":
		return p.Extra
	default:
		return ""
	}
}

// Processor applies lifecycle events: it validates the payload,
// derives the enriched log event, appends it to the event log and
// applies the member-state transition, all inside one store
// transaction with the log append first.
type Processor struct {
	store storage.Store
	now   func() time.Time
}

// NewProcessor creates a Processor over the given store.
func NewProcessor(store storage.Store) *Processor {
	return &Processor{store: store, now: time.Now}
}

// Process handles one event and returns the appended log entry.
func (p *Processor) Process(eventType string, payload EventPayload) (*models.LogEvent, error) {
	etype, err := models.ParseEventType(eventType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	for _, field := range requiredFields[etype] {
		if strings.TrimSpace(payload.field(field)) == "" {
			return nil, fmt.Errorf("%w: %s event missing field %q", ErrValidation, etype, field)
		}
	}

	now := p.now().UTC()
	event := &models.LogEvent{
		Type:      etype,
		Name:      payload.Name,
		Username:  payload.Username,
		By:        payload.By,
		Timestamp: parseTime(payload.Timestamp, now),
	}

	if payload.Rank != "" {
		event.Rank = payload.Rank
	}
	if payload.JoinedAt != "" {
		joined := parseTime(payload.JoinedAt, now)
		event.JoinedAt = &joined
	} else if etype == models.EventJoin || etype == models.EventLeft {
		event.JoinedAt = &event.Timestamp
	}
	if payload.Warnings != nil {
		event.Warnings = payload.Warnings
	} else if etype == models.EventJoin {
		zero := 0
		event.Warnings = &zero
	}
	if payload.Extra != "" {
		event.Extra = payload.Extra
	}

	err = p.store.WithinTx(func(tx storage.Store) error {
		// Resolve the rank transition before the append so the log
		// entry carries the member's pre-transition rank.
		if etype == models.EventPromote || etype == models.EventDemote {
			from := strings.TrimSpace(payload.From)
			if from == "" {
				member, err := tx.Member(payload.Username)
				if err != nil {
					return err
				}
				if member != nil {
					from = member.Rank
				} else {
					from = models.DefaultRank
				}
			}
			event.FromRank = from
			event.ToRank = payload.To
		}

		// Log first, then state
		if err := tx.AppendLog(event); err != nil {
			return err
		}
		return p.applyTransition(tx, etype, payload, event, now)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// applyTransition mutates the member table for the event types that
// carry a state change. WARN and BLACKLIST are log-only.
func (p *Processor) applyTransition(tx storage.Store, etype string, payload EventPayload, event *models.LogEvent, now time.Time) error {
	switch etype {
	case models.EventJoin:
		existing, err := tx.Member(payload.Username)
		if err != nil {
			return err
		}
		// Repeated joins keep the existing record untouched; only
		// the log entry records the repeat.
		if existing != nil {
			return nil
		}
		rank := strings.TrimSpace(payload.Rank)
		if rank == "" {
			rank = models.DefaultRank
		}
		return tx.PutMember(&models.MemberRecord{
			Username: payload.Username,
			Name:     payload.Name,
			Rank:     rank,
			Status:   models.StatusActive,
			Warnings: 0,
			JoinedAt: event.Timestamp,
		})

	case models.EventKick, models.EventLeft:
		return tx.DeleteMember(payload.Username)

	case models.EventPromote, models.EventDemote:
		if payload.Username == "" || payload.To == "" {
			return nil
		}
		existing, err := tx.Member(payload.Username)
		if err != nil {
			return err
		}
		if existing == nil {
			return tx.PutMember(&models.MemberRecord{
				Username: payload.Username,
				Name:     payload.Name,
				Rank:     payload.To,
				Status:   models.StatusActive,
				Warnings: 0,
				JoinedAt: now,
			})
		}
		existing.Rank = payload.To
		return tx.PutMember(existing)
	}
	return nil
}

// parseTime parses an RFC 3339 timestamp, falling back when blank or
// malformed.
func parseTime(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return t.UTC()
}
