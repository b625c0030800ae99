package service

import (
	"strings"
	"time"

	"guild-ledger/internal/logger"
	"guild-ledger/internal/models"
	"guild-ledger/internal/storage"
)

// Notifier delivers the probation-complete batch message. Production
// wires a Discord channel here; tests use a stub.
type Notifier interface {
	NotifyProbationComplete(members []*models.MemberRecord) error
}

// Scanner periodically finds probationary members who completed their
// probation window and notifies staff about them, once per member.
// Ticks run on a single goroutine, so they never overlap.
type Scanner struct {
	store     storage.Store
	notifier  Notifier
	interval  time.Duration
	probation time.Duration
	now       func() time.Time
	done      chan struct{}
}

// NewScanner creates a stopped Scanner.
func NewScanner(store storage.Store, notifier Notifier, interval, probation time.Duration) *Scanner {
	return &Scanner{
		store:     store,
		notifier:  notifier,
		interval:  interval,
		probation: probation,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start launches the scan loop. Per-tick failures are logged and the
// loop keeps running.
func (s *Scanner) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		logger.Infof("Probation reminder scanner started with interval %v", s.interval)
		for {
			select {
			case <-ticker.C:
				if err := s.Scan(); err != nil {
					logger.Errorf("Reminder scan failed: %v", err)
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the scan loop.
func (s *Scanner) Stop() {
	close(s.done)
}

// Scan runs one tick: collect eligible members, send one batch
// notification, then persist the notified flag for each member.
// The flag is only written after the notifier succeeds, so a failed
// send is retried on the next tick rather than silently dropped.
func (s *Scanner) Scan() error {
	members, err := s.store.ActiveMembers()
	if err != nil {
		return err
	}

	now := s.now()
	var eligible []*models.MemberRecord
	for _, m := range members {
		if !s.eligible(m, now) {
			continue
		}
		eligible = append(eligible, m)
	}

	// Nothing new, no ping
	if len(eligible) == 0 {
		return nil
	}

	if err := s.notifier.NotifyProbationComplete(eligible); err != nil {
		return err
	}

	for _, m := range eligible {
		m.NotifiedOneMonth = true
		if err := s.store.PutMember(m); err != nil {
			logger.Errorf("Failed to persist reminder flag for %s: %v", m.Username, err)
		}
	}
	return nil
}

// eligible reports whether a member completed probation and has not
// been notified yet.
func (s *Scanner) eligible(m *models.MemberRecord, now time.Time) bool {
	if !strings.EqualFold(m.Rank, models.ProbationRank) {
		return false
	}
	if m.NotifiedOneMonth {
		return false
	}
	return now.Sub(m.JoinedAt) >= s.probation
}
