package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ServiceConfig holds the settings of a Service. Zero values select defaults,
// except SeedDelay where zero loads on the next timer tick.
type ServiceConfig struct {
	PageSize           int
	SeedCount          int
	SeedDelay          time.Duration
	SessionTTL         time.Duration // <= 0 keeps sessions until closed
	CleanupInterval    time.Duration
	NotificationBuffer int

	// Generate overrides the seed data source. Nil uses the random generator.
	Generate func(count int) []Record
}

// Service hosts independent list sessions, one per client.
type Service struct {
	cfg      ServiceConfig
	sessions *cache.Cache
	metrics  *Metrics

	closeOnce sync.Once
}

// Session is one client's order list with its pending notifications.
type Session struct {
	ID            string
	List          *List
	Notifications *NotificationLog
	CreatedAt     time.Time

	seed      *SeedTask
	closeOnce sync.Once
}

// NewService creates a Service. metrics may be nil.
func NewService(cfg ServiceConfig, metrics *Metrics) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.SeedCount <= 0 {
		cfg.SeedCount = DefaultSeedCount
	}
	if cfg.SeedDelay < 0 {
		cfg.SeedDelay = DefaultSeedDelay
	}
	if cfg.NotificationBuffer <= 0 {
		cfg.NotificationBuffer = DefaultNotificationBuffer
	}
	if cfg.Generate == nil {
		cfg.Generate = Generate
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 5 * time.Minute
	}

	s := &Service{
		cfg:      cfg,
		sessions: cache.New(ttl, cleanup),
		metrics:  metrics,
	}
	s.sessions.OnEvicted(func(id string, v interface{}) {
		if sess, ok := v.(*Session); ok && sess.close() {
			s.metrics.sessionClosed()
			slog.Debug("list session closed", "session_id", id)
		}
	})
	return s
}

// NewSession opens a list in the loading state and schedules its seed data.
func (s *Service) NewSession(ctx context.Context) *Session {
	id := uuid.NewString()
	notifications := NewNotificationLog(s.cfg.NotificationBuffer)
	list := NewList(ListOptions{
		PageSize: s.cfg.PageSize,
		Notifier: MultiNotifier{
			notifications,
			LogNotifier{Logger: slog.Default().With("session_id", id)},
		},
		Observer: s.metrics,
	})

	sess := &Session{
		ID:            id,
		List:          list,
		Notifications: notifications,
		CreatedAt:     time.Now(),
	}
	count := s.cfg.SeedCount
	sess.seed = ScheduleSeed(list, SeedOptions{
		Delay:    s.cfg.SeedDelay,
		Generate: func() []Record { return s.cfg.Generate(count) },
		OnDone:   s.metrics.SeedFinished,
	})

	s.sessions.SetDefault(sess.ID, sess)
	s.metrics.sessionOpened()

	slog.InfoContext(ctx, "list session opened",
		"session_id", sess.ID,
		"seed_count", count,
		"seed_delay", s.cfg.SeedDelay,
	)
	return sess
}

// Session returns the open session with the given id and extends its TTL.
func (s *Service) Session(id string) (*Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "session %q", id)
	}
	sess := v.(*Session)
	if sess.List.Closed() {
		return nil, errors.Wrapf(ErrSessionClosed, "session %q", id)
	}
	// Replace fails when CloseSession removed the item after Get.
	if err := s.sessions.Replace(id, sess, cache.DefaultExpiration); err != nil {
		return nil, errors.Wrapf(ErrSessionNotFound, "session %q", id)
	}
	return sess, nil
}

// CloseSession tears down a session and cancels its pending seed task.
func (s *Service) CloseSession(id string) error {
	if _, ok := s.sessions.Get(id); !ok {
		return errors.Wrapf(ErrSessionNotFound, "session %q", id)
	}
	s.sessions.Delete(id)
	return nil
}

// SessionCount returns the number of sessions held, including expired ones
// not yet evicted.
func (s *Service) SessionCount() int {
	return s.sessions.ItemCount()
}

// Close tears down every session.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		for id := range s.sessions.Items() {
			s.sessions.Delete(id)
		}
		s.sessions.DeleteExpired()
	})
}

// Close cancels the pending seed task and closes the list.
func (sess *Session) Close() {
	sess.close()
}

// close reports whether this call did the teardown.
func (sess *Session) close() bool {
	first := false
	sess.closeOnce.Do(func() {
		first = true
		if sess.seed != nil {
			sess.seed.Cancel()
		}
		sess.List.Close()
	})
	return first
}

// Seed returns the session's seed task.
func (sess *Session) Seed() *SeedTask {
	return sess.seed
}
