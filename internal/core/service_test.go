package core

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T, cfg ServiceConfig) (*Service, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	if cfg.Generate == nil {
		cfg.Generate = func(n int) []Record { return testGenerator(9).Generate(n) }
	}
	svc := NewService(cfg, metrics)
	t.Cleanup(svc.Close)
	return svc, reg
}

// gatheredValue returns the value of the named metric whose labels include
// the given pair, or -1 if absent.
func gatheredValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			match := label == ""
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					match = true
				}
			}
			if !match {
				continue
			}
			if g := m.GetGauge(); g != nil {
				return g.GetValue()
			}
			return m.GetCounter().GetValue()
		}
	}
	return -1
}

func TestServiceSessionLifecycle(t *testing.T) {
	svc, reg := testService(t, ServiceConfig{SeedCount: 30, SeedDelay: 50 * time.Millisecond})

	sess := svc.NewSession(context.Background())
	require.NotEmpty(t, sess.ID)
	assert.True(t, sess.List.Loading())
	assert.Equal(t, 1, svc.SessionCount())
	assert.Equal(t, 1.0, gatheredValue(t, reg, "orderlist_sessions_active", "", ""))

	waitDone(t, sess.Seed())
	assert.Equal(t, SeedApplied, sess.Seed().Outcome())

	got, err := svc.Session(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	v := got.List.Snapshot()
	assert.False(t, v.Loading)
	assert.Equal(t, 30, v.DatasetSize)
	assert.Equal(t, 3, v.TotalPages)

	require.NoError(t, svc.CloseSession(sess.ID))
	assert.True(t, sess.List.Closed())
	assert.Equal(t, 0, svc.SessionCount())
	assert.Equal(t, 0.0, gatheredValue(t, reg, "orderlist_sessions_active", "", ""))

	_, err = svc.Session(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.CloseSession(sess.ID), ErrSessionNotFound)
}

func TestServiceCloseCancelsPendingSeed(t *testing.T) {
	svc, reg := testService(t, ServiceConfig{SeedDelay: time.Hour})

	sess := svc.NewSession(context.Background())
	require.NoError(t, svc.CloseSession(sess.ID))

	waitDone(t, sess.Seed())
	assert.Equal(t, SeedCancelled, sess.Seed().Outcome())
	assert.True(t, sess.List.Loading())
	assert.Empty(t, sess.List.Dataset())
	assert.Equal(t, 1.0, gatheredValue(t, reg, "orderlist_seed_tasks_total", "outcome", string(SeedCancelled)))
}

func TestServiceSessionsAreIndependent(t *testing.T) {
	svc, _ := testService(t, ServiceConfig{SeedDelay: time.Millisecond})

	a := svc.NewSession(context.Background())
	b := svc.NewSession(context.Background())
	waitDone(t, a.Seed())
	waitDone(t, b.Seed())

	a.List.SetSearch("no such order")
	_, err := b.List.Submit(validForm())
	require.NoError(t, err)

	assert.Equal(t, 0, a.List.Snapshot().TotalRecords)
	assert.Equal(t, DefaultSeedCount+1, b.List.Snapshot().DatasetSize)
	assert.Empty(t, a.Notifications.Drain())
	assert.Equal(t, []string{SubmitSuccessMessage}, notificationMessages(b.Notifications.Drain()))
}

func TestServiceSessionExpires(t *testing.T) {
	svc, _ := testService(t, ServiceConfig{
		SeedDelay:       time.Millisecond,
		SessionTTL:      20 * time.Millisecond,
		CleanupInterval: 10 * time.Millisecond,
	})

	sess := svc.NewSession(context.Background())
	require.Eventually(t, sess.List.Closed, 2*time.Second, 10*time.Millisecond)

	_, err := svc.Session(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceClose(t *testing.T) {
	svc, _ := testService(t, ServiceConfig{SeedDelay: time.Hour})
	a := svc.NewSession(context.Background())
	b := svc.NewSession(context.Background())

	svc.Close()

	assert.True(t, a.List.Closed())
	assert.True(t, b.List.Closed())
	assert.Equal(t, 0, svc.SessionCount())
}

func TestServiceEvictionCountsSessionOnce(t *testing.T) {
	svc, reg := testService(t, ServiceConfig{SeedDelay: time.Hour})
	sess := svc.NewSession(context.Background())
	require.NoError(t, svc.CloseSession(sess.ID))

	// A stale copy of a closed session evicted again must not count twice.
	svc.sessions.Set(sess.ID, sess, cache.DefaultExpiration)
	svc.sessions.Delete(sess.ID)

	assert.Equal(t, 0.0, gatheredValue(t, reg, "orderlist_sessions_active", "", ""))
}

func TestServiceLookupRacingClose(t *testing.T) {
	svc, reg := testService(t, ServiceConfig{SeedDelay: time.Hour})

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		sess := svc.NewSession(context.Background())
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Session(sess.ID)
		}()
		go func() {
			defer wg.Done()
			_ = svc.CloseSession(sess.ID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, svc.SessionCount())
	assert.Equal(t, 0.0, gatheredValue(t, reg, "orderlist_sessions_active", "", ""))
}

func TestServiceLogsNotifications(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	svc, _ := testService(t, ServiceConfig{SeedDelay: time.Millisecond})
	sess := svc.NewSession(context.Background())
	waitDone(t, sess.Seed())

	_, err := sess.List.Submit(validForm())
	require.NoError(t, err)

	assert.Equal(t, []string{SubmitSuccessMessage}, notificationMessages(sess.Notifications.Drain()))
	assert.Contains(t, buf.String(), `"msg":"notify"`)
	assert.Contains(t, buf.String(), `"session_id":"`+sess.ID+`"`)
	assert.Contains(t, buf.String(), SubmitSuccessMessage)
}

func notificationMessages(ns []Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Message
	}
	return out
}
