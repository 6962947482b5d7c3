// Package store owns the process-wide BadgerDB handle. A Manager connects
// with bounded exponential backoff, answers state queries, exposes Badger
// transactions as units of work, and runs a reconnect watchdog that brings
// the handle back after an unexpected close.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/jonboulle/clockwork"

	"inkwell/config"
	"inkwell/retry"
)

const (
	schemeDisk   = "badger://"
	schemeMemory = "badger+mem://"
)

// State is a snapshot of the connection lifecycle.
type State struct {
	Connected  bool
	Connecting bool
	Raw        string
}

// attempt is one in-flight connect shared by every caller that joins it.
type attempt struct {
	done chan struct{}
	err  error
}

// Manager maintains exactly one logical store connection for the process.
// Only the Manager opens or closes the handle; repositories borrow it
// per-operation through View and Update.
type Manager struct {
	cfg   config.StoreConfig
	clock clockwork.Clock
	log   *slog.Logger

	mu         sync.Mutex
	db         *badger.DB
	connecting bool
	inflight   *attempt
	explicit   bool
	inMemory   bool
}

// NewManager builds a Manager. It does not touch the store; call Connect.
func NewManager(cfg config.StoreConfig, clock clockwork.Clock, log *slog.Logger) *Manager {
	return &Manager{cfg: cfg, clock: clock, log: log}
}

// Connect establishes the store connection. The URI is validated before any
// I/O. Connect is idempotent when already connected, and a caller arriving
// while an attempt is in flight joins that attempt instead of starting a
// second one. Each open carries a per-attempt timeout; attempts are retried
// with capped exponential backoff, and once the budget is spent the returned
// error is a *ConnectionError wrapping the last failure.
func (m *Manager) Connect(ctx context.Context) error {
	path, inMem, err := parseURI(m.cfg.URI)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.db != nil && !m.db.IsClosed() {
		m.mu.Unlock()
		return nil
	}
	if m.connecting {
		att := m.inflight
		m.mu.Unlock()
		select {
		case <-att.done:
			return att.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	att := &attempt{done: make(chan struct{})}
	m.inflight = att
	m.connecting = true
	m.explicit = false
	m.mu.Unlock()

	policy := retry.Policy{
		MaxAttempts: m.cfg.ConnectAttempts,
		BaseDelay:   m.cfg.ConnectBaseDelay,
		MaxDelay:    m.cfg.ConnectMaxDelay,
		OnRetry: func(n int, err error, backoff time.Duration) {
			m.log.Warn("store connect attempt failed",
				"attempt", n, "backoff", backoff, "error", err)
		},
	}
	db, err := retry.Do(ctx, m.clock, policy, func() (*badger.DB, error) {
		return m.open(path, inMem)
	})

	m.mu.Lock()
	m.connecting = false
	if err != nil {
		att.err = &ConnectionError{Err: err}
	} else {
		m.db = db
		m.inMemory = inMem
	}
	close(att.done)
	m.mu.Unlock()

	if att.err != nil {
		return att.err
	}
	if !inMem {
		go m.watch(db)
	}
	return nil
}

// Disconnect closes the active handle. Idempotent: disconnecting twice is a
// no-op. The explicit flag makes the watchdog stand down.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.explicit = true
	m.connecting = false
	if m.db == nil {
		return nil
	}
	db := m.db
	m.db = nil
	if db.IsClosed() {
		return nil
	}
	return db.Close()
}

// State reports the current connection state. Pure query, no side effects.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{
		Connected:  m.db != nil && !m.db.IsClosed(),
		Connecting: m.connecting,
	}
	switch {
	case s.Connected:
		s.Raw = "connected"
	case s.Connecting:
		s.Raw = "connecting"
	default:
		s.Raw = "disconnected"
	}
	return s
}

// View runs fn inside a read-only transaction.
func (m *Manager) View(fn func(txn *badger.Txn) error) error {
	db, err := m.handle()
	if err != nil {
		return err
	}
	return db.View(fn)
}

// Update runs fn inside a read-write transaction: committed if fn returns
// nil, discarded entirely otherwise. This is the unit of work for every
// multi-key write; no partial state is visible mid-transaction.
func (m *Manager) Update(fn func(txn *badger.Txn) error) error {
	db, err := m.handle()
	if err != nil {
		return err
	}
	return db.Update(fn)
}

// DB exposes the raw handle. Intended for tests and maintenance commands.
func (m *Manager) DB() *badger.DB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db
}

func (m *Manager) handle() (*badger.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil || m.db.IsClosed() {
		return nil, &ConnectionError{Err: errNotConnected}
	}
	return m.db, nil
}

// open performs a single open attempt, bounded by the configured per-attempt
// timeout. Badger's Open cannot be interrupted, so on timeout the straggler
// is closed in the background once it resolves.
func (m *Manager) open(path string, inMem bool) (*badger.DB, error) {
	type result struct {
		db  *badger.DB
		err error
	}
	ch := make(chan result, 1)
	go func() {
		db, err := badger.Open(m.options(path, inMem))
		ch <- result{db, err}
	}()

	select {
	case r := <-ch:
		return r.db, r.err
	case <-m.clock.After(m.cfg.ConnectTimeout):
		go func() {
			if r := <-ch; r.err == nil {
				_ = r.db.Close()
			}
		}()
		return nil, fmt.Errorf("open timed out after %s", m.cfg.ConnectTimeout)
	}
}

func (m *Manager) options(path string, inMem bool) badger.Options {
	if inMem {
		return badger.DefaultOptions("").
			WithInMemory(true).
			WithLogger(nil)
	}
	return badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(m.cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(m.cfg.NumGoroutines)
}

// watch polls the handle it was started for. When the handle is found closed
// without an explicit Disconnect, the watchdog hands over to reconnect and
// exits; the successful reconnect starts a fresh watchdog for the new handle.
func (m *Manager) watch(db *badger.DB) {
	for {
		<-m.clock.After(m.cfg.WatchdogPoll)

		m.mu.Lock()
		if m.db != db || m.explicit {
			m.mu.Unlock()
			return
		}
		closed := db.IsClosed()
		if closed {
			m.db = nil
		}
		m.mu.Unlock()

		if !closed {
			continue
		}

		m.log.Warn("store connection lost unexpectedly, scheduling reconnect",
			"delay", m.cfg.ReconnectDelay)
		m.reconnect()
		return
	}
}

// reconnect retries until the connection is back or the manager is shut down
// explicitly. There is no overall bound: each cycle waits ReconnectDelay and
// runs another full Connect, logging failures and never propagating them. A
// manual Connect racing this loop is simply joined; if the joined attempt
// fails too, the loop keeps going.
func (m *Manager) reconnect() {
	for {
		<-m.clock.After(m.cfg.ReconnectDelay)

		m.mu.Lock()
		done := m.explicit || (m.db != nil && !m.db.IsClosed())
		m.mu.Unlock()
		if done {
			return
		}

		if err := m.Connect(context.Background()); err != nil {
			m.log.Error("automatic reconnect failed, retrying",
				"delay", m.cfg.ReconnectDelay, "error", err)
			continue
		}
		return
	}
}

// parseURI validates the store URI and resolves it to an open mode. Only two
// schemes are recognized; anything else fails before any I/O is attempted.
func parseURI(uri string) (path string, inMem bool, err error) {
	switch {
	case strings.HasPrefix(uri, schemeMemory):
		return "", true, nil
	case strings.HasPrefix(uri, schemeDisk):
		path = strings.TrimPrefix(uri, schemeDisk)
		if path == "" {
			return "", false, fmt.Errorf("%w: missing path in %q", ErrInvalidConfig, uri)
		}
		return path, false, nil
	default:
		return "", false, fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidConfig, uri)
	}
}
