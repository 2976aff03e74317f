// Package catalog owns the Teaching Torch catalog state. Every mutation goes
// through Dispatch, which validates the command, derives a new immutable
// state, records an activity entry, and writes the snapshot to a KVStore.
package catalog

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/teachingtorch/torch/pkg/types"
)

// SchemaVersion is the snapshot version this build writes. A stored snapshot
// with any other version is discarded at initialization.
const SchemaVersion = "2.0.0"

// legacyVersion is assumed when no version key has been written.
const legacyVersion = "1.0.0"

// Options configures a Store. The zero value is usable.
type Options struct {
	// Logger receives diagnostics. Nil means zap.NewNop.
	Logger *zap.Logger
	// Registerer receives the catalog counters. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
	// ResetInterval discards the stored snapshot when more than this much
	// time has passed since the last recorded clear. Zero disables it.
	ResetInterval time.Duration
	// NewID generates ids for papers, notes, videos and activity entries.
	// Nil means UUID v7.
	NewID func() string
}

// Store holds the current catalog state and persists it after every
// successful command. Reads return snapshots; a snapshot is never modified
// after it has been published.
type Store struct {
	mu            sync.RWMutex
	kv            types.KVStore
	state         types.CatalogState
	log           *zap.Logger
	metrics       *metrics
	now           func() time.Time
	newID         func() string
	resetInterval time.Duration
}

// New loads the catalog from kv, resetting or seeding it as needed. New never
// fails: unreadable or invalid snapshots are replaced with the defaults.
func New(kv types.KVStore, opts Options) *Store {
	s := &Store{
		kv:            kv,
		log:           opts.Logger,
		metrics:       newMetrics(opts.Registerer),
		now:           opts.Now,
		newID:         opts.NewID,
		resetInterval: opts.ResetInterval,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = generateID
	}
	s.load()
	return s
}

// generateID returns a UUID v7 string, falling back to v4.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// load runs the initialization protocol: decide whether the stored snapshot
// must be discarded, then adopt it or seed the defaults.
func (s *Store) load() {
	now := s.now()
	saved, hasSnapshot := s.read(types.KeySnapshot)

	reason := s.resetReason(now)
	if reason != "" && hasSnapshot {
		s.log.Info("discarding stored catalog", zap.String("reason", reason))
		s.clearStored(now)
		s.metrics.resets.WithLabelValues(reason).Inc()
	}
	hasSnapshot = hasSnapshot && reason == ""

	if hasSnapshot {
		state, err := decodeSnapshot([]byte(saved))
		if err == nil {
			s.state = state
			return
		}
		s.log.Warn("stored catalog is unreadable, reseeding", zap.Error(err))
		s.remove(types.KeySnapshot)
		s.metrics.resets.WithLabelValues(resetCorrupt).Inc()
	}

	s.state = defaultState(now)
	s.persist()
}

// resetReason reports why the stored snapshot must be discarded, or "" when
// it may be kept.
func (s *Store) resetReason(now time.Time) string {
	version, ok := s.read(types.KeySchemaVersion)
	if !ok {
		version = legacyVersion
	}
	if version != SchemaVersion {
		return resetVersion
	}
	if force, _ := s.read(types.KeyForceRefresh); force == "true" {
		return resetForced
	}
	if s.resetInterval <= 0 {
		return ""
	}
	last, ok := s.read(types.KeyLastClearTime)
	if !ok {
		return ""
	}
	ms, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return ""
	}
	if now.Sub(time.UnixMilli(ms)) > s.resetInterval {
		return resetExpired
	}
	return ""
}

// clearStored removes the snapshot and the upload lists and records the
// clear time.
func (s *Store) clearStored(now time.Time) {
	for _, key := range []string{
		types.KeySnapshot,
		types.KeyForceRefresh,
		types.KeyUploadedFiles,
		types.KeyRecentUploads,
	} {
		s.remove(key)
	}
	if err := s.kv.Set(types.KeyLastClearTime, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		s.log.Warn("record clear time", zap.Error(err))
	}
}

// read returns the value under key and whether one was found. Read errors
// other than a missing key are logged and treated as absent.
func (s *Store) read(key string) (string, bool) {
	v, err := s.kv.Get(key)
	if err == nil {
		return v, true
	}
	if !errors.Is(err, types.ErrKeyNotFound) {
		s.log.Warn("read stored key", zap.String("key", key), zap.Error(err))
	}
	return "", false
}

func (s *Store) remove(key string) {
	if err := s.kv.Remove(key); err != nil {
		s.log.Warn("remove stored key", zap.String("key", key), zap.Error(err))
	}
}

// persist writes the current state and schema version. Failures are logged
// and counted; the in-memory state is kept either way.
func (s *Store) persist() {
	data, err := json.Marshal(s.state)
	if err == nil {
		err = s.kv.Set(types.KeySnapshot, string(data))
	}
	if err == nil {
		err = s.kv.Set(types.KeySchemaVersion, SchemaVersion)
	}
	if err != nil {
		s.log.Error("persist catalog snapshot", zap.Error(err))
		s.metrics.persistFailures.Inc()
	}
}

// State returns the current catalog snapshot. Callers must treat its maps
// and slices as read-only.
func (s *Store) State() types.CatalogState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch validates and applies cmd. On success the new state is published,
// an activity entry is recorded, and the snapshot is persisted. On a
// validation error the state is left untouched and nothing is logged.
func (s *Store) Dispatch(cmd types.Command) error {
	return s.DispatchAll(cmd)
}

// DispatchAll applies cmds in order as one unit. Each command records its
// own activity entry, but the state is published and persisted only once
// every command has succeeded; the first failure leaves the state untouched.
func (s *Store) DispatchAll(cmds ...types.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state
	for _, cmd := range cmds {
		next, message, err := s.apply(work, cmd)
		if err != nil {
			if _, ok := cmd.(types.ImportData); ok && errors.Is(err, types.ErrInvalidFormat) {
				failed := s.state
				failed.Error = importFailedMessage
				s.state = failed
			}
			s.log.Debug("command rejected", zap.String("command", cmd.Kind()), zap.Error(err))
			return err
		}
		work = s.withActivity(next, message)
	}
	if len(cmds) == 0 {
		return nil
	}

	s.state = work
	s.persist()
	for _, cmd := range cmds {
		s.metrics.commands.WithLabelValues(cmd.Kind()).Inc()
		s.log.Debug("command applied", zap.String("command", cmd.Kind()))
	}
	return nil
}

// withActivity prepends an activity entry, keeping at most MaxActivities.
func (s *Store) withActivity(st types.CatalogState, message string) types.CatalogState {
	now := s.now()
	entry := types.ActivityEntry{ID: s.newID(), Message: message, Timestamp: now}

	old := st.Settings.Activities
	n := len(old) + 1
	if n > types.MaxActivities {
		n = types.MaxActivities
	}
	activities := make([]types.ActivityEntry, 0, n)
	activities = append(activities, entry)
	activities = append(activities, old[:n-1]...)

	st.Settings.Activities = activities
	st.Settings.LastUpdated = now
	return st
}
