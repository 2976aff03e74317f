package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teachingtorch/torch/internal/storage"
	"github.com/teachingtorch/torch/pkg/types"
)

var epoch = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// flakyKV fails Set calls while failSets is true.
type flakyKV struct {
	*storage.Memory
	failSets bool
}

func (f *flakyKV) Set(key, value string) error {
	if f.failSets {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

type fixture struct {
	store *Store
	kv    types.KVStore
	clock *clock
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, kv types.KVStore, interval time.Duration) fixture {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	c := &clock{t: epoch}
	s := New(kv, Options{
		Logger:        zap.New(core),
		Registerer:    prometheus.NewRegistry(),
		Now:           c.Now,
		ResetInterval: interval,
		NewID:         sequentialIDs(),
	})
	return fixture{store: s, kv: kv, clock: c, logs: logs}
}

func TestNewSeedsDefaults(t *testing.T) {
	kv := storage.NewMemory()
	f := newFixture(t, kv, 0)

	stats := f.store.Stats()
	assert.Equal(t, 7, stats.TotalGrades)
	assert.Equal(t, 4, stats.TotalSubjects)
	assert.Equal(t, 0, stats.TotalResources)
	assert.Equal(t, 0, stats.TotalVideos)
	assert.Empty(t, f.store.Activities())

	for _, sub := range f.store.Subjects() {
		assert.Len(t, sub.Grades, 7, sub.ID)
		assert.NotNil(t, sub.Priorities, sub.ID)
		assert.Empty(t, sub.Priorities, sub.ID)
	}
	settings := f.store.Settings()
	assert.Equal(t, DefaultSiteName, settings.SiteName)
	assert.Equal(t, DefaultAdminPassword, settings.AdminPassword)

	version, err := kv.Get(types.KeySchemaVersion)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
	_, err = kv.Get(types.KeySnapshot)
	assert.NoError(t, err)
}

func TestNewKeepsCurrentSnapshot(t *testing.T) {
	kv := storage.NewMemory()
	first := newFixture(t, kv, time.Hour)
	require.NoError(t, first.store.Dispatch(types.AddSubject{
		ID: "art", Name: "Art", Grades: []string{"grade6"},
	}))

	second := newFixture(t, kv, time.Hour)
	sub, ok := second.store.Subject("art")
	require.True(t, ok)
	assert.Equal(t, "Art", sub.Name)
	assert.Len(t, second.store.Activities(), 1)
}

func TestNewResetConditions(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(kv types.KVStore)
		interval time.Duration
		reason   string
	}{
		{
			name: "version mismatch",
			prepare: func(kv types.KVStore) {
				_ = kv.Set(types.KeySchemaVersion, "1.0.0")
			},
			interval: 0,
			reason:   resetVersion,
		},
		{
			name: "missing version",
			prepare: func(kv types.KVStore) {
				_ = kv.Remove(types.KeySchemaVersion)
			},
			interval: 0,
			reason:   resetVersion,
		},
		{
			name: "force flag",
			prepare: func(kv types.KVStore) {
				_ = kv.Set(types.KeyForceRefresh, "true")
			},
			interval: 0,
			reason:   resetForced,
		},
		{
			name: "interval elapsed",
			prepare: func(kv types.KVStore) {
				last := epoch.Add(-2 * time.Hour).UnixMilli()
				_ = kv.Set(types.KeyLastClearTime, strconv.FormatInt(last, 10))
			},
			interval: time.Hour,
			reason:   resetExpired,
		},
		{
			name: "within interval",
			prepare: func(kv types.KVStore) {
				last := epoch.Add(-30 * time.Minute).UnixMilli()
				_ = kv.Set(types.KeyLastClearTime, strconv.FormatInt(last, 10))
			},
			interval: time.Hour,
		},
		{
			name: "interval disabled",
			prepare: func(kv types.KVStore) {
				last := epoch.Add(-48 * time.Hour).UnixMilli()
				_ = kv.Set(types.KeyLastClearTime, strconv.FormatInt(last, 10))
			},
			interval: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			seed := newFixture(t, kv, 0)
			require.NoError(t, seed.store.Dispatch(types.AddSubject{
				ID: "art", Name: "Art", Grades: []string{"grade6"},
			}))
			require.NoError(t, kv.Set(types.KeyUploadedFiles, "[]"))
			require.NoError(t, kv.Set(types.KeyRecentUploads, "[]"))
			tt.prepare(kv)

			f := newFixture(t, kv, tt.interval)
			_, kept := f.store.Subject("art")

			if tt.reason == "" {
				assert.True(t, kept)
				_, err := kv.Get(types.KeyUploadedFiles)
				assert.NoError(t, err)
				return
			}

			assert.False(t, kept)
			assert.Equal(t, 4, f.store.Stats().TotalSubjects)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.store.metrics.resets.WithLabelValues(tt.reason)))

			for _, key := range []string{types.KeyUploadedFiles, types.KeyRecentUploads, types.KeyForceRefresh} {
				_, err := kv.Get(key)
				assert.ErrorIs(t, err, types.ErrKeyNotFound, key)
			}
			last, err := kv.Get(types.KeyLastClearTime)
			require.NoError(t, err)
			assert.Equal(t, strconv.FormatInt(epoch.UnixMilli(), 10), last)

			version, err := kv.Get(types.KeySchemaVersion)
			require.NoError(t, err)
			assert.Equal(t, SchemaVersion, version)
			assert.Equal(t, 1, f.logs.FilterMessage("discarding stored catalog").Len())
		})
	}
}

func TestNewCorruptSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
	}{
		{"not json", "{not json"},
		{"no grades", `{"subjects":{}}`},
		{"wrong shape", `{"grades":[1,2],"subjects":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(types.KeySnapshot, tt.snapshot))
			require.NoError(t, kv.Set(types.KeySchemaVersion, SchemaVersion))

			f := newFixture(t, kv, 0)

			assert.Equal(t, 7, f.store.Stats().TotalGrades)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.store.metrics.resets.WithLabelValues(resetCorrupt)))
			assert.Equal(t, 1, f.logs.FilterMessage("stored catalog is unreadable, reseeding").Len())

			saved, err := kv.Get(types.KeySnapshot)
			require.NoError(t, err)
			assert.NotEqual(t, tt.snapshot, saved)
		})
	}
}

func TestNewInjectsMissingPriorities(t *testing.T) {
	kv := storage.NewMemory()
	legacy := `{
		"grades": {"grade6": {"name": "Grade 6", "display": "Grade 6", "active": true}},
		"subjects": {"art": {"name": "Art", "icon": "bi-palette", "grades": ["grade6"]}},
		"settings": {"siteName": "Teaching Torch", "activities": [{"id": 1700000000000, "message": "old", "timestamp": "2023-11-14T22:13:20.000Z"}]}
	}`
	require.NoError(t, kv.Set(types.KeySnapshot, legacy))
	require.NoError(t, kv.Set(types.KeySchemaVersion, SchemaVersion))

	f := newFixture(t, kv, 0)

	sub, ok := f.store.Subject("art")
	require.True(t, ok)
	assert.Equal(t, "art", sub.ID)
	assert.NotNil(t, sub.Priorities)
	g, ok := f.store.Grade("grade6")
	require.True(t, ok)
	assert.Equal(t, "grade6", g.ID)
	require.Len(t, f.store.Activities(), 1)
	assert.Equal(t, "1700000000000", f.store.Activities()[0].ID)
	assert.Equal(t, types.EmptyResourceBundle(), f.store.Resources("grade6", "art"))
}

func TestPersistFailureKeepsState(t *testing.T) {
	kv := &flakyKV{Memory: storage.NewMemory()}
	f := newFixture(t, kv, 0)
	kv.failSets = true

	err := f.store.Dispatch(types.LogActivity{Message: "still applied"})
	require.NoError(t, err)

	require.Len(t, f.store.Activities(), 1)
	assert.Equal(t, "still applied", f.store.Activities()[0].Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.store.metrics.persistFailures))
	assert.Equal(t, 1, f.logs.FilterMessage("persist catalog snapshot").FilterLevelExact(zapcore.ErrorLevel).Len())

	kv.failSets = false
	require.NoError(t, f.store.Dispatch(types.LogActivity{Message: "retried"}))
	reloaded := newFixture(t, kv, 0)
	assert.Len(t, reloaded.store.Activities(), 2)
}

func TestDispatchCountsCommands(t *testing.T) {
	f := newFixture(t, storage.NewMemory(), 0)

	require.NoError(t, f.store.Dispatch(types.LogActivity{Message: "a"}))
	require.NoError(t, f.store.Dispatch(types.LogActivity{Message: "b"}))
	assert.Error(t, f.store.Dispatch(types.LogActivity{Message: ""}))

	assert.Equal(t, 2.0, testutil.ToFloat64(f.store.metrics.commands.WithLabelValues("log_activity")))
}

func TestMetricsShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(storage.NewMemory(), Options{Registerer: reg})
	b := New(storage.NewMemory(), Options{Registerer: reg})

	require.NoError(t, a.Dispatch(types.LogActivity{Message: "a"}))
	require.NoError(t, b.Dispatch(types.LogActivity{Message: "b"}))

	assert.Equal(t, 2.0, testutil.ToFloat64(a.metrics.commands.WithLabelValues("log_activity")))
}

func TestNewWithZeroOptions(t *testing.T) {
	s := New(storage.NewMemory(), Options{})
	require.NoError(t, s.Dispatch(types.LogActivity{Message: "hello"}))

	acts := s.Activities()
	require.Len(t, acts, 1)
	assert.NotEmpty(t, acts[0].ID)
	assert.False(t, acts[0].Timestamp.IsZero())
}
