package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curbz/rt-trainer/internal/state"
	"github.com/curbz/rt-trainer/internal/world"
)

func record(id string) Record {
	return Record{
		ID:   id,
		Seed: 42,
		State: state.State{
			Status:                      state.Airborne{Altitude: 2500, Heading: 93, Speed: 110, NextPoint: "Cowfold", Stage: state.PreInitialContact},
			Lat:                         50.85,
			Long:                        -0.75,
			CurrentTarget:               world.COMFrequency{FrequencyType: world.Tower, Frequency: 120.655, Callsign: "Goodwood Tower"},
			Prefix:                      state.PrefixStudent,
			Callsign:                    "G-ABCD",
			TargetAllocatedCallsign:     "G-CD",
			Emergency:                   state.EmergencyPanPan,
			Squark:                      true,
			CurrentRadioFrequency:       120.655,
			CurrentTransponderFrequency: 4521,
			AircraftType:                "PA28",
		},
		Updated: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{"file": fs, "memory": NewMemoryStore()}
}

func TestSaveLoadDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			id := uuid.NewString()
			want := record(id)
			require.NoError(t, s.Save(want))

			got, err := s.Load(id)
			require.NoError(t, err)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Seed, got.Seed)
			assert.Equal(t, want.State, got.State)
			assert.True(t, want.Updated.Equal(got.Updated))

			want.State.Status = state.WithStage(want.State.Status, int(state.PrePositionReport))
			require.NoError(t, s.Save(want))
			got, err = s.Load(id)
			require.NoError(t, err)
			assert.Equal(t, int(state.PrePositionReport), got.State.Key().Stage)

			require.NoError(t, s.Delete(id))
			_, err = s.Load(id)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(id), ErrNotFound)
		})
	}
}

func TestLoadUnknown(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(uuid.NewString())
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRejectsBadIDs(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"", "../etc/passwd", "not-a-uuid"} {
				assert.Error(t, s.Save(record(id)), id)
			}
		})
	}
}

func TestFileLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	id := uuid.NewString()
	require.NoError(t, s.Save(record(id)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id+".msgpack.zst", entries[0].Name())

	b, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Greater(t, len(b), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, b[:4], "zstd frame magic")
}

func TestCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	id := uuid.NewString()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".msgpack.zst"), []byte("garbage"), 0644))

	_, err = s.Load(id)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	id := uuid.NewString()
	r := record(id)
	require.NoError(t, s.Save(r))

	r.State.Callsign = "G-ZZZZ"
	got, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "G-ABCD", got.State.Callsign)
}
