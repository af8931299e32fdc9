package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/ethics-journey/internal/models"
)

func TestRestoreResumesSession(t *testing.T) {
	ctx := context.Background()
	store := models.NewFileStore(filepath.Join(t.TempDir(), "saves"))

	first, _ := newTestEngine(t, WithStore(store))
	atEntry(t, first)
	first.SelectChoice(ctx, "a")

	rec := &Recorder{}
	second := Restore(ctx, testGraph(t), store, WithLogger(quiet), WithDiagnostics(rec.Hook()))

	assert.Equal(t, "family-request", second.Position())
	assert.Equal(t, 5, second.Score())
	assert.Equal(t, 1, second.Traits().Get("justice"))
	assert.Len(t, second.History(), 1)
	_, pending := second.Pending()
	assert.False(t, pending, "pending outcome is not restored")
	assert.Equal(t, PhaseIdle, second.Phase())
	assert.Empty(t, rec.Events)
}

func TestRestoreEmptyStore(t *testing.T) {
	e := Restore(context.Background(), testGraph(t), &models.MemoryStore{}, WithLogger(quiet))
	assert.Equal(t, "start", e.Position())
	assert.Empty(t, e.History())
}

func TestRestoreDiscardsCorruptSave(t *testing.T) {
	ctx := context.Background()
	store := &models.MemoryStore{}
	store.SetRaw([]byte("position: [not, a, string"))

	rec := &Recorder{}
	e := Restore(ctx, testGraph(t), store, WithLogger(quiet), WithDiagnostics(rec.Hook()))

	assert.Equal(t, "start", e.Position())
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, []DiagnosticKind{DiagnosticPersistence}, rec.Kinds())
	assert.ErrorIs(t, rec.Events[0].Err, models.ErrCorruptSave)
	assert.Nil(t, store.Raw(), "corrupt save is cleared")

	atEntry(t, e)
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "family-request", saved.Position)
}

func TestRestoreUnavailableStore(t *testing.T) {
	ctx := context.Background()
	store := &models.MemoryStore{}
	saved := models.NewSessionState("loan-terms", nil)
	require.NoError(t, store.Save(ctx, saved))
	store.Fail = errors.New("storage unavailable")

	rec := &Recorder{}
	e := Restore(ctx, testGraph(t), store, WithLogger(quiet), WithDiagnostics(rec.Hook()))

	assert.Equal(t, "start", e.Position())
	assert.Equal(t, []DiagnosticKind{DiagnosticPersistence}, rec.Kinds())
	require.Error(t, rec.Events[0].Err)
	assert.NotErrorIs(t, rec.Events[0].Err, models.ErrCorruptSave)

	store.Fail = nil
	kept, err := store.Load(ctx)
	require.NoError(t, err, "an unreadable store keeps its save")
	assert.Equal(t, "loan-terms", kept.Position)

	store.Fail = errors.New("storage unavailable")
	atEntry(t, e)
	assert.Equal(t, "family-request", e.Position(), "session keeps going in memory")
}

func TestRestoreRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	store := &models.MemoryStore{}
	tampered := models.NewSessionState("loan-terms", nil)
	tampered.Score = 99
	tampered.Traits.Add("justice", 7)
	tampered.History = []models.HistoryEntry{
		{ScenarioID: "family-request", ChoiceID: "a", ScoreDelta: 5, Tags: []string{"generosity", "justice"}},
	}
	require.NoError(t, store.Save(ctx, tampered))

	rec := &Recorder{}
	e := Restore(ctx, testGraph(t), store, WithLogger(quiet), WithDiagnostics(rec.Hook()))

	assert.Equal(t, 5, e.Score())
	assert.Equal(t, 1, e.Traits().Get("justice"))
	assert.Equal(t, []string{"generosity", "justice", "honesty"}, e.Traits().Names())
	assert.Equal(t, []DiagnosticKind{DiagnosticPersistence}, rec.Kinds())
	assertInvariants(t, e)
}
