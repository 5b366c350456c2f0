package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifactFile(t *testing.T, a *Artifact) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	b, err := json.Marshal(a)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoadArtifactCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadArtifact(path)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoadArtifactInvalidShape(t *testing.T) {
	bad := &Artifact{
		UserIDs:      []int{1, 2},
		UserItemRows: [][]float64{{1}},
	}
	path := writeArtifactFile(t, bad)

	_, err := LoadArtifact(path)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestLoadArtifactRoundtrip(t *testing.T) {
	src := newTestArtifact(t)
	path := writeArtifactFile(t, src)

	a, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, src.ProductIDs, a.ProductIDs)
	assert.Equal(t, src.UserIDs, a.UserIDs)
	assert.Equal(t, src.PopularItems, a.PopularItems)
	assert.Len(t, a.Catalog, len(src.Catalog))

	// los derivados quedan reconstruidos: el motor funciona igual
	ids, err := a.SimilarTo(1, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, ids)
}

func TestEngineLazyLoadAndUnavailable(t *testing.T) {
	eng := New(filepath.Join(t.TempDir(), "nope.json"))
	assert.False(t, eng.Loaded())

	_, _, err := eng.Recommend(Request{Kind: KindNone})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEngineReloadSwapsArtifact(t *testing.T) {
	src := newTestArtifact(t)
	path := writeArtifactFile(t, src)

	eng := New(path)
	recs, _, err := eng.Recommend(Request{Kind: KindNone})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, productIDs(recs))
	assert.True(t, eng.Loaded())

	// retrain simulado: nuevo artefacto con otros populares
	src.PopularItems = []int{1, 2}
	b, err := json.Marshal(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o644))

	// sin reload el snapshot viejo sigue vigente
	recs, _, err = eng.Recommend(Request{Kind: KindNone})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, productIDs(recs))

	require.NoError(t, eng.Reload())
	recs, _, err = eng.Recommend(Request{Kind: KindNone})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, productIDs(recs))
}

// Si el archivo nuevo está roto, Reload falla y el snapshot anterior
// se mantiene.
func TestEngineReloadKeepsOldSnapshotOnError(t *testing.T) {
	src := newTestArtifact(t)
	path := writeArtifactFile(t, src)

	eng := New(path)
	_, err := eng.Artifact()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o644))
	assert.ErrorIs(t, eng.Reload(), ErrUnavailable)

	recs, _, err := eng.Recommend(Request{Kind: KindNone})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, productIDs(recs))
}
