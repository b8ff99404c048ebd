package sync_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/manifold-dev/manifold/internal/spec"
	"github.com/manifold-dev/manifold/internal/sync"
)

func newTestManager(t *testing.T) *sync.Manager {
	t.Helper()
	dir := t.TempDir()
	m := sync.New(dir, "Test User", "test@manifold.dev")
	require.NoError(t, m.Init())
	return m
}

func sampleSpec(id string) *spec.Spec {
	return spec.New(id, "acme", "Login flow", "", spec.BoundaryWork, 1000)
}

func TestInitIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Init())
}

func TestExportAndImportRoundTrip(t *testing.T) {
	m := newTestManager(t)
	sp := sampleSpec("amber-ridge-owl")

	path, err := m.ExportSpec(sp)
	require.NoError(t, err)
	require.Equal(t, "amber-ridge-owl.json", filepath.Base(path))

	got, err := m.ImportSpec(sp.SpecID)
	require.NoError(t, err)
	require.Equal(t, sp.Name, got.Name)
	require.Equal(t, sp.SpecID, got.SpecID)
}

func TestImportMissingSpecFails(t *testing.T) {
	m := newTestManager(t)
	_, err := m.ImportSpec("missing-spec")
	require.Error(t, err)
}

func TestCommitAndStatus(t *testing.T) {
	m := newTestManager(t)
	sp := sampleSpec("amber-ridge-owl")
	_, err := m.ExportSpec(sp)
	require.NoError(t, err)

	entries, err := m.Status()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	hash, err := m.Commit("Import spec baseline", []string{sp.SpecID})
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, "no-changes", hash)

	entries, err = m.Status()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCommitWithNoChangesReportsNoChanges(t *testing.T) {
	m := newTestManager(t)
	sp := sampleSpec("amber-ridge-owl")
	_, err := m.ExportSpec(sp)
	require.NoError(t, err)
	_, err = m.Commit("baseline", []string{sp.SpecID})
	require.NoError(t, err)

	hash, err := m.Commit("baseline again", []string{sp.SpecID})
	require.NoError(t, err)
	require.Equal(t, "no-changes", hash)
}

func TestIsModifiedDetectsUncommittedEdits(t *testing.T) {
	m := newTestManager(t)
	sp := sampleSpec("amber-ridge-owl")
	_, err := m.ExportSpec(sp)
	require.NoError(t, err)
	_, err = m.Commit("baseline", []string{sp.SpecID})
	require.NoError(t, err)

	modified, err := m.IsModified(sp.SpecID)
	require.NoError(t, err)
	require.False(t, modified)

	sp.Name = "Login flow v2"
	_, err = m.ExportSpec(sp)
	require.NoError(t, err)

	modified, err = m.IsModified(sp.SpecID)
	require.NoError(t, err)
	require.True(t, modified)
}

func TestFileHashChangesWithContent(t *testing.T) {
	m := newTestManager(t)
	sp := sampleSpec("amber-ridge-owl")
	_, err := m.ExportSpec(sp)
	require.NoError(t, err)
	h1, err := m.FileHash(sp.SpecID)
	require.NoError(t, err)

	sp.Name = "Renamed"
	_, err = m.ExportSpec(sp)
	require.NoError(t, err)
	h2, err := m.FileHash(sp.SpecID)
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
}

func TestListSpecsReturnsExportedIDs(t *testing.T) {
	m := newTestManager(t)
	for _, id := range []string{"amber-ridge-owl", "violet-stone-fox"} {
		_, err := m.ExportSpec(sampleSpec(id))
		require.NoError(t, err)
	}
	ids, err := m.ListSpecs()
	require.NoError(t, err)
	require.Len(t, ids, 2)
}

func TestListSpecsOnUninitializedDirReturnsEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	m := sync.New(dir, "Test User", "test@manifold.dev")
	ids, err := m.ListSpecs()
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestAddRemoteIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	remoteDir := t.TempDir()
	require.NoError(t, os.MkdirAll(remoteDir, 0o755))

	require.NoError(t, m.AddRemote("origin", "file://"+remoteDir))
	require.NoError(t, m.AddRemote("origin", "file://"+remoteDir+"2"))
}
