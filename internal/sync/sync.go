// Package sync implements the git-backed Sync Manager: every spec is
// exported as one JSON file inside a single shared repository,
// committed, and pushed/pulled against a remote.
//
// It uses the same PlainInit/PlainOpen/Worktree call shape as a
// one-repo-per-document design, generalized here to
// one-repo-with-many-spec-files; a single Manager-wide mutex serializes
// every operation. The operation set is
// init/export/import/commit/push/pull/status, plus remote registration
// and reads of committed remote content, built on go-git/v5 rather than
// shelling out to `git`.
package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/manifold-dev/manifold/internal/spec"
)

// Manager is a git-backed sync repository holding one JSON file per spec.
type Manager struct {
	repoPath string
	author   string
	email    string

	mu sync.Mutex
}

// New creates a Manager rooted at repoPath. Commits are attributed to
// author/email.
func New(repoPath, author, email string) *Manager {
	return &Manager{repoPath: repoPath, author: author, email: email}
}

// Init creates the sync repository if it does not already exist.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(filepath.Join(m.repoPath, ".git")); err == nil {
		return nil
	}

	if err := os.MkdirAll(m.repoPath, 0o755); err != nil {
		return fmt.Errorf("sync: creating repo directory: %w", err)
	}
	if _, err := git.PlainInit(m.repoPath, false); err != nil {
		return fmt.Errorf("sync: initializing repository: %w", err)
	}
	return nil
}

func (m *Manager) openRepo() (*git.Repository, error) {
	repo, err := git.PlainOpen(m.repoPath)
	if err != nil {
		return nil, fmt.Errorf("sync: opening repository: %w", err)
	}
	return repo, nil
}

func (m *Manager) specFile(specID string) string {
	return specID + ".json"
}

// ExportSpec writes sp to <repoPath>/<spec_id>.json, pretty-printed so
// diffs stay readable, and returns the path written.
func (m *Manager) ExportSpec(sp *spec.Spec) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(sp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("sync: marshaling spec: %w", err)
	}
	path := filepath.Join(m.repoPath, m.specFile(sp.SpecID))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("sync: writing spec file: %w", err)
	}
	return path, nil
}

// ImportSpec reads <spec_id>.json from the repository working tree.
func (m *Manager) ImportSpec(specID string) (*spec.Spec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(m.repoPath, m.specFile(specID))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sync: spec file not found for %q: %w", specID, err)
	}
	var sp spec.Spec
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("sync: decoding spec file: %w", err)
	}
	return &sp, nil
}

// Commit stages the named spec files (relative to the repo root) and
// commits them. It returns "no-changes" without error if there was
// nothing to commit.
func (m *Manager) Commit(message string, specIDs []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo, err := m.openRepo()
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("sync: opening worktree: %w", err)
	}

	for _, id := range specIDs {
		if _, err := wt.Add(m.specFile(id)); err != nil {
			return "", fmt.Errorf("sync: staging %q: %w", id, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("sync: reading status: %w", err)
	}
	if status.IsClean() {
		return "no-changes", nil
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  m.author,
			Email: m.email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("sync: committing: %w", err)
	}
	return hash.String(), nil
}

// AddRemote registers or updates a named remote pointing at url.
func (m *Manager) AddRemote(name, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo, err := m.openRepo()
	if err != nil {
		return err
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	if err == git.ErrRemoteExists {
		if err := repo.DeleteRemote(name); err != nil {
			return fmt.Errorf("sync: replacing remote %q: %w", name, err)
		}
		if _, err := repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
			return fmt.Errorf("sync: re-adding remote %q: %w", name, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("sync: adding remote %q: %w", name, err)
	}
	return nil
}

// Push pushes branch to the named remote.
func (m *Manager) Push(remote, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo, err := m.openRepo()
	if err != nil {
		return err
	}
	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	err = repo.Push(&git.PushOptions{RemoteName: remote, RefSpecs: []config.RefSpec{refSpec}})
	if err == git.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return fmt.Errorf("sync: pushing to %s/%s: %w", remote, branch, err)
	}
	return nil
}

// Pull fetches and merges branch from the named remote into the working
// tree. A non-fast-forward result surfaces as ErrMergeConflict so callers
// can route into the Conflict Detector.
func (m *Manager) Pull(remote, branch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo, err := m.openRepo()
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("sync: opening worktree: %w", err)
	}

	err = wt.Pull(&git.PullOptions{RemoteName: remote, ReferenceName: plumbing.NewBranchReferenceName(branch)})
	if err == git.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		if strings.Contains(err.Error(), "non-fast-forward") {
			return fmt.Errorf("%w: %v", ErrMergeConflict, err)
		}
		return fmt.Errorf("sync: pulling from %s/%s: %w", remote, branch, err)
	}
	return nil
}

// ErrMergeConflict indicates a pull could not fast-forward and the
// Conflict Detector should run a three-way comparison instead.
var ErrMergeConflict = fmt.Errorf("sync: merge would conflict")

// StatusEntry is one modified-file line, mirroring `git status --porcelain`.
type StatusEntry struct {
	Path     string
	Staging  string
	Worktree string
}

// Status reports the working tree's modified files.
func (m *Manager) Status() ([]StatusEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo, err := m.openRepo()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("sync: opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("sync: reading status: %w", err)
	}

	var out []StatusEntry
	for path, s := range status {
		out = append(out, StatusEntry{
			Path:     path,
			Staging:  string(s.Staging),
			Worktree: string(s.Worktree),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// IsModified reports whether specID's file has uncommitted changes.
func (m *Manager) IsModified(specID string) (bool, error) {
	entries, err := m.Status()
	if err != nil {
		return false, err
	}
	target := m.specFile(specID)
	for _, e := range entries {
		if e.Path == target {
			return true, nil
		}
	}
	return false, nil
}

// FileHash returns the git blob hash of specID's current working-tree
// content — the same content-identity check `git hash-object` performs,
// used by the Sync Manager to detect when a base snapshot is stale.
func (m *Manager) FileHash(specID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(m.repoPath, m.specFile(specID))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("sync: reading %q: %w", specID, err)
	}
	hash := plumbing.ComputeHash(plumbing.BlobObject, data)
	return hash.String(), nil
}

// ListSpecs returns the spec IDs present as files in the repository.
func (m *Manager) ListSpecs() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := os.ReadDir(m.repoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("sync: listing repo directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// RemoteContent returns the JSON bytes of specID as committed on
// remote/branch, without touching the working tree — the "theirs" side
// of a three-way comparison.
func (m *Manager) RemoteContent(remote, branch, specID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo, err := m.openRepo()
	if err != nil {
		return nil, err
	}
	refName := plumbing.NewRemoteReferenceName(remote, branch)
	ref, err := repo.Reference(refName, true)
	if err != nil {
		return nil, fmt.Errorf("sync: resolving %s/%s: %w", remote, branch, err)
	}
	commitObj, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("sync: reading commit: %w", err)
	}
	file, err := commitObj.File(m.specFile(specID))
	if err != nil {
		return nil, fmt.Errorf("sync: spec %q not present on %s/%s: %w", specID, remote, branch, err)
	}
	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("sync: reading file contents: %w", err)
	}
	return []byte(content), nil
}
