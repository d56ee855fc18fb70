package archive

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// GitSync commits and pushes the archive directory.
type GitSync struct {
	RepoPath string
}

// NewGitSync creates a GitSync for the archive repository.
func NewGitSync(repoPath string) *GitSync {
	return &GitSync{RepoPath: repoPath}
}

// Sync commits all archive changes and pushes if the repository has a
// remote. A repository without remotes is commit-only.
func (g *GitSync) Sync(message string) error {
	r, err := git.PlainOpen(g.RepoPath)
	if err != nil {
		return fmt.Errorf("failed to open archive repo: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	if _, err := w.Add("."); err != nil {
		return fmt.Errorf("failed to add changes: %w", err)
	}

	if message == "" {
		message = fmt.Sprintf("Archive digest: %s", time.Now().Format("2006-01-02"))
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Digest Pilot",
			Email: "digest@pilot.local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	remotes, err := r.Remotes()
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}
	if len(remotes) == 0 {
		return nil
	}

	// go-git has no credential-helper support; try the default SSH key
	// and fall back to an unauthenticated push.
	pushOpts := &git.PushOptions{}
	home, _ := os.UserHomeDir()
	if keys, err := ssh.NewPublicKeysFromFile("git", home+"/.ssh/id_rsa", ""); err == nil {
		pushOpts.Auth = keys
	}

	if err := r.Push(pushOpts); err != nil {
		if err == git.NoErrAlreadyUpToDate {
			return nil
		}
		return fmt.Errorf("failed to push: %w", err)
	}
	return nil
}
