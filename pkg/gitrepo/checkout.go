package gitrepo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// Checkout is a cloned repository rooted in a temporary directory that the
// Checkout owns. Close must be called on every exit path so the directory
// never outlives the run.
type Checkout struct {
	Dir    string // Absolute path of the checked-out tree
	URL    string // Remote repository URL
	Branch string // Branch or reference name that was cloned

	repo   *git.Repository
	logger *zap.Logger
}

// CommitInfo holds last-commit metadata for the document header.
type CommitInfo struct {
	Hash    string
	Date    time.Time
	Message string // First line of the commit message
}

// Clone performs a shallow, single-branch clone of url at branch into a
// fresh temporary directory. On failure the directory is removed before
// returning.
func Clone(ctx context.Context, url, branch string, logger *zap.Logger) (*Checkout, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "repopack-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	logger.Info("Cloning repository",
		zap.String("url", url),
		zap.String("branch", branch),
		zap.String("dir", dir))

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         1,
		Tags:          git.NoTags,
	})
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("Failed to remove temporary directory after clone failure",
				zap.String("dir", dir), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("failed to clone %s at %s: %w", url, branch, err)
	}

	return &Checkout{
		Dir:    dir,
		URL:    url,
		Branch: branch,
		repo:   repo,
		logger: logger,
	}, nil
}

// Close removes the checkout's temporary directory.
func (c *Checkout) Close() error {
	if c.Dir == "" {
		return nil
	}
	c.logger.Debug("Removing temporary checkout", zap.String("dir", c.Dir))
	err := os.RemoveAll(c.Dir)
	c.Dir = ""
	if err != nil {
		return fmt.Errorf("failed to remove checkout directory: %w", err)
	}
	return nil
}

// LastCommit returns metadata for the head commit. A repository without a
// resolvable head (for example an empty repository) yields (nil, nil); the
// document simply omits the commit fields.
func (c *Checkout) LastCommit() (*CommitInfo, error) {
	head, err := c.repo.Head()
	if err != nil {
		c.logger.Debug("No resolvable head for checkout", zap.Error(err))
		return nil, nil
	}

	commit, err := c.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve head commit %s: %w", head.Hash(), err)
	}

	message := commit.Message
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}

	return &CommitInfo{
		Hash:    commit.Hash.String(),
		Date:    commit.Author.When,
		Message: strings.TrimSpace(message),
	}, nil
}
