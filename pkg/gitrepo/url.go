// Package gitrepo retrieves a remote repository into an owned temporary
// directory and exposes its last-commit metadata.
package gitrepo

import (
	"fmt"
	"regexp"
	"strings"
)

// githubURLPattern matches https GitHub repository URLs, with an optional
// .git suffix and an optional trailing slash.
var githubURLPattern = regexp.MustCompile(`^https://github\.com/([\w.-]+)/([\w.-]+?)(\.git)?/?$`)

// ValidateURL reports an error when url is not a GitHub-style repository URL.
func ValidateURL(url string) error {
	if !githubURLPattern.MatchString(url) {
		return fmt.Errorf("invalid repository URL %q: expected https://github.com/<owner>/<repo>", url)
	}
	return nil
}

// RepoName extracts the repository name from a GitHub-style URL.
func RepoName(url string) (string, error) {
	m := githubURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("invalid repository URL %q: expected https://github.com/<owner>/<repo>", url)
	}
	return strings.TrimSuffix(m[2], ".git"), nil
}
