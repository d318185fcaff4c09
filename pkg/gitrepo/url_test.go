package gitrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	assert := assert.New(t)

	valid := []string{
		"https://github.com/acme/widget",
		"https://github.com/acme/widget.git",
		"https://github.com/acme/widget/",
		"https://github.com/acme-corp/widget.js",
		"https://github.com/a/b",
	}
	for _, url := range valid {
		assert.NoError(ValidateURL(url), "expected %q to validate", url)
	}

	invalid := []string{
		"",
		"http://github.com/acme/widget",
		"https://gitlab.com/acme/widget",
		"https://github.com/acme",
		"https://github.com/acme/widget/tree/main",
		"git@github.com:acme/widget.git",
		"acme/widget",
	}
	for _, url := range invalid {
		assert.Error(ValidateURL(url), "expected %q to be rejected", url)
	}
}

func TestRepoName(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]string{
		"https://github.com/acme/widget":      "widget",
		"https://github.com/acme/widget.git":  "widget",
		"https://github.com/acme/widget/":     "widget",
		"https://github.com/acme/my.repo.git": "my.repo",
	}
	for url, want := range cases {
		name, err := RepoName(url)
		require.NoError(t, err)
		assert.Equal(want, name, "url %q", url)
	}

	_, err := RepoName("https://example.com/acme/widget")
	assert.Error(err)
}
