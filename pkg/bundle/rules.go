package bundle

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Fixed selection policy. Directory names are matched as whole path
// segments; anything below them is excluded from selection and from the
// directory tree.
var (
	excludedDirs = map[string]bool{
		".git":         true,
		"node_modules": true,
		"build":        true,
		"output":       true,
		".yarn":        true,
		"temp":         true,
		".vscode":      true,
	}

	// Asset directories excluded wholesale regardless of content.
	assetDirs = map[string]bool{
		"images": true,
		"fonts":  true,
		"videos": true,
	}

	excludedNames = map[string]bool{
		".env":              true,
		"pnpm-lock.yaml":    true,
		"yarn.lock":         true,
		"package-lock.json": true,
		".DS_Store":         true,
		"Thumbs.db":         true,
	}

	// Extension matching is case-sensitive: icon.png is excluded, icon.PNG
	// is not.
	mediaExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".mp4":  true,
		".svg":  true,
		".ico":  true,
	}
)

// envExample is always included even though the .env and -lock rules would
// otherwise shadow files like it.
const envExample = ".env.example"

// skipDirName reports whether a directory and everything below it is
// excluded from selection.
func skipDirName(name string) bool {
	return excludedDirs[name] || assetDirs[name]
}

// excludedFileName applies the filename rules: exact matches, the -lock
// substring, and vim swap files (.<name>.swp).
func excludedFileName(name string) bool {
	if name == envExample {
		return false
	}
	if excludedNames[name] {
		return true
	}
	if strings.Contains(name, "-lock") {
		return true
	}
	if strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".swp") {
		return true
	}
	return false
}

// hasMediaExtension reports whether the filename carries one of the
// excluded media extensions.
func hasMediaExtension(name string) bool {
	return mediaExtensions[path.Ext(name)]
}

// ignorePattern encapsulates a compiled regular expression pattern,
// a negation flag, and the original pattern line.
type ignorePattern struct {
	pattern *regexp.Regexp
	negate  bool
	line    string
}

// Ruleset holds user-supplied ignore patterns applied on top of the fixed
// policy. The zero value matches nothing.
type Ruleset struct {
	patterns []*ignorePattern
}

// NewRuleset compiles gitignore-style pattern lines. Blank lines and
// comments are skipped; a leading '!' negates the pattern.
func NewRuleset(lines ...string) (*Ruleset, error) {
	rs := &Ruleset{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		negate := false
		if strings.HasPrefix(trimmed, "!") {
			negate = true
			trimmed = trimmed[1:]
		}

		re, err := compilePattern(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", line, err)
		}
		rs.patterns = append(rs.patterns, &ignorePattern{
			pattern: re,
			negate:  negate,
			line:    line,
		})
	}
	return rs, nil
}

// MatchesPath reports whether relPath is excluded by the user patterns.
// Later patterns override earlier ones, so a negation can re-include a
// path matched by a previous line.
func (rs *Ruleset) MatchesPath(relPath string) bool {
	matched := false
	for _, p := range rs.patterns {
		if p.pattern.MatchString(relPath) {
			matched = !p.negate
		}
	}
	return matched
}

// Precompiled regular expressions used in pattern parsing.
var (
	doubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	doubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
	singleStarPattern         = regexp.MustCompile(`\*`)
	directoryEndPattern       = regexp.MustCompile(`/$`)
	rootRelativePattern       = regexp.MustCompile(`^/`)
)

// compilePattern converts one gitignore-style line to an anchored regexp.
func compilePattern(line string) (*regexp.Regexp, error) {
	pattern := escapeSpecialChars(line)
	pattern = handleDoubleStarPatterns(pattern)
	pattern = wildcardToRegex(pattern)
	pattern = anchorPattern(pattern, line)
	return regexp.Compile(pattern)
}

// escapeSpecialChars escapes regex special characters except for '*', '?', and '/'.
func escapeSpecialChars(pattern string) string {
	var specialChars = `.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns replaces '**' patterns with appropriate regex.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddlePattern.ReplaceAllString(pattern, `(/|/.+/)`)
	pattern = doubleStarTrailingPattern.ReplaceAllString(pattern, `(/.*)?`)
	pattern = doubleStarLeadingPattern.ReplaceAllString(pattern, `(.*/)?`)
	return pattern
}

// wildcardToRegex converts wildcard patterns '*' and '?' to regex equivalents.
func wildcardToRegex(pattern string) string {
	pattern = singleStarPattern.ReplaceAllString(pattern, `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", ".")
	return pattern
}

// anchorPattern anchors the regex pattern to match the entire path.
func anchorPattern(pattern string, originalPattern string) string {
	if directoryEndPattern.MatchString(originalPattern) {
		pattern = strings.TrimSuffix(pattern, "/") + "(/.*)?$"
	} else {
		pattern = pattern + "(|/.*)?$"
	}

	if rootRelativePattern.MatchString(originalPattern) {
		return "^" + strings.TrimPrefix(pattern, "/")
	}
	return "^(|.*/)" + pattern
}
