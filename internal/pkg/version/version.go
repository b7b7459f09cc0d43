// Package version exposes the git metadata embedded at build time.
package version

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:generate sh -c "printf %s $(git rev-parse HEAD) > commit.txt"
//go:generate sh -c "printf %s $(git rev-parse --abbrev-ref HEAD) > branch.txt"
//go:generate sh -c "printf %s $(git describe --tags --abbrev=0 2>/dev/null || echo none) > tag.txt"
//go:generate sh -c "git diff-index --quiet HEAD -- && printf clean > dirty.txt || printf dirty > dirty.txt"

//go:embed commit.txt
var commit string

//go:embed branch.txt
var branch string

//go:embed tag.txt
var tag string

//go:embed dirty.txt
var dirty string

// GitInfo describes the source tree a binary was built from.
type GitInfo struct {
	Commit string
	Branch string
	Tag    string
	Dirty  bool
}

// String renders the info on one line for logs and the User-Agent header.
func (g GitInfo) String() string {
	s := fmt.Sprintf("%s (%s@%s)", g.Tag, g.Branch, shortCommit(g.Commit))
	if g.Dirty {
		s += "-dirty"
	}
	return s
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

func parse(commit, branch, tag, dirty string) GitInfo {
	return GitInfo{
		Commit: strings.TrimSpace(commit),
		Branch: strings.TrimSpace(branch),
		Tag:    strings.TrimSpace(tag),
		Dirty:  strings.TrimSpace(dirty) == "dirty",
	}
}

var info = parse(commit, branch, tag, dirty)

// GetGitInfo returns a copy of the embedded git metadata.
func GetGitInfo() GitInfo {
	return info
}
