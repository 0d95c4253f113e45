// Package ui holds the lipgloss styles used for command output.
package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF5F"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func Heading(s string) string { return headingStyle.Render(s) }
func Path(s string) string    { return pathStyle.Render(s) }
func OK(s string) string      { return okStyle.Render(s) }
func Warn(s string) string    { return warnStyle.Render(s) }
func Fail(s string) string    { return failStyle.Render(s) }
func Muted(s string) string   { return mutedStyle.Render(s) }

// Tree prints the entries under root as an indented listing. Directories get
// a trailing slash. Entries are listed in path order.
func Tree(w io.Writer, root string, dirs, files []string) {
	fmt.Fprintln(w, Heading(root+"/"))
	type entry struct {
		rel   string
		isDir bool
	}
	var entries []entry
	for _, d := range dirs {
		if d == root {
			continue
		}
		entries = append(entries, entry{rel: relTo(root, d), isDir: true})
	}
	for _, f := range files {
		entries = append(entries, entry{rel: relTo(root, f)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })
	for _, e := range entries {
		depth := strings.Count(e.rel, "/")
		name := filepath.Base(e.rel)
		if e.isDir {
			name += "/"
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth+1), Path(name))
	}
}

func relTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
