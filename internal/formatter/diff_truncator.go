package formatter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

const truncatedMarker = "...(content is too long, truncated)"

var (
	lowPriorityPatterns = []string{
		"go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
		"Pipfile.lock", "composer.lock", "Cargo.lock", "Gemfile.lock",
		"*.lock",
		"*.pb.go", "*_generated.go", "*_gen.go",
		"*.min.js", "*.min.css", "*.map",
	}
	lowPriorityDirs = []string{"vendor", "node_modules", "third_party"}
)

type diffSection struct {
	path  string
	text  string
	index int
	low   bool
}

// TruncateDiff keeps diff within limit bytes, notes and markers included.
// Whole file sections are kept in order, with lock files and vendored code
// considered last; sections that do not fit are listed by path only. A limit of
// zero or less disables truncation.
func TruncateDiff(diff string, limit int) string {
	if limit <= 0 || len(diff) <= limit {
		return diff
	}

	sections := splitDiff(diff)
	sort.SliceStable(sections, func(i, j int) bool {
		return !sections[i].low && sections[j].low
	})

	kept, omitted := fitSections(sections, limit)
	if len(kept) == 0 {
		return cutDiff(diff, limit)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].index < kept[j].index })

	var b strings.Builder
	for _, s := range kept {
		b.WriteString(s.text)
	}
	b.WriteString(omittedNote(omitted))
	return b.String()
}

// fitSections picks the sections that fit into limit together with the note
// listing the rest. Sections are given up from the back until the note fits.
func fitSections(sections []diffSection, limit int) (kept, omitted []diffSection) {
	used := 0
	for _, s := range sections {
		if used+len(s.text) <= limit {
			kept = append(kept, s)
			used += len(s.text)
			continue
		}
		omitted = append(omitted, s)
	}

	for len(kept) > 0 && used+len(omittedNote(omitted)) > limit {
		last := kept[len(kept)-1]
		kept = kept[:len(kept)-1]
		used -= len(last.text)
		omitted = append(omitted, last)
	}
	return kept, omitted
}

func omittedNote(omitted []diffSection) string {
	if len(omitted) == 0 {
		return ""
	}
	ordered := append([]diffSection(nil), omitted...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })

	paths := make([]string, 0, len(ordered))
	for _, s := range ordered {
		paths = append(paths, s.path)
	}
	return fmt.Sprintf("\n(diff omitted for %d file(s): %s)", len(paths), strings.Join(paths, ", "))
}

// cutDiff cuts the raw diff on a rune boundary, leaving room for the marker
// when the limit allows it.
func cutDiff(diff string, limit int) string {
	if limit <= len(truncatedMarker) {
		return truncateToValidUTF8(diff, limit)
	}
	return truncateToValidUTF8(diff, limit-len(truncatedMarker)) + truncatedMarker
}

func splitDiff(raw string) []diffSection {
	if !strings.Contains(raw, "diff --git ") {
		return nil
	}

	var sections []diffSection
	var current *strings.Builder
	var path string
	flush := func() {
		if current == nil {
			return
		}
		sections = append(sections, diffSection{
			path:  path,
			text:  current.String(),
			index: len(sections),
			low:   isLowPriority(path),
		})
	}

	for _, line := range strings.SplitAfter(raw, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			flush()
			current = &strings.Builder{}
			path = pathFromHeader(line)
		}
		if current != nil {
			current.WriteString(line)
		}
	}
	flush()
	return sections
}

func pathFromHeader(header string) string {
	header = strings.TrimSpace(strings.TrimPrefix(header, "diff --git "))
	if idx := strings.LastIndex(header, " b/"); idx >= 0 {
		return header[idx+3:]
	}
	return header
}

func isLowPriority(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range lowPriorityPatterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	for _, segment := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		for _, dir := range lowPriorityDirs {
			if segment == dir {
				return true
			}
		}
	}
	return false
}

func truncateToValidUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
