package formatter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileDiff(path string, bodyLines int) string {
	var b strings.Builder
	b.WriteString("diff --git a/" + path + " b/" + path + "\n")
	b.WriteString("--- a/" + path + "\n")
	b.WriteString("+++ b/" + path + "\n")
	b.WriteString("@@ -1 +1 @@\n")
	for i := 0; i < bodyLines; i++ {
		b.WriteString("+line\n")
	}
	return b.String()
}

func TestTruncateDiff_UnderLimit(t *testing.T) {
	diff := fileDiff("main.go", 3)
	assert.Equal(t, diff, TruncateDiff(diff, len(diff)))
	assert.Equal(t, diff, TruncateDiff(diff, 0))
	assert.Equal(t, diff, TruncateDiff(diff, -1))
}

func TestTruncateDiff_DropsLowPriorityFirst(t *testing.T) {
	lock := fileDiff("go.sum", 50)
	code := fileDiff("internal/api/handler.go", 5)
	vendored := fileDiff("vendor/x/y.go", 50)
	diff := lock + code + vendored

	got := TruncateDiff(diff, len(code)+100)
	assert.LessOrEqual(t, len(got), len(code)+100)
	assert.True(t, strings.HasPrefix(got, code))
	assert.NotContains(t, got, "diff --git a/go.sum")
	assert.Contains(t, got, "(diff omitted for 2 file(s): go.sum, vendor/x/y.go)")
}

func TestTruncateDiff_KeepsOriginalOrder(t *testing.T) {
	a := fileDiff("a.go", 2)
	b := fileDiff("yarn.lock", 2)
	c := fileDiff("c.go", 2)
	diff := a + b + c + fileDiff("big.go", 200)

	got := TruncateDiff(diff, len(a)+len(b)+len(c)+100)
	require.True(t, strings.HasPrefix(got, a+b+c))
	assert.Contains(t, got, "big.go")
}

func TestTruncateDiff_NoSections(t *testing.T) {
	raw := strings.Repeat("é", 40)
	got := TruncateDiff(raw, 50)
	assert.True(t, strings.HasSuffix(got, truncatedMarker))
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 50)

	got = TruncateDiff(raw, 7)
	assert.Equal(t, strings.Repeat("é", 3), got)
}

func TestTruncateDiff_SingleOversizedSection(t *testing.T) {
	diff := fileDiff("huge.go", 500)
	got := TruncateDiff(diff, 100)
	assert.True(t, strings.HasSuffix(got, truncatedMarker))
	assert.Len(t, got, 100)
}

func TestTruncateDiff_NoteFitsWithinLimit(t *testing.T) {
	a := fileDiff("a.go", 2)
	b := fileDiff("b.go", 2)
	big := fileDiff("big.go", 200)
	diff := a + b + big

	// room for a and b but not for the omitted-files note as well
	limit := len(a) + len(b) + 5
	got := TruncateDiff(diff, limit)

	assert.LessOrEqual(t, len(got), limit)
	assert.True(t, strings.HasPrefix(got, a))
	assert.NotContains(t, got, "diff --git a/b.go")
	assert.Contains(t, got, "(diff omitted for 2 file(s): b.go, big.go)")
}

func TestTruncateDiff_NeverExceedsLimit(t *testing.T) {
	diff := fileDiff("go.sum", 30) + fileDiff("cmd/root.go", 10) + fileDiff("internal/x.go", 40)
	for _, limit := range []int{1, 10, 35, 36, 80, 150, 300, len(diff) - 1} {
		got := TruncateDiff(diff, limit)
		assert.LessOrEqual(t, len(got), limit, "limit %d", limit)
		assert.True(t, utf8.ValidString(got), "limit %d", limit)
	}
}

func TestIsLowPriority(t *testing.T) {
	assert.True(t, isLowPriority("go.sum"))
	assert.True(t, isLowPriority("web/package-lock.json"))
	assert.True(t, isLowPriority("api/v1/service.pb.go"))
	assert.True(t, isLowPriority("node_modules/react/index.js"))
	assert.True(t, isLowPriority("a/third_party/lib.c"))
	assert.False(t, isLowPriority("cmd/root.go"))
	assert.False(t, isLowPriority("vendored.go"))
}

func TestPathFromHeader(t *testing.T) {
	assert.Equal(t, "cmd/root.go", pathFromHeader("diff --git a/cmd/root.go b/cmd/root.go\n"))
	assert.Equal(t, "new.go", pathFromHeader("diff --git a/old.go b/new.go"))
}
