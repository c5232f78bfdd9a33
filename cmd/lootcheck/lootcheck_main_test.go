// lootfilter/cmd/lootcheck/lootcheck_main_test.go

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodFilter = `# league start
Show
    Class Currency
    SetFontSize 40
    PlayAlertSound ShChaos 150

Hide
    Rarity Normal Magic
    ItemLevel < 60
`

const itemsFixture = `items:
  - name: Chaos Orb
    itemLevel: 1
    dropLevel: 1
    itemClass: Stackable Currency
    baseType: Chaos Orb
    width: 1
    height: 1
    stackSize: 4
  - name: Iron Ring
    itemLevel: 20
    dropLevel: 1
    rarity: Magic
    itemClass: Rings
    baseType: Iron Ring
    width: 1
    height: 1
  - name: Vaal Regalia
    itemLevel: 86
    dropLevel: 68
    rarity: Rare
    itemClass: Body Armours
    baseType: Vaal Regalia
    width: 2
    height: 3
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCheck(t *testing.T, tty bool, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, tty)
	return code, stdout.String(), stderr.String()
}

func TestCheckCleanFilter(t *testing.T) {
	code, out, _ := runCheck(t, false, writeFile(t, "good.filter", goodFilter))
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "2 rules, 0 errors, 0 warnings\n", out)
}

func TestCheckReportsDiagnostics(t *testing.T) {
	path := writeFile(t, "bad.filter", `Show
    SocketGroup RGX
    PlayAlertSound 1
    PlayAlertSound 2
`)
	code, out, _ := runCheck(t, false, path)
	assert.Equal(t, exitErrors, code)
	assert.Contains(t, out, `error: Invalid socket group "RGX" at line 2 (allowed characters are R,G,B,W,D,A)`)
	assert.Contains(t, out, "warning: Multiple PlayAlertSound modifiers found in rule at line 1.")
	assert.Contains(t, out, "1 rules, 1 errors, 1 warnings")
	assert.NotContains(t, out, "\x1b[", "no color without a terminal")
}

func TestCheckColors(t *testing.T) {
	path := writeFile(t, "good.filter", goodFilter)

	_, out, _ := runCheck(t, true, path)
	assert.Contains(t, out, "\x1b[32m2 rules")

	_, out, _ = runCheck(t, true, "-color", "never", path)
	assert.NotContains(t, out, "\x1b[")

	_, out, _ = runCheck(t, false, "-color", "always", path)
	assert.Contains(t, out, "\x1b[")
}

func TestCheckLines(t *testing.T) {
	code, out, _ := runCheck(t, false, "-lines", writeFile(t, "good.filter", goodFilter))
	assert.Equal(t, exitOK, code)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "   1 Comment   | # league start", lines[0])
	assert.Equal(t, "   2 Visibility| Show", lines[1])
	assert.Equal(t, "   3 Filter    |     Class Currency", lines[2])
	assert.Equal(t, "   4 Modifier  |     SetFontSize 40", lines[3])
	assert.Equal(t, "   6 Empty     | ", lines[5])
}

func TestCheckItems(t *testing.T) {
	filter := writeFile(t, "good.filter", goodFilter)
	items := writeFile(t, "items.yaml", itemsFixture)

	code, out, _ := runCheck(t, false, "-items", items, filter)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Chaos Orb (4): Show (line 2) [font 40, sound ShChaos@150]")
	assert.Contains(t, out, "Iron Ring: Hide (line 7)")
	assert.Contains(t, out, "Vaal Regalia: no match")
}

func TestCheckIndex(t *testing.T) {
	code, out, _ := runCheck(t, false, "-index", writeFile(t, "good.filter", goodFilter))
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Class: lines 2\nItemLevel: lines 7\nRarity: lines 7\n")
}

func TestListKeywords(t *testing.T) {
	code, out, _ := runCheck(t, false, "-keywords")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "visibility\n  Show\n  Hide\n")
	assert.Contains(t, out, "  Rarity [<operator>] <Normal|Magic|Rare|Unique>...\n")
	assert.Contains(t, out, "meta\n  Continue\n")
}

func TestUsageErrors(t *testing.T) {
	code, _, stderr := runCheck(t, false)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Usage: lootcheck")

	code, _, _ = runCheck(t, false, "-color", "sometimes", "x.filter")
	assert.Equal(t, exitUsage, code)

	code, _, stderr = runCheck(t, false, filepath.Join(t.TempDir(), "missing.filter"))
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Error:")

	code, _, _ = runCheck(t, false, "-items", "nope.yaml", writeFile(t, "good.filter", goodFilter))
	assert.Equal(t, exitUsage, code)
}
