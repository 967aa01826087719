package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveAnchorExplicitDate(t *testing.T) {
	// 2026-03-04 is a Wednesday; its week starts Monday 2026-03-02.
	anchor, err := resolveAnchor("2026-03-04")
	require.NoError(t, err)
	require.Equal(t, "2026-03-02", anchor.Format("2006-01-02"))
	require.Equal(t, time.Monday, anchor.Weekday())
}

func TestResolveAnchorSunday(t *testing.T) {
	// Sunday belongs to the week that began the previous Monday.
	anchor, err := resolveAnchor("2026-03-08")
	require.NoError(t, err)
	require.Equal(t, "2026-03-02", anchor.Format("2006-01-02"))
}

func TestResolveAnchorDefault(t *testing.T) {
	anchor, err := resolveAnchor("")
	require.NoError(t, err)
	require.Equal(t, time.Monday, anchor.Weekday())
	require.False(t, anchor.After(time.Now().UTC()))
}

func TestResolveAnchorInvalid(t *testing.T) {
	_, err := resolveAnchor("03/04/2026")
	require.Error(t, err)
}

func TestFormatMinutes(t *testing.T) {
	require.Equal(t, "45m", formatMinutes(45))
	require.Equal(t, "1h 00m", formatMinutes(60))
	require.Equal(t, "2h 05m", formatMinutes(125))
}

func TestExportCmdWritesFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "punchcard.db")
	outPath := filepath.Join(dir, "out.json")

	root := NewRootCmd()
	root.SetArgs([]string{"export", "--db", dbPath, "--format", "json", "--out", outPath})
	root.SetOut(&bytes.Buffer{})

	require.NoError(t, root.Execute())

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportCmdRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	root := NewRootCmd()
	root.SetArgs([]string{"export", "--db", filepath.Join(dir, "p.db"), "--format", "xml"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.Error(t, root.Execute())
}

func TestReportCmdPrintsWeek(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	root := NewRootCmd()
	root.SetArgs([]string{"report", "--db", filepath.Join(dir, "p.db"), "--week", "2026-03-04"})
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "Week 2026-03-02 — 2026-03-08")
	require.Contains(t, out.String(), "Total: 0m")
}
