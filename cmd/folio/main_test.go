package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/manuscript"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	userID, paceDate, reconcileCycle, reconcileFile, reconcileDone = "default", "", "", "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FOLIO_TIMEZONE", "UTC")
	t.Setenv("FOLIO_DB_PATH", filepath.Join(t.TempDir(), "data", "folio.db"))
	t.Setenv("FOLIO_DEFAULT_TARGET", "10")
	t.Setenv("FOLIO_CONFIG_PATH", "")
}

func TestCycleCommand(t *testing.T) {
	setupEnv(t)

	out := execute(t, "", "cycle", "2026-01-26")
	require.Contains(t, out, "2026-01-C2")
	require.Contains(t, out, "2026-01-26 to 2026-02-10 (16 days)")
	require.Contains(t, out, "previous 2026-01-C1, next 2026-02-C1")
}

func TestPaceCommand(t *testing.T) {
	setupEnv(t)

	out := execute(t, "", "pace", "--date", "2026-01-21")
	require.Contains(t, out, "2026-01-C1")
	require.Contains(t, out, "today 2026-01-21: quota 2, done 0, left 2")
	require.Contains(t, out, "DATE")
}

func TestReconcileCommand(t *testing.T) {
	setupEnv(t)

	d, err := openDeps(nil)
	require.NoError(t, err)
	m, err := d.app.Manuscripts.Create(context.Background(), "default", manuscript.CreateRequest{
		Code:         "JRN-1",
		DateReceived: time.Now(),
	})
	require.NoError(t, err)
	worked := manuscript.StatusWorked
	_, err = d.app.Manuscripts.Update(context.Background(), "default", manuscript.UpdateRequest{ID: m.ID, Status: &worked})
	require.NoError(t, err)
	d.close()

	cycleID := cycle.Resolve(time.Now().UTC()).ID

	pasted := filepath.Join(t.TempDir(), "billed.txt")
	require.NoError(t, os.WriteFile(pasted, []byte("jrn-1\nGHOST-1\n"), 0o644))

	out := execute(t, "", "reconcile", "--cycle", cycleID, "--file", pasted)
	require.Contains(t, out, "tracked 1, matched 1, missing 0, other cycle 0, unknown 1")

	out = execute(t, "jrn-1\n", "reconcile", "--cycle", cycleID, "--finish")
	require.Contains(t, out, "billed 1 manuscripts")
}

func TestAPIKeyAddCommand(t *testing.T) {
	setupEnv(t)

	out := execute(t, "", "apikey", "add", "--user", "alice")
	token := string(bytes.TrimSpace([]byte(out)))
	require.NotEmpty(t, token)

	d, err := openDeps(nil)
	require.NoError(t, err)
	defer d.close()

	user, err := d.app.APIKeys.ResolveUser(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "alice", user)
}
