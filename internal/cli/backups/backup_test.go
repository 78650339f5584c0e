package backups

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/askeza/internal/backup"
	"github.com/julianstephens/askeza/internal/cli"
	"github.com/julianstephens/askeza/internal/clock"
	"github.com/julianstephens/askeza/internal/config"
	"github.com/julianstephens/askeza/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, *clock.Fake) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clk := clock.NewFake(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	ctx := cli.NewContext(store, &config.Config{TickInterval: time.Minute, Timezone: "UTC"}, clk, time.UTC)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out, clk
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, clk := setupTestContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output %q", out.String())
	}

	for i := 0; i < 2; i++ {
		if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		clk.Advance(time.Hour)
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "2 total") {
		t.Errorf("expected two backups listed:\n%s", got)
	}
	if !strings.Contains(got, "askeza-20260401-090000.db") || !strings.Contains(got, "askeza-20260401-100000.db") {
		t.Errorf("expected both backup files in output:\n%s", got)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	if err := ctx.Store.SaveValue("marker", []byte("before")); err != nil {
		t.Fatal(err)
	}
	path, err := backup.NewManager(ctx.Store.GetConfigPath(), ctx.Clock).Create()
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if err := ctx.Store.SaveValue("marker", []byte("after")); err != nil {
		t.Fatal(err)
	}

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(path), In: strings.NewReader("n\n")}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output %q", out.String())
	}
	if v, _ := ctx.Store.LoadValue("marker"); string(v) != "after" {
		t.Errorf("cancelled restore must leave data alone, got %q", v)
	}
}

func TestBackupRestoreConfirmed(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(path string) *BackupRestoreCmd
	}{
		{"answer yes", func(path string) *BackupRestoreCmd {
			return &BackupRestoreCmd{BackupFile: filepath.Base(path), In: strings.NewReader("YES\n")}
		}},
		{"flag", func(path string) *BackupRestoreCmd {
			return &BackupRestoreCmd{BackupFile: path, Yes: true}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, clk := setupTestContext(t)
			if err := ctx.Store.SaveValue("marker", []byte("before")); err != nil {
				t.Fatal(err)
			}
			path, err := backup.NewManager(ctx.Store.GetConfigPath(), ctx.Clock).Create()
			if err != nil {
				t.Fatalf("backup failed: %v", err)
			}
			if err := ctx.Store.SaveValue("marker", []byte("after")); err != nil {
				t.Fatal(err)
			}
			clk.Advance(time.Minute)

			if err := tt.cmd(path).Run(ctx); err != nil {
				t.Fatalf("restore failed: %v", err)
			}
			if !strings.Contains(out.String(), "Database restored successfully!") {
				t.Errorf("unexpected output %q", out.String())
			}

			if err := ctx.Store.Load(); err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if v, _ := ctx.Store.LoadValue("marker"); string(v) != "before" {
				t.Errorf("expected restored marker %q, got %q", "before", v)
			}
		})
	}
}

func TestResolveBackupPath(t *testing.T) {
	dir := t.TempDir()
	inDir := filepath.Join(dir, "askeza-20260401-090000.db")
	if err := os.WriteFile(inDir, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"absolute", inDir, inDir, false},
		{"bare name", "askeza-20260401-090000.db", inDir, false},
		{"missing absolute", filepath.Join(dir, "nope.db"), "", true},
		{"missing name", "nope.db", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBackupPath(tt.in, dir)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %s", got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("resolveBackupPath(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}
