package analysis

import (
	"os"
	"path/filepath"
	"testing"
)

func writeKeywordFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "key_name.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write keyword file: %v", err)
	}
	return path
}

func TestCountPeriodSumsWithinInterval(t *testing.T) {
	t.Parallel()

	path := writeKeywordFile(t, `{
		"20250131": ["alpha", "beta"],
		"20250201": ["alpha", "alpha", "gamma"],
		"20250228": ["beta"],
		"20250301": ["alpha"]
	}`)

	table, err := NewKeywordCounter().CountPeriod(path, "20250201", "20250228")
	if err != nil {
		t.Fatalf("CountPeriod error: %v", err)
	}

	if table["alpha"] != 2 {
		t.Fatalf("alpha count = %d, want 2", table["alpha"])
	}
	if table["beta"] != 1 {
		t.Fatalf("beta count = %d, want 1", table["beta"])
	}
	if table["gamma"] != 1 {
		t.Fatalf("gamma count = %d, want 1", table["gamma"])
	}
	if len(table) != 3 {
		t.Fatalf("unexpected table size %d: %v", len(table), table)
	}
}

func TestCountPeriodIncludesBothEndpoints(t *testing.T) {
	t.Parallel()

	path := writeKeywordFile(t, `{
		"20250201": ["first"],
		"20250228": ["last"]
	}`)

	table, err := NewKeywordCounter().CountPeriod(path, "20250201", "20250228")
	if err != nil {
		t.Fatalf("CountPeriod error: %v", err)
	}
	if table["first"] != 1 || table["last"] != 1 {
		t.Fatalf("endpoints missing from table: %v", table)
	}
}

func TestCountPeriodMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewKeywordCounter().CountPeriod(filepath.Join(t.TempDir(), "absent.json"), "20250201", "20250228")
	if err == nil {
		t.Fatal("expected error for missing keyword file")
	}
}
