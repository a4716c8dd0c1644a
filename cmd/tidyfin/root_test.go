package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty sample config")
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "init", "--path", target})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
}

func TestOrganizeRejectsBadItemID(t *testing.T) {
	cmd := newOrganizeCommand(newCommandContext(nil))
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"abc"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "invalid item id") {
		t.Fatalf("expected id parse error, got %v", err)
	}
}

func TestShouldSkipConfigWalksParents(t *testing.T) {
	parent := &cobra.Command{Use: "parent", Annotations: map[string]string{"skipConfigLoad": "true"}}
	child := &cobra.Command{Use: "child"}
	parent.AddCommand(child)

	if !shouldSkipConfig(child) {
		t.Fatal("expected child to inherit skipConfigLoad")
	}
	if shouldSkipConfig(&cobra.Command{Use: "other"}) {
		t.Fatal("expected plain command to load config")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"only"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "only") {
		t.Fatalf("expected cell in output, got %q", out)
	}
}
