package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"
)

// execute runs the root command with args and resets flag state afterwards.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		configPath, showVersion = "", false
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "tealium-mcp dev" {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestConfigFlag_Missing(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error for explicit config, got %v", err)
	}
}

func TestConfigFlag_Serves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_schema: hotels\nlog_level: error\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var served *server.MCPServer
	orig := serve
	serve = func(s *server.MCPServer) error {
		served = s
		return nil
	}
	t.Cleanup(func() { serve = orig })

	if _, err := execute(t, "--config", path); err != nil {
		t.Fatal(err)
	}
	if served == nil {
		t.Fatal("expected the server to be started")
	}
}

func TestRejectsArgs(t *testing.T) {
	if _, err := execute(t, "extra"); err == nil {
		t.Error("expected positional arguments to be rejected")
	}
}
