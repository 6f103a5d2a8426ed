package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rechedev9/tealium-mcp-server/pkg/config"
)

func testShell(t *testing.T, cfg *config.Config) (*Shell, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s := New(cfg)
	s.output = &buf
	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return s, &buf
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestShellHelp verifies help output lists all commands.
func TestShellHelp(t *testing.T) {
	s, buf := testShell(t, nil)
	s.Exec("help")
	for _, cmd := range commands {
		if !strings.Contains(buf.String(), cmd) {
			t.Errorf("help output missing command %q", cmd)
		}
	}
}

func TestShellRequiresLoad(t *testing.T) {
	for _, cmd := range []string{"validate", "debug", "show"} {
		s, buf := testShell(t, nil)
		s.Exec(cmd)
		if !strings.Contains(buf.String(), "no data layer loaded") {
			t.Errorf("%s: expected load hint, got %q", cmd, buf.String())
		}
	}
}

func TestShellLoadValidate(t *testing.T) {
	path := writeFile(t, "dl.yaml", "page:\n  pageName: home\n  pageType: home\n  language: en-US\n  currency: USD\nuser:\n  visitorId: v1\n")
	s, buf := testShell(t, nil)

	s.Exec("load " + path)
	if !strings.Contains(buf.String(), "Loaded") {
		t.Fatalf("expected load confirmation, got %q", buf.String())
	}
	buf.Reset()

	s.Exec("validate")
	if !strings.Contains(buf.String(), "✓ Data layer is valid") {
		t.Errorf("expected valid report, got %q", buf.String())
	}
}

func TestShellLoadMissingFile(t *testing.T) {
	s, buf := testShell(t, nil)
	s.Exec("load " + filepath.Join(t.TempDir(), "missing.json"))
	if !strings.Contains(buf.String(), "Error:") || s.file != "" {
		t.Errorf("expected load error, got %q", buf.String())
	}
}

func TestShellSchemaAndStrict(t *testing.T) {
	s, buf := testShell(t, nil)

	s.Exec("schema retail")
	if !strings.Contains(buf.String(), "schema not found") || s.schema != "standard" {
		t.Errorf("expected unknown schema to be rejected, got %q", buf.String())
	}

	s.Exec("schema hotels")
	s.Exec("strict on")
	if s.schema != "hotels" || !s.strict {
		t.Fatalf("expected hotels strict, got %s strict=%v", s.schema, s.strict)
	}
	if p := s.buildPrompt(); p != "tealium[- | hotels strict]> " {
		t.Errorf("unexpected prompt %q", p)
	}

	s.Exec("strict maybe")
	if !s.strict || !strings.Contains(buf.String(), "Usage: strict on|off") {
		t.Error("expected usage for bad strict argument")
	}
}

func TestShellStrictValidate(t *testing.T) {
	path := writeFile(t, "dl.json", `{"page":{"pageName":"home","page_section":"x"}}`)
	s, buf := testShell(t, nil)
	s.Exec("load " + path)
	s.Exec("strict on")
	buf.Reset()

	s.Exec("validate")
	if !strings.Contains(buf.String(), "(strict mode)") {
		t.Errorf("expected strict summary, got %q", buf.String())
	}
}

func TestShellDebugCheckpoints(t *testing.T) {
	path := writeFile(t, "dl.json", `{"page":{"pageName":"p"},"products":[{"productId":""}]}`)
	s, buf := testShell(t, nil)
	s.Exec("load " + path)
	buf.Reset()

	s.Exec("debug products")
	if !strings.Contains(buf.String(), "products[0].productId") {
		t.Errorf("expected products checkpoint issue, got %q", buf.String())
	}
}

func TestShellShowAndUnknown(t *testing.T) {
	path := writeFile(t, "dl.json", `{"page":{"pageName":"p"}}`)
	s, buf := testShell(t, nil)
	s.Exec("load " + path)
	s.Exec("show")
	if !strings.Contains(buf.String(), `"pageName": "p"`) {
		t.Errorf("expected data layer in show output, got %q", buf.String())
	}

	if s.Exec("frobnicate") {
		t.Error("unknown command must not quit")
	}
	if !strings.Contains(buf.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
	if !s.Exec("quit") {
		t.Error("quit must exit")
	}
}

func TestShellPromptDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultSchema = "ecommerce"
	s, _ := testShell(t, cfg)
	if p := s.buildPrompt(); p != "tealium[- | ecommerce]> " {
		t.Errorf("unexpected prompt %q", p)
	}
}
