package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		toolLocale, promptMessage = "", ""
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := runCLI(t, "validate", "--file", "../../data/business.json")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "ring-jewelers: ok") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestValidateCommand_DuplicatedSKU(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.json")
	body := `{"id":"dup","catalog":[{"sku":"A","title":"a","price":1},{"sku":"A","title":"b","price":2}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "validate", "--file", path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestOffersCommand(t *testing.T) {
	out, err := runCLI(t, "offers", "--file", "../../data/business.json", "--locale", "en-US")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{"CINT-A · ", "CINT-B · ", "base: "} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestPromptCommand(t *testing.T) {
	out, err := runCLI(t, "prompt", "--file", "../../data/business.json", "--message", "hello, price?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "Habla en en-US") {
		t.Errorf("expected detected locale in prompt, got %q", out)
	}
	if !strings.Contains(out, "CATÁLOGO RELEVANTE") {
		t.Error("expected catalog section")
	}
}
