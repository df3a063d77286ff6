package cli

import (
	"strings"
	"testing"
)

func TestExecuteWrapper(t *testing.T) {
	defer resetCLI()
	// no injected catalog: PersistentPreRunE builds and seeds one
	catalogSvc = nil
	out, _, err := execute("", "value")
	if err != nil {
		t.Fatalf("Execute wrapper failed: %v", err)
	}
	if strings.TrimSpace(out) != "Total inventory value: 1450.00" {
		t.Fatalf("unexpected output: %q", out)
	}
	if catalogSvc == nil {
		t.Fatal("expected catalog to be created")
	}
}

func TestExecuteWithoutSeed(t *testing.T) {
	defer resetCLI()
	catalogSvc = nil
	out, _, err := execute("", "--seed=false", "value")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if strings.TrimSpace(out) != "Total inventory value: 0.00" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestExecuteBadConfigFile(t *testing.T) {
	defer resetCLI()
	defer rootCmd.PersistentFlags().Set("config", "")
	catalogSvc = nil
	if _, _, err := execute("", "--config", "testdata/missing.yaml", "value"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
