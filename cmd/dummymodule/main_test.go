package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dummymodule/internal/fault"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DUMMYMODULE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DUMMYMODULE_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestOKPrintsConfirmation(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "--output_dir", dir, "--evaluate", "2+3*4", "--name", "stage", "--ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != Confirmation+"\n" {
		t.Fatalf("expected confirmation, got %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stage_data.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"result": 14, "error": null}` {
		t.Fatalf("unexpected named output: %s", data)
	}
}

func TestCleanRunWithoutOKIsSilent(t *testing.T) {
	out, err := execute(t, "--output_dir", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no stdout, got %q", out)
	}
}

func TestHelpIsAnOrdinaryFlag(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, "--output_dir", dir, "--help"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "cli.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "--help\n") {
		t.Fatalf("expected --help in cli.txt, got %q", data)
	}
}

func TestFaultIsReturned(t *testing.T) {
	_, err := execute(t, "--output_dir", t.TempDir(), "--fail")
	if fault.KindOf(err) != fault.KindInjected {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if got := errorLine(err); got != "dummymodule: InjectedFailure: failing hard" {
		t.Fatalf("unexpected stderr line %q", got)
	}
}

func TestInvalidConfigIsConfigurationError(t *testing.T) {
	t.Setenv("DUMMYMODULE_MAX_TERMS", "0")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--output_dir", t.TempDir()})
	cmd.SetOut(&out)
	err := cmd.Execute()
	if fault.KindOf(err) != fault.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestMetricsTextfileWrittenOnFailure(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "metrics", "run.prom")
	t.Setenv("DUMMYMODULE_METRICS_TEXTFILE", prom)

	_, err := execute(t, "--output_dir", dir, "--evaluate", "2^3")
	if fault.KindOf(err) != fault.KindValue {
		t.Fatalf("expected value error, got %v", err)
	}

	data, readErr := os.ReadFile(prom)
	if readErr != nil {
		t.Fatalf("metrics textfile missing: %v", readErr)
	}
	if !strings.Contains(string(data), `dummymodule_faults_total{kind="value"} 1`) {
		t.Fatalf("fault not recorded:\n%s", data)
	}
}

func TestErrorLineForPlainError(t *testing.T) {
	if got := errorLine(errors.New("boom")); got != "dummymodule: UnknownError: boom" {
		t.Fatalf("unexpected line %q", got)
	}
}
