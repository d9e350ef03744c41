package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadFileJSONAndYAMLEquivalent(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	jsonPath := writeConfig(t, dir, "a.json", `{
		"name": "ingest",
		"job": "ingestion/job.py",
		"args": ["--batch", "10"],
		"propagate_exit_code": true
	}`)
	yamlPath := writeConfig(t, dir, "a.yaml", `
name: ingest
job: ingestion/job.py
args: ["--batch", "10"]
propagate_exit_code: true
`)

	fromJSON, err := loader.LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("LoadFile(json) error: %v", err)
	}
	fromYAML, err := loader.LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadFile(yaml) error: %v", err)
	}

	if !reflect.DeepEqual(fromJSON, fromYAML) {
		t.Errorf("JSON and YAML configs differ:\n%+v\n%+v", fromJSON, fromYAML)
	}
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	path := writeConfig(t, dir, "cronguard.json", `{"name": "ingest", "job": "job.py"}`)
	cfg, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	if cfg.Interpreter != DefaultInterpreter {
		t.Errorf("expected default interpreter, got %q", cfg.Interpreter)
	}
	if cfg.LogDir != DefaultLogDir {
		t.Errorf("expected default log dir, got %q", cfg.LogDir)
	}
	if cfg.HistoryLimit != DefaultHistoryLimit {
		t.Errorf("expected default history limit, got %d", cfg.HistoryLimit)
	}
	if cfg.PropagateExitCode {
		t.Error("propagate_exit_code must default to false")
	}
}

func TestLoadFileExpandsEnv(t *testing.T) {
	os.Setenv("CG_JOB_PATH", "ingestion/job.py")
	defer os.Unsetenv("CG_JOB_PATH")

	dir := t.TempDir()
	loader := NewLoader()

	path := writeConfig(t, dir, "cronguard.json",
		`{"name": "ingest", "job": "${CG_JOB_PATH}", "log_dir": "${CG_UNSET:-logs}"}`)
	cfg, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	if cfg.Job != "ingestion/job.py" {
		t.Errorf("expected expanded job path, got %q", cfg.Job)
	}
	if cfg.LogDir != "logs" {
		t.Errorf("expected fallback log dir, got %q", cfg.LogDir)
	}
}

func TestLoadAndValidateRejectsMissingJob(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader()

	path := writeConfig(t, dir, "cronguard.json", `{"name": "ingest"}`)
	if _, err := loader.LoadAndValidate(path); err == nil {
		t.Fatal("expected validation error for missing job")
	}
}

func TestFindDefault(t *testing.T) {
	dir := t.TempDir()

	if _, err := FindDefault(dir); err == nil {
		t.Fatal("expected error when no config exists")
	}

	want := writeConfig(t, dir, "cronguard.yaml", "name: ingest\njob: job.py\n")
	got, err := FindDefault(dir)
	if err != nil {
		t.Fatalf("FindDefault error: %v", err)
	}
	if got != want {
		t.Errorf("FindDefault = %q, want %q", got, want)
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("/opt/cg", "logs"); got != filepath.Join("/opt/cg", "logs") {
		t.Errorf("relative path not joined: %q", got)
	}
	if got := Resolve("/opt/cg", "/var/log/cg"); got != "/var/log/cg" {
		t.Errorf("absolute path must pass through: %q", got)
	}
	if got := Resolve("/opt/cg", ""); got != "" {
		t.Errorf("empty path must pass through: %q", got)
	}
}
