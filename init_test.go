package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/rbdoc/internal/config"
)

func TestInitDryRun(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	if err := runInit([]string{"-dry-run"}, &stdout, &stderr); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	if !strings.Contains(stdout.String(), "max_file_size") {
		t.Errorf("dry-run output = %q", stdout.String())
	}
}

func TestInitWritesConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	if err := runInit([]string{dir}, &stdout, &stderr); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	path := filepath.Join(dir, config.FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}

	// The starter file must parse as a valid Config.
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("starter config is not valid yaml: %v", err)
	}
	if cfg.MaxFileSize != 1_000_000 {
		t.Errorf("max file size = %d", cfg.MaxFileSize)
	}
	if cfg.Cache != ".rbdoc-cache" {
		t.Errorf("cache = %q", cfg.Cache)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("cache: mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := runInit([]string{dir}, &stdout, &stderr); err == nil {
		t.Fatal("runInit overwrote an existing config")
	}

	if err := runInit([]string{"-force", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("runInit -force: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "max_file_size") {
		t.Error("forced init did not rewrite the config")
	}
}
