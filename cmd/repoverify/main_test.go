package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const helloSHA1 = "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write file %s: %v", p, err)
	}
	return p
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	code, out, _ := runCLI(t)
	if code != exitOK {
		t.Fatalf("exit code: got %d want %d", code, exitOK)
	}
	if !strings.Contains(out, ".m2/repository") || !strings.Contains(out, "repoverify <repository-path>") {
		t.Fatalf("usage does not describe the path argument:\n%s", out)
	}
	if strings.Contains(out, "Checking repository") {
		t.Fatalf("no verification should run without a path:\n%s", out)
	}
}

func TestRun_TableDriven(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		extraArgs  []string
		wantCode   int
		wantOut    []string
		wantNotOut []string
	}{
		{
			name: "clean repository",
			files: map[string]string{
				"lib.jar":      "hello",
				"lib.jar.sha1": helloSHA1 + "  lib.jar",
			},
			wantCode:   exitOK,
			wantOut:    []string{"Checking repository", "Check finished: 0 corrupt file(s) found", "Elapsed: "},
			wantNotOut: []string{"CORRUPT", "MISSING"},
		},
		{
			name: "corrupt artifact",
			files: map[string]string{
				"lib.jar":      "hello",
				"lib.jar.sha1": "deadbeef00000000000000000000000000000000  lib.jar",
			},
			wantCode: exitOK,
			wantOut:  []string{"CORRUPT", "lib.jar", "Check finished: 1 corrupt file(s) found"},
		},
		{
			name: "corrupt artifact fails when asked",
			files: map[string]string{
				"lib.jar":      "hello",
				"lib.jar.sha1": "deadbeef00000000000000000000000000000000  lib.jar",
			},
			extraArgs: []string{"--fail-on-corrupt"},
			wantCode:  exitCorrupt,
			wantOut:   []string{"Check finished: 1 corrupt file(s) found"},
		},
		{
			name: "missing artifact",
			files: map[string]string{
				"lib.jar.sha1": helloSHA1 + "  lib.jar",
			},
			wantCode: exitOK,
			wantOut:  []string{"MISSING", "Check finished: 1 corrupt file(s) found"},
		},
		{
			name: "empty repository",
			files: map[string]string{
				"readme.txt": "nothing here",
			},
			wantCode: exitOK,
			wantOut:  []string{"Check finished: 0 corrupt file(s) found"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				writeFile(t, dir, name, content)
			}

			args := append([]string{dir}, tt.extraArgs...)
			code, out, errOut := runCLI(t, args...)
			if code != tt.wantCode {
				t.Fatalf("exit code: got %d want %d\nstdout:\n%s\nstderr:\n%s", code, tt.wantCode, out, errOut)
			}
			for _, w := range tt.wantOut {
				if !strings.Contains(out, w) {
					t.Fatalf("stdout missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.wantNotOut {
				if strings.Contains(out, w) {
					t.Fatalf("stdout should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRun_ReportsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	jar := writeFile(t, dir, filepath.Join("org", "acme", "1.0", "acme-1.0.jar"), "hello")
	writeFile(t, dir, filepath.Join("org", "acme", "1.0", "acme-1.0.jar.sha1"), "0000")

	_, out, _ := runCLI(t, dir)
	if !strings.Contains(out, jar) {
		t.Fatalf("stdout does not name %s:\n%s", jar, out)
	}
}

func TestRun_InvalidRoot(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "file.txt", "x")

	for _, root := range []string{filepath.Join(dir, "nope"), file} {
		code, _, errOut := runCLI(t, root)
		if code != exitError {
			t.Fatalf("%s: exit code got %d want %d", root, code, exitError)
		}
		if !strings.Contains(errOut, "invalid repository root") {
			t.Fatalf("%s: stderr does not explain the failure:\n%s", root, errOut)
		}
	}
}

func TestRun_TooManyArgs(t *testing.T) {
	code, _, _ := runCLI(t, "a", "b")
	if code != exitError {
		t.Fatalf("exit code: got %d want %d", code, exitError)
	}
}

func TestRun_InvalidSuffix(t *testing.T) {
	code, _, errOut := runCLI(t, "--suffix", "sha1", t.TempDir())
	if code != exitError {
		t.Fatalf("exit code: got %d want %d", code, exitError)
	}
	if !strings.Contains(errOut, "suffix") {
		t.Fatalf("stderr does not mention the suffix:\n%s", errOut)
	}
}

func TestRun_ConfigAndReportFile(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "good.jar", "hello")
	writeFile(t, repo, "good.jar.md5", "5d41402abc4b2a76b9719d911017c592  good.jar")
	bad := writeFile(t, repo, "bad.jar", "hello")
	writeFile(t, repo, "bad.jar.md5", "00000000000000000000000000000000  bad.jar")
	writeFile(t, repo, "ignored.jar.sha1", "not checked with this suffix")

	work := t.TempDir()
	list := filepath.Join(work, "corrupt.txt")
	cfg := writeFile(t, work, "repoverify.yaml", "suffix: .md5\nreport_file: "+list+"\n")

	code, out, errOut := runCLI(t, "--config", cfg, repo)
	if code != exitOK {
		t.Fatalf("exit code: got %d\nstdout:\n%s\nstderr:\n%s", code, out, errOut)
	}
	if !strings.Contains(out, "checked: 2") {
		t.Fatalf("expected two md5 files checked:\n%s", out)
	}

	data, err := os.ReadFile(list)
	if err != nil {
		t.Fatalf("read report file: %v", err)
	}
	if string(data) != bad+"\n" {
		t.Fatalf("report file mismatch:\n got: %q\nwant: %q", data, bad+"\n")
	}
}

func TestRun_FlagOverridesConfig(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "lib.jar", "hello")
	writeFile(t, repo, "lib.jar.sha1", "deadbeef  lib.jar")

	cfg := writeFile(t, t.TempDir(), "repoverify.yaml", "fail_on_corrupt: true\n")

	code, _, _ := runCLI(t, "--config", cfg, repo)
	if code != exitCorrupt {
		t.Fatalf("config fail_on_corrupt: got %d want %d", code, exitCorrupt)
	}
	code, _, _ = runCLI(t, "--config", cfg, "--fail-on-corrupt=false", repo)
	if code != exitOK {
		t.Fatalf("flag override: got %d want %d", code, exitOK)
	}
}
