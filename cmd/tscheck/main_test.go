// Copyright 2026 The Tscheck Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tscheck.io/tsc/typecheck"
)

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestEvalFlagClean(t *testing.T) {
	code, _, stderr := runCmd(t, "-e", `let x: number = 4;`)
	require.Equal(t, 0, code, "stderr: %s", stderr)
	require.Empty(t, stderr)
}

func TestEvalFlagDiagnostic(t *testing.T) {
	code, _, stderr := runCmd(t, "-e", `let x: string = 4;`)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "TS2322")
	require.Contains(t, stderr, "not assignable")
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ts")
	require.NoError(t, os.WriteFile(good, []byte("let n = 1;\n"), 0o644))
	bad := filepath.Join(dir, "bad.ts")
	require.NoError(t, os.WriteFile(bad, []byte("let s: string = 1;\n"), 0o644))

	code, _, stderr := runCmd(t, good)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	code, _, stderr = runCmd(t, good, bad)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "bad.ts:1")
}

func TestMissingFile(t *testing.T) {
	code, _, stderr := runCmd(t, filepath.Join(t.TempDir(), "absent.ts"))
	require.Equal(t, 1, code)
	require.NotEmpty(t, stderr)
}

func TestParseErrorReported(t *testing.T) {
	code, _, stderr := runCmd(t, "-e", `let = ;`)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "TS1005")
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{
  "compilerOptions": { "strictNullChecks": false }
}`), 0o644))

	// Assigning undefined to string is only legal with strict null
	// checks off.
	code, _, stderr := runCmd(t, "-config", cfg, "-e", `let s: string = undefined;`)
	require.Equal(t, 0, code, "stderr: %s", stderr)

	code, _, _ = runCmd(t, "-e", `let s: string = undefined;`)
	require.Equal(t, 1, code)
}

func TestConfigStrictToggle(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{
  "compilerOptions": { "strict": false, "strictNullChecks": true }
}`), 0o644))

	opts := typecheck.Options{StrictNullChecks: true, NoImplicitThis: true}
	require.NoError(t, loadConfig(cfg, &opts))
	require.True(t, opts.StrictNullChecks, "specific key overrides strict")
	require.False(t, opts.NoImplicitThis)
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{nope`), 0o644))
	code, _, stderr := runCmd(t, "-config", cfg, "-e", `let x = 1;`)
	require.Equal(t, 2, code)
	require.NotEmpty(t, stderr)
}
