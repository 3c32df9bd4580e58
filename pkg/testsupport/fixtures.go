// Package testsupport holds helpers for fixture and golden file tests.
package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set to "1".
const UpdateGoldenEnv = "UPDATE_GOLDEN"

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON loads a JSON fixture into dest.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// WriteGolden writes data to a golden file, creating parent directories.
func WriteGolden(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

func updating() bool {
	return os.Getenv(UpdateGoldenEnv) == "1"
}

// CompareWithGolden compares actual with the golden file byte for byte.
func CompareWithGolden(t *testing.T, path string, actual []byte) {
	t.Helper()

	if updating() {
		WriteGolden(t, path, actual)
		return
	}

	expected := LoadFixture(t, path)
	if !bytes.Equal(bytes.TrimSpace(actual), bytes.TrimSpace(expected)) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, actual)
	}
}

// CompareJSONWithGolden marshals actual and compares it with the golden
// file as JSON values, so formatting and key order do not matter.
func CompareJSONWithGolden(t *testing.T, path string, actual any) {
	t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal JSON for %s: %v", path, err)
	}

	if updating() {
		WriteGolden(t, path, append(data, '\n'))
		return
	}

	var want, got any
	if err := json.Unmarshal(LoadFixture(t, path), &want); err != nil {
		t.Fatalf("golden file %s is not valid JSON: %v", path, err)
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to decode actual JSON: %v", err)
	}

	if !reflect.DeepEqual(want, got) {
		t.Errorf("JSON mismatch for %s:\nActual:\n%s", path, data)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
