package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// UpdateEnv names the variable that rewrites golden files instead of comparing.
const UpdateEnv = "GOLDEN_UPDATE"

// Golden compares got against testdata/<name>.golden and reports the first differing line.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nGot:\n%s", path, err, got)
	}
	if string(want) == string(got) {
		return
	}

	wantLines := strings.Split(string(want), "\n")
	gotLines := strings.Split(string(got), "\n")
	for i := 0; i < len(wantLines) || i < len(gotLines); i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w != g {
			t.Errorf("%s: line %d differs\nwant: %q\ngot:  %q\nfull output:\n%s", path, i+1, w, g, got)
			return
		}
	}
}

// GoldenString is Golden for string output.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}
