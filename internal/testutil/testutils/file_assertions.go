package helpers

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree materializes files (slash-separated paths relative to root) and
// returns root for chaining. An empty content still creates the file.
func WriteTree(t *testing.T, root string, files map[string]string) string {
	t.Helper()

	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

// MakeDirs creates empty directories under root.
func MakeDirs(t *testing.T, root string, dirs ...string) {
	t.Helper()

	for _, rel := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0o750); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
	}
}
