package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// UpdateEnv is the environment variable that makes AssertGolden rewrite the
// golden file instead of comparing against it.
const UpdateEnv = "UPDATE_GOLDENS"

// SequentialIDs returns a deterministic uuid source yielding
// 00000000-0000-4000-8000-000000000001, ...0002 and so on. Each call starts
// a fresh sequence.
func SequentialIDs() func() uuid.UUID {
	n := 0
	return func() uuid.UUID {
		n++
		return uuid.MustParse(fmt.Sprintf("00000000-0000-4000-8000-%012d", n))
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// ReadGolden returns the contents of a golden file.
func ReadGolden(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v (run with %s=1 to create it)", path, err, UpdateEnv)
	}
	return string(data)
}

// AssertGolden compares got with the golden file at path. With UpdateEnv set
// the file is rewritten and the comparison skipped.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("write golden %s: %v", path, err)
		}
		return
	}
	if diff := cmp.Diff(ReadGolden(t, path), got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// Render runs fn against a buffer and returns both the string fn produced
// and what it wrote, failing the test on error.
func Render(t *testing.T, fn func(io.Writer) (string, error)) (returned, written string) {
	t.Helper()
	var buf bytes.Buffer
	out, err := fn(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, buf.String()
}
