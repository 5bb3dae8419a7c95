package ops

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDescribeArchive(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	files := map[string]string{
		"tasks/tasks.json":   `{"users":{}}`,
		"labels/labels.json": `{"users":{}}`,
	}
	for rel, content := range files {
		path := filepath.Join(src, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := BackupDataDir(src, archive); err != nil {
		t.Fatalf("backup: %v", err)
	}

	sum, err := DescribeArchive(archive)
	if err != nil {
		t.Fatalf("DescribeArchive: %v", err)
	}
	want := []string{"labels/labels.json", "tasks/tasks.json"}
	if !reflect.DeepEqual(sum.Files, want) {
		t.Fatalf("Files = %v, want %v", sum.Files, want)
	}
	var wantBytes int64
	for _, c := range files {
		wantBytes += int64(len(c))
	}
	if sum.TotalBytes != wantBytes {
		t.Fatalf("TotalBytes = %d, want %d", sum.TotalBytes, wantBytes)
	}
}
