package fs

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestReadText(t *testing.T) {
	testFs := SetupTestDir(map[string]string{
		"/backups/waterx-backup-2024-05-01.json": `{"customers":[]}`,
	})

	text, err := ReadText(testFs, "/backups/waterx-backup-2024-05-01.json")
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text != `{"customers":[]}` {
		t.Errorf("unexpected content %q", text)
	}

	if _, err := ReadText(testFs, "/backups/missing.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadTextDecoding(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", `{"a":"ü"}`, `{"a":"ü"}`},
		{"byte order mark", "\xEF\xBB\xBF{\"a\":1}", `{"a":1}`},
		{"only leading mark removed", "x\xEF\xBB\xBF", "x\uFEFF"},
		{"invalid bytes replaced", "{\"a\":\"\xff\xfeok\"}", "{\"a\":\"\uFFFD\uFFFDok\"}"},
		{"truncated sequence", "{\"a\":\"\xc3\"}", "{\"a\":\"\uFFFD\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFs := SetupTestDir(map[string]string{"/in.json": tt.content})
			got, err := ReadText(testFs, "/in.json")
			if err != nil {
				t.Fatalf("ReadText failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	memFs := NewMemMapFs()

	if err := WriteFileAtomic(memFs, "/out/nested/file.json", []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	content, err := afero.ReadFile(memFs, "/out/nested/file.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("expected 'hello', got %q", string(content))
	}

	// No temp files left behind
	entries, err := afero.ReadDir(memFs, "/out/nested")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileAtomicReadOnly(t *testing.T) {
	ro := NewReadOnlyFs(NewMemMapFs())

	if err := WriteFileAtomic(ro, "/out/file.json", []byte("x"), 0o644); err == nil {
		t.Fatal("expected error on read-only filesystem")
	}

	exists, _ := Exists(ro, "/out/file.json")
	if exists {
		t.Error("no file should exist after a failed write")
	}
}

func TestReadWriteJSON(t *testing.T) {
	memFs := NewMemMapFs()

	type record struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	var missing record
	if err := ReadJSON(memFs, "/state/none.json", &missing); err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}

	in := record{ID: "42", Name: "Ada"}
	if err := WriteJSON(memFs, "/state/rec.json", in, 0o600); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var out record
	if err := ReadJSON(memFs, "/state/rec.json", &out); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}

	info, err := memFs.Stat("/state/rec.json")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != os.FileMode(0o600) {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestFileSize(t *testing.T) {
	testFs := SetupTestDir(map[string]string{"/a.json": "12345"})

	size, err := FileSize(testFs, "/a.json")
	if err != nil {
		t.Fatalf("FileSize failed: %v", err)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
}

func TestCheckWriteAccess(t *testing.T) {
	memFs := afero.NewMemMapFs()

	if err := CheckWriteAccess(memFs, "/exports/new"); err != nil {
		t.Fatalf("CheckWriteAccess failed: %v", err)
	}
	info, err := memFs.Stat("/exports/new")
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory to be created")
	}
	if ok, _ := afero.Exists(memFs, "/exports/new/"+writeProbe); ok {
		t.Error("probe file should be removed")
	}
}

func TestCheckWriteAccessReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	_ = base.MkdirAll("/exports", 0o755)

	if err := CheckWriteAccess(afero.NewReadOnlyFs(base), "/exports"); err == nil {
		t.Error("expected an error on a read-only filesystem")
	}
}
