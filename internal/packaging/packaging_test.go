package packaging

import (
	"archive/zip"
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"reel/internal/services"
)

func writeFiles(t *testing.T, names map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for name, content := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return dir, paths
}

func TestDecideEmptySet(t *testing.T) {
	_, err := Decide(nil, true)
	if !errors.Is(err, services.ErrNoOutputProduced) {
		t.Fatalf("expected no-output error, got %v", err)
	}
}

func TestDecideSingleFile(t *testing.T) {
	decision, err := Decide([]string{"/scratch/x.mp4"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Mode != SingleStream {
		t.Fatalf("mode %q", decision.Mode)
	}
}

func TestDecideMultiFileWithoutPermission(t *testing.T) {
	decision, err := Decide([]string{"/scratch/b.jpg", "/scratch/a.mp4"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Mode != SingleStream {
		t.Fatalf("mode %q, want single-stream when multi-file is not allowed", decision.Mode)
	}
	if filepath.Base(decision.Files[0]) != "a.mp4" {
		t.Fatalf("single-stream must pick the first ordered file, got %q", decision.Files[0])
	}
}

func TestDecideArchive(t *testing.T) {
	decision, err := Decide([]string{"/s/c.mp4", "/s/b.jpg", "/s/a.mp4"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Mode != Archive {
		t.Fatalf("mode %q", decision.Mode)
	}
	got := []string{
		filepath.Base(decision.Files[0]),
		filepath.Base(decision.Files[1]),
		filepath.Base(decision.Files[2]),
	}
	want := []string{"a.mp4", "c.mp4", "b.jpg"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestServeSingleStreamsExactBytes(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"x.mp4": "0123456789"})

	cleanups := 0
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/download", nil)
	decision := Decision{Mode: SingleStream, Files: paths}
	err := New(nil).Serve(recorder, request, decision, "", func() { cleanups++ })
	if err != nil {
		t.Fatal(err)
	}
	if cleanups != 1 {
		t.Fatalf("cleanup ran %d times", cleanups)
	}
	if recorder.Body.Len() != 10 {
		t.Fatalf("body length %d, want 10", recorder.Body.Len())
	}
	if got := recorder.Header().Get("Content-Length"); got != strconv.Itoa(10) {
		t.Fatalf("content length %q", got)
	}
	if got := recorder.Header().Get("Content-Disposition"); got != `attachment; filename="x.mp4"` {
		t.Fatalf("content disposition %q", got)
	}
	if got := recorder.Header().Get("Content-Type"); got == "" || got == "application/octet-stream" {
		t.Fatalf("expected a video content type, got %q", got)
	}
}

func TestServeSingleMissingFileCleansUp(t *testing.T) {
	cleanups := 0
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/download", nil)
	decision := Decision{Mode: SingleStream, Files: []string{"/nonexistent/x.mp4"}}
	err := New(nil).Serve(recorder, request, decision, "", func() { cleanups++ })
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if cleanups != 1 {
		t.Fatalf("cleanup ran %d times", cleanups)
	}
}

func TestServeArchiveRoundTrip(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.mp4": "video-bytes",
		"b.jpg": "image-bytes",
	})

	cleanups := 0
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/download", nil)
	decision, err := Decide(paths, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := New(nil).Serve(recorder, request, decision, "carousel", func() { cleanups++ }); err != nil {
		t.Fatal(err)
	}
	if cleanups != 1 {
		t.Fatalf("cleanup ran %d times", cleanups)
	}
	if got := recorder.Header().Get("Content-Type"); got != "application/zip" {
		t.Fatalf("content type %q", got)
	}
	if got := recorder.Header().Get("Content-Disposition"); got != `attachment; filename="carousel.zip"` {
		t.Fatalf("content disposition %q", got)
	}

	reader, err := zip.NewReader(bytes.NewReader(recorder.Body.Bytes()), int64(recorder.Body.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("archive holds %d entries", len(reader.File))
	}
	if reader.File[0].Name != "a.mp4" || reader.File[1].Name != "b.jpg" {
		t.Fatalf("entry order %q, %q", reader.File[0].Name, reader.File[1].Name)
	}
}
