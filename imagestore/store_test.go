package imagestore

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestNewCreatesFolders(t *testing.T) {
	base := filepath.Join(t.TempDir(), "images")
	s, err := New(base)
	if err != nil {
		t.Fatal(err)
	}

	for _, dir := range []string{s.InputDir(), s.OutputDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory at %s", dir)
		}
	}
}

func TestFilenameShapes(t *testing.T) {
	input := InputFilename("https://example.com/cat.png", "PNG")
	if ok, _ := regexp.MatchString(`^input_\d{8}_\d{6}_[0-9a-f]{8}\.png$`, input); !ok {
		t.Errorf("input filename = %q", input)
	}

	output := OutputFilename("make it 3d", "")
	if ok, _ := regexp.MatchString(`^modified_\d{8}_\d{6}_[0-9a-f]{8}\.jpg$`, output); !ok {
		t.Errorf("output filename = %q", output)
	}

	// Same URL hashes the same way.
	a := InputFilename("https://example.com/cat.png", "png")
	b := InputFilename("https://example.com/cat.png", "png")
	if a[len(a)-12:] != b[len(b)-12:] {
		t.Errorf("hash suffix should be stable: %q vs %q", a, b)
	}
}

func TestDownloadInput(t *testing.T) {
	payload := []byte("fake image bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path, err := s.DownloadInput(srv.URL, "in.png", 1024)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("saved bytes differ from served bytes")
	}
}

func TestDownloadInputTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 100))
	}))
	defer srv.Close()

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.DownloadInput(srv.URL, "big.png", 50); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestDownloadInputBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.DownloadInput(srv.URL, "missing.png", 1024); !errors.Is(err, ErrResponseCode) {
		t.Fatalf("expected ErrResponseCode, got %v", err)
	}
}

func TestSaveOutputRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	payload := []byte{0xff, 0xd8, 0xff}
	path, err := s.SaveOutput("modified_test.jpg", payload)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("saved output differs from input bytes")
	}
}
