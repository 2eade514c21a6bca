package imagestore

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrFileTooLarge = errors.New("file exceeds the configured size limit")
var ErrResponseCode = errors.New("got unexpected response code")

// Store keeps downloaded inputs and generated outputs on disk under a
// single base folder, split into input/ and output/.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	s := &Store{dir: dir}
	for _, sub := range []string{s.InputDir(), s.OutputDir()} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) InputDir() string {
	return filepath.Join(s.dir, "input")
}

func (s *Store) OutputDir() string {
	return filepath.Join(s.dir, "output")
}

// InputFilename builds a collision-resistant name for a downloaded
// source image: input_<timestamp>_<url hash>.<ext>.
func InputFilename(url, ext string) string {
	return fmt.Sprintf("input_%s_%s.%s", timestamp(), hashSuffix(url), cleanExt(ext))
}

// OutputFilename builds the name for a generated image:
// modified_<timestamp>_<prompt hash>.<ext>.
func OutputFilename(prompt, ext string) string {
	return fmt.Sprintf("modified_%s_%s.%s", timestamp(), hashSuffix(prompt), cleanExt(ext))
}

// DownloadInput fetches url into the input folder under filename,
// refusing anything over maxBytes. Returns the saved path.
func (s *Store) DownloadInput(url, filename string, maxBytes int64) (string, error) {
	res, err := http.Get(url)
	if err != nil {
		return "", err
	}

	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrResponseCode, res.Status)
	}

	if res.ContentLength > maxBytes {
		return "", ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBytes+1))
	if err != nil {
		return "", err
	}

	if int64(len(data)) > maxBytes {
		return "", ErrFileTooLarge
	}

	path := filepath.Join(s.InputDir(), filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

// SaveOutput writes a generated image into the output folder and returns
// the saved path.
func (s *Store) SaveOutput(filename string, data []byte) (string, error) {
	path := filepath.Join(s.OutputDir(), filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

func timestamp() string {
	return time.Now().Format("20060102_150405")
}

func hashSuffix(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

func cleanExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return "jpg"
	}

	return ext
}
