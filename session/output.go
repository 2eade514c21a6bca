package session

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
)

// OutputRecord is one successfully generated image together with the
// prompt that produced it and the filename it is attached under.
type OutputRecord struct {
	SourcePath      string
	Prompt          string
	DisplayFilename string

	mu  sync.Mutex
	img image.Image
}

func NewOutputRecord(sourcePath, prompt, displayFilename string) *OutputRecord {
	return &OutputRecord{
		SourcePath:      sourcePath,
		Prompt:          prompt,
		DisplayFilename: displayFilename,
	}
}

// Load decodes the image behind SourcePath. The decoded image is cached;
// subsequent calls return the same image without touching disk.
func (o *OutputRecord) Load() (image.Image, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.img != nil {
		return o.img, nil
	}

	f, err := os.Open(o.SourcePath)
	if err != nil {
		return nil, err
	}

	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	o.img = img
	return img, nil
}

// EncodePNG returns the image re-encoded as PNG, loading it first if
// needed.
func (o *OutputRecord) EncodePNG() ([]byte, error) {
	img, err := o.Load()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
