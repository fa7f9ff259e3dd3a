package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage abstracts where uploaded files end up. The site only needs a
// stored URL and an opaque id back.
type Storage interface {
	Save(name string, ext string, r io.Reader) (id string, url string, err error)
}

// LocalStorage writes uploads under a base directory and serves them from
// a public path prefix.
type LocalStorage struct {
	baseDir   string
	publicURL string
}

func NewLocalStorage(baseDir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, publicURL: publicURL}, nil
}

// Save stores the stream under a generated name. The original filename is
// not trusted; only its extension survives, and the caller has already
// checked it against the allow-list.
func (s *LocalStorage) Save(_ string, ext string, r io.Reader) (string, string, error) {
	id := uuid.NewString()
	filename := id + "." + ext

	f, err := os.Create(filepath.Join(s.baseDir, filename))
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}

	return id, s.publicURL + "/" + filename, nil
}
