// Package uploads stores course images on local disk.
//
// One file per request under a fixed multipart field name, written with a
// collision-free generated name, and only after the claimed extension, the
// claimed MIME type, and the sniffed content all pass the image allow-list.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FieldName is the multipart form field the image must arrive under.
const FieldName = "image"

// DefaultMaxBytes caps the multipart body when no limit is configured.
const DefaultMaxBytes = 10 << 20 // 10 MiB

var (
	// ErrNoFile means the request carried no file under FieldName.
	ErrNoFile = errors.New("no image file in request")
	// ErrBadType means the file failed the image allow-list.
	ErrBadType = errors.New("images only (jpeg, jpg, png, gif)")
	// ErrTooLarge means the request body exceeded the configured cap.
	ErrTooLarge = errors.New("image exceeds the upload size limit")
)

// allowedExts maps accepted extensions to their canonical MIME type.
var allowedExts = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

var allowedMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// SavedImage describes a stored upload.
type SavedImage struct {
	FileName string // bare filename on disk, e.g. "image-3f2a….png"
	URL      string // public path, e.g. "/uploads/image-3f2a….png"
	Size     int64
}

// Store writes and removes image files under one directory.
type Store struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

// New creates a Store rooted at dir, serving files under urlPrefix.
func New(dir, urlPrefix string, maxBytes int64) *Store {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Store{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}
}

// EnsureDir creates the upload directory if it does not exist.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Dir returns the local directory files are written to.
func (s *Store) Dir() string { return s.dir }

// SaveImage extracts the image from the request's multipart body, validates
// it, and writes it to disk. Nothing is retained on any failure path.
func (s *Store) SaveImage(r *http.Request) (SavedImage, error) {
	// Hard cap on the whole body; ParseMultipartForm's argument only
	// bounds memory use, not request size.
	r.Body = http.MaxBytesReader(nil, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return SavedImage{}, ErrTooLarge
		}
		return SavedImage{}, fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(FieldName)
	if err != nil {
		return SavedImage{}, ErrNoFile
	}
	defer file.Close()
	if header == nil || header.Size == 0 {
		return SavedImage{}, ErrNoFile
	}
	if header.Size > s.maxBytes {
		return SavedImage{}, ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedExts[ext]; !ok {
		return SavedImage{}, ErrBadType
	}
	if claimed := mediaType(header); claimed != "" && !allowedMIMEs[claimed] {
		return SavedImage{}, ErrBadType
	}

	// Sniff the leading bytes so a renamed text file can't slip through.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return SavedImage{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if !allowedMIMEs[sniffedType(head)] {
		return SavedImage{}, ErrBadType
	}

	name := fmt.Sprintf("%s-%s%s", FieldName, uuid.New().String(), ext)
	dst, err := os.OpenFile(s.Path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return SavedImage{}, fmt.Errorf("create upload file: %w", err)
	}

	written, err := writeAll(dst, head, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Never leave a partial file behind.
		_ = os.Remove(s.Path(name))
		return SavedImage{}, fmt.Errorf("write upload file: %w", err)
	}

	return SavedImage{
		FileName: name,
		URL:      s.URLFor(name),
		Size:     written,
	}, nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error; the document is the source of truth, the file is cleanup.
func (s *Store) Remove(fileName string) error {
	if fileName == "" {
		return nil
	}
	err := os.Remove(s.Path(fileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether the stored file is present on disk.
func (s *Store) Exists(fileName string) bool {
	if fileName == "" {
		return false
	}
	_, err := os.Stat(s.Path(fileName))
	return err == nil
}

// Path returns the on-disk path for a stored filename. The name is reduced
// to its base so document data can never escape the upload directory.
func (s *Store) Path(fileName string) string {
	return filepath.Join(s.dir, filepath.Base(fileName))
}

// URLFor returns the public path for a stored filename.
func (s *Store) URLFor(fileName string) string {
	return s.urlPrefix + "/" + path.Base(fileName)
}

func mediaType(h *multipart.FileHeader) string {
	ct := h.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func sniffedType(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func writeAll(dst io.Writer, head []byte, rest io.Reader) (int64, error) {
	n1, err := dst.Write(head)
	if err != nil {
		return int64(n1), err
	}
	n2, err := io.Copy(dst, rest)
	return int64(n1) + n2, err
}
