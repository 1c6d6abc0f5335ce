package uploads_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raiamitrai/coursehub/internal/app/system/uploads"
)

// pngBytes is a minimal valid PNG header followed by padding, enough for
// content sniffing to classify it as image/png.
func pngBytes() []byte {
	header := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0}, 64)...)
}

// gifBytes returns a minimal GIF89a payload.
func gifBytes() []byte {
	return append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 64)...)
}

func multipartRequest(t *testing.T, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if field != "" {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{
			`form-data; name="` + field + `"; filename="` + filename + `"`,
		}
		if contentType != "" {
			hdr["Content-Type"] = []string{contentType}
		}
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}

	if err := mw.WriteField("courseName", "Test Course"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/courses", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newStore(t *testing.T) *uploads.Store {
	t.Helper()
	dir := t.TempDir()
	store := uploads.New(dir, "/uploads", 0)
	if err := store.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	return store
}

func TestSaveImage_ValidPNG(t *testing.T) {
	store := newStore(t)
	req := multipartRequest(t, uploads.FieldName, "photo.png", "image/png", pngBytes())

	saved, err := store.SaveImage(req)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	if !strings.HasPrefix(saved.FileName, "image-") {
		t.Errorf("filename %q should carry the generated prefix", saved.FileName)
	}
	if filepath.Ext(saved.FileName) != ".png" {
		t.Errorf("filename %q should keep the .png extension", saved.FileName)
	}
	if saved.FileName == "photo.png" {
		t.Error("stored filename must not be the client-supplied name")
	}
	if saved.URL != "/uploads/"+saved.FileName {
		t.Errorf("URL: got %q, want prefix + filename", saved.URL)
	}
	if !store.Exists(saved.FileName) {
		t.Error("saved file should exist on disk")
	}

	// Form values must still be readable after SaveImage parsed the body.
	if got := req.FormValue("courseName"); got != "Test Course" {
		t.Errorf("courseName after SaveImage: got %q", got)
	}
}

func TestSaveImage_ValidGIF(t *testing.T) {
	store := newStore(t)
	req := multipartRequest(t, uploads.FieldName, "anim.gif", "image/gif", gifBytes())

	saved, err := store.SaveImage(req)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if filepath.Ext(saved.FileName) != ".gif" {
		t.Errorf("filename %q should keep the .gif extension", saved.FileName)
	}
}

func TestSaveImage_UniqueNames(t *testing.T) {
	store := newStore(t)

	first, err := store.SaveImage(multipartRequest(t, uploads.FieldName, "a.png", "image/png", pngBytes()))
	if err != nil {
		t.Fatalf("first SaveImage failed: %v", err)
	}
	second, err := store.SaveImage(multipartRequest(t, uploads.FieldName, "a.png", "image/png", pngBytes()))
	if err != nil {
		t.Fatalf("second SaveImage failed: %v", err)
	}
	if first.FileName == second.FileName {
		t.Errorf("two uploads of the same client name must not collide: %q", first.FileName)
	}
}

func TestSaveImage_MissingFile(t *testing.T) {
	store := newStore(t)
	req := multipartRequest(t, "", "", "", nil)

	_, err := store.SaveImage(req)
	if !errors.Is(err, uploads.ErrNoFile) {
		t.Errorf("expected ErrNoFile, got %v", err)
	}
}

func TestSaveImage_BadExtension(t *testing.T) {
	store := newStore(t)
	req := multipartRequest(t, uploads.FieldName, "notes.txt", "text/plain", []byte("hello"))

	_, err := store.SaveImage(req)
	if !errors.Is(err, uploads.ErrBadType) {
		t.Errorf("expected ErrBadType for .txt, got %v", err)
	}
	assertDirEmpty(t, store)
}

func TestSaveImage_BadClaimedMIME(t *testing.T) {
	store := newStore(t)
	// Allowed extension but the part claims a non-image type.
	req := multipartRequest(t, uploads.FieldName, "photo.png", "application/octet-stream", pngBytes())

	_, err := store.SaveImage(req)
	if !errors.Is(err, uploads.ErrBadType) {
		t.Errorf("expected ErrBadType for claimed MIME, got %v", err)
	}
	assertDirEmpty(t, store)
}

func TestSaveImage_RenamedTextFile(t *testing.T) {
	store := newStore(t)
	// Allowed extension, allowed claimed MIME, but the content is text.
	req := multipartRequest(t, uploads.FieldName, "sneaky.png", "image/png", []byte("just plain text content here"))

	_, err := store.SaveImage(req)
	if !errors.Is(err, uploads.ErrBadType) {
		t.Errorf("expected ErrBadType for sniffed content, got %v", err)
	}
	assertDirEmpty(t, store)
}

func TestSaveImage_OverSizeLimit(t *testing.T) {
	dir := t.TempDir()
	store := uploads.New(dir, "/uploads", 1024)
	if err := store.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}

	// A valid PNG well past the 1 KiB cap.
	payload := append(pngBytes(), bytes.Repeat([]byte{0}, 4<<20)...)
	req := multipartRequest(t, uploads.FieldName, "huge.png", "image/png", payload)

	_, err := store.SaveImage(req)
	if !errors.Is(err, uploads.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	assertDirEmpty(t, store)
}

func TestRemove_MissingFileIsNotAnError(t *testing.T) {
	store := newStore(t)
	if err := store.Remove("image-gone.png"); err != nil {
		t.Errorf("Remove of missing file: got %v, want nil", err)
	}
	if err := store.Remove(""); err != nil {
		t.Errorf("Remove of empty name: got %v, want nil", err)
	}
}

func TestRemove_DeletesStoredFile(t *testing.T) {
	store := newStore(t)
	saved, err := store.SaveImage(multipartRequest(t, uploads.FieldName, "a.png", "image/png", pngBytes()))
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	if err := store.Remove(saved.FileName); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if store.Exists(saved.FileName) {
		t.Error("file should be gone after Remove")
	}
}

func TestPath_CannotEscapeDir(t *testing.T) {
	store := newStore(t)
	p := store.Path("../../etc/passwd")
	if filepath.Dir(p) != filepath.Clean(store.Dir()) {
		t.Errorf("Path escaped the upload directory: %q", p)
	}
}

func assertDirEmpty(t *testing.T, store *uploads.Store) {
	t.Helper()
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("upload dir should be empty after a rejected upload, has %d entries", len(entries))
	}
}
