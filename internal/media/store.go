package media

import (
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
)

const postsDir = "posts"

var (
	ErrNotImage = xerrors.Message("Upload a valid image. The file you uploaded was either not an image or a corrupted image")
	ErrNotFound = xerrors.Message("media file not found")
)

// imageExtensions maps the sniffable image types to the extension they are
// stored under. mime.ExtensionsByType is consulted for anything else.
var imageExtensions = map[string]string{
	"image/gif":  ".gif",
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// Store writes uploaded images below root. Stored paths are relative to
// root and always use forward slashes, so they double as URL paths under
// the media prefix.
type Store struct {
	root string
	log  *slog.Logger
}

func NewStore(root string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, postsDir), 0o755); err != nil {
		return nil, xerrors.New(err)
	}
	return &Store{root: root, log: log}, nil
}

func (s *Store) Root() string {
	return s.root
}

// Save stores content under a fresh name and returns its relative path.
// Content that does not sniff as an image is rejected with ErrNotImage.
func (s *Store) Save(name string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", xerrors.New(ErrNotImage)
	}

	contentType := http.DetectContentType(content)
	if !strings.HasPrefix(contentType, "image/") {
		return "", xerrors.New(ErrNotImage)
	}

	relative := path.Join(postsDir, uuid.NewString()+extension(name, contentType))
	if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(relative)), content, 0o644); err != nil {
		return "", xerrors.New(err)
	}

	s.log.Debug("Image stored", "path", relative, "content_type", contentType)
	return relative, nil
}

// Remove deletes a stored image. A missing file is not an error.
func (s *Store) Remove(relative string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(path.Clean("/" + relative))))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return xerrors.New(err)
	}
	return nil
}

// Open returns a stored file for reading. Directories and anything outside
// root are reported as ErrNotFound. The caller closes the file.
func (s *Store) Open(relative string) (http.File, fs.FileInfo, error) {
	file, err := http.Dir(s.root).Open(path.Clean("/" + relative))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, nil, xerrors.New(ErrNotFound)
		}
		return nil, nil, xerrors.New(err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, xerrors.New(err)
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, xerrors.New(ErrNotFound)
	}
	return file, info, nil
}

// extension picks the stored extension from the sniffed content type. The
// client's extension survives only when it maps back to that same type, so
// the served Content-Type always matches what was sniffed.
func extension(name, contentType string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" {
		if mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext)); err == nil && mediaType == contentType {
			return ext
		}
	}

	if ext, ok := imageExtensions[contentType]; ok {
		return ext
	}

	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
