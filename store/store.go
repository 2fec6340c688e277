package store

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type LocalStore interface {
	// List returns a list of all files in the store.
	List() ([]string, error)

	Contains(name string) (bool, error)

	Store(name string, content io.Reader) error

	// Get returns a reader for the file with the given name. The caller is responsible for closing the reader!
	Get(name string) (io.ReadCloser, error)
}

// FileStore keeps files in a single directory, which is created on first write.
type FileStore struct {
	dataDir string
}

func NewFileStore(dataDir string) *FileStore {
	return &FileStore{
		dataDir: dataDir,
	}
}

// Path returns the path of the file with the given name.
func (fs *FileStore) Path(name string) string {
	return filepath.Join(fs.dataDir, name)
}

// Sub returns a store rooted at a subdirectory of this one.
func (fs *FileStore) Sub(dir string) *FileStore {
	return NewFileStore(filepath.Join(fs.dataDir, dir))
}

func (fs *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(fs.dataDir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

func (fs *FileStore) Contains(name string) (bool, error) {
	_, err := os.Stat(fs.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Store writes content to the named file, replacing any previous version.
func (fs *FileStore) Store(name string, content io.Reader) error {
	if err := os.MkdirAll(fs.dataDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create data directory")
	}

	file, err := os.Create(fs.Path(name))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, content)
	return err
}

func (fs *FileStore) Get(name string) (io.ReadCloser, error) {
	return os.Open(fs.Path(name))
}

// WriteYAML serializes v to the named file.
func (fs *FileStore) WriteYAML(name string, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrapf(err, "failed to encode %s", name)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "failed to encode %s", name)
	}

	return errors.Wrapf(fs.Store(name, &buf), "failed to write %s", name)
}

// ReadYAML decodes the named file into v.
func (fs *FileStore) ReadYAML(name string, v any) error {
	f, err := fs.Get(name)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", name)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", name)
	}

	return nil
}
