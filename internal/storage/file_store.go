package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"livestat/internal/providers"
	"livestat/internal/structures"
)

// KeyValueStoreInterface is the persistence contract: opaque bytes by key,
// where a missing key is a valid non-error state meaning "no data yet".
type KeyValueStoreInterface interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileStore keeps one zstd-compressed file per key. Writes go through a
// temp file, fsync and rename so a crashed write never corrupts the previous
// value.
type FileStore struct {
	mu         sync.Mutex
	dir        string
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileStore(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) (KeyValueStoreInterface, error) {
	if err := os.MkdirAll(conf.Storage.Dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{
		dir:        conf.Storage.Dir,
		compressor: compressor,
		logger:     logger,
	}, nil
}

func (fs *FileStore) keyPath(key string) string {
	// Keys come from the profile-scoped naming scheme and are filename-safe
	// apart from separators.
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(fs.dir, safe+".zst")
}

func (fs *FileStore) Get(key string) ([]byte, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	decompressed, err := fs.compressor.Decompress(data)
	if err != nil {
		return nil, false, err
	}
	return decompressed, true, nil
}

func (fs *FileStore) Set(key string, value []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	compressed, err := fs.compressor.Compress(value)
	if err != nil {
		return err
	}

	path := fs.keyPath(key)
	tmpFile := path + ".tmp"

	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(compressed); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	err := os.Remove(fs.keyPath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
