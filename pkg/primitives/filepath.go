package primitives

import (
	"hash/fnv"
	"os"
	"path/filepath"
)

// Filepath is a type-safe wrapper around the path of a heap file on disk.
//
// Example usage:
//
//	dataDir := primitives.Filepath("/data")
//	tablePath := dataDir.Join("users.dat")
//	if tablePath.Exists() {
//	    tableID := tablePath.Hash()
//	}
type Filepath string

// Hash derives this path's TableID by FNV-1a hashing the absolute path.
// Identical paths always hash to the same TableID, which is what lets a
// HeapFile be reopened and recognized as the same table across process
// restarts.
func (f Filepath) Hash() TableID {
	abs, err := filepath.Abs(string(f))
	if err != nil {
		abs = string(f)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(abs))
	return TableID(h.Sum64())
}

func (f Filepath) String() string {
	return string(f)
}

func (f Filepath) Dir() string {
	return filepath.Dir(string(f))
}

func (f Filepath) Join(elem ...string) Filepath {
	parts := append([]string{string(f)}, elem...)
	return Filepath(filepath.Join(parts...))
}

func (f Filepath) Base() string {
	return filepath.Base(string(f))
}

func (f Filepath) Exists() bool {
	_, err := os.Stat(string(f))
	return err == nil
}

func (f Filepath) IsEmpty() bool {
	return string(f) == ""
}

// MkdirAll creates the parent directory (and any necessary parents) of this
// path with the given permissions.
func (f Filepath) MkdirAll(perm os.FileMode) error {
	return os.MkdirAll(f.Dir(), perm)
}
