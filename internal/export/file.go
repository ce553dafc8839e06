package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Write serializes an artifact to path, atomically via temp file + rename.
func Write(path string, a *Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() {
		// Best effort: gone already after a successful rename.
		_ = os.Remove(tmpName)
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(a); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Read deserializes an artifact from path. A missing file yields (nil, false,
// nil) so callers can distinguish "no artifact yet" from a broken one.
func Read(path string) (*Artifact, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Printf("failed to close artifact file: %v", closeErr)
		}
	}()

	var a Artifact
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&a); err != nil {
		return nil, false, err
	}
	if a.Schema != artifactSchemaVersion {
		return nil, false, &Error{
			Kind:   ErrSchema,
			Detail: fmt.Sprintf("schema %d, want %d", a.Schema, artifactSchemaVersion),
		}
	}
	return &a, true, nil
}
