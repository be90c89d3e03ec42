// Package buildstamp records what the last fuzzing build produced, inside
// the redirected target directory. The stamp only powers diagnostics; every
// operation on it is best-effort from the caller's point of view.
package buildstamp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the Stamp format changes so stale files are ignored, not
// misparsed.
const schemaVersion uint16 = 1

const stampName = ".hfuzz-build.stamp"

// Stamp describes one completed build.
type Stamp struct {
	Schema      uint16
	Mode        string
	Triple      string
	Rustflags   string
	ToolVersion string
	BuiltAt     time.Time
}

// Write persists the stamp under the target dir via a temp file and an
// atomic rename, so a concurrent reader never sees a torn record.
func Write(targetDir string, stamp *Stamp) error {
	stamp.Schema = schemaVersion
	if stamp.BuiltAt.IsZero() {
		stamp.BuiltAt = time.Now()
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create target dir: %w", err)
	}
	f, err := os.CreateTemp(targetDir, "stamp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()
	if err := msgpack.NewEncoder(f).Encode(stamp); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), filepath.Join(targetDir, stampName))
}

// Read loads the stamp from the target dir. ok is false when the stamp is
// missing or was written by an incompatible schema.
func Read(targetDir string) (stamp *Stamp, ok bool, err error) {
	// #nosec G304 -- path is derived from the redirected target dir
	f, err := os.Open(filepath.Join(targetDir, stampName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()
	var s Stamp
	if err := msgpack.NewDecoder(f).Decode(&s); err != nil {
		return nil, false, fmt.Errorf("failed to decode build stamp: %w", err)
	}
	if s.Schema != schemaVersion {
		return nil, false, nil
	}
	return &s, true, nil
}
