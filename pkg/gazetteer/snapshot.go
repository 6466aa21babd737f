package gazetteer

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion guards the blob layout. Bump it when Place's msgpack shape
// changes so stale caches are rebuilt instead of misread.
const snapshotVersion = 1

type snapshot struct {
	Version int      `msgpack:"v"`
	Places  []*Place `msgpack:"p"`
}

// SaveSnapshot writes the directory contents as a msgpack blob so later runs
// can skip TSV parsing.
func (d *Directory) SaveSnapshot(path string) error {
	places := d.Search("")
	blob, err := msgpack.Marshal(&snapshot{Version: snapshotVersion, Places: places})
	if err != nil {
		return fmt.Errorf("gazetteer: encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return fmt.Errorf("gazetteer: writing snapshot: %w", err)
	}
	log.Debugf("Wrote snapshot with %d places to %s", len(places), path)
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot into the directory
// and returns the number of records added. A missing file, a corrupt blob,
// or a version mismatch is an error; the caller falls back to the TSV.
func (d *Directory) LoadSnapshot(path string) (int, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("gazetteer: reading snapshot: %w", err)
	}
	var snap snapshot
	if err := msgpack.Unmarshal(blob, &snap); err != nil {
		return 0, fmt.Errorf("gazetteer: decoding snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return 0, fmt.Errorf("gazetteer: snapshot version %d, want %d", snap.Version, snapshotVersion)
	}
	log.Debugf("Loaded snapshot with %d places from %s", len(snap.Places), path)
	return d.Load(snap.Places), nil
}
