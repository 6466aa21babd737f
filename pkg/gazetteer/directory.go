package gazetteer

import (
	"sync"

	"github.com/bastiangx/placeserve/pkg/radix"
)

// Directory is the shared view of the gazetteer: a prefix tree keyed by full
// place names behind a readers-writer lock, so one writer or any number of
// concurrent readers can use it. Create one per dataset and pass it around;
// there is no package-level instance.
type Directory struct {
	mu   sync.RWMutex
	tree *radix.Tree[*Place]
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{tree: radix.New[*Place]()}
}

// Add indexes a place under its full name and reports whether the directory
// changed. The same record added twice is a no-op.
func (d *Directory) Add(p *Place) (bool, error) {
	if p == nil {
		return false, radix.ErrNilValue
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree.Insert(p.FullName(), p)
}

// Remove deletes a previously added record, reporting whether the directory
// changed.
func (d *Directory) Remove(p *Place) bool {
	if p == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree.Remove(p.FullName(), p)
}

// Search returns every place whose full name starts with the query, in
// alphabetical order of the indexed names. An empty query returns the entire
// directory.
func (d *Directory) Search(query string) []*Place {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.PrefixSearch(query)
}

// Contains reports whether this exact record is indexed.
func (d *Directory) Contains(p *Place) bool {
	if p == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Contains(p.FullName(), p)
}

// Len returns the number of indexed places.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree.Len()
}

// Reset drops every record by swapping in a fresh tree.
func (d *Directory) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tree = radix.New[*Place]()
}

// Load bulk-indexes records under a single write lock and returns how many
// were added. Records that fail to index (nil, duplicates) are counted out,
// not fatal.
func (d *Directory) Load(places []*Place) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	added := 0
	for _, p := range places {
		if p == nil {
			continue
		}
		if changed, err := d.tree.Insert(p.FullName(), p); err == nil && changed {
			added++
		}
	}
	return added
}

// LoadTSV parses a gazetteer export and loads it, returning the number of
// records added.
func (d *Directory) LoadTSV(path string) (int, error) {
	places, err := ParseTSVFile(path)
	if err != nil {
		return 0, err
	}
	return d.Load(places), nil
}
