package gazetteer

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/bastiangx/placeserve/pkg/radix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomLetters(rng *rand.Rand, minLength, maxLength int) string {
	length := minLength + rng.Intn(maxLength-minLength)
	working := make([]byte, length)
	for i := range working {
		working[i] = 'a' + byte(rng.Intn(26))
	}
	return string(working)
}

func randomPlace(rng *rand.Rand) *Place {
	return &Place{
		Name:       randomLetters(rng, 3, 20),
		Region:     randomLetters(rng, 2, 3),
		Country:    randomLetters(rng, 3, 20),
		Lat:        rng.Float64()*180 - 90,
		Lon:        rng.Float64()*360 - 180,
		Population: rng.Int63n(1000000000) + 1,
	}
}

func TestDirectoryAddRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	directory := NewDirectory()
	place := randomPlace(rng)

	changed, err := directory.Add(place)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = directory.Add(place)
	require.NoError(t, err)
	assert.False(t, changed, "same record twice is a no-op")

	assert.True(t, directory.Remove(place))
	assert.False(t, directory.Remove(place))
	assert.Zero(t, directory.Len())
}

func TestDirectoryNilRecord(t *testing.T) {
	directory := NewDirectory()
	_, err := directory.Add(nil)
	assert.ErrorIs(t, err, radix.ErrNilValue)
	assert.False(t, directory.Remove(nil))
	assert.False(t, directory.Contains(nil))
}

func TestDirectoryGetAll(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	directory := NewDirectory()
	added := make([]*Place, 300)
	for i := range added {
		added[i] = randomPlace(rng)
		_, err := directory.Add(added[i])
		require.NoError(t, err)
	}

	found := make(map[*Place]bool)
	for _, p := range directory.Search("") {
		found[p] = true
	}
	for _, p := range added {
		require.True(t, found[p], "place %s", p.FullName())
	}
}

func TestDirectorySearch(t *testing.T) {
	directory := NewDirectory()
	london := &Place{Name: "London", Region: "ON", Country: "Canada", Lat: 42.98339, Lon: -81.23304, Population: 346765}
	londontowne := &Place{Name: "Londontowne", Region: "MD", Country: "USA", Lat: 38.93345, Lon: -76.54941, Population: 8541}
	toronto := &Place{Name: "Toronto", Region: "ON", Country: "Canada", Lat: 43.70011, Lon: -79.4163, Population: 4612191}
	for _, p := range []*Place{toronto, londontowne, london} {
		_, err := directory.Add(p)
		require.NoError(t, err)
	}

	// Shorter names sort first: the separator sits below every letter.
	assert.Equal(t, []*Place{london, londontowne}, directory.Search("Lond"))
	assert.Equal(t, []*Place{london, londontowne}, directory.Search("lond"), "matching is case-insensitive")
	assert.Empty(t, directory.Search("Paris"))
	assert.Len(t, directory.Search(""), 3)

	assert.True(t, directory.Contains(london))
	assert.True(t, directory.Remove(london))
	assert.False(t, directory.Contains(london))
	assert.Equal(t, []*Place{londontowne}, directory.Search("Lond"))
}

func TestDirectoryReset(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	directory := NewDirectory()
	for i := 0; i < 100; i++ {
		_, err := directory.Add(randomPlace(rng))
		require.NoError(t, err)
	}
	require.Equal(t, 100, directory.Len())

	directory.Reset()
	assert.Zero(t, directory.Len())
	assert.Empty(t, directory.Search(""))
}

func TestDirectoryLoad(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	directory := NewDirectory()
	first := randomPlace(rng)
	second := randomPlace(rng)

	added := directory.Load([]*Place{first, nil, second, first})
	assert.Equal(t, 2, added, "nil entries and duplicates are counted out")
	assert.Equal(t, 2, directory.Len())
}

func TestDirectoryConcurrentAccess(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	directory := NewDirectory()
	for i := 0; i < 200; i++ {
		_, err := directory.Add(randomPlace(rng))
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = directory.Search("a")
				_ = directory.Len()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		writerRng := rand.New(rand.NewSource(15))
		for i := 0; i < 50; i++ {
			_, _ = directory.Add(randomPlace(writerRng))
		}
	}()
	wg.Wait()

	assert.Equal(t, 250, directory.Len())
}
