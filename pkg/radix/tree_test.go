package radix

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomString generates a string of bytes ranging between from and to
// (ascii values, inclusive). Length ranges between minLength (inclusive)
// and maxLength (exclusive).
func randomString(rng *rand.Rand, from, to byte, minLength, maxLength int) string {
	length := minLength + rng.Intn(maxLength-minLength)
	working := make([]byte, length)
	for i := range working {
		working[i] = from + byte(rng.Intn(int(to-from)+1))
	}
	return string(working)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"London", "london"},
		{"LONDON", "london"},
		{"Sao Paulo", "sao paulo"},
		{"L'Ile-Dorval", "l ile dorval"},
		{"St. John's", "st  john s"},
		{"ABC-123", "abc"},
		{"  padded  ", "padded"},
		{"100 Mile House", "mile house"},
		{"", ""},
		{"!!!", ""},
		{"a--b", "a  b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

func TestAddAlphaKeys(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tree := New[string]()
	for i := 0; i < 1000; i++ {
		key := randomString(rng, 'a', 'z', 1, 20)
		_, err := tree.Insert(key, key)
		require.NoError(t, err)
		require.True(t, tree.Contains(key, key), "key %q", key)
	}
}

func TestAddASCIIKeys(t *testing.T) {
	// Printable ascii exercises normalization: symbols and digits become
	// spaces, and keys may collapse to the empty string entirely.
	rng := rand.New(rand.NewSource(2))
	tree := New[string]()
	for i := 0; i < 1000; i++ {
		key := randomString(rng, 32, 126, 1, 20)
		_, err := tree.Insert(key, key)
		require.NoError(t, err)
		require.True(t, tree.Contains(key, key), "key %q", key)
	}
}

func TestZeroValueRejected(t *testing.T) {
	strings := New[string]()
	_, err := strings.Insert("london", "")
	assert.ErrorIs(t, err, ErrNilValue)

	pointers := New[*int]()
	_, err = pointers.Insert("london", nil)
	assert.ErrorIs(t, err, ErrNilValue)

	changed, err := strings.Insert("london", "ok")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestAddAndRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	tree := New[string]()
	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = randomString(rng, 32, 126, 1, 20)
		_, err := tree.Insert(keys[i], keys[i])
		require.NoError(t, err)
	}

	for _, key := range keys {
		// Duplicate raw keys were only stored once, so removal must
		// succeed exactly when the pair is still present.
		stillContains := tree.Contains(key, key)
		require.Equal(t, stillContains, tree.Remove(key, key), "key %q", key)
	}

	assert.Empty(t, tree.PrefixSearch(""))
	assert.Zero(t, tree.Len())
}

func TestAddAndRemoveDuplication(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	tree := New[string]()
	for i := 0; i < 1000; i++ {
		key := randomString(rng, 'a', 'z', 1, 20)

		changed, err := tree.Insert(key, key)
		require.NoError(t, err)
		require.True(t, changed, "key %q", key)
		require.True(t, tree.Contains(key, key), "key %q", key)

		changed, err = tree.Insert(key, key)
		require.NoError(t, err)
		require.False(t, changed, "key %q", key)
		require.True(t, tree.Contains(key, key), "key %q", key)

		require.True(t, tree.Remove(key, key), "key %q", key)
		require.False(t, tree.Contains(key, key), "key %q", key)
		require.False(t, tree.Remove(key, key), "key %q", key)
		require.False(t, tree.Contains(key, key), "key %q", key)
	}
	assert.Zero(t, tree.Len())
}

func TestGetWithSubstring(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tree := New[string]()
	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = randomString(rng, 32, 126, 20, 21)
		_, err := tree.Insert(keys[i], keys[i])
		require.NoError(t, err)
	}

	for _, key := range keys {
		sub := key[:rng.Intn(10)]
		require.Contains(t, tree.PrefixSearch(sub), key, "prefix %q", sub)
	}
}

func TestMultipleValuesPerKey(t *testing.T) {
	tree := New[string]()
	for _, v := range []string{"first", "second", "third"} {
		changed, err := tree.Insert("springfield", v)
		require.NoError(t, err)
		require.True(t, changed)
	}
	assert.Equal(t, 3, tree.Len())
	assert.ElementsMatch(t, []string{"first", "second", "third"}, tree.PrefixSearch("spring"))

	assert.True(t, tree.Remove("springfield", "second"))
	assert.ElementsMatch(t, []string{"first", "third"}, tree.PrefixSearch("spring"))
	assert.True(t, tree.Contains("springfield", "first"))
	assert.False(t, tree.Contains("springfield", "second"))
}

func TestContainsIsExact(t *testing.T) {
	tree := New[string]()
	_, err := tree.Insert("london", "london")
	require.NoError(t, err)

	assert.True(t, tree.Contains("london", "london"))
	assert.True(t, tree.Contains("London!", "london"), "contains should normalize its key")
	assert.False(t, tree.Contains("lond", "london"), "a prefix is not an exact key")
	assert.False(t, tree.Contains("londons", "london"))
	assert.Contains(t, tree.PrefixSearch("lond"), "london")
}

func TestRemoveByPrefix(t *testing.T) {
	// Removal walks like a prefix search: a key that stops inside the final
	// segment still reaches the node holding the value.
	tree := New[string]()
	_, err := tree.Insert("london", "london")
	require.NoError(t, err)

	assert.True(t, tree.Remove("lond", "london"))
	assert.Zero(t, tree.Len())
}

func TestEmptyKeyLivesAtRoot(t *testing.T) {
	tree := New[string]()
	_, err := tree.Insert("?!", "marker")
	require.NoError(t, err)
	_, err = tree.Insert("ajax", "ajax")
	require.NoError(t, err)

	// Only the all-matching search and the exact empty key see the value.
	assert.Equal(t, []string{"marker", "ajax"}, tree.PrefixSearch(""))
	assert.True(t, tree.Contains("", "marker"))
	assert.NotContains(t, tree.PrefixSearch("a"), "marker")

	assert.True(t, tree.Remove("", "marker"))
	assert.Equal(t, []string{"ajax"}, tree.PrefixSearch(""))
}

func TestSpaceSortsBeforeLetters(t *testing.T) {
	tree := New[string]()
	for _, key := range []string{"newark", "new york", "newton"} {
		_, err := tree.Insert(key, key)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"new york", "newark", "newton"}, tree.PrefixSearch("new"))
}

func TestFullPlaceNameQueries(t *testing.T) {
	// Punctuation folds to spaces, so queries written with commas walk the
	// same path as the stored names.
	tree := New[string]()
	pairs := []struct{ key, value string }{
		{"London, ON, Canada", "london-on"},
		{"London, OH, USA", "london-oh"},
		{"Londontowne, MD, USA", "londontowne-md"},
	}
	for _, p := range pairs {
		changed, err := tree.Insert(p.key, p.value)
		require.NoError(t, err)
		require.True(t, changed)
	}

	assert.Equal(t, []string{"london-oh", "london-on", "londontowne-md"},
		tree.PrefixSearch("Londo"))
	assert.Equal(t, []string{"london-oh", "london-on"},
		tree.PrefixSearch("London, O"))
	assert.Empty(t, tree.PrefixSearch("Xyz"))

	assert.True(t, tree.Contains("London, ON, Canada", "london-on"))
	assert.False(t, tree.Contains("London", "london-on"))
}

func TestAllMatchesSearchOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	tree := New[string]()
	for i := 0; i < 1000; i++ {
		key := randomString(rng, 32, 126, 1, 20)
		_, err := tree.Insert(key, key)
		require.NoError(t, err)
	}

	expected := tree.PrefixSearch("")
	index := 0
	for value := range tree.All() {
		require.Equal(t, expected[index], value)
		index++
	}
	assert.Equal(t, len(expected), index)
	assert.Equal(t, tree.Len(), index)
}

func TestSplitKeepsSubtrees(t *testing.T) {
	tree := New[string]()
	for _, key := range []string{"romane", "romanus", "romulus"} {
		_, err := tree.Insert(key, key)
		require.NoError(t, err)
	}

	// Shared segments collapse into single nodes: rom -> {an -> {e, us}, ulus}.
	rom := tree.root.childAt(childSlot('r'))
	require.NotNil(t, rom)
	assert.Equal(t, "rom", rom.prefix)
	assert.Equal(t, 2, rom.childCount())

	an := rom.childAt(childSlot('a'))
	require.NotNil(t, an)
	assert.Equal(t, "an", an.prefix)
	assert.Empty(t, an.values)

	assert.Equal(t, []string{"romane", "romanus"}, tree.PrefixSearch("roman"))
	assert.Equal(t, []string{"romane", "romanus", "romulus"}, tree.PrefixSearch("rom"))

	// Removing romane leaves an with a single child, which absorbs its
	// parent's segment on the way back up.
	require.True(t, tree.Remove("romane", "romane"))
	assert.Equal(t, []string{"romanus"}, tree.PrefixSearch("roman"))

	rom = tree.root.childAt(childSlot('r'))
	require.NotNil(t, rom)
	require.NotNil(t, rom.childAt(childSlot('a')))
	assert.Equal(t, "anus", rom.childAt(childSlot('a')).prefix)
}

func TestRemoveMergesNearRoot(t *testing.T) {
	tree := New[string]()
	for _, key := range []string{"ab", "ac"} {
		_, err := tree.Insert(key, key)
		require.NoError(t, err)
	}

	a := tree.root.childAt(childSlot('a'))
	require.NotNil(t, a)
	assert.Equal(t, "a", a.prefix)

	require.True(t, tree.Remove("ab", "ab"))

	// The surviving key merges back into one node directly under the root.
	merged := tree.root.childAt(childSlot('a'))
	require.NotNil(t, merged)
	assert.Equal(t, "ac", merged.prefix)
	assert.Equal(t, 0, merged.childCount())
	assert.Equal(t, []string{"ac"}, tree.PrefixSearch("a"))
}
