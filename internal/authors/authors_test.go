package authors

import (
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *Registry {
	return NewRegistry(map[string]Author{
		"alice": {Name: "Alice", Bio: "Writes about Redis", Image: "alice.png"},
		"bob":   {Name: "Bob", Title: "DevRel", Image: "bob.jpg", Twitter: "bob"},
	})
}

func TestResolve_PrefixesImage(t *testing.T) {
	got, err := fixture().Resolve([]string{"alice"}, DefaultImagePrefix)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "/authors/alice.png", got[0].Image)
}

func TestResolve_KeepsInputOrder(t *testing.T) {
	got, err := fixture().Resolve([]string{"bob", "alice"}, "/img/")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].Username)
	assert.Equal(t, "/img/bob.jpg", got[0].Image)
	assert.Equal(t, "alice", got[1].Username)
}

func TestResolve_DoesNotMutateRegistry(t *testing.T) {
	reg := fixture()
	_, err := reg.Resolve([]string{"alice"}, DefaultImagePrefix)
	require.NoError(t, err)

	a, ok := reg.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, "alice.png", a.Image)
}

func TestResolve_UnknownAuthor(t *testing.T) {
	_, err := fixture().Resolve([]string{"alice", "mallory"}, DefaultImagePrefix)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnresolvedAuthor)
	assert.True(t, errors.HasCategory(err, errors.CategoryAuthor))

	var unresolved *UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "mallory", unresolved.Username)
}

func TestResolve_Empty(t *testing.T) {
	got, err := fixture().Resolve(nil, DefaultImagePrefix)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	src := map[string]Author{"alice": {Name: "Alice"}}
	reg := NewRegistry(src)
	src["eve"] = Author{Name: "Eve"}

	_, ok := reg.Lookup("eve")
	assert.False(t, ok)
	assert.Equal(t, []string{"alice"}, reg.Usernames())
}

func TestParse(t *testing.T) {
	reg, err := Parse([]byte("alice:\n  name: Alice\n  image: alice.png\nbob:\n  name: Bob\n  image: bob.png\n  twitter: bobby\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	bob, ok := reg.Lookup("bob")
	require.True(t, ok)
	assert.Equal(t, "bobby", bob.Twitter)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("alice:\n  image: alice.png\n"))
	require.Error(t, err, "missing name")

	_, err = Parse([]byte("alice:\n  name: Alice\n  avatar: a.png\n"))
	require.Error(t, err, "unknown field")
}

func TestParse_EmptyDocument(t *testing.T) {
	reg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alice:\n  name: Alice\n  image: alice.png\n"), 0o600))

	reg, err := Load(path)
	require.NoError(t, err)
	_, ok := reg.Lookup("alice")
	assert.True(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	_, ok := reg.Lookup("alice")
	assert.False(t, ok)
	assert.Zero(t, reg.Len())
	_, err := reg.Resolve([]string{"alice"}, DefaultImagePrefix)
	assert.ErrorIs(t, err, ErrUnresolvedAuthor)
}
