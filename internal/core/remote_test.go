package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/assert"
)

func TestFSRemote(t *testing.T) {
	dir := t.TempDir()
	remote, err := NewFSRemote(dir)
	require.NoError(t, err)

	t.Run("Put and Get", func(t *testing.T) {
		err := remote.PutObject("streams/ideas-1a2b3c4d.md", []byte("# Ideas"))
		require.NoError(t, err)

		data, err := remote.GetObject("streams/ideas-1a2b3c4d.md")
		require.NoError(t, err)
		assert.Equal(t, "# Ideas", string(data))
	})

	t.Run("Get missing object", func(t *testing.T) {
		_, err := remote.GetObject("streams/nope.md")
		assert.Equal(t, ErrObjectNotExist, err)
	})

	t.Run("Walk", func(t *testing.T) {
		require.NoError(t, remote.PutObject("streams/journal-ffffffff.md", []byte("# Journal")))
		require.NoError(t, remote.PutObject("other/readme.txt", []byte("ignored")))

		var keys []string
		err := remote.WalkObjects("streams/", func(key string) error {
			keys = append(keys, key)
			return nil
		})
		require.NoError(t, err)
		sort.Strings(keys)
		assert.DeepEqual(t, []string{
			"streams/ideas-1a2b3c4d.md",
			"streams/journal-ffffffff.md",
		}, keys)
	})

	t.Run("Walk missing prefix", func(t *testing.T) {
		err := remote.WalkObjects("absent/", func(key string) error {
			t.Fatal("no key expected")
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, remote.DeleteObject("other/readme.txt"))
		assert.Equal(t, ErrObjectNotExist, remote.DeleteObject("other/readme.txt"))
	})
}
