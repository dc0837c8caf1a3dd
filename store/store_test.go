package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	// Missing key is not an error
	v, found, err := s.Get("missing")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, v)

	require.NoError(t, s.Set("greeting", []byte("hello")))
	v, found, err = s.Get("greeting")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("hello"), v)

	// Overwrite
	require.NoError(t, s.Set("greeting", []byte("hi")))
	v, _, _ = s.Get("greeting")
	require.Equal(t, []byte("hi"), v)

	require.NoError(t, s.Delete("greeting"))
	_, found, err = s.Get("greeting")
	require.NoError(t, err)
	require.False(t, found)

	// Deleting an absent key is fine
	require.NoError(t, s.Delete("greeting"))
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "test.db")
	s, err := NewBoltStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	testStore(t, s)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set("key", []byte("value")))
	require.NoError(t, s1.Close())

	s2, err := NewBoltStore(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	v, found, err := s2.Get("key")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("value"), v)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "test.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	testStore(t, s)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set("key", []byte("value")))
	require.NoError(t, s1.Close())

	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	v, found, err := s2.Get("key")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("value"), v)
}
