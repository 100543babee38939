package session

import (
	"errors"
	"testing"

	"github.com/AlexZinkM/otc-desk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() model.WalletSession {
	return model.WalletSession{
		AccessToken:   "tok-1",
		WalletAddress: "0xabc",
		Role:          model.RoleDealer,
		ExpiresAt:     1_900_000_000,
	}
}

func TestStoreSaveLoadClear(t *testing.T) {
	store := NewStore(NewMemoryBackend(), nil)

	_, ok := store.Load()
	assert.False(t, ok)

	require.NoError(t, store.Save(testSession()))
	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, testSession(), loaded)

	require.NoError(t, store.Clear())
	_, ok = store.Load()
	assert.False(t, ok)

	// clearing an empty slot is fine
	require.NoError(t, store.Clear())
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := NewStore(NewMemoryBackend(), nil)
	require.NoError(t, store.Save(testSession()))

	next := model.WalletSession{AccessToken: "tok-2", WalletAddress: "0xdef", Role: model.RoleOps, ExpiresAt: 5}
	require.NoError(t, store.Save(next))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, next, loaded)
}

func TestStoreWithoutBackendDegrades(t *testing.T) {
	store := NewStore(nil, nil)
	require.NoError(t, store.Save(testSession()))
	_, ok := store.Load()
	assert.False(t, ok)
	require.NoError(t, store.Clear())

	var nilStore *Store
	_, ok = nilStore.Load()
	assert.False(t, ok)
}

func TestStoreMalformedRecordReadsAsNone(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(Key, []byte("{not json")))

	_, ok := NewStore(backend, nil).Load()
	assert.False(t, ok)
}

type failingBackend struct{}

func (failingBackend) Get(string) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingBackend) Set(string, []byte) error   { return errors.New("disk gone") }
func (failingBackend) Delete(string) error        { return errors.New("disk gone") }

func TestStoreBackendErrors(t *testing.T) {
	store := NewStore(failingBackend{}, nil)
	_, ok := store.Load()
	assert.False(t, ok)
	assert.Error(t, store.Save(testSession()))
	assert.Error(t, store.Clear())
}
