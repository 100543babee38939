package session

import (
	"testing"

	"github.com/AlexZinkM/otc-desk/internal/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastSeal = crypto.SealParams{N: 1 << 10, R: 8, P: 1}

func TestSealedBackendRoundTrip(t *testing.T) {
	inner := NewMemoryBackend()
	store := NewStore(NewSealedBackend(inner, []byte("dev"), fastSeal, nil), nil)

	require.NoError(t, store.Save(testSession()))

	raw, err := inner.Get(Key)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-1")

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, testSession(), loaded)
}

func TestSealedBackendWrongPassphraseReadsAsNone(t *testing.T) {
	inner := NewMemoryBackend()
	require.NoError(t, NewStore(NewSealedBackend(inner, []byte("dev"), fastSeal, nil), nil).Save(testSession()))

	_, ok := NewStore(NewSealedBackend(inner, []byte("other"), fastSeal, nil), nil).Load()
	assert.False(t, ok)
}

func countingOpen(calls *int) func(sealed, passphrase []byte) ([]byte, error) {
	return func(sealed, passphrase []byte) ([]byte, error) {
		*calls++
		return crypto.Open(sealed, passphrase)
	}
}

func TestSealedBackendOpensStoredRecordOnce(t *testing.T) {
	inner := NewMemoryBackend()
	require.NoError(t, NewStore(NewSealedBackend(inner, []byte("dev"), fastSeal, nil), nil).Save(testSession()))

	backend := NewSealedBackend(inner, []byte("dev"), fastSeal, nil)
	opens := 0
	backend.open = countingOpen(&opens)
	store := NewStore(backend, nil)

	for i := 0; i < 3; i++ {
		loaded, ok := store.Load()
		require.True(t, ok)
		assert.Equal(t, testSession(), loaded)
	}
	assert.Equal(t, 1, opens)
}

func TestSealedBackendSaveSkipsDerivationOnLoad(t *testing.T) {
	backend := NewSealedBackend(NewMemoryBackend(), []byte("dev"), fastSeal, nil)
	opens := 0
	backend.open = countingOpen(&opens)
	store := NewStore(backend, nil)

	require.NoError(t, store.Save(testSession()))
	_, ok := store.Load()
	require.True(t, ok)
	assert.Zero(t, opens)
}

func TestSealedBackendRereadsChangedRecord(t *testing.T) {
	inner := NewMemoryBackend()
	backend := NewSealedBackend(inner, []byte("dev"), fastSeal, nil)
	opens := 0
	backend.open = countingOpen(&opens)
	store := NewStore(backend, nil)
	require.NoError(t, store.Save(testSession()))

	// another writer replaces the record behind this backend
	other := testSession()
	other.AccessToken = "tok-2"
	require.NoError(t, NewStore(NewSealedBackend(inner, []byte("dev"), fastSeal, nil), nil).Save(other))

	loaded, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-2", loaded.AccessToken)
	assert.Equal(t, 1, opens)

	require.NoError(t, store.Clear())
	_, ok = store.Load()
	assert.False(t, ok)
}
