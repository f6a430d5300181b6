package wallet_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/coinx/internal/wallet"
)

const (
	anvilKey  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	anvilAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	watchAddr = "0x1234567890abcdef1234567890abcdef12345678"
)

func newManager() (*wallet.Manager, *wallet.MemoryKeys) {
	ks := wallet.NewMemoryKeys()
	return wallet.NewManager(wallet.WithKeys(ks)), ks
}

func TestAddWatchOnlyWallet(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.Add("mywallet", watchAddr))

	w, err := mgr.Get("mywallet")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeWatchOnly, w.Type)
	assert.Equal(t, common.HexToAddress(watchAddr), w.Address)
	assert.False(t, w.CanSign())
	assert.False(t, w.Added.IsZero())
}

func TestAddRejectsBadAddress(t *testing.T) {
	mgr, _ := newManager()
	assert.ErrorIs(t, mgr.Add("x", "0x123"), wallet.ErrInvalidAddress)
}

func TestAddDuplicateWalletErrors(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.Add("dup", watchAddr))
	assert.ErrorIs(t, mgr.Add("dup", watchAddr), wallet.ErrWalletExists)
	assert.ErrorIs(t, mgr.AddWithKey("dup", anvilKey), wallet.ErrWalletExists)
}

func TestAddSigningWallet(t *testing.T) {
	mgr, ks := newManager()
	require.NoError(t, mgr.AddWithKey("signer", anvilKey))

	w, err := mgr.Get("signer")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeSigning, w.Type)
	assert.Equal(t, anvilAddr, w.Address.Hex())
	assert.True(t, w.CanSign())

	key, err := ks.Key(w.KeyRef)
	require.NoError(t, err)
	assert.Equal(t, anvilAddr, crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func TestAddRejectsEmptyName(t *testing.T) {
	mgr, _ := newManager()
	assert.Error(t, mgr.Add(" ", watchAddr))
}

func TestInvalidPrivateKey(t *testing.T) {
	mgr, _ := newManager()
	assert.ErrorIs(t, mgr.AddWithKey("bad", "not-a-valid-key"), wallet.ErrInvalidKey)
}

func TestListWalletsSorted(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.Add("zed", watchAddr))
	require.NoError(t, mgr.Add("amy", anvilAddr))

	list := mgr.List()
	require.Len(t, list, 2)
	assert.Equal(t, "amy", list[0].Name)
	assert.Equal(t, "zed", list[1].Name)
}

func TestRemoveWalletDeletesKey(t *testing.T) {
	mgr, ks := newManager()
	require.NoError(t, mgr.AddWithKey("gone", anvilKey))
	w, _ := mgr.Get("gone")

	require.NoError(t, mgr.Remove("gone"))
	_, err := mgr.Get("gone")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	_, err = ks.Key(w.KeyRef)
	assert.Error(t, err)
}

func TestRemoveClearsDefault(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.Add("a", watchAddr))
	require.NoError(t, mgr.Add("b", anvilAddr))
	require.NoError(t, mgr.SetDefault("a"))
	assert.Equal(t, "a", mgr.Default().Name)

	require.NoError(t, mgr.Remove("a"))
	assert.Equal(t, "b", mgr.Default().Name, "the one remaining wallet")
}

func TestRemoveNonExistentWallet(t *testing.T) {
	mgr, _ := newManager()
	assert.ErrorIs(t, mgr.Remove("ghost"), wallet.ErrWalletNotFound)
}

func TestSetDefault(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.Add("a", watchAddr))
	require.NoError(t, mgr.Add("b", anvilAddr))

	assert.Nil(t, mgr.Default(), "no default among several wallets")
	require.NoError(t, mgr.SetDefault("b"))
	assert.Equal(t, "b", mgr.Default().Name)

	assert.ErrorIs(t, mgr.SetDefault("nope"), wallet.ErrWalletNotFound)
}

func TestDefaultWalletWithSingleWallet(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.Add("only", watchAddr))
	assert.Equal(t, "only", mgr.Default().Name)
}

func TestSignerForWallet(t *testing.T) {
	mgr, _ := newManager()
	require.NoError(t, mgr.AddWithKey("s", anvilKey))
	require.NoError(t, mgr.Add("w", watchAddr))

	s, err := mgr.Signer("s")
	require.NoError(t, err)
	assert.Equal(t, anvilAddr, s.Address().Hex())

	_, err = mgr.Signer("w")
	assert.ErrorIs(t, err, wallet.ErrWatchOnly)

	_, err = mgr.Signer("missing")
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}

// ---------------------------------------------------------------------------
// FileStore
// ---------------------------------------------------------------------------

func TestFileStorePersistsAcrossManagers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wallets.json")
	ks := wallet.NewMemoryKeys()

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewFileStore(path)), wallet.WithKeys(ks))
	require.NoError(t, mgr.AddWithKey("alice", anvilKey))
	require.NoError(t, mgr.Add("bob", watchAddr))
	require.NoError(t, mgr.SetDefault("alice"))

	again := wallet.NewManager(wallet.WithStore(wallet.NewFileStore(path)), wallet.WithKeys(ks))
	w := again.Default()
	require.NotNil(t, w)
	assert.Equal(t, anvilAddr, w.Address.Hex())
	assert.Equal(t, "coinx.alice", w.KeyRef)
	assert.Len(t, again.List(), 2)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file renamed away")
}

func TestFileStoreLoadNoFile(t *testing.T) {
	b, err := wallet.NewFileStore(filepath.Join(t.TempDir(), "none.json")).Load()
	require.NoError(t, err)
	assert.Empty(t, b.Wallets)
	assert.Empty(t, b.Default)
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))
	_, err := wallet.NewFileStore(path).Load()
	assert.Error(t, err)

	mgr := wallet.NewManager(wallet.WithStore(wallet.NewFileStore(path)), wallet.WithKeys(wallet.NewMemoryKeys()))
	assert.Empty(t, mgr.List())
	assert.Error(t, mgr.Add("x", watchAddr))
}
