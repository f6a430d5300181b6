package wallet

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"

	"github.com/99designs/keyring"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known Hardhat/Anvil test account #0; never fund on mainnet.
const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// testKeychain returns a file-backed Keychain isolated to a temp directory.
// Using the FileBackend avoids OS keychain prompts in CI.
func testKeychain(t *testing.T) *Keychain {
	t.Helper()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      "coinx-test",
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          t.TempDir(),
		FilePasswordFunc: func(string) (string, error) { return "testpass", nil },
	})
	require.NoError(t, err)
	return NewKeychainFrom(ring)
}

// brokenKeychain failed to open, so every Key fails.
func brokenKeychain() *Keychain {
	k := &Keychain{openErr: errors.New("no backend")}
	k.once.Do(func() {})
	return k
}

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ParseKey(testPrivKeyHex)
	require.NoError(t, err)
	return key
}

func signingWallet(t *testing.T, ks KeyStore) *Wallet {
	t.Helper()
	ref, err := ks.Put("alice", testKey(t))
	require.NoError(t, err)
	return &Wallet{Name: "alice", Address: common.HexToAddress(testSignerAddr), Type: TypeSigning, KeyRef: ref}
}

func permitTypedData() apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"PermitTransferFrom": {
				{Name: "spender", Type: "address"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		PrimaryType: "PermitTransferFrom",
		Domain: apitypes.TypedDataDomain{
			Name:              "Permit2",
			ChainId:           math.NewHexOrDecimal256(1),
			VerifyingContract: "0x000000000022D473030F116dDEE9F6B43aC78BA3",
		},
		Message: apitypes.TypedDataMessage{
			"spender":  "0x7f6ceE965959295cC64d0E6c00d99d6532d8e86b",
			"nonce":    "7",
			"deadline": "1700000000",
		},
	}
}

// ---------------------------------------------------------------------------
// Signer.Address
// ---------------------------------------------------------------------------

func TestSignerAddress(t *testing.T) {
	w := &Wallet{Name: "w", Address: common.HexToAddress(testSignerAddr), Type: TypeSigning}
	s := NewSigner(w, brokenKeychain())
	assert.Equal(t, common.HexToAddress(testSignerAddr), s.Address())
}

// ---------------------------------------------------------------------------
// Signer.SignTx
// ---------------------------------------------------------------------------

func TestSignTxWatchOnlyError(t *testing.T) {
	w := &Wallet{Name: "watcher", Address: common.HexToAddress(testSignerAddr), Type: TypeWatchOnly}
	s := NewSigner(w, brokenKeychain())

	tx := types.NewTransaction(0, common.Address{}, big.NewInt(0), 21000, big.NewInt(1e9), nil)
	_, err := s.SignTx(tx, big.NewInt(1))
	assert.ErrorIs(t, err, ErrWatchOnly)
}

func TestSignTxKeystoreNotAvailable(t *testing.T) {
	w := &Wallet{Name: "w", Address: common.HexToAddress(testSignerAddr), Type: TypeSigning, KeyRef: "coinx.w"}
	s := NewSigner(w, brokenKeychain())

	tx := types.NewTransaction(0, common.Address{}, big.NewInt(0), 21000, big.NewInt(1e9), nil)
	_, err := s.SignTx(tx, big.NewInt(1))
	assert.ErrorIs(t, err, ErrKeystoreUnavailable)
}

func TestSignTxSuccess(t *testing.T) {
	ks := testKeychain(t)
	s := NewSigner(signingWallet(t, ks), ks)

	to := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(8453),
		Nonce:     3,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(1),
	})
	raw, err := s.SignTx(tx, big.NewInt(8453))
	require.NoError(t, err)

	decoded := new(types.Transaction)
	require.NoError(t, decoded.UnmarshalBinary(raw))
	from, err := types.Sender(types.NewLondonSigner(big.NewInt(8453)), decoded)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testSignerAddr), from)
	assert.Equal(t, uint64(3), decoded.Nonce())
}

// ---------------------------------------------------------------------------
// Signer.SignTypedData
// ---------------------------------------------------------------------------

func TestSignTypedDataRecoversSigner(t *testing.T) {
	ks := NewMemoryKeys()
	s := NewSigner(signingWallet(t, ks), ks)

	td := permitTypedData()
	sig, err := s.SignTypedData(td)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	got, err := RecoverTypedData(td, sig)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testSignerAddr), got)
}

func TestSignTypedDataDeterministic(t *testing.T) {
	ks := NewMemoryKeys()
	s := NewSigner(signingWallet(t, ks), ks)

	a, err := s.SignTypedData(permitTypedData())
	require.NoError(t, err)
	b, err := s.SignTypedData(permitTypedData())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSignTypedDataDifferentMessage(t *testing.T) {
	ks := NewMemoryKeys()
	s := NewSigner(signingWallet(t, ks), ks)

	td := permitTypedData()
	sig, err := s.SignTypedData(td)
	require.NoError(t, err)

	td.Message["nonce"] = "8"
	got, err := RecoverTypedData(td, sig)
	require.NoError(t, err)
	assert.NotEqual(t, common.HexToAddress(testSignerAddr), got)
}

func TestSignTypedDataWatchOnly(t *testing.T) {
	w := &Wallet{Name: "watcher", Address: common.HexToAddress(testSignerAddr), Type: TypeWatchOnly}
	_, err := NewSigner(w, NewMemoryKeys()).SignTypedData(permitTypedData())
	assert.ErrorIs(t, err, ErrWatchOnly)
}

func TestSignRejectsKeyForOtherAddress(t *testing.T) {
	ks := NewMemoryKeys()
	w := signingWallet(t, ks)
	w.Address = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

	_, err := NewSigner(w, ks).SignTypedData(permitTypedData())
	assert.ErrorContains(t, err, "belongs to")
}

func TestSignTypedDataBadTypes(t *testing.T) {
	ks := NewMemoryKeys()
	s := NewSigner(signingWallet(t, ks), ks)

	td := permitTypedData()
	td.PrimaryType = "Missing"
	_, err := s.SignTypedData(td)
	assert.Error(t, err)
}

func TestRecoverTypedDataInvalidLength(t *testing.T) {
	_, err := RecoverTypedData(permitTypedData(), make([]byte, 64))
	assert.ErrorContains(t, err, "invalid signature length")
}

// ---------------------------------------------------------------------------
// Key stores
// ---------------------------------------------------------------------------

func TestKeychainRoundTrip(t *testing.T) {
	ks := testKeychain(t)
	ref, err := ks.Put("bob", testKey(t))
	require.NoError(t, err)
	assert.Equal(t, "coinx.bob", ref)

	got, err := ks.Key(ref)
	require.NoError(t, err)
	assert.Equal(t, testSignerAddr, crypto.PubkeyToAddress(got.PublicKey).Hex())

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Key(ref)
	assert.Error(t, err)
	assert.NoError(t, ks.Delete(ref), "deleting a missing key is not an error")
}

func TestKeychainFileFallback(t *testing.T) {
	t.Setenv(PasswordEnv, "testpass")
	pw, err := filePassword("unused")
	require.NoError(t, err)
	assert.Equal(t, "testpass", pw)
}

func TestBrokenKeychain(t *testing.T) {
	_, err := brokenKeychain().Put("x", testKey(t))
	assert.ErrorIs(t, err, ErrKeystoreUnavailable)
	assert.ErrorContains(t, err, "no backend")
	assert.NoError(t, brokenKeychain().Delete("coinx.x"))
}

func TestMemoryKeys(t *testing.T) {
	ks := NewMemoryKeys()
	ref, err := ks.Put("k", testKey(t))
	require.NoError(t, err)

	got, err := ks.Key(ref)
	require.NoError(t, err)
	assert.True(t, got.Equal(testKey(t)))

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Key(ref)
	assert.ErrorContains(t, err, "key not found")
}

func TestParseKey(t *testing.T) {
	for _, in := range []string{testPrivKeyHex, "0x" + testPrivKeyHex, "0X" + testPrivKeyHex, "  " + testPrivKeyHex + "\n"} {
		key, err := ParseKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, testSignerAddr, crypto.PubkeyToAddress(key.PublicKey).Hex())
	}
	_, err := ParseKey("0x")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
