package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
	"github.com/ethereum/go-ethereum/crypto"
)

const keychainService = "coinx"

// PasswordEnv unlocks the file keyring without a terminal prompt.
const PasswordEnv = "COINX_KEYRING_PASSWORD"

// ErrKeystoreUnavailable is returned when no keyring backend could be opened.
var ErrKeystoreUnavailable = errors.New("keystore not available")

// KeyStore holds private keys by reference.
type KeyStore interface {
	Put(name string, key *ecdsa.PrivateKey) (ref string, err error)
	Key(ref string) (*ecdsa.PrivateKey, error)
	Delete(ref string) error
}

// Keychain is a KeyStore on the OS keychain. When no desktop keychain is
// reachable it falls back to an encrypted file keyring under fileDir.
type Keychain struct {
	fileDir string

	once    sync.Once
	ring    keyring.Keyring
	openErr error
}

// NewKeychain returns a keychain that opens lazily. fileDir is only used by
// the file fallback.
func NewKeychain(fileDir string) *Keychain {
	return &Keychain{fileDir: fileDir}
}

// NewKeychainFrom wraps an already opened keyring.
func NewKeychainFrom(ring keyring.Keyring) *Keychain {
	k := &Keychain{ring: ring}
	k.once.Do(func() {})
	return k
}

func (k *Keychain) open() (keyring.Keyring, error) {
	k.once.Do(func() {
		cfg := keyring.Config{
			ServiceName:              keychainService,
			KeychainTrustApplication: true,
			FileDir:                  k.fileDir,
			FilePasswordFunc:         filePassword,
		}
		if runtime.GOOS == "linux" {
			cfg.AllowedBackends = []keyring.BackendType{
				keyring.SecretServiceBackend,
				keyring.KWalletBackend,
				keyring.FileBackend,
			}
		}
		k.ring, k.openErr = keyring.Open(cfg)
	})
	if k.ring == nil {
		if k.openErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeystoreUnavailable, k.openErr)
		}
		return nil, ErrKeystoreUnavailable
	}
	return k.ring, nil
}

func filePassword(prompt string) (string, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, nil
	}
	return keyring.TerminalPrompt(prompt)
}

// Put stores key under the wallet name and returns its reference.
func (k *Keychain) Put(name string, key *ecdsa.PrivateKey) (string, error) {
	ring, err := k.open()
	if err != nil {
		return "", err
	}
	ref := keyRef(name)
	err = ring.Set(keyring.Item{
		Key:         ref,
		Data:        []byte(hex.EncodeToString(crypto.FromECDSA(key))),
		Label:       "coinx wallet " + name,
		Description: crypto.PubkeyToAddress(key.PublicKey).Hex(),
	})
	if err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

// Key loads the private key stored under ref.
func (k *Keychain) Key(ref string) (*ecdsa.PrivateKey, error) {
	ring, err := k.open()
	if err != nil {
		return nil, err
	}
	item, err := ring.Get(ref)
	if err != nil {
		return nil, fmt.Errorf("keychain retrieve %s: %w", ref, err)
	}
	return ParseKey(string(item.Data))
}

// Delete removes a stored key. A missing key or an unreachable keychain is
// not an error, so a wallet can always be dropped from the book.
func (k *Keychain) Delete(ref string) error {
	ring, err := k.open()
	if err != nil {
		return nil
	}
	err = ring.Remove(ref)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func keyRef(name string) string { return keychainService + "." + name }

// ParseKey parses a hex private key, with or without 0x.
func ParseKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}

// MemoryKeys is a KeyStore held in memory.
type MemoryKeys struct {
	mu   sync.Mutex
	keys map[string]*ecdsa.PrivateKey
}

func NewMemoryKeys() *MemoryKeys {
	return &MemoryKeys{keys: make(map[string]*ecdsa.PrivateKey)}
}

func (m *MemoryKeys) Put(name string, key *ecdsa.PrivateKey) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := keyRef(name)
	m.keys[ref] = key
	return ref, nil
}

func (m *MemoryKeys) Key(ref string) (*ecdsa.PrivateKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.keys[ref]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", ref)
	}
	return key, nil
}

func (m *MemoryKeys) Delete(ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, ref)
	return nil
}
