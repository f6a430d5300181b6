package wallet

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Manager adds, removes and looks up wallets in a book, and hands out
// signers for the ones that hold a key.
type Manager struct {
	store Store
	keys  KeyStore
	book  *Book
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore sets where the book is kept. The default is in memory.
func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithKeys sets where private keys go.
func WithKeys(ks KeyStore) Option {
	return func(m *Manager) { m.keys = ks }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{store: &memStore{}}
	for _, opt := range opts {
		opt(m)
	}
	if m.keys == nil {
		m.keys = NewKeychain("")
	}
	return m
}

// Add registers a watch-only wallet.
func (m *Manager) Add(name, address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return m.insert(&Wallet{
		Name:    name,
		Address: common.HexToAddress(address),
		Type:    TypeWatchOnly,
	})
}

// AddWithKey registers a signing wallet. The key goes to the key store and
// the address is derived from it.
func (m *Manager) AddWithKey(name, hexKey string) error {
	if err := m.checkFree(name); err != nil {
		return err
	}
	key, err := ParseKey(hexKey)
	if err != nil {
		return err
	}
	ref, err := m.keys.Put(name, key)
	if err != nil {
		return fmt.Errorf("storing key: %w", err)
	}
	return m.insert(&Wallet{
		Name:    name,
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Type:    TypeSigning,
		KeyRef:  ref,
	})
}

func (m *Manager) checkFree(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("wallet name is empty")
	}
	b, err := m.load()
	if err != nil {
		return err
	}
	if b.index(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrWalletExists, name)
	}
	return nil
}

func (m *Manager) insert(w *Wallet) error {
	if err := m.checkFree(w.Name); err != nil {
		return err
	}
	w.Added = time.Now().UTC().Truncate(time.Second)
	m.book.Wallets = append(m.book.Wallets, w)
	slices.SortFunc(m.book.Wallets, func(a, b *Wallet) int { return strings.Compare(a.Name, b.Name) })
	return m.store.Save(m.book)
}

// Get returns a wallet by name.
func (m *Manager) Get(name string) (*Wallet, error) {
	b, err := m.load()
	if err != nil {
		return nil, err
	}
	i := b.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return b.Wallets[i], nil
}

// Remove drops a wallet and its stored key.
func (m *Manager) Remove(name string) error {
	w, err := m.Get(name)
	if err != nil {
		return err
	}
	if w.KeyRef != "" {
		if err := m.keys.Delete(w.KeyRef); err != nil {
			return fmt.Errorf("deleting key: %w", err)
		}
	}
	m.book.Wallets = slices.DeleteFunc(m.book.Wallets, func(x *Wallet) bool { return x.Name == name })
	if m.book.Default == name {
		m.book.Default = ""
	}
	return m.store.Save(m.book)
}

// List returns all wallets sorted by name. A book that cannot be read
// lists as empty.
func (m *Manager) List() []*Wallet {
	b, err := m.load()
	if err != nil {
		return nil
	}
	return slices.Clone(b.Wallets)
}

// SetDefault marks name as the default wallet.
func (m *Manager) SetDefault(name string) error {
	if _, err := m.Get(name); err != nil {
		return err
	}
	m.book.Default = name
	return m.store.Save(m.book)
}

// Default returns the default wallet. With no default set, a book holding
// exactly one wallet defaults to it.
func (m *Manager) Default() *Wallet {
	b, err := m.load()
	if err != nil {
		return nil
	}
	if i := b.index(b.Default); i >= 0 {
		return b.Wallets[i]
	}
	if len(b.Wallets) == 1 {
		return b.Wallets[0]
	}
	return nil
}

// Signer returns a signer for the named wallet.
func (m *Manager) Signer(name string) (*Signer, error) {
	w, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	if !w.CanSign() {
		return nil, fmt.Errorf("%q: %w", name, ErrWatchOnly)
	}
	return NewSigner(w, m.keys), nil
}

func (m *Manager) load() (*Book, error) {
	if m.book != nil {
		return m.book, nil
	}
	b, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	m.book = b
	return b, nil
}

func (b *Book) index(name string) int {
	if name == "" {
		return -1
	}
	return slices.IndexFunc(b.Wallets, func(w *Wallet) bool { return w.Name == name })
}
