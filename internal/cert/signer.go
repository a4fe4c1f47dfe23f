package cert

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// ErrSigningUnavailable — ключ не загружен; узел в unsigned режиме.
// Вызывающий обязан иметь fallback (ответ сырой меткой), а не ронять цикл.
var ErrSigningUnavailable = errors.New("cert: signing key not loaded")

// Signer подписывает пары (хэш, UTC нс) ключом узла. nil *Signer — валидный
// unsigned режим: Sign возвращает ErrSigningUnavailable.
type Signer struct {
	priv ed25519.PrivateKey
}

// Load загружает ключ ed25519 из файла. Принимаются: raw seed (32 байта),
// raw private key (64 байта) и файл в формате OpenSSH. Ключ загружается один
// раз на время жизни процесса; перечитывания нет.
func Load(path string) (*Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key %s: %w", path, err)
	}
	switch len(data) {
	case ed25519.SeedSize:
		return &Signer{priv: ed25519.NewKeyFromSeed(data)}, nil
	case ed25519.PrivateKeySize:
		return &Signer{priv: ed25519.PrivateKey(data)}, nil
	}
	raw, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse signing key %s: %w", path, err)
	}
	priv, ok := raw.(*ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing key %s: not an ed25519 key", path)
	}
	return &Signer{priv: *priv}, nil
}

// NewSigner оборачивает готовый приватный ключ (для тестов и встраивания).
func NewSigner(priv ed25519.PrivateKey) *Signer {
	return &Signer{priv: priv}
}

// Sign подписывает 40 байт hash || utc_ns_le. ed25519 детерминирован:
// одинаковые (хэш, время) дают одинаковую подпись.
func (s *Signer) Sign(hash [HashSize]byte, utcNs uint64) ([SignatureSize]byte, error) {
	var sig [SignatureSize]byte
	if s == nil || s.priv == nil {
		return sig, ErrSigningUnavailable
	}
	copy(sig[:], ed25519.Sign(s.priv, signedMessage(hash, utcNs)))
	return sig, nil
}

// Available сообщает, загружен ли ключ.
func (s *Signer) Available() bool {
	return s != nil && s.priv != nil
}

// Public возвращает публичный ключ узла (nil в unsigned режиме).
func (s *Signer) Public() ed25519.PublicKey {
	if s == nil || s.priv == nil {
		return nil
	}
	return s.priv.Public().(ed25519.PublicKey)
}

// Verify проверяет подпись сертификата публичным ключом узла.
func Verify(pub ed25519.PublicKey, c Certificate) bool {
	return ed25519.Verify(pub, signedMessage(c.Hash, c.UTCNs), c.Sig[:])
}
