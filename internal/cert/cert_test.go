package cert

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func testSigner(t *testing.T) *Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return NewSigner(priv)
}

func TestEncode_Layout(t *testing.T) {
	var c Certificate
	for i := range c.Hash {
		c.Hash[i] = byte(i)
	}
	c.UTCNs = 0x1122334455667788
	for i := range c.Sig {
		c.Sig[i] = 0xAA
	}
	out := c.Encode()
	if len(out) != 104 {
		t.Fatalf("len(Encode) = %d, want 104", len(out))
	}
	if !bytes.Equal(out[:32], c.Hash[:]) {
		t.Error("hash не в [0,32)")
	}
	if got := binary.LittleEndian.Uint64(out[32:40]); got != c.UTCNs {
		t.Errorf("timestamp = %#x, want %#x", got, c.UTCNs)
	}
	if !bytes.Equal(out[40:], c.Sig[:]) {
		t.Error("signature не в [40,104)")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	var c Certificate
	copy(c.Hash[:], bytes.Repeat([]byte{7}, 32))
	c.UTCNs = 1_700_000_001_000_000_000
	copy(c.Sig[:], bytes.Repeat([]byte{9}, 64))
	enc := c.Encode()
	got, ok := Decode(enc[:])
	if !ok {
		t.Fatal("Decode(104 байта) = !ok")
	}
	if got != c {
		t.Errorf("Decode = %+v, want %+v", got, c)
	}
	if _, ok := Decode(enc[:103]); ok {
		t.Error("Decode(103 байта): ожидали !ok")
	}
}

func TestSign_VerifyRoundTrip(t *testing.T) {
	s := testSigner(t)
	var hash [HashSize]byte
	copy(hash[:], bytes.Repeat([]byte{0x5c}, 32))
	utc := uint64(1_700_000_000_000_000_000)

	sig, err := s.Sign(hash, utc)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	c := Certificate{Hash: hash, UTCNs: utc, Sig: sig}
	if !Verify(s.Public(), c) {
		t.Error("Verify: подпись не проходит проверку")
	}

	// Подпись покрывает ровно hash||utc: изменение времени её ломает.
	c.UTCNs++
	if Verify(s.Public(), c) {
		t.Error("Verify: подпись прошла для изменённого timestamp")
	}
}

func TestSign_Deterministic(t *testing.T) {
	s := testSigner(t)
	var hash [HashSize]byte
	hash[0] = 1
	utc := uint64(42)
	sig1, err1 := s.Sign(hash, utc)
	sig2, err2 := s.Sign(hash, utc)
	if err1 != nil || err2 != nil {
		t.Fatalf("Sign: %v %v", err1, err2)
	}
	if sig1 != sig2 {
		t.Error("ed25519: одинаковые (хэш, время) должны давать одинаковую подпись")
	}
}

func TestSign_Unavailable(t *testing.T) {
	var s *Signer
	var hash [HashSize]byte
	if _, err := s.Sign(hash, 1); err != ErrSigningUnavailable {
		t.Errorf("nil Signer: err = %v, want ErrSigningUnavailable", err)
	}
	if s.Available() {
		t.Error("nil Signer: Available должен быть false")
	}
	if s.Public() != nil {
		t.Error("nil Signer: Public должен быть nil")
	}
}

func TestLoad_RawSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{0x13}, ed25519.SeedSize)
	path := filepath.Join(t.TempDir(), "signing.key")
	if err := os.WriteFile(path, seed, 0600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load(seed): %v", err)
	}
	want := ed25519.NewKeyFromSeed(seed)
	if !s.Public().Equal(want.Public()) {
		t.Error("Load(seed): публичный ключ не совпадает с NewKeyFromSeed")
	}
}

func TestLoad_RawPrivate(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "signing.key")
	if err := os.WriteFile(path, priv, 0600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load(private): %v", err)
	}
	if !s.Public().Equal(priv.Public()) {
		t.Error("Load(private): публичный ключ не совпадает")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.key")); err == nil {
		t.Error("Load отсутствующего файла: ожидали ошибку")
	}
}

func TestLoad_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.key")
	if err := os.WriteFile(path, []byte("not a key at all"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load мусора: ожидали ошибку")
	}
}
