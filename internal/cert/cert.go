// Package cert — сертификат метки времени: клиентский хэш + выданное UTC время,
// подписанные ключом узла (ed25519). Формат фиксированный, little-endian —
// порядок байт согласован с референсной аппаратурой и клиентом заранее,
// в протоколе не согласуется.
package cert

import "encoding/binary"

// Размеры полей и всего сертификата на проводе.
const (
	HashSize      = 32
	TimestampSize = 8
	SignatureSize = 64
	WireSize      = HashSize + TimestampSize + SignatureSize
)

// Certificate — запись {хэш, UTC нс, подпись}; живёт один запрос:
// строится, сериализуется в датаграмму и забывается.
type Certificate struct {
	Hash  [HashSize]byte
	UTCNs uint64
	Sig   [SignatureSize]byte
}

// Encode сериализует сертификат в фиксированные 104 байта без выравнивания:
// hash [0,32), timestamp LE [32,40), signature [40,104).
func (c *Certificate) Encode() [WireSize]byte {
	var out [WireSize]byte
	copy(out[:HashSize], c.Hash[:])
	binary.LittleEndian.PutUint64(out[HashSize:HashSize+TimestampSize], c.UTCNs)
	copy(out[HashSize+TimestampSize:], c.Sig[:])
	return out
}

// Decode разбирает 104-байтовую запись (для клиента/проверки).
func Decode(b []byte) (Certificate, bool) {
	if len(b) != WireSize {
		return Certificate{}, false
	}
	var c Certificate
	copy(c.Hash[:], b[:HashSize])
	c.UTCNs = binary.LittleEndian.Uint64(b[HashSize : HashSize+TimestampSize])
	copy(c.Sig[:], b[HashSize+TimestampSize:])
	return c, true
}

// signedMessage возвращает 40 байт hash || utc_ns_le — ровно то, что покрывает подпись.
func signedMessage(hash [HashSize]byte, utcNs uint64) []byte {
	msg := make([]byte, HashSize+TimestampSize)
	copy(msg, hash[:])
	binary.LittleEndian.PutUint64(msg[HashSize:], utcNs)
	return msg
}
