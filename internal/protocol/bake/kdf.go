package bake

import (
	"bytes"
	"encoding/binary"

	"bee/internal/crypto"
	"bee/internal/util/memzero"
)

// KeySize is the size of derived session keys.
const KeySize = crypto.KeySize

// KDFIV is the 96-bit all-ones value used both as the KDF iv of the protocols
// and as the key-replacement level.
var KDFIV = bytes.Repeat([]byte{0xff}, crypto.KRPLevelSize)

// KDF derives the num-th 32-octet key from secret and iv:
// KRP(Hash(secret || iv), 1^96, LE(num)).
func KDF(secret, iv []byte, num uint64) ([]byte, error) {
	y := crypto.Hash(secret, iv)
	defer memzero.Zero(y)
	var header [crypto.KRPHeaderSize]byte
	binary.LittleEndian.PutUint64(header[:8], num)
	return crypto.KRP(y, KDFIV, header[:])
}

// DeriveKeys returns KDF(secret, KDFIV, i) for i in [0, n).
func DeriveKeys(secret []byte, n int) ([][]byte, error) {
	keys := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		k, err := KDF(secret, KDFIV, uint64(i))
		if err != nil {
			for _, kk := range keys {
				memzero.Zero(kk)
			}
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
