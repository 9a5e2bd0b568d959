package crypto

import "encoding/hex"

// FingerprintSize is the number of hash octets kept in a fingerprint.
const FingerprintSize = 10

// Fingerprint returns a short hex fingerprint of an encoded public key or
// certificate: the first FingerprintSize octets of Hash(data).
func Fingerprint(data []byte) string {
	return hex.EncodeToString(Hash(data)[:FingerprintSize])
}
