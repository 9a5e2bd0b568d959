package domain

// Fingerprint is a short hex digest of a public key.
type Fingerprint string

// KeyPair is a private key with its public key, as kept in the key store.
type KeyPair struct {
	Level Level  `json:"level"`
	Priv  []byte `json:"priv"`
	Pub   []byte `json:"pub"`
}

// PublicKey is the public half of a stored key.
type PublicKey struct {
	Name  string `json:"name"`
	Level Level  `json:"level"`
	Pub   []byte `json:"pub"`
}

// Addressee selects how a container is addressed. Exactly one of Password and
// Peer is set.
type Addressee struct {
	Password string
	// Iter is the PBKDF2 iteration count for Password; zero means the minimum.
	Iter int
	// Peer names a stored public key. With WithCert the stored certificate
	// of Peer supplies the key instead and is carried in the header.
	Peer     string
	WithCert bool
}

// Opener holds what is needed to open a container. Exactly one of Password
// and Key is set.
type Opener struct {
	Password string
	// Key names a stored private key protected by Passphrase.
	Key        string
	Passphrase string
	// Cert names a stored certificate that the container must be addressed to.
	Cert string
	// Anchor names a stored trust anchor for the certificate in the header.
	Anchor string
}

// ContainerInfo describes a container header.
type ContainerInfo struct {
	Kind      string
	HeaderLen int
	Itag      uint
	Level     Level
	Cert      []byte
	Iter      int
}

// KeyRef names a stored key and the passphrase that opens it.
type KeyRef struct {
	Name       string
	Passphrase string
}

// Handshake selects a key agreement protocol and the role played in it.
type Handshake struct {
	// Protocol is one of "bmqv", "bsts" or "bpace".
	Protocol  string
	Initiator bool
	// Self is the local key, used by bmqv and bsts. Its stored certificate
	// is presented to the peer.
	Self KeyRef
	// Peer names the stored certificate of the other party (bmqv only).
	Peer string
	// Anchor names the stored certificate that peer certificates must be
	// signed by.
	Anchor string
	// Password and Level configure bpace.
	Password string
	Level    Level
	Helloa   []byte
	Hellob   []byte
	Kca      bool
	Kcb      bool
}
