package commands

// CLI flag names. Flags that are also configuration keys share the key names
// of package app.
const (
	passphraseFlag = "passphrase"

	pwdFlag      = "pwd"
	peerFlag     = "peer"
	withCertFlag = "with-cert"
	keyFlag      = "key"
	certFlag     = "cert"
	anchorFlag   = "anchor"
	adataFlag    = "adata"

	nameFlag       = "name"
	signerFlag     = "signer"
	signerPassFlag = "signer-pass"
	chainFlag      = "chain"

	selfFlag   = "self"
	partyAFlag = "party-a"
	partyBFlag = "party-b"
	kcaFlag    = "kca"
	kcbFlag    = "kcb"
	helloaFlag = "helloa"
	hellobFlag = "hellob"
)
