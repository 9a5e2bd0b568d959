// Package cert implements a compact certificate that binds a holder name to
// an EC public key under the signature of an issuer:
//
//	Certificate ::= SEQUENCE {
//	  tbs SEQUENCE {
//	    holder UTF8String,
//	    issuer UTF8String,
//	    level  INTEGER,
//	    pubkey OCTET STRING },
//	  sig OCTET STRING }
//
// A root certificate is self-signed (holder == issuer). Chains are validated
// from a trust anchor down to the leaf. Validator adapts a trust anchor to the
// certificate-validator shape the key-agreement protocols expect.
package cert
