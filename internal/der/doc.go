// Package der encodes and decodes DER tag-length headers, including the
// multi-octet tag numbers (> 30) of application-class tags that cryptobyte
// does not handle. Contents of such values are built and parsed with
// golang.org/x/crypto/cryptobyte by the callers.
package der
