// Package container encrypts and opens container files on behalf of the CLI.
//
// Recipients and credentials are resolved by name through the key and
// certificate stores. Outputs are written to a temporary file and only
// renamed into place once the whole container has been processed, so a
// failed decryption never leaves plaintext behind.
package container
