package domain

import (
	"github.com/pkg/errors"
)

// Error kinds. Operations wrap one of these with context; test with errors.Is.
var (
	ErrBadInput   = errors.New("bad input")
	ErrBadParams  = errors.New("bad parameters")
	ErrBadRng     = errors.New("rng failure")
	ErrBadFormat  = errors.New("bad format")
	ErrBadFile    = errors.New("bad file")
	ErrBadCert    = errors.New("bad certificate")
	ErrBadPoint   = errors.New("bad point")
	ErrBadPrivkey = errors.New("bad private key")
	ErrBadPubkey  = errors.New("bad public key")
	ErrBadName    = errors.New("bad name")
	ErrAuth       = errors.New("authentication failed")
	ErrBadLogic   = errors.New("bad logic")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrBadInput, "BadInput"},
	{ErrBadParams, "BadParams"},
	{ErrBadRng, "BadRng"},
	{ErrBadFormat, "BadFormat"},
	{ErrBadFile, "BadFile"},
	{ErrBadCert, "BadCert"},
	{ErrBadPoint, "BadPoint"},
	{ErrBadPrivkey, "BadPrivkey"},
	{ErrBadPubkey, "BadPubkey"},
	{ErrBadName, "BadName"},
	{ErrAuth, "Auth"},
	{ErrBadLogic, "BadLogic"},
}

// KindOf returns the name of the error kind wrapped by err, "OK" for nil and
// "Unknown" for errors that carry no kind.
func KindOf(err error) string {
	if err == nil {
		return "OK"
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
