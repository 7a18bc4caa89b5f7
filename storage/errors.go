package storage

import "errors"

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrInvalidKeyID  = errors.New("storage: invalid key id")
	ErrKeyIDMismatch = errors.New("storage: key id mismatch")
	ErrImmutable     = errors.New("storage: immutable object mismatch")
	ErrNotSPKI       = errors.New("storage: not a SubjectPublicKeyInfo")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
