package storage

import "github.com/pkg/errors"

var (
	ErrNotFound = errors.New("not found")

	ErrResourceUnavailable = errors.New("resource unavailable")

	ErrBlockNotLinked   = errors.New("block does not extend chain tip")
	ErrTxAlreadyInChain = errors.New("tx already in previous block")
	ErrTooManyTx        = errors.New("block contains too many tx")
)
