package storage

import (
	"context"
	"errors"
)

var (
	ErrExists   = errors.New("blob already exists")
	ErrNotExist = errors.New("blob does not exist")
)

// Blob is the byte store behind the record store. Put never overwrites:
// it fails with ErrExists when key is taken.
type Blob interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
