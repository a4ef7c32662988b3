package storage

import "product-intelligence/models"

// ProductStore is the interface any product persistence backend must satisfy.
type ProductStore interface {
	Write(products []*models.Product) error
	FetchAll() ([]*models.Product, error)
	Close() error
}

// RawProductWriter is the interface for persisting unprocessed dataset rows.
type RawProductWriter interface {
	WriteRaw(products []*models.RawProduct) error
	Close() error
}
