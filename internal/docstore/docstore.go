// Package docstore - хранилище документов "коллекция/ключ -> документ".
// Модель согласованности самого хранилища не гарантируется: last-write-wins.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

// Document - произвольный JSON-подобный документ
type Document = map[string]any

var (
	// ErrNotFound - документа с таким ключом нет
	ErrNotFound = errors.New("docstore: document-not-found")
	// ErrInvalidKey - пустая коллекция или ключ
	ErrInvalidKey = errors.New("docstore: invalid collection or id")
)

// Store - минимальный контракт хранилища документов
type Store interface {
	// Get возвращает документ или ErrNotFound
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set создает или полностью заменяет документ
	Set(ctx context.Context, collection, id string, doc Document) error
	// Update сливает поля верхнего уровня в существующий документ.
	// Для отсутствующего документа возвращает ErrNotFound.
	Update(ctx context.Context, collection, id string, fields Document) error
}

func validateKey(collection, id string) error {
	if collection == "" || id == "" {
		return fmt.Errorf("%w: collection=%q id=%q", ErrInvalidKey, collection, id)
	}
	return nil
}

// merge - неглубокое слияние; dst изменяется на месте
func merge(dst, fields Document) Document {
	if dst == nil {
		dst = Document{}
	}
	for k, v := range fields {
		dst[k] = v
	}
	return dst
}
