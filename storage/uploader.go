package storage

import (
	"context"
	"io"
)

// UploadResult описывает сохранённый объект. Location — публичный URL,
// под которым файл доступен клиентам.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader — хранилище аватаров, логотипов и фото игроков.
// Сервисы хранят только ключ объекта, URL собирается при чтении.
type FileUploader interface {
	// Upload записывает объект по ключу, перезаписывая существующий.
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	// GetPublicURL собирает публичный URL по ключу без обращения к хранилищу.
	GetPublicURL(key string) string
}
