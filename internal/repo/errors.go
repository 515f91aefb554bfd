package repo

import "errors"

// Ошибки слоя доступа к данным.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("record not found")
)
