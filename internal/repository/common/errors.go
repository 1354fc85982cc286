package common

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки для всех репозиториев
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotOwner      = errors.New("entity owned by another user")
	ErrInvalidStatus = errors.New("invalid status transition")
	ErrConflict      = errors.New("concurrent modification conflict")
)

// Коды ошибок PostgreSQL, означающие конфликт конкурентной записи.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// IsConflict определяет, вызвана ли ошибка конкурентной модификацией:
// сбой сериализации, дедлок или нарушение уникальности. Такие операции
// безопасно повторить один раз с повторной проверкой предусловий.
func IsConflict(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgSerializationFailure, pgDeadlockDetected, pgUniqueViolation:
			return true
		}
	}
	return false
}
