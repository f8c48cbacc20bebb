package service

import "errors"

var (
	// ErrNotFound - инцидент с указанным id отсутствует в хранилище
	ErrNotFound = errors.New("incident not found")
	// ErrInvalidStatus - целевой статус не входит в число распознаваемых
	ErrInvalidStatus = errors.New("unknown incident status")
	// ErrInvalidTransition - статус распознан, но переход из текущего
	// состояния в него не разрешен графом жизненного цикла
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrValidation - в запросе на создание не хватает обязательных полей
	ErrValidation = errors.New("validation failed")
)
