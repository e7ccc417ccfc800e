package schedstore

import "errors"

var (
	// ErrInspectorNotFound возвращается, когда хранилище не знает инспектора
	ErrInspectorNotFound = errors.New("inspector not found in scheduling store")

	// ErrRejected возвращается, когда хранилище отклонило присланное расписание
	ErrRejected = errors.New("scheduling store rejected the payload")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("schedstore client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе хранилища
	ErrInvalidResponse = errors.New("schedstore client: invalid response")

	// ErrStoreUnavailable возвращается при недоступности хранилища (5xx, сеть)
	ErrStoreUnavailable = errors.New("scheduling store unavailable")
)
