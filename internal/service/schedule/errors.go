package schedule

import "errors"

var (
	// ErrInspectorNotFound возвращается, когда инспектор отсутствует в сессии
	ErrInspectorNotFound = errors.New("inspector not found")

	// ErrUnknownDay возвращается при некорректном ключе дня недели
	ErrUnknownDay = errors.New("unknown day key")

	// ErrInvalidSchedule возвращается, когда правка нарушает инварианты расписания
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrGridExhausted возвращается, когда в сетке не осталось места
	// Информационная ошибка, а не сбой: пользователю показывается подсказка
	ErrGridExhausted = errors.New("no additional block can be added without overlapping")

	// ErrPastDate возвращается при попытке создать исключение на прошедшую дату
	ErrPastDate = errors.New("override date must not be in the past")

	// ErrOverrideNotFound возвращается, когда исключение с такой (датой, началом) не найдено
	ErrOverrideNotFound = errors.New("date override not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrViewModeRejected возвращается, когда хранилище не приняло смену режима
	// Локальное переключение к этому моменту уже откачено
	ErrViewModeRejected = errors.New("view mode change rejected by store")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
