package availability

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда интервал пересекается с перерывом, другим бронированием
	// или выходит за рабочее окно сотрудника
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
