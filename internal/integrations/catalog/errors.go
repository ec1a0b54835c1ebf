package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден в справочнике
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalog client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе или некорректном файле каталога
	ErrInvalidResponse = errors.New("catalog client: invalid response")
)
