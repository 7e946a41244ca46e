package backend

import (
	"errors"
	"fmt"
)

// ErrNoToken возвращается изменяющими запросами, когда токен не найден
var ErrNoToken = errors.New("no auth token")

// NetworkError - запрос не дошёл до сервера или ответ не получен
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError - ответ 5xx
type ServerError struct {
	Op     string
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: server error (status %d): %s", e.Op, e.Status, e.Body)
}

// NotFoundError - ответ 404
type NotFoundError struct {
	Op string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.Op)
}

// StatusError - прочие ответы 4xx
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API error (status %d): %s", e.Op, e.Status, e.Body)
}

// IsNotFound проверяет, что ошибка - ответ 404
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTransient проверяет, что ошибка связана с сетью или сервером
func IsTransient(err error) bool {
	var (
		netErr    *NetworkError
		serverErr *ServerError
	)
	return errors.As(err, &netErr) || errors.As(err, &serverErr)
}
