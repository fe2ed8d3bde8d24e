package domain

import "fmt"

// FetchError — сетевая ошибка при загрузке страницы (таймаут, не-2xx статус,
// обрыв соединения). Для отдельного объявления такая ошибка не фатальна.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError — на странице объявления не нашлось обязательное поле
// (title, region, address, price) либо структура страницы не совпала.
// Запись не создается вообще: либо все поля, либо ничего.
type ExtractionError struct {
	URL   string
	Field string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: missing mandatory field %q", e.URL, e.Field)
}

// StartupError — первая страница выдачи недоступна, запуск прерывается
// до сбора каких-либо записей. Поднимается до main и дает ненулевой exit code.
type StartupError struct {
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup: initial index page unreachable: %v", e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }
