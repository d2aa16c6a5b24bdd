package usecase

import (
	"errors"
	"fmt"
)

// HTTPErrorはusecaseからhandlerへ返すエラー。
// Messageは人間向け、Errは機械向けの詳細文字列（レスポンスのerrorフィールド）。
type HTTPError struct {
	Status  int
	Message string
	Err     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     message,
	}
}

// NewHTTPErrorDetail はerrorフィールドに別の詳細を載せたいときに使う。
func NewHTTPErrorDetail(status int, message string, detail string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     detail,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
