package cookie

import "errors"

var (
	ErrInvalidName = errors.New("cookie.invalid_name")
)
