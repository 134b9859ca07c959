package rules

import "errors"

var (
	// ErrInternal возвращается при ошибке чтения правил из хранилища
	ErrInternal = errors.New("rules.service: internal error")
)
