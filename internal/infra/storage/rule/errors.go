package rule

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило данного вида не задано
	ErrRuleNotFound = errors.New("rule.repository: rule not found")

	// ErrDuplicateRule возвращается при нарушении уникальности (клуб, тип площадки, вид правила)
	ErrDuplicateRule = errors.New("rule.repository: duplicate rule kind")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rule.repository: failed to scan row")
)
