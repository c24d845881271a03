package orderflow

import "github.com/goliatone/go-errors"

const (
	ErrCodeInvalidOrder    = "ORDERFLOW_INVALID_ORDER"
	ErrCodeInvalidScenario = "ORDERFLOW_INVALID_SCENARIO"
	ErrCodeStoreConflict   = "ORDERFLOW_STORE_CONFLICT"
)

var (
	// ErrInvalidOrder marks orders missing the fields the workflow needs.
	ErrInvalidOrder = errors.New("order id required", errors.CategoryValidation).
			WithTextCode(ErrCodeInvalidOrder)

	// ErrInvalidScenario marks scenario configs that fail validation.
	ErrInvalidScenario = errors.New("invalid scenario config", errors.CategoryValidation).
				WithTextCode(ErrCodeInvalidScenario)

	// ErrStoreConflict marks duplicate writes against append-once stores.
	ErrStoreConflict = errors.New("record already exists", errors.CategoryConflict).
				WithTextCode(ErrCodeStoreConflict)
)
