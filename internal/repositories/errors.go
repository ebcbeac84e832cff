package repositories

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrAffiliateNotFound = errors.New("affiliate not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrAPIKeyNotFound    = errors.New("api key not found")
	ErrDatabaseOperation = errors.New("database operation failed")
)
