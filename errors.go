package skiplist

import "errors"

var (
	// ErrInvalidArgument is returned when a list is constructed with an
	// invalid level count or without a comparator.
	ErrInvalidArgument = errors.New("skiplist: invalid argument")

	// ErrKeyOutOfRange is the panic value raised by Set when a key is not
	// strictly below the configured maximum key.
	ErrKeyOutOfRange = errors.New("skiplist: key not below configured maximum key")
)
