package providers

import "errors"

var (
	// ErrDatabaseIsNotReadyYet is returned if you are trying to access
	// an offline provider which was closed or has never opened its
	// database.
	ErrDatabaseIsNotReadyYet = errors.New("database is not initialized yet")

	// ErrDatabasePathIsRequired is returned if you are trying to
	// initialize an offline provider without a path to the database.
	ErrDatabasePathIsRequired = errors.New("database path is required")

	// ErrNoClientAddress is returned if provider cannot detect a public
	// IP address of this machine.
	ErrNoClientAddress = errors.New("cannot detect a public address of the client")
)
