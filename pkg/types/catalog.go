package types

import "errors"

// Catalog defines backend-agnostic storage for contract descriptors.
// Callers attach to a backend, save and load contracts by name, and detach
// when done. The catalog stores contract shapes only; synthesized stub types
// are in-process values and are never persisted.
type Catalog interface {
	// Save stores or replaces the contract under its name.
	// Returns ErrInvalidContract if the contract fails validation.
	Save(c *Contract) error

	// Get loads the contract with the given name, re-resolving embedded and
	// interface-typed member references against the catalog.
	// Returns ErrContractNotFound if no contract exists with that name.
	Get(name string) (*Contract, error)

	// List returns the names of all stored contracts in sorted order.
	List() ([]string, error)

	// Delete removes the contract with the given name.
	// Returns ErrContractNotFound if no contract exists with that name.
	Delete(name string) error

	// Attach connects the Catalog to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrCatalogDetached.
	Detach() error
}

// Catalog lifecycle and operation errors.
var (
	ErrCatalogDetached  = errors.New("catalog is detached")
	ErrAlreadyAttached  = errors.New("catalog is already attached")
	ErrContractNotFound = errors.New("contract not found")
	ErrInvalidContract  = errors.New("invalid contract")
)
