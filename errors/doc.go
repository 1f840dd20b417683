/*
Package errors provides semantic error types for the Envitrack data layer.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound      = errors.New("entity not found")
	    ErrAlreadyExists = errors.New("entity already exists")
	    ErrHasDependents = errors.New("entity has dependents")
	    ErrInvalidState  = errors.New("invalid state transition")
	    ErrInvalidCursor = errors.New("invalid pagination cursor")
	    ErrConflict      = errors.New("version conflict")
	    ErrStorage       = errors.New("storage error")
	)

Usage:

	err := customers.Delete(ctx, id)
	if err != nil {
	    if count, blocked := errors.DependentCount(err); blocked {
	        // Report the dependent count so the caller can detach children first
	        return fmt.Errorf("customer still has %d projects", count)
	    }
	    return err
	}

Domain errors are recognized and returned as typed results by the repository
layer; raw storage-engine errors are wrapped into StorageError and propagated
unmodified otherwise. Nothing in this layer retries or swallows an error.
*/
package errors
