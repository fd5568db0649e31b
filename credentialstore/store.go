// credentialstore/store.go
/* The `credentialstore` package defines the persistence boundary for the access and
refresh credentials used by the bearer-auth client. The client never caches credentials
itself: the store is the single source of truth, read on every outgoing request and
written after every successful refresh. Implementations may be in-memory, OS keychain
backed, Redis backed, or anything else that satisfies the Store interface. */
package credentialstore

import "context"

// Store is the capability set the augmented client requires from a credential backend.
//
// An empty string with a nil error means "no credential present"; a non-nil error
// means the backend itself failed and is surfaced to the caller of the triggering
// request as a store error.
type Store interface {
	// GetCredential returns the current access credential, or "" if none is stored.
	GetCredential(ctx context.Context) (string, error)
	// GetRefreshCredential returns the current refresh credential, or "" if none is stored.
	GetRefreshCredential(ctx context.Context) (string, error)
	// SetCredential persists a new access credential.
	SetCredential(ctx context.Context, credential string) error
	// SetRefreshCredential persists a new refresh credential.
	SetRefreshCredential(ctx context.Context, credential string) error
	// RemoveCredentials deletes both credentials.
	RemoveCredentials(ctx context.Context) error
}

// FuncStore adapts five caller-supplied functions into a Store. It exists for callers
// that already have per-operation storage functions (e.g. thin wrappers over a device
// keychain) and do not want to define a named type.
type FuncStore struct {
	GetCredentialFn        func(ctx context.Context) (string, error)
	GetRefreshCredentialFn func(ctx context.Context) (string, error)
	SetCredentialFn        func(ctx context.Context, credential string) error
	SetRefreshCredentialFn func(ctx context.Context, credential string) error
	RemoveCredentialsFn    func(ctx context.Context) error
}

var _ Store = FuncStore{}

func (f FuncStore) GetCredential(ctx context.Context) (string, error) {
	return f.GetCredentialFn(ctx)
}

func (f FuncStore) GetRefreshCredential(ctx context.Context) (string, error) {
	return f.GetRefreshCredentialFn(ctx)
}

func (f FuncStore) SetCredential(ctx context.Context, credential string) error {
	return f.SetCredentialFn(ctx, credential)
}

func (f FuncStore) SetRefreshCredential(ctx context.Context, credential string) error {
	return f.SetRefreshCredentialFn(ctx, credential)
}

func (f FuncStore) RemoveCredentials(ctx context.Context) error {
	return f.RemoveCredentialsFn(ctx)
}

// Complete reports whether all five functions of a FuncStore are set. Used by client
// configuration validation.
func (f FuncStore) Complete() bool {
	return f.GetCredentialFn != nil &&
		f.GetRefreshCredentialFn != nil &&
		f.SetCredentialFn != nil &&
		f.SetRefreshCredentialFn != nil &&
		f.RemoveCredentialsFn != nil
}
