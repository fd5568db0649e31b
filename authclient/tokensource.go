// authclient/tokensource.go
package authclient

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/deploymenttheory/go-api-bearer-auth/credentialstore"
)

// StoreTokenSource adapts a credentialstore.Store to oauth2.TokenSource, so the
// credentials managed by this library can be handed to oauth2-aware SDKs. It is a
// read-only view: refreshing remains the job of the augmented client's transport.
type StoreTokenSource struct {
	ctx   context.Context
	store credentialstore.Store
}

var _ oauth2.TokenSource = (*StoreTokenSource)(nil)

// NewStoreTokenSource creates a TokenSource reading from the given store. ctx is used
// for every store lookup, matching the oauth2.TokenSource contract of a context-free
// Token method.
func NewStoreTokenSource(ctx context.Context, store credentialstore.Store) *StoreTokenSource {
	return &StoreTokenSource{ctx: ctx, store: store}
}

// Token returns the currently stored access credential as a bearer token.
func (s *StoreTokenSource) Token() (*oauth2.Token, error) {
	credential, err := s.store.GetCredential(s.ctx)
	if err != nil {
		return nil, err
	}
	if credential == "" {
		return nil, errors.New("authclient: no access credential stored")
	}

	return &oauth2.Token{
		AccessToken: credential,
		TokenType:   "Bearer",
	}, nil
}
