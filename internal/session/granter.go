package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

// spotifyTokenURL is the accounts-service endpoint for the client-credentials grant.
const spotifyTokenURL = "https://accounts.spotify.com/api/token"

// ClientCredentialsGranter implements [TokenGranter] over the OAuth2
// client-credentials flow. Credentials are sent as a Basic authorization
// header, which is what the Spotify accounts service expects.
type ClientCredentialsGranter struct {
	conf   *clientcredentials.Config
	client *http.Client
}

// NewClientCredentialsGranter builds a granter for the given credential pair.
// A nil httpClient falls back to [http.DefaultClient].
func NewClientCredentialsGranter(clientID, clientSecret string, httpClient *http.Client) *ClientCredentialsGranter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClientCredentialsGranter{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		client: httpClient,
	}
}

// Grant exchanges the credential pair for a bearer token.
func (g *ClientCredentialsGranter) Grant(ctx context.Context) (*Token, error) {
	if g.conf.ClientID == "" || g.conf.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client id and secret are required", shared.ErrMissingCredentials)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)

	tok, err := g.conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	// Providers are not required to send expires_in; assume an hour when absent.
	expiresIn := time.Hour
	if !tok.Expiry.IsZero() {
		expiresIn = time.Until(tok.Expiry)
	}

	return &Token{AccessToken: tok.AccessToken, ExpiresIn: expiresIn}, nil
}
