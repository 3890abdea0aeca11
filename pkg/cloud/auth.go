package cloud

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Login authenticates with an Emberon account and returns a client that
// sends the issued bearer token with every request.
//
// The library does not persist tokens. Callers that want to skip the
// password on later runs should read the token with Token, store it
// themselves and reconstruct the client with NewClient and a token
// source such as oauth2.StaticTokenSource.
func Login(ctx context.Context, email, password string, opts ...Option) (*Client, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("email and password are required")
	}

	c := NewClient(nil, opts...)

	payload, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, NewValidationError("cannot encode login request")
	}

	body, err := c.do(ctx, http.MethodPost, "/auth/login", payload, "application/json")
	if err != nil {
		if IsAuthError(err) {
			return nil, NewAuthError("invalid email or password")
		}
		return nil, err
	}

	var parsed loginResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, NewParseError("failed to parse login response", err)
	}
	if parsed.Token == "" {
		return nil, NewParseError("login response carried no token", nil)
	}

	c.tokens = oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: parsed.Token,
		TokenType:   parsed.TokenType,
		Expiry:      parsed.ExpiresAt,
	})

	c.logger.Debug("login complete", zap.String("email", email))

	return c, nil
}

// Token returns the bearer token the client is currently using, for
// callers that persist it between runs.
func (c *Client) Token() (*oauth2.Token, error) {
	if c.tokens == nil {
		return nil, NewAuthError("client has no credentials")
	}
	tok, err := c.tokens.Token()
	if err != nil {
		return nil, &APIError{
			Type:      ErrTypeAuth,
			Message:   "failed to obtain access token",
			Err:       err,
			Retryable: false,
		}
	}
	return tok, nil
}
