package storefront

import (
	"context"
	"net/http"
)

// AuthProxy forwards authentication requests (login, register, password
// reset) to the identity service. The storefront never implements auth
// itself; it is a pass-through.
type AuthProxy struct {
	baseURL string
	client  *http.Client
}

func NewAuthProxy(baseURL string, client *http.Client) *AuthProxy {
	return &AuthProxy{
		baseURL: baseURL,
		client:  client,
	}
}

func (p *AuthProxy) Forward(ctx context.Context, r *http.Request, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, p.baseURL+path, r.Body)
	if err != nil {
		return nil, err
	}

	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	return p.client.Do(req)
}
