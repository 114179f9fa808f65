package common

const (
	// AuthorizationHeaderName carries the access token on authenticated requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token inside the Authorization header.
	BearerPrefix = "Bearer "
)
