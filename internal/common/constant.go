package common

// AuthorizationHeaderName is the HTTP header carrying the bearer credential.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme accepted by the API.
const BearerScheme = "Bearer"

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-ID"

// APITokenSize is the number of random bytes behind a user's API token.
// The hex-encoded token is twice as long.
const APITokenSize = 32
