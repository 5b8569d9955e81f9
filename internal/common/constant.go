package common

// AuthHeaderName is the HTTP header carrying the bearer access token.
const AuthHeaderName = "Authorization"

// BearerPrefix is the expected scheme prefix in the auth header value.
const BearerPrefix = "Bearer "
