package utils

// ContextKey is the type used for values stored in a request context
// by the middlewares (userId, username, expiresAt).
type ContextKey string
