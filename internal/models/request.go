package models

// BodyKey is the context key under which the Validate middleware stores
// the parsed request body.
type BodyKey struct{}
