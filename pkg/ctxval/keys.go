package ctxval

import "context"

type key int

const (
	keySubject key = iota
	keyCredentialKind
)

// SetCaller records who was authorized for the current request.
func SetCaller(ctx context.Context, subject, credentialKind string) {
	Set(ctx, keySubject, subject)
	Set(ctx, keyCredentialKind, credentialKind)
}

// Caller returns the subject and credential kind recorded by SetCaller.
func Caller(ctx context.Context) (subject, credentialKind string, ok bool) {
	subject, ok = Get[key, string](ctx, keySubject)
	if !ok {
		return "", "", false
	}
	credentialKind, _ = Get[key, string](ctx, keyCredentialKind)
	return subject, credentialKind, true
}
