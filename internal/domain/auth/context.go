package auth

import "context"

type ctxKey struct{}

// ContextWithPrincipal stores the caller principal in the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext extracts the caller principal from the context.
// Returns Anonymous() if none was installed.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(ctxKey{}).(Principal); ok {
		return p
	}
	return Anonymous()
}
