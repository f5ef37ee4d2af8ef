package web

import (
	"context"
	"net/http"
)

// ContextKey namespaces the values this application stores in a request
// context.
type ContextKey string

func AddValueToContext(r *http.Request, key ContextKey, value any) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, key, value)
	return r.WithContext(ctx)
}

func GetValueFromContext[T any](r *http.Request, key ContextKey) (T, bool) {
	val := r.Context().Value(key)
	if val == nil {
		var zero T
		return zero, false
	}
	tVal, ok := val.(T)

	if !ok {
		var zero T
		return zero, false
	}

	return tVal, true
}
