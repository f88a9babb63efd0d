package decoders

import "context"

type baseURLKey struct{}

// WithBaseURL returns a context carrying the URL content is being decoded
// from, so decoders can resolve relative references.
func WithBaseURL(ctx context.Context, url string) context.Context {
	return context.WithValue(ctx, baseURLKey{}, url)
}

// BaseURL returns the URL set by WithBaseURL, or "".
func BaseURL(ctx context.Context) string {
	url, _ := ctx.Value(baseURLKey{}).(string)
	return url
}
