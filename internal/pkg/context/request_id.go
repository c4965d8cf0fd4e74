package context

import "context"

// Request is the per-request metadata that logs, audit lines and error
// bodies read. It is set once by the request id middleware.
type Request struct {
	ID         string
	RemoteAddr string
}

type requestKey struct{}

func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

func RequestFrom(ctx context.Context) (Request, bool) {
	if ctx == nil {
		return Request{}, false
	}
	req, ok := ctx.Value(requestKey{}).(Request)
	return req, ok
}

// WithRequestID sets only the id, keeping any other metadata already on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	req, _ := RequestFrom(ctx)
	req.ID = id
	return WithRequest(ctx, req)
}

func GetRequestID(ctx context.Context) string {
	req, _ := RequestFrom(ctx)
	return req.ID
}

func GetRemoteAddr(ctx context.Context) string {
	req, _ := RequestFrom(ctx)
	return req.RemoteAddr
}
