package port

import "context"

// Opener hands a URL off to an external viewer application. Used by the
// out-of-process backend, which has no embeddable view of its own.
type Opener interface {
	OpenURL(ctx context.Context, url string) error
}
