package content

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested post or feed does not exist.
var ErrNotFound = errors.New("content: not found")

// Source is a headless content collaborator.
//
// The flag accepted by the detail operations is passed through untouched; its meaning is
// defined by the implementation (preview mode on a CMS, draft visibility on a local store).
type Source interface {
	ListPosts(ctx context.Context) ([]PostInfo, error)
	GetPostInfo(ctx context.Context, slug string, flag bool) (*PostInfo, error)
	GetPostContent(ctx context.Context, slug string, flag bool) ([]Block, error)
}

// IsMissing reports whether err means the requested data is absent.
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound)
}
