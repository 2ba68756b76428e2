package push

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by providers missing credentials.
var ErrNotConfigured = errors.New("push provider is not configured")

// Audience selects recipients on the provider side.
// Subscribers carrying ExcludeTag="true" are skipped.
type Audience struct {
	ExcludeTag string
}

// ExcludeTag addresses every subscriber except those with tag set to "true".
func ExcludeTag(tag string) Audience {
	return Audience{ExcludeTag: tag}
}

// Notification is what the trigger hands to a provider.
type Notification struct {
	Title          string
	Body           string
	Audience       Audience
	IdempotencyKey string
}

// Receipt describes a provider's acceptance of a notification.
type Receipt struct {
	Provider   string
	ID         string
	Recipients int
	Note       string // Provider remark on an accepted request, e.g. no subscribed recipients
	MirrorErr  error  // Set by Fanout when a mirror failed
}

// Pusher delivers a notification. Delivery, retries and subscriber
// bookkeeping are the provider's responsibility.
type Pusher interface {
	Push(ctx context.Context, n Notification) (Receipt, error)
}

// TagUpdater sets a tag on a single subscriber record held by the provider.
type TagUpdater interface {
	SetTag(ctx context.Context, externalID, key, value string) error
}
