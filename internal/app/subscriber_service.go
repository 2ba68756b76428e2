package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"loadtracker/internal/domain/push"
)

var ErrInvalidSubscriber = errors.New("subscriber external ID is required")

// SubscriberService flips the pause tag on the provider's user record.
// Subscriber state lives only with the provider.
type SubscriberService struct {
	tags      push.TagUpdater
	pausedTag string
}

func NewSubscriberService(tags push.TagUpdater, pausedTag string) *SubscriberService {
	return &SubscriberService{
		tags:      tags,
		pausedTag: pausedTag,
	}
}

// SetPaused pauses or resumes reminders for one subscriber.
func (s *SubscriberService) SetPaused(ctx context.Context, externalID string, paused bool) error {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return ErrInvalidSubscriber
	}
	if s.tags == nil {
		return push.ErrNotConfigured
	}
	if err := s.tags.SetTag(ctx, externalID, s.pausedTag, strconv.FormatBool(paused)); err != nil {
		return fmt.Errorf("failed to set %s=%t for subscriber %s: %w", s.pausedTag, paused, externalID, err)
	}
	return nil
}
