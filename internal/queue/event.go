// Package queue carries activity events (ratings, views, favorites) from
// request handlers to RabbitMQ and from RabbitMQ to the activity log.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType names what a user did.
type ActivityType string

const (
	RatingCreated ActivityType = "rating.created"
	RatingDeleted ActivityType = "rating.deleted"
	MovieViewed   ActivityType = "history.viewed"
	FavoriteAdded ActivityType = "favorite.added"
)

// ActivityEvent is published after a successful write.  It carries ids
// only; consumers that need names look them up.
type ActivityEvent struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	UserID     uint64       `json:"user_id"`
	MovieID    uint64       `json:"movie_id"`
	RatingID   uint64       `json:"rating_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewActivityEvent stamps an event with a fresh id and the current time.
func NewActivityEvent(typ ActivityType, userID, movieID uint64) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		UserID:     userID,
		MovieID:    movieID,
		OccurredAt: time.Now().UTC(),
	}
}
