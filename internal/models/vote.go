package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote types accepted by the toggle endpoint.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// Vote is one row of a post's vote ledger. The composite primary key
// guarantees a voter appears at most once per post, so the upvoter and
// downvoter sets can never intersect.
type Vote struct {
	PostID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	VoterEmail string    `gorm:"primaryKey" json:"voter_email"`
	VoteType   string    `gorm:"not null" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidVoteType reports whether t is one of the accepted vote types.
func ValidVoteType(t string) bool {
	return t == VoteUp || t == VoteDown
}
