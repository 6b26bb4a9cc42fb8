// Package scoring derives the popularity fields of a post from its vote
// ledger. Every read path goes through this package so single-fetch and
// page-fetch responses can never drift apart; derived values are never
// persisted.
package scoring

import (
	"agora/internal/models"
)

// Score returns the popularity score for the given voter counts.
func Score(upvotes, downvotes int) int {
	return upvotes - downvotes
}

// Split partitions raw vote rows into upvoter and downvoter email sets.
func Split(votes []models.Vote) (upvoters, downvoters []string) {
	upvoters = make([]string, 0, len(votes))
	downvoters = make([]string, 0)
	for _, v := range votes {
		switch v.VoteType {
		case models.VoteUp:
			upvoters = append(upvoters, v.VoterEmail)
		case models.VoteDown:
			downvoters = append(downvoters, v.VoterEmail)
		}
	}
	return upvoters, downvoters
}

// Derive populates a post's computed fields from its loaded vote rows.
func Derive(post *models.Post) {
	post.Upvoters, post.Downvoters = Split(post.Votes)
	post.PopularityScore = Score(len(post.Upvoters), len(post.Downvoters))
}

// DeriveAll applies Derive to every post in the slice.
func DeriveAll(posts []*models.Post) {
	for _, p := range posts {
		Derive(p)
	}
}
