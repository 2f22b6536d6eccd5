package models

// VoteState is the three-valued per-address vote on a page. Modeling it as
// one state instead of two booleans makes like/dislike mutual exclusion
// structural rather than something each caller has to re-check.
type VoteState string

const (
	VoteNone     VoteState = "none"
	VoteLiked    VoteState = "liked"
	VoteDisliked VoteState = "disliked"
)

// VoteTally is a page's maintained like/dislike counts. The counts always
// equal the number of addresses in each respective state.
type VoteTally struct {
	PageID        int64 `json:"page_id"`
	TotalLikes    int64 `json:"total_likes"`
	TotalDislikes int64 `json:"total_dislikes"`
}
