package enums

import "fmt"

// VoteType is the direction of a community vote.
type VoteType string

const (
	VoteTypeUpvote   VoteType = "UPVOTE"
	VoteTypeDownvote VoteType = "DOWNVOTE"
)

// String implements fmt.Stringer.
func (v VoteType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VoteType.
func (v VoteType) IsValid() bool {
	return v == VoteTypeUpvote || v == VoteTypeDownvote
}

// ParseVoteType converts raw input into a VoteType.
func ParseVoteType(value string) (VoteType, error) {
	switch VoteType(value) {
	case VoteTypeUpvote:
		return VoteTypeUpvote, nil
	case VoteTypeDownvote:
		return VoteTypeDownvote, nil
	}
	return "", fmt.Errorf("invalid vote type %q", value)
}
