package enums

import "fmt"

// VoteTarget names the kind of entity a vote is attached to.
type VoteTarget string

const (
	VoteTargetQuestion VoteTarget = "question"
	VoteTargetAnswer   VoteTarget = "answer"
)

// String implements fmt.Stringer.
func (v VoteTarget) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VoteTarget.
func (v VoteTarget) IsValid() bool {
	return v == VoteTargetQuestion || v == VoteTargetAnswer
}

// ParseVoteTarget converts raw input into a VoteTarget.
func ParseVoteTarget(value string) (VoteTarget, error) {
	switch VoteTarget(value) {
	case VoteTargetQuestion:
		return VoteTargetQuestion, nil
	case VoteTargetAnswer:
		return VoteTargetAnswer, nil
	}
	return "", fmt.Errorf("invalid vote target %q", value)
}
