package models

import (
	"fmt"

	"github.com/stackit-dev/stackit/backend/internal/apperrors"
)

// VoteDirection is the direction of a single user's vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether d is one of the two accepted directions.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

func (d VoteDirection) delta() int {
	if d == VoteUp {
		return 1
	}
	return -1
}

// Voter is one entry in an entity's voter set.
type Voter struct {
	UserID uint          `json:"user_id" bson:"user_id"`
	Vote   VoteDirection `json:"vote" bson:"vote"`
}

// VoteLedger is the embedded voter set plus running tally shared by
// questions and answers. Invariant: Votes equals the signed sum of the
// directions currently in Voters, and Voters holds at most one entry
// per user.
type VoteLedger struct {
	Votes  int     `json:"votes" bson:"votes"`
	Voters []Voter `json:"voters" bson:"voters"`
}

// ApplyVote runs one vote transition for userID and returns the new tally.
// A first vote appends the entry, a repeat in the same direction removes it
// (toggle-off), and the opposite direction flips the stored entry (switch).
// The tally moves by exactly the difference between the entry's old and new
// contribution, so the invariant above is preserved by every transition.
func (l *VoteLedger) ApplyVote(userID uint, direction VoteDirection) (int, error) {
	if !direction.Valid() {
		return l.Votes, fmt.Errorf("%w: vote direction must be %q or %q, got %q",
			apperrors.ErrInvalidInput, VoteUp, VoteDown, direction)
	}

	for i, v := range l.Voters {
		if v.UserID != userID {
			continue
		}
		if v.Vote == direction {
			// Toggle-off: remove the entry and take back its contribution.
			l.Voters = append(l.Voters[:i], l.Voters[i+1:]...)
			l.Votes -= direction.delta()
		} else {
			// Switch: reverse the old contribution and apply the new one.
			l.Voters[i].Vote = direction
			l.Votes += 2 * direction.delta()
		}
		return l.Votes, nil
	}

	l.Voters = append(l.Voters, Voter{UserID: userID, Vote: direction})
	l.Votes += direction.delta()
	return l.Votes, nil
}

// VoteOf returns the user's current direction, or "" when they have no vote.
func (l *VoteLedger) VoteOf(userID uint) VoteDirection {
	for _, v := range l.Voters {
		if v.UserID == userID {
			return v.Vote
		}
	}
	return ""
}

// VoteRequest defines the request body for voting on a question or answer.
type VoteRequest struct {
	VoteType VoteDirection `json:"voteType" validate:"required"`
}
