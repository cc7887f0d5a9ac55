package impact

import "github.com/Awasthi-Ram/Root-fix-app/internal/domain"

// RecordVote returns a copy of poll with the counter of optionID raised by
// one. The input poll is left untouched; callers replace their stored value
// with the result. When optionID does not belong to the poll the returned
// value equals the input and ok is false.
func RecordVote(poll domain.Poll, optionID int64) (next domain.Poll, ok bool) {
	next = poll.Clone()
	for i := range next.Options {
		if next.Options[i].ID == optionID {
			next.Options[i].Votes++
			return next, true
		}
	}
	return next, false
}
