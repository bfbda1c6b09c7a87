package audit

import (
	"errors"
	"fmt"
)

// Replay folds an ordered history back into the state it produced. It is the
// check that the log alone reconstructs "who did what and when" and where the
// aggregate ended up. Sequences must start at 1 and be contiguous.
func Replay(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "", errors.New("empty history")
	}
	for i, e := range entries {
		if want := int64(i + 1); e.Sequence != want {
			return "", fmt.Errorf("history has a gap: entry %d has sequence %d", i, e.Sequence)
		}
		if i > 0 && entries[i-1].ToState != e.FromState {
			return "", fmt.Errorf("history is inconsistent at sequence %d: %s does not follow %s",
				e.Sequence, e.FromState, entries[i-1].ToState)
		}
	}
	return entries[len(entries)-1].ToState, nil
}
