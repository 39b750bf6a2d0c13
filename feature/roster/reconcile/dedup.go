package reconcile

import (
	"fmt"

	"golang.org/x/text/cases"
)

// Resolve assigns every candidate email a final value that is unique within
// the batch and not already taken in the store. The result is positional:
// result[i] is the final email for candidates[i].
//
// Emails compare case-insensitively, the way the store's unique index does,
// and results keep the candidate's own spelling. Emails that occur once and
// are not taken map to themselves. For colliding emails, candidates are
// processed in order and each gets the first free value among the bare email,
// email_1, email_2, ... so the first in-batch occurrence keeps the bare form
// unless the store already holds it. Empty emails are left empty.
func Resolve(candidates []string, taken map[string]struct{}) []string {
	fold := cases.Fold()
	key := func(email string) string { return fold.String(email) }

	takenKeys := make(map[string]struct{}, len(taken))
	for email := range taken {
		takenKeys[key(email)] = struct{}{}
	}
	isTaken := func(k string) bool {
		_, ok := takenKeys[k]
		return ok
	}

	keys := make([]string, len(candidates))
	counts := make(map[string]int, len(candidates))
	for i, email := range candidates {
		keys[i] = key(email)
		counts[keys[i]]++
	}

	// Reserve the stable values first so a generated suffix never steals them.
	used := make(map[string]struct{}, len(candidates))
	for i, email := range candidates {
		if email != "" && counts[keys[i]] == 1 && !isTaken(keys[i]) {
			used[keys[i]] = struct{}{}
		}
	}

	result := make([]string, len(candidates))
	for i, email := range candidates {
		if email == "" {
			continue
		}
		if counts[keys[i]] == 1 && !isTaken(keys[i]) {
			result[i] = email
			continue
		}

		final := email
		for n := 1; ; n++ {
			k := key(final)
			if _, inUse := used[k]; !inUse && !isTaken(k) {
				used[k] = struct{}{}
				break
			}
			final = fmt.Sprintf("%s_%d", email, n)
		}
		result[i] = final
	}
	return result
}
