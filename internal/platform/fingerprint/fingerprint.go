// Package fingerprint derives short deterministic digests for accepted
// submissions. The digest is an audit and dedup hint with a real (low)
// collision rate; it is not a signature and must never be treated as proof
// that two runs were identical.
package fingerprint

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/devstack-game/leaderboard/internal/domain/result"
)

// Compute maps a submission to a compact base-36 digest of its semantically
// meaningful fields. Cards are sorted first: the multiset of cards matters,
// play order does not, so two runs differing only in card order fingerprint
// identically.
func Compute(sub result.Submission) string {
	cards := append([]string(nil), sub.CardsPlayed...)
	sort.Strings(cards)

	var b strings.Builder
	b.WriteString(sub.PlayerID)
	for _, n := range []int{
		sub.Score,
		sub.Rounds,
		sub.FinalProgress,
		sub.FinalBugs,
		sub.FinalTechDebt,
	} {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(cards, ","))

	h := fnv.New32a()
	_, _ = h.Write([]byte(b.String()))

	return strconv.FormatUint(uint64(h.Sum32()), 36)
}
