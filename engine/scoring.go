package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ScoreKind classifies a hand. Higher kinds beat lower ones.
type ScoreKind uint8

const (
	KindNumeric    ScoreKind = iota // 0
	KindSabacc                      // 1: non-empty, sums to zero
	KindPureSabacc                  // 2: holds both Sylops
)

func (k ScoreKind) String() string {
	switch k {
	case KindPureSabacc:
		return "pure_sabacc"
	case KindSabacc:
		return "sabacc"
	default:
		return "numeric"
	}
}

// Score is the evaluation of a single hand.
type Score struct {
	Kind  ScoreKind
	Sum   int
	Count int
}

// Label returns the badge shown next to a hand: "Pure Sabacc!", "Sabacc!" or the signed sum.
func (s Score) Label() string {
	switch s.Kind {
	case KindPureSabacc:
		return "Pure Sabacc!"
	case KindSabacc:
		return "Sabacc!"
	}
	return signed(s.Sum)
}

// WinnerResult is the outcome of comparing every hand at the table.
type WinnerResult struct {
	Kind    ScoreKind
	Winners []int   // zero-based player indices, ascending
	Scores  []Score // one per player
}

// HandScore evaluates one hand.
func HandScore(cards []Card) Score {
	s := Score{Count: len(cards)}
	sylops := 0
	for _, c := range cards {
		if c.IsSylop() {
			sylops++
		}
		s.Sum += c.Value()
	}
	switch {
	case sylops == NumSylops:
		s.Kind = KindPureSabacc
	case s.Sum == 0 && len(cards) > 0:
		s.Kind = KindSabacc
	default:
		s.Kind = KindNumeric
	}
	return s
}

// beats reports whether a ranks strictly better than b; ties report false both ways.
func beats(a, b Score) bool {
	if a.Kind != b.Kind {
		return a.Kind > b.Kind
	}
	switch a.Kind {
	case KindPureSabacc:
		return false
	case KindSabacc:
		return a.Count < b.Count
	}
	// Closest to zero wins; on equal magnitude the non-negative sum wins.
	aa, ba := abs(a.Sum), abs(b.Sum)
	if aa != ba {
		return aa < ba
	}
	return a.Sum >= 0 && b.Sum < 0
}

// Winner compares all hands and returns the best class and every player
// holding the best score in that class.
func Winner(hands [][]Card) WinnerResult {
	res := WinnerResult{Scores: make([]Score, len(hands))}
	best := -1
	for i, h := range hands {
		s := HandScore(h)
		res.Scores[i] = s
		switch {
		case best < 0 || beats(s, res.Scores[best]):
			best = i
			res.Winners = []int{i}
		case !beats(res.Scores[best], s):
			res.Winners = append(res.Winners, i)
		}
	}
	if best >= 0 {
		res.Kind = res.Scores[best].Kind
	}
	return res
}

// Text renders the announcement line, with one-based player numbers.
func (r WinnerResult) Text() string {
	switch len(r.Winners) {
	case 0:
		return "No players."
	case 1:
		p := r.Winners[0]
		switch r.Kind {
		case KindPureSabacc:
			return fmt.Sprintf("Player %d wins with Pure Sabacc!", p+1)
		case KindSabacc:
			return fmt.Sprintf("Player %d wins with Sabacc!", p+1)
		}
		return fmt.Sprintf("Player %d wins with %s!", p+1, signed(r.Scores[p].Sum))
	}

	players := make([]string, len(r.Winners))
	sums := make([]string, len(r.Winners))
	for i, p := range r.Winners {
		players[i] = strconv.Itoa(p + 1)
		sums[i] = strconv.Itoa(r.Scores[p].Sum)
	}
	switch r.Kind {
	case KindPureSabacc:
		return fmt.Sprintf("Players %s tie with Pure Sabacc!", strings.Join(players, ", "))
	case KindSabacc:
		return fmt.Sprintf("Players %s tie with Sabacc!", strings.Join(players, ", "))
	}
	return fmt.Sprintf("Players %s tie with %s!", strings.Join(players, ", "), strings.Join(sums, ", "))
}

func signed(n int) string {
	if n >= 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
