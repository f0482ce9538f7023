package screening

import (
	"fmt"
	"strings"

	ac "github.com/anknown/ahocorasick"

	"urlinfo/internal/domain"
)

// MatchStrategy selects how a Matcher searches the corpus. Both strategies
// report the earliest signature in corpus order among all that match.
type MatchStrategy string

const (
	MatchLinear    MatchStrategy = "linear"
	MatchAutomaton MatchStrategy = "automaton"
)

func (s MatchStrategy) Valid() bool { return s == MatchLinear || s == MatchAutomaton }

// Matcher finds the first threat signature contained in a decoded URL,
// compared case-insensitively. Implementations are immutable and safe for
// concurrent use.
type Matcher interface {
	Match(decoded string) *domain.ThreatSignature
	Len() int
}

func NewMatcher(strategy MatchStrategy, sigs []domain.ThreatSignature) (Matcher, error) {
	switch strategy {
	case MatchLinear, "":
		return newLinearMatcher(sigs), nil
	case MatchAutomaton:
		return newAutomatonMatcher(sigs)
	default:
		return nil, fmt.Errorf("unknown match strategy %q", strategy)
	}
}

type entry struct {
	lower string
	sig   domain.ThreatSignature
}

// compile lower-cases the corpus once, dropping empty patterns since they
// would match every URL.
func compile(sigs []domain.ThreatSignature) []entry {
	out := make([]entry, 0, len(sigs))
	for _, s := range sigs {
		if s.Pattern == "" {
			continue
		}
		out = append(out, entry{lower: strings.ToLower(s.Pattern), sig: s})
	}
	return out
}

type linearMatcher struct {
	entries []entry
}

func newLinearMatcher(sigs []domain.ThreatSignature) *linearMatcher {
	return &linearMatcher{entries: compile(sigs)}
}

func (m *linearMatcher) Len() int { return len(m.entries) }

func (m *linearMatcher) Match(decoded string) *domain.ThreatSignature {
	if len(m.entries) == 0 {
		return nil
	}
	lower := strings.ToLower(decoded)
	for i := range m.entries {
		if strings.Contains(lower, m.entries[i].lower) {
			sig := m.entries[i].sig
			return &sig
		}
	}
	return nil
}

// automatonMatcher scans the URL once with an Aho-Corasick automaton and
// keeps the lowest corpus index among the hits.
type automatonMatcher struct {
	entries []entry
	first   map[string]int // lower-cased pattern -> earliest entry index
	machine *ac.Machine
}

func newAutomatonMatcher(sigs []domain.ThreatSignature) (*automatonMatcher, error) {
	m := &automatonMatcher{entries: compile(sigs), first: make(map[string]int)}
	words := make([][]rune, 0, len(m.entries))
	for i, e := range m.entries {
		if _, seen := m.first[e.lower]; seen {
			continue
		}
		m.first[e.lower] = i
		words = append(words, []rune(e.lower))
	}
	if len(words) == 0 {
		return m, nil
	}
	m.machine = new(ac.Machine)
	if err := m.machine.Build(words); err != nil {
		return nil, fmt.Errorf("build signature automaton: %w", err)
	}
	return m, nil
}

func (m *automatonMatcher) Len() int { return len(m.entries) }

func (m *automatonMatcher) Match(decoded string) *domain.ThreatSignature {
	if m.machine == nil {
		return nil
	}
	terms := m.machine.MultiPatternSearch([]rune(strings.ToLower(decoded)), false)
	best := -1
	for _, t := range terms {
		idx, ok := m.first[string(t.Word)]
		if ok && (best < 0 || idx < best) {
			best = idx
		}
	}
	if best < 0 {
		return nil
	}
	sig := m.entries[best].sig
	return &sig
}
