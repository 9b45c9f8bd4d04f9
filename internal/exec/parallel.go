package exec

import (
	"sort"
	"sync"
)

// DefaultChunk is the smallest number of indices handed to one worker.
const DefaultChunk = 64

// ParallelFor calls fn for every i in [0, n).
func ParallelFor(s Space, n int, fn func(i int)) {
	s.RangeFor(n, DefaultChunk, func(begin, end int) {
		for i := begin; i < end; i++ {
			fn(i)
		}
	})
}

// ParallelReduce folds fn over [0, n). Each chunk starts from identity and
// partial results are joined in index order, so a deterministic join gives
// a deterministic result for a given chunking.
func ParallelReduce[T any](s Space, n int, identity T, fn func(i int, acc *T), join func(a, b T) T) T {
	type partial struct {
		begin int
		value T
	}

	var (
		mu       sync.Mutex
		partials []partial
	)
	s.RangeFor(n, DefaultChunk, func(begin, end int) {
		acc := identity
		for i := begin; i < end; i++ {
			fn(i, &acc)
		}
		mu.Lock()
		partials = append(partials, partial{begin: begin, value: acc})
		mu.Unlock()
	})

	sort.Slice(partials, func(a, b int) bool { return partials[a].begin < partials[b].begin })

	result := identity
	for _, p := range partials {
		result = join(result, p.value)
	}
	return result
}

// TeamPolicy describes League teams of TeamSize members each.
type TeamPolicy struct {
	League   int
	TeamSize int
}

// Member identifies one team member inside a team loop.
type Member struct {
	LeagueRank int
	LeagueSize int
	TeamRank   int
	TeamSize   int
}

// Global is the flat index of the member across the league.
func (m Member) Global() int { return m.LeagueRank*m.TeamSize + m.TeamRank }

func (p TeamPolicy) size() int {
	if p.League <= 0 || p.TeamSize <= 0 {
		return 0
	}
	return p.League * p.TeamSize
}

func (p TeamPolicy) member(i int) Member {
	return Member{
		LeagueRank: i / p.TeamSize,
		LeagueSize: p.League,
		TeamRank:   i % p.TeamSize,
		TeamSize:   p.TeamSize,
	}
}

// TeamFor calls fn once per member of every team. Members of one team run
// in the same chunk.
func TeamFor(s Space, p TeamPolicy, fn func(m Member)) {
	n := p.size()
	if n == 0 {
		return
	}
	s.RangeFor(p.League, 1, func(begin, end int) {
		for i := begin * p.TeamSize; i < end*p.TeamSize; i++ {
			fn(p.member(i))
		}
	})
}

// TeamReduce folds fn over every team member.
func TeamReduce[T any](s Space, p TeamPolicy, identity T, fn func(m Member, acc *T), join func(a, b T) T) T {
	if p.size() == 0 {
		return identity
	}
	return ParallelReduce(leagueSpace{s, p.TeamSize}, p.size(), identity, func(i int, acc *T) {
		fn(p.member(i), acc)
	}, join)
}

// leagueSpace aligns chunks to team boundaries.
type leagueSpace struct {
	Space
	team int
}

func (l leagueSpace) RangeFor(n, minChunk int, fn func(begin, end int)) {
	l.Space.RangeFor(n/l.team, 1, func(begin, end int) {
		fn(begin*l.team, end*l.team)
	})
}
