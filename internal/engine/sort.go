package engine

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

// Display text is Hungarian, so text columns collate with Hungarian rules.
var collationTag = language.Hungarian

var sortKeyAliases = map[string]model.SortKey{
	"hometeam":      model.SortHomeTeam,
	"home":          model.SortHomeTeam,
	"awayteam":      model.SortAwayTeam,
	"away":          model.SortAwayTeam,
	"halftimescore": model.SortHalfTimeScore,
	"ht":            model.SortHalfTimeScore,
	"fulltimescore": model.SortFullTimeScore,
	"ft":            model.SortFullTimeScore,
	"result":        model.SortResult,
	"res":           model.SortResult,
	"btts":          model.SortBTTS,
	"comeback":      model.SortComeback,
	"date":          model.SortDate,
	"league":        model.SortLeague,
}

// ParseSortKey resolves canonical names and the short column aliases (home, away, ht, ft).
// Unknown keys are passed through untouched; sorting by them is a no-op.
func ParseSortKey(s string) model.SortKey {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("_", "", "-", "").Replace(k)
	if key, ok := sortKeyAliases[k]; ok {
		return key
	}
	return model.SortKey(strings.TrimSpace(s))
}

// ParseSortDirection maps "asc"/"desc" and treats everything else as none.
func ParseSortDirection(s string) model.SortDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return model.SortAsc
	case "desc", "descending":
		return model.SortDesc
	default:
		return model.SortNone
	}
}

// KnownSortKey reports whether key changes ordering at all.
func KnownSortKey(key model.SortKey) bool {
	switch key {
	case model.SortHomeTeam, model.SortAwayTeam, model.SortHalfTimeScore, model.SortFullTimeScore,
		model.SortResult, model.SortBTTS, model.SortComeback, model.SortDate, model.SortLeague:
		return true
	}
	return false
}

// comparator owns a collator; collate.Collator is not safe for concurrent use, so each
// sort builds its own.
type comparator struct {
	cfg  model.SortConfig
	coll *collate.Collator
}

func newComparator(cfg model.SortConfig) *comparator {
	return &comparator{cfg: cfg, coll: collate.New(collationTag)}
}

// Compare orders a against b under cfg and returns -1, 0 or 1.
// Direction none and unknown keys yield 0 for every pair.
func Compare(a, b model.Match, cfg model.SortConfig) int {
	return newComparator(cfg).compare(a, b)
}

func (c *comparator) compare(a, b model.Match) int {
	switch c.cfg.Direction {
	case model.SortAsc:
		return c.ascending(a, b)
	case model.SortDesc:
		return -c.ascending(a, b)
	default:
		return 0
	}
}

func (c *comparator) ascending(a, b model.Match) int {
	switch c.cfg.Key {
	case model.SortHomeTeam:
		return c.coll.CompareString(a.HomeTeam, b.HomeTeam)
	case model.SortAwayTeam:
		return c.coll.CompareString(a.AwayTeam, b.AwayTeam)
	case model.SortLeague:
		return c.coll.CompareString(a.League, b.League)
	case model.SortHalfTimeScore:
		return compareScore(a.HalfTimeHomeGoals, a.HalfTimeAwayGoals, b.HalfTimeHomeGoals, b.HalfTimeAwayGoals)
	case model.SortFullTimeScore:
		return compareScore(a.FullTimeHomeGoals, a.FullTimeAwayGoals, b.FullTimeHomeGoals, b.FullTimeAwayGoals)
	case model.SortResult:
		return cmpInt(outcomeRank(a.Result), outcomeRank(b.Result))
	case model.SortBTTS:
		return cmpBool(a.BothTeamsScored, b.BothTeamsScored)
	case model.SortComeback:
		return cmpBool(a.Comeback, b.Comeback)
	case model.SortDate:
		return a.Date.Compare(b.Date)
	default:
		return 0
	}
}

// Sort returns a stably sorted copy: ties keep their incoming relative order.
func Sort(matches []model.Match, cfg model.SortConfig) []model.Match {
	out := slices.Clone(matches)
	if out == nil {
		out = []model.Match{}
	}
	if cfg.Direction != model.SortAsc && cfg.Direction != model.SortDesc {
		return out
	}
	if !KnownSortKey(cfg.Key) {
		return out
	}
	c := newComparator(cfg)
	slices.SortStableFunc(out, c.compare)
	return out
}

// compareScore orders by total goals first, then by home goals, so 3-1 and 1-3 sit next
// to each other ahead of 2-2.
func compareScore(aHome, aAway, bHome, bAway int) int {
	if r := cmpInt(aHome+aAway, bHome+bAway); r != 0 {
		return r
	}
	return cmpInt(aHome, bHome)
}

// outcomeRank groups Home < Draw < Away.
func outcomeRank(o model.Outcome) int {
	switch o {
	case model.OutcomeHome:
		return 0
	case model.OutcomeDraw:
		return 1
	case model.OutcomeAway:
		return 2
	default:
		return 3
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
