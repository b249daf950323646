package omp

import "fmt"

// clauseRule is the grammar rule for one clause: the revision that introduced
// it and the number of arguments it accepts.
type clauseRule struct {
	// The first revision under which the clause is legal.
	since Version

	// The accepted argument count range.  A maxArgs of -1 means unbounded.
	minArgs, maxArgs int
}

// constructRule is the grammar rule for one directive construct.
type constructRule struct {
	// The first revision under which the construct is legal.
	since Version

	// The construct names that may follow this one in a combined form.
	combinable []string

	// The clause vocabulary of the construct.
	clauses map[string]clauseRule

	// Whether the construct must annotate a loop statement.
	needsLoop bool

	// Whether the construct accepts a matching end directive.
	hasEnd bool
}

// Common clause rule constructors.
func flag(since Version) clauseRule        { return clauseRule{since: since} }
func one(since Version) clauseRule         { return clauseRule{since: since, minArgs: 1, maxArgs: 1} }
func many(since Version) clauseRule        { return clauseRule{since: since, minArgs: 1, maxArgs: -1} }
func upTo(since Version, n int) clauseRule { return clauseRule{since: since, minArgs: 1, maxArgs: n} }

// dataClauses is the data-sharing clause vocabulary shared by most constructs.
func dataClauses() map[string]clauseRule {
	return map[string]clauseRule{
		"private":      many(V45),
		"firstprivate": many(V45),
		"shared":       many(V45),
		"reduction":    many(V45),
		"default":      one(V45),
	}
}

// grammar is the data-driven description of the directive standard: one rule
// set per construct, annotated with the revisions that introduced each
// construct and clause.  It is loaded and validated once at process start.
var grammar = map[string]*constructRule{
	"parallel": {
		since:      V45,
		combinable: []string{"for", "do", "sections"},
		hasEnd:     true,
		clauses: merge(dataClauses(), map[string]clauseRule{
			"num_threads": one(V45),
			"if":          one(V45),
			"proc_bind":   one(V45),
			"copyin":      many(V45),
		}),
	},
	"for": {
		since:     V45,
		needsLoop: true,
		clauses: merge(dataClauses(), map[string]clauseRule{
			"lastprivate": many(V45),
			"schedule":    upTo(V45, 2),
			"collapse":    one(V45),
			"ordered":     clauseRule{since: V45, minArgs: 0, maxArgs: 1},
			"nowait":      flag(V45),
			"linear":      many(V45),
			"order":       one(V50),
		}),
	},
	"simd": {
		since:     V45,
		needsLoop: true,
		clauses: map[string]clauseRule{
			"safelen":     one(V45),
			"simdlen":     one(V45),
			"linear":      many(V45),
			"aligned":     many(V45),
			"private":     many(V45),
			"lastprivate": many(V45),
			"reduction":   many(V45),
			"collapse":    one(V45),
			"nontemporal": many(V50),
			"if":          one(V50),
		},
	},
	"taskloop": {
		since:     V45,
		needsLoop: true,
		clauses: merge(dataClauses(), map[string]clauseRule{
			"lastprivate": many(V45),
			"grainsize":   one(V45),
			"num_tasks":   one(V45),
			"collapse":    one(V45),
			"nogroup":     flag(V45),
			"untied":      flag(V45),
			"final":       one(V45),
			"priority":    one(V45),
		}),
	},
	"loop": {
		since:     V50,
		needsLoop: true,
		clauses: map[string]clauseRule{
			"bind":        one(V50),
			"collapse":    one(V50),
			"order":       one(V50),
			"private":     many(V50),
			"lastprivate": many(V50),
			"reduction":   many(V50),
		},
	},
	"sections": {
		since:  V45,
		hasEnd: true,
		clauses: map[string]clauseRule{
			"private":      many(V45),
			"firstprivate": many(V45),
			"lastprivate":  many(V45),
			"reduction":    many(V45),
			"nowait":       flag(V45),
		},
	},
	"section": {since: V45, clauses: map[string]clauseRule{}},
	"single": {
		since:  V45,
		hasEnd: true,
		clauses: map[string]clauseRule{
			"private":      many(V45),
			"firstprivate": many(V45),
			"copyprivate":  many(V45),
			"nowait":       flag(V45),
		},
	},
	"task": {
		since:  V45,
		hasEnd: true,
		clauses: merge(dataClauses(), map[string]clauseRule{
			"if":       one(V45),
			"final":    one(V45),
			"untied":   flag(V45),
			"priority": one(V45),
			"depend":   many(V45),
		}),
	},
	"teams": {
		since:  V45,
		hasEnd: true,
		clauses: merge(dataClauses(), map[string]clauseRule{
			"num_teams":    one(V45),
			"thread_limit": one(V45),
		}),
	},
	"target": {
		since:  V45,
		hasEnd: true,
		clauses: map[string]clauseRule{
			"device":       one(V45),
			"map":          many(V45),
			"if":           one(V45),
			"defaultmap":   one(V45),
			"nowait":       flag(V45),
			"depend":       many(V45),
			"private":      many(V45),
			"firstprivate": many(V45),
		},
	},
	"critical": {since: V45, hasEnd: true, clauses: map[string]clauseRule{"hint": one(V45)}},
	"master":   {since: V45, hasEnd: true, clauses: map[string]clauseRule{}},
	"masked":   {since: V51, hasEnd: true, clauses: map[string]clauseRule{"filter": one(V51)}},
	"atomic": {
		since: V45,
		clauses: map[string]clauseRule{
			"read":    flag(V45),
			"write":   flag(V45),
			"update":  flag(V45),
			"capture": flag(V45),
			"seq_cst": flag(V45),
		},
	},
	"barrier":  {since: V45, clauses: map[string]clauseRule{}},
	"taskwait": {since: V45, clauses: map[string]clauseRule{}},
	"flush":    {since: V45, clauses: map[string]clauseRule{}},
}

// merge combines two clause vocabularies into one.
func merge(base, extra map[string]clauseRule) map[string]clauseRule {
	for name, rule := range extra {
		base[name] = rule
	}

	return base
}

// The Fortran loop spelling shares the rule set of the scripting one.
func init() {
	grammar["do"] = grammar["for"]

	// Validate the schema once at process start: a clause must never predate
	// the construct that carries it.
	for name, rule := range grammar {
		for cname, crule := range rule.clauses {
			if rule.since.AtLeast(crule.since) && rule.since != crule.since {
				panic(fmt.Sprintf("omp grammar: clause `%s` of `%s` predates its construct", cname, name))
			}
		}
	}
}

// legalClauses returns the clause vocabulary of a construct together with its
// combined construct, if any.
func legalClauses(construct, combined string) map[string]clauseRule {
	rule := grammar[construct]
	if combined == "" {
		return rule.clauses
	}

	merged := make(map[string]clauseRule, len(rule.clauses))
	for name, crule := range rule.clauses {
		merged[name] = crule
	}
	for name, crule := range grammar[combined].clauses {
		if _, ok := merged[name]; !ok {
			merged[name] = crule
		}
	}

	return merged
}
