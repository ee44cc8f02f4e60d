// Package ranking scores posts against a free-text query.
//
// The weights and the ordering below are part of the public search
// behaviour: changing any of them changes which posts a query returns.
package ranking

import (
	"slices"
	"strings"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/domains/post/model"
	"github.com/abdelfattahqandil21-oss/back-ngPodium/internal/shared/utils"
)

// DefaultLimit applies when the caller passes a non-positive limit.
const DefaultLimit = model.DefaultLimit

// Scoring weights
const (
	SlugExactScore = 100

	HeaderAllScore = 24
	HeaderAnyScore = 12

	ContentAllScore = 16
	ContentAnyScore = 8

	UserNameAllScore = 6
	UserNameAnyScore = 3

	TagAllScore = 10
	TagAnyScore = 5

	SlugPartialScore = 10
)

// Result is a post that survived scoring.
type Result struct {
	Post           model.Post
	Score          int
	SlugExactMatch bool
}

// Search returns at most limit posts matching query, best first.
func Search(query string, posts []model.Post, limit int) []model.Post {
	if limit <= 0 {
		limit = DefaultLimit
	}

	results := Rank(query, posts)
	if len(results) > limit {
		results = results[:limit]
	}

	out := make([]model.Post, len(results))
	for i, r := range results {
		out[i] = r.Post
	}
	return out
}

// Rank scores every post, drops non-matches and sorts the rest:
// slug-exact matches first, then score descending, then newest first.
func Rank(query string, posts []model.Post) []Result {
	q := newQuery(query)
	if q == nil {
		return []Result{}
	}

	results := make([]Result, 0, len(posts))
	for _, p := range posts {
		r := q.score(p)
		if r.SlugExactMatch || r.Score > 0 {
			results = append(results, r)
		}
	}

	slices.SortStableFunc(results, compareResults)
	return results
}

func compareResults(a, b Result) int {
	if a.SlugExactMatch != b.SlugExactMatch {
		if a.SlugExactMatch {
			return -1
		}
		return 1
	}
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	return b.Post.CreatedAt.Compare(a.Post.CreatedAt)
}

// query is a normalized search request.
type query struct {
	tokens        []string
	slugCandidate string
}

// newQuery returns nil when the query has nothing to match on.
func newQuery(raw string) *query {
	term := strings.TrimSpace(strings.ToLower(raw))
	if term == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(term) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil
	}

	return &query{
		tokens:        tokens,
		slugCandidate: utils.Slugify(raw),
	}
}

func (q *query) score(p model.Post) Result {
	slug := strings.ToLower(p.Slug)
	exact := q.slugCandidate != "" && slug == q.slugCandidate

	score := 0
	if exact {
		score = SlugExactScore
	}

	score += q.field(strings.ToLower(p.Header), HeaderAllScore, HeaderAnyScore)
	score += q.field(strings.ToLower(p.Content), ContentAllScore, ContentAnyScore)
	score += q.field(strings.ToLower(p.UserName), UserNameAllScore, UserNameAnyScore)

	// Best single tag counts, tags do not add up
	best := 0
	for _, tag := range p.Tags {
		if s := q.field(strings.ToLower(tag), TagAllScore, TagAnyScore); s > best {
			best = s
		}
	}
	score += best

	if !exact && q.matchesAny(slug) {
		score += SlugPartialScore
	}

	return Result{Post: p, Score: score, SlugExactMatch: exact}
}

// field awards full when every token occurs in value, partial when some do.
func (q *query) field(value string, full, partial int) int {
	if value == "" {
		return 0
	}
	if q.matchesAll(value) {
		return full
	}
	if q.matchesAny(value) {
		return partial
	}
	return 0
}

func (q *query) matchesAll(value string) bool {
	for _, tok := range q.tokens {
		if !strings.Contains(value, tok) {
			return false
		}
	}
	return true
}

func (q *query) matchesAny(value string) bool {
	for _, tok := range q.tokens {
		if strings.Contains(value, tok) {
			return true
		}
	}
	return false
}
