package search

import (
	"sort"
	"strings"

	"github.com/toolscout/tool-scout-mcp/internal/embedding"
	"github.com/toolscout/tool-scout-mcp/internal/registry"
	"github.com/toolscout/tool-scout-mcp/internal/trace"
)

// Config holds every tunable constant of the ranking engine. The defaults
// are the production calibration from the evaluation harness; override them
// through the config file when re-tuning for a different catalog.
type Config struct {
	// ExactScore is the score for a whole-name match. Kept at or above 100
	// so exact hits always dominate partial matches.
	ExactScore float64 `json:"exactScore"`

	// PrefixBonus is the fixed bonus for a name-prefix match.
	PrefixBonus float64 `json:"prefixBonus"`

	// FuzzyBonus is the per-token bonus at distance 0, divided by 1+distance.
	FuzzyBonus float64 `json:"fuzzyBonus"`

	// FuzzyMaxDistance bounds the edit distance for tokens of length >= 5;
	// shorter tokens are capped at distance 1.
	FuzzyMaxDistance int `json:"fuzzyMaxDistance"`

	// RegexNameBonus and RegexTagBonus score pattern matches against the
	// name and the tag set.
	RegexNameBonus float64 `json:"regexNameBonus"`
	RegexTagBonus  float64 `json:"regexTagBonus"`

	// BigramBonus is the per-pair bonus for adjacent phrase matches.
	BigramBonus float64 `json:"bigramBonus"`

	// SemanticBonus is the per-term bonus for synonym-expanded keyword hits.
	SemanticBonus float64 `json:"semanticBonus"`

	// DenseScale converts the TF-IDF cosine (0..1) into score points.
	DenseScale float64 `json:"denseScale"`

	// Synonyms is the expansion table for the semantic strategy.
	Synonyms map[string][]string `json:"synonyms,omitempty"`

	// Fusion holds the wRRF constants for embedding fusion.
	Fusion embedding.FusionConfig `json:"fusion"`

	// Trace holds the execution-trace booster constants.
	Trace trace.Config `json:"trace"`

	// DefaultLimit applies when a query requests no explicit limit.
	DefaultLimit int `json:"defaultLimit"`
}

// DefaultConfig returns the production calibration.
func DefaultConfig() Config {
	return Config{
		ExactScore:       100,
		PrefixBonus:      25,
		FuzzyBonus:       12,
		FuzzyMaxDistance: 2,
		RegexNameBonus:   20,
		RegexTagBonus:    10,
		BigramBonus:      8,
		SemanticBonus:    6,
		DenseScale:       30,
		Synonyms:         DefaultSynonyms(),
		Fusion:           embedding.DefaultFusionConfig(),
		Trace:            trace.DefaultConfig(),
		DefaultLimit:     10,
	}
}

// Mode selects which strategy subset runs for a query.
type Mode string

const (
	// ModeHybrid runs the whole lexical ensemble (plus embedding fusion and
	// trace boosting when available) and sums contributions per candidate.
	ModeHybrid    Mode = "hybrid"
	ModeExact     Mode = "exact"
	ModePrefix    Mode = "prefix"
	ModeFuzzy     Mode = "fuzzy"
	ModeRegex     Mode = "regex"
	ModeBigram    Mode = "bigram"
	ModeSemantic  Mode = "semantic"
	ModeDense     Mode = "dense"
	ModeEmbedding Mode = "embedding"
)

// ParseMode maps a mode string to a Mode. Unknown values fall back to
// hybrid rather than failing the query.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeExact:
		return ModeExact
	case ModePrefix:
		return ModePrefix
	case ModeFuzzy:
		return ModeFuzzy
	case ModeRegex:
		return ModeRegex
	case ModeBigram:
		return ModeBigram
	case ModeSemantic:
		return ModeSemantic
	case ModeDense:
		return ModeDense
	case ModeEmbedding:
		return ModeEmbedding
	default:
		return ModeHybrid
	}
}

// Options control a single search call.
type Options struct {
	// Mode selects the strategy subset; empty or unknown means hybrid.
	Mode Mode

	// Category and Phase are exclusionary equality filters.
	Category string
	Phase    string

	// Limit truncates the result list; non-positive means the default.
	Limit int

	// Explain attaches per-contribution match reasons to the results.
	Explain bool

	// QueryVec is the optional precomputed query embedding. Without it (or
	// without a loaded index) embedding fusion contributes nothing.
	QueryVec []float32
}

// Result is one ranked candidate.
type Result struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Phase    string  `json:"phase"`

	// MatchReasons is populated only when Options.Explain is set.
	MatchReasons []MatchReason `json:"matchReasons,omitempty"`
}

// document is the precomputed per-entry scoring state.
type document struct {
	entry     *registry.ToolEntry
	order     int
	nameLower string
	tokens    []string
	tokenSet  map[string]bool
	bigramSet map[string]bool
}

// Engine ranks queries against one immutable catalog snapshot. Build it once
// per catalog; concurrent Search calls share it without locking. The
// embedding index and trace miner are optional attachments that degrade to
// no-ops when absent or unpopulated.
type Engine struct {
	reg    *registry.Registry
	cfg    Config
	docs   []*document
	byName map[string]*document
	tfidf  *tfidfIndex
	index  *embedding.Index
	miner  *trace.Miner
}

// NewEngine builds an engine over a registry snapshot, precomputing the
// per-document token state and TF-IDF statistics.
func NewEngine(reg *registry.Registry, cfg Config) *Engine {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultConfig().DefaultLimit
	}
	if cfg.Synonyms == nil {
		cfg.Synonyms = DefaultSynonyms()
	}

	entries := reg.Entries()
	engine := &Engine{
		reg:    reg,
		cfg:    cfg,
		docs:   make([]*document, 0, len(entries)),
		byName: make(map[string]*document, len(entries)),
		index:  embedding.NewIndex(),
	}

	for i, entry := range entries {
		text := entry.Name + " " + entry.Description + " " + strings.Join(entry.Tags, " ")
		tokens := Tokenize(text)

		tokenSet := make(map[string]bool, len(tokens))
		for _, token := range tokens {
			tokenSet[token] = true
		}

		bigramSet := make(map[string]bool)
		for j := 0; j+1 < len(tokens); j++ {
			bigramSet[tokens[j]+" "+tokens[j+1]] = true
		}

		doc := &document{
			entry:     entry,
			order:     i,
			nameLower: strings.ToLower(entry.Name),
			tokens:    tokens,
			tokenSet:  tokenSet,
			bigramSet: bigramSet,
		}
		engine.docs = append(engine.docs, doc)
		engine.byName[entry.Name] = doc
	}

	engine.tfidf = buildTFIDF(engine.docs)
	return engine
}

// EmbeddingIndex returns the engine's embedding index handle for loading or
// resetting vectors. The handle itself never changes; its contents swap
// atomically.
func (e *Engine) EmbeddingIndex() *embedding.Index {
	return e.index
}

// UseTraceMiner attaches a co-occurrence miner. Call before serving; the
// miner's own cache is what changes afterward.
func (e *Engine) UseTraceMiner(m *trace.Miner) {
	e.miner = m
}

// Registry returns the catalog snapshot the engine ranks against.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// accumulator collects contributions for one candidate during a search.
type accumulator struct {
	doc     *document
	score   float64
	reasons []MatchReason
}

func (a *accumulator) add(reason MatchReason) {
	a.score += reason.Points
	a.reasons = append(a.reasons, reason)
}

// Search ranks the catalog against a query. It is a pure function of the
// engine's snapshots and never returns an error: malformed patterns yield no
// regex matches, unknown modes run as hybrid, and filters that match nothing
// yield an empty list.
func (e *Engine) Search(query string, opts Options) []Result {
	mode := ParseMode(string(opts.Mode))
	limit := opts.Limit
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	q := e.newQueryContext(query)
	accums := make(map[string]*accumulator)

	touch := func(doc *document) *accumulator {
		acc, ok := accums[doc.entry.Name]
		if !ok {
			acc = &accumulator{doc: doc}
			accums[doc.entry.Name] = acc
		}
		return acc
	}

	if mode != ModeEmbedding {
		for _, doc := range e.docs {
			if !e.passesFilters(doc, opts) {
				continue
			}
			for _, kind := range strategiesFor(mode) {
				if reason, ok := e.runStrategy(kind, q, doc); ok {
					touch(doc).add(reason)
				}
			}
		}
	}

	if mode == ModeHybrid || mode == ModeEmbedding {
		e.fuseEmbedding(q, opts, touch)
	}

	results := e.collect(accums)

	if mode == ModeHybrid || mode == ModeEmbedding {
		results = e.boostFromTraces(results, accums)
	}

	if len(results) > limit {
		results = results[:limit]
	}

	final := make([]Result, 0, len(results))
	for _, acc := range results {
		result := Result{
			Name:     acc.doc.entry.Name,
			Score:    acc.score,
			Category: acc.doc.entry.Category,
			Phase:    acc.doc.entry.Phase,
		}
		if opts.Explain {
			result.MatchReasons = acc.reasons
		}
		final = append(final, result)
	}
	return final
}

// strategiesFor maps a mode to the strategies it runs.
func strategiesFor(mode Mode) []ReasonKind {
	switch mode {
	case ModeExact:
		return []ReasonKind{ReasonExact}
	case ModePrefix:
		return []ReasonKind{ReasonPrefix}
	case ModeFuzzy:
		return []ReasonKind{ReasonFuzzy}
	case ModeRegex:
		return []ReasonKind{ReasonRegex}
	case ModeBigram:
		return []ReasonKind{ReasonBigram}
	case ModeSemantic:
		return []ReasonKind{ReasonSemantic}
	case ModeDense:
		return []ReasonKind{ReasonDense}
	default:
		return []ReasonKind{
			ReasonExact, ReasonPrefix, ReasonFuzzy, ReasonRegex,
			ReasonBigram, ReasonSemantic, ReasonDense,
		}
	}
}

func (e *Engine) runStrategy(kind ReasonKind, q *queryContext, doc *document) (MatchReason, bool) {
	switch kind {
	case ReasonExact:
		return scoreExact(q, doc, e.cfg)
	case ReasonPrefix:
		return scorePrefix(q, doc, e.cfg)
	case ReasonFuzzy:
		return scoreFuzzy(q, doc, e.cfg)
	case ReasonRegex:
		return scoreRegex(q, doc, e.cfg)
	case ReasonBigram:
		return scoreBigram(q, doc, e.cfg)
	case ReasonSemantic:
		return scoreSemantic(q, doc, e.cfg)
	case ReasonDense:
		return scoreDense(q, doc, e.cfg, e.tfidf)
	default:
		return MatchReason{}, false
	}
}

// passesFilters applies the exclusionary category/phase equality filters.
func (e *Engine) passesFilters(doc *document, opts Options) bool {
	if opts.Category != "" && doc.entry.Category != opts.Category {
		return false
	}
	if opts.Phase != "" && doc.entry.Phase != opts.Phase {
		return false
	}
	return true
}

// fuseEmbedding adds the wRRF contributions from the bipartite index. Tool
// nodes contribute to their own candidate; domain nodes contribute to every
// candidate in their category (upward traversal).
func (e *Engine) fuseEmbedding(q *queryContext, opts Options, touch func(*document) *accumulator) {
	if len(opts.QueryVec) == 0 || e.index.Empty() {
		return
	}

	ranking := e.index.Rank(opts.QueryVec, e.cfg.Fusion)

	for _, node := range ranking.Tools {
		doc, ok := e.byName[node.Name]
		if !ok || !e.passesFilters(doc, opts) {
			continue
		}
		touch(doc).add(MatchReason{
			Kind:   ReasonToolRRF,
			Points: e.cfg.Fusion.ToolPoints(node.Rank),
			Rank:   node.Rank,
		})
	}

	for _, node := range ranking.Domains {
		points := e.cfg.Fusion.DomainPoints(node.Rank)
		for _, doc := range e.docs {
			if doc.entry.Category != node.Name || !e.passesFilters(doc, opts) {
				continue
			}
			touch(doc).add(MatchReason{
				Kind:     ReasonDomainRRF,
				Points:   points,
				Rank:     node.Rank,
				Category: node.Name,
			})
		}
	}
}

// collect sorts the positive-score accumulators descending, breaking ties by
// catalog insertion order for deterministic output.
func (e *Engine) collect(accums map[string]*accumulator) []*accumulator {
	results := make([]*accumulator, 0, len(accums))
	for _, acc := range accums {
		if acc.score > 0 {
			results = append(results, acc)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].doc.order < results[j].doc.order
	})

	return results
}

// boostFromTraces applies the execution-trace booster to an already-sorted
// candidate list and re-sorts. Candidates in the confident head emit edges
// but are never boosted themselves.
func (e *Engine) boostFromTraces(results []*accumulator, accums map[string]*accumulator) []*accumulator {
	if e.miner == nil {
		return results
	}
	edges := e.miner.Edges()
	if len(edges) == 0 {
		return results
	}

	ranked := make([]string, len(results))
	for i, acc := range results {
		ranked[i] = acc.doc.entry.Name
	}

	counts := trace.BoostCounts(ranked, edges, e.cfg.Trace.TopN)
	if len(counts) == 0 {
		return results
	}

	for name, count := range counts {
		acc := accums[name]
		for i := 0; i < count; i++ {
			acc.add(MatchReason{Kind: ReasonTraceEdge, Points: e.cfg.Trace.Bonus})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].doc.order < results[j].doc.order
	})

	return results
}
