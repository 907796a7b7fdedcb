// Package detect decides, per merchant, whether a group of charges looks
// like a recurring subscription, and if so at what amount, cadence, and
// next due date. The pipeline is pure per run: no I/O, no shared state,
// and identical input with a fixed clock yields identical candidates.
package detect

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/subtrack-dev/subtrack/internal/model"
	"github.com/subtrack-dev/subtrack/internal/normalize"
)

// Engine runs the detection pipeline: normalize, group by merchant, find
// the recurring amount, classify the cadence, filter, score, and project
// the next charge.
type Engine struct {
	terms TermMatcher
	rules Rules
	log   zerolog.Logger
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules overrides the default amount window.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithLogger attaches a logger for skipped-record and fallback diagnostics.
// Logging never affects the detection result.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock fixes the engine's notion of "today". Tests use this to make
// runs reproducible; the default is the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine that applies the given term lists.
func New(terms TermMatcher, opts ...Option) *Engine {
	e := &Engine{
		terms: terms,
		rules: DefaultRules(),
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report summarizes one detection run.
type Report struct {
	Candidates []model.SubscriptionCandidate
	Parsed     int // records normalized successfully
	Skipped    int // malformed records dropped
}

// Detect runs the full pipeline over one user's raw transactions and
// returns a candidate per merchant group with a repeating amount, sorted
// by merchant key. Malformed records are skipped, logged, and never abort
// the run; a group with no recurrence simply emits nothing. Candidates
// with an unclassifiable cadence are emitted ineligible rather than
// dropped, so they stay visible for manual review.
func (e *Engine) Detect(raw []model.RawTransaction) []model.SubscriptionCandidate {
	return e.Run(raw).Candidates
}

// Run is Detect plus run accounting for callers that log or audit runs.
func (e *Engine) Run(raw []model.RawTransaction) Report {
	var report Report
	today := dateOnly(e.now())

	var txns []model.CanonicalTransaction
	for _, r := range raw {
		txn, err := normalize.Normalize(r, today)
		if err != nil {
			e.log.Warn().Err(err).Str("merchant", r.Merchant).Msg("skipping transaction")
			report.Skipped++
			continue
		}
		if txn.DateAssumed {
			e.log.Debug().Str("merchant", txn.Merchant).Str("date", r.Date).
				Msg("unparsable booking date, assuming today")
		}
		txns = append(txns, txn)
	}
	report.Parsed = len(txns)

	groups, keys := GroupByMerchant(txns)

	for _, key := range keys {
		if cand, ok := e.detectGroup(key, groups[key], today); ok {
			report.Candidates = append(report.Candidates, cand)
		}
	}
	return report
}

func (e *Engine) detectGroup(key string, group []model.CanonicalTransaction, today time.Time) (model.SubscriptionCandidate, bool) {
	// A single transaction can never establish a recurrence.
	if len(group) < 2 {
		return model.SubscriptionCandidate{}, false
	}

	rec, ok := FindRecurring(group)
	if !ok {
		return model.SubscriptionCandidate{}, false
	}

	cycle, _ := Classify(rec.Support)

	// Display label from the most recent supporting transaction.
	latest := rec.Support[len(rec.Support)-1]
	merchant := latest.Merchant

	// Term lists match against the normalized label, not the display one.
	eligible, reason := Evaluate(key, rec.Amount, cycle, e.terms, e.rules)
	confidence := Score(len(rec.Support), key, rec.Amount, cycle, e.terms)

	last := latest.Date
	if last.IsZero() {
		e.log.Debug().Str("merchant", merchant).Msg("missing last charge date, projecting from today")
	}
	next, stale := NextCharge(last, cycle, today)
	if stale {
		e.log.Debug().Str("merchant", merchant).Time("next", next).
			Msg("projected next charge is not in the future")
	}

	return model.SubscriptionCandidate{
		Merchant:        merchant,
		MerchantKey:     key,
		Amount:          rec.Amount.Abs(),
		Currency:        latest.Currency,
		Cycle:           cycle,
		LastCharge:      last,
		NextCharge:      next,
		Confidence:      confidence,
		Eligible:        eligible,
		RejectionReason: reason,
		SupportCount:    len(rec.Support),
		StaleProjection: stale,
	}, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
