// Package analyzer scores HTTP response headers against a catalog.
//
// Pipeline for one header snapshot:
//
//   - Find matches a rule key case-insensitively (CSP also accepts its
//     report-only variant, reported as a warning).
//   - Evaluator.Evaluate walks the rules of one category in catalog order,
//     producing a fresh EvaluatedHeader per rule and applying the value
//     refiners (HSTS, CSP, Cache-Control, Content-Type).
//   - Aggregator.Aggregate combines the three scored categories into an
//     overall score, coarse grade and summary text.
//
// Everything here is pure: no I/O, no shared mutable state. Missing headers
// are always StatusMissing and count against the score, whatever their
// importance.
package analyzer
