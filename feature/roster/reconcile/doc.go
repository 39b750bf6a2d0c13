// Package reconcile is the roster synchronization engine.
//
// It turns a normalized batch of personnel records into idempotent writes:
//
//  1. Classify maps a source bucket and free-text descriptor to an event kind.
//     Descriptors mentioning a license ("licencia", "license") are leaves even
//     inside vacation buckets.
//
//  2. Expand walks an inclusive date range and emits one event per day.
//     Reversed ranges produce nothing, so one malformed span never aborts a run.
//
//  3. Resolve rewrites colliding contact emails (duplicates inside the batch or
//     emails already stored) with _1, _2, ... suffixes. It runs once over the
//     whole batch before any write so suffixes are stable.
//
//  4. Reconciler.Plan looks every record up by external id and decides
//     create vs update; Reconciler.Apply performs the writes. Updates keep the
//     stored email and credential hash and replace the person's events for the
//     days the run covers.
//
// # Failure Policy
//
// The batch is not a transaction. A repository failure on one record is
// logged and counted in Summary.Failed and the next record is attempted.
//
// # Usage
//
//	r := reconcile.New(repo, log)
//	summary, err := r.Reconcile(ctx, models.CompanyTRN, records)
package reconcile
