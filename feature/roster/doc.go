// Package roster wires one synchronization run together: fetch the
// employee list, archive the raw payload, normalize it and reconcile it
// into the store.
//
// # Runs
//
// Service.Sync holds a per company lock for the whole run, tags every log
// line with the company and a fresh run id, and records the outcome in
// Prometheus. A source failure aborts the run; per record failures are
// counted and the run continues.
//
// # Snapshots
//
// With an Archive configured, every fetched payload is stored under
// {company}/{timestamp}-{run id}.json. SyncOptions.Replay re-runs a stored
// payload, which together with DryRun shows what a past payload would
// change today.
package roster
