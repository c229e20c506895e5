// Package costs tracks optimization usage and turns it into spend
// intelligence: a per-day in-memory ledger, a 30-day cost forecast,
// anomaly detection over daily totals, cost-reduction advice, and an
// efficiency score.
//
// Nothing here persists. The ledger lives for the life of the process,
// which is all the surrounding daemon promises.
package costs
