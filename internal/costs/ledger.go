package costs

import (
	"sort"
	"sync"
	"time"
)

// dateLayout keys daily buckets. Lexicographic order on these keys is
// chronological order.
const dateLayout = "2006-01-02"

// UsageEvent is one served optimization or estimate worth of spend.
type UsageEvent struct {
	Provider   string
	Level      string
	TokensUsed int
	CostUSD    float64
	At         time.Time
}

// BucketStat aggregates cost and tokens under one grouping key.
type BucketStat struct {
	CostUSD float64 `json:"cost_usd"`
	Tokens  int     `json:"tokens"`
}

// DaySummary is a copy of one day's aggregates.
type DaySummary struct {
	Date         string                `json:"date"`
	TotalCostUSD float64               `json:"total_cost_usd"`
	TotalTokens  int                   `json:"total_tokens"`
	Requests     int                   `json:"requests"`
	ByProvider   map[string]BucketStat `json:"by_provider"`
	ByLevel      map[string]BucketStat `json:"by_level"`
}

// Summary aggregates the whole ledger.
type Summary struct {
	TotalCostUSD float64               `json:"total_cost_usd"`
	TotalTokens  int                   `json:"total_tokens"`
	Requests     int                   `json:"requests"`
	DaysObserved int                   `json:"days_observed"`
	ByProvider   map[string]BucketStat `json:"by_provider"`
	ByLevel      map[string]BucketStat `json:"by_level"`
}

type dayRecord struct {
	date        string
	totalCost   float64
	totalTokens int
	requests    int
	byProvider  map[string]BucketStat
	byLevel     map[string]BucketStat
}

// Ledger folds usage events into per-day buckets keyed by UTC date.
// In-memory only; a restart starts the ledger over.
type Ledger struct {
	mu    sync.RWMutex
	days  map[string]*dayRecord
	order []string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{days: make(map[string]*dayRecord)}
}

// Record adds one usage event to its day bucket. A zero At means now.
func (l *Ledger) Record(event UsageEvent) {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	key := at.UTC().Format(dateLayout)

	l.mu.Lock()
	defer l.mu.Unlock()

	day, ok := l.days[key]
	if !ok {
		day = &dayRecord{
			date:       key,
			byProvider: make(map[string]BucketStat),
			byLevel:    make(map[string]BucketStat),
		}
		l.days[key] = day

		// Keep order sorted so backfilled events land in the right place.
		i := sort.SearchStrings(l.order, key)
		l.order = append(l.order, "")
		copy(l.order[i+1:], l.order[i:])
		l.order[i] = key
	}

	day.totalCost += event.CostUSD
	day.totalTokens += event.TokensUsed
	day.requests++

	p := day.byProvider[event.Provider]
	p.CostUSD += event.CostUSD
	p.Tokens += event.TokensUsed
	day.byProvider[event.Provider] = p

	lv := day.byLevel[event.Level]
	lv.CostUSD += event.CostUSD
	lv.Tokens += event.TokensUsed
	day.byLevel[event.Level] = lv
}

// Days returns per-day summaries in chronological order. The maps are
// copies; callers may keep or mutate them.
func (l *Ledger) Days() []DaySummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]DaySummary, 0, len(l.order))
	for _, key := range l.order {
		day := l.days[key]
		out = append(out, DaySummary{
			Date:         day.date,
			TotalCostUSD: day.totalCost,
			TotalTokens:  day.totalTokens,
			Requests:     day.requests,
			ByProvider:   copyStats(day.byProvider),
			ByLevel:      copyStats(day.byLevel),
		})
	}
	return out
}

// Summary aggregates every recorded day.
func (l *Ledger) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sum := Summary{
		DaysObserved: len(l.order),
		ByProvider:   make(map[string]BucketStat),
		ByLevel:      make(map[string]BucketStat),
	}
	for _, day := range l.days {
		sum.TotalCostUSD += day.totalCost
		sum.TotalTokens += day.totalTokens
		sum.Requests += day.requests
		mergeStats(sum.ByProvider, day.byProvider)
		mergeStats(sum.ByLevel, day.byLevel)
	}
	return sum
}

func copyStats(src map[string]BucketStat) map[string]BucketStat {
	dst := make(map[string]BucketStat, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func mergeStats(dst, src map[string]BucketStat) {
	for k, v := range src {
		agg := dst[k]
		agg.CostUSD += v.CostUSD
		agg.Tokens += v.Tokens
		dst[k] = agg
	}
}
