package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/fakecheck/internal/model"
)

const reportNamespace = "report"

// Reports caches analysis reports by the exact text that was scored
type Reports struct {
	store Cache
	ttl   time.Duration
}

// NewReports wraps store; ttl 0 uses each layer's default
func NewReports(store Cache, ttl time.Duration) *Reports {
	if store == nil {
		store = Noop{}
	}
	return &Reports{store: store, ttl: ttl}
}

// Get returns a cached report for text. Undecodable entries count as misses.
func (r *Reports) Get(text string) (*model.Report, bool) {
	data, ok := r.store.Get(Key(reportNamespace, text))
	if !ok {
		return nil, false
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		_ = r.store.Delete(Key(reportNamespace, text))
		return nil, false
	}
	return &report, true
}

// Put stores report under text
func (r *Reports) Put(text string, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := r.store.Set(Key(reportNamespace, text), data, r.ttl); err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	return nil
}
