package search

import "github.com/poiesic/searchbox/core"

// Monitor provides hooks to observe the query pipeline.
// Implement this interface to track intermediate steps during a search.
type Monitor interface {
	Start(term string, mode Mode)
	AfterRuleExpansion(excludedCount int)
	AfterCandidateFetch(productCount, categoryCount int)
	ExcludedHit(ref core.ItemRef)
	Finish(result *core.RankedResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Mode)        {}
func (n *noopMonitor) AfterRuleExpansion(_ int)      {}
func (n *noopMonitor) AfterCandidateFetch(_, _ int)  {}
func (n *noopMonitor) ExcludedHit(_ core.ItemRef)    {}
func (n *noopMonitor) Finish(_ *core.RankedResult)   {}
