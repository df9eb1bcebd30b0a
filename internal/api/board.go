package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poseidon-tools/farmer/internal/domain"
)

// Snapshot is the JSON shape served by the status endpoint.
type Snapshot struct {
	StartedAt      time.Time               `json:"started_at"`
	CyclesFinished int                     `json:"cycles_finished"`
	LastCycleID    string                  `json:"last_cycle_id,omitempty"`
	LastCycleEnd   *time.Time              `json:"last_cycle_end,omitempty"`
	Totals         domain.AttemptCounters  `json:"totals"`
	Accounts       []domain.AccountSummary `json:"accounts"`
}

// Board accumulates pipeline progress for the status endpoint. Writers
// are the scheduler and orchestrator hooks; readers are HTTP handlers.
type Board struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewBoard creates a board stamped with the process start time.
func NewBoard(now time.Time) *Board {
	return &Board{snapshot: Snapshot{StartedAt: now}}
}

// RecordAccount replaces or appends the summary for one account in the
// current cycle's view.
func (b *Board) RecordAccount(summary domain.AccountSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.snapshot.Accounts {
		if existing.Index == summary.Index {
			b.snapshot.Accounts[i] = summary
			return
		}
	}
	b.snapshot.Accounts = append(b.snapshot.Accounts, summary)
}

// RecordCycle finalizes a cycle: totals are recomputed and the account
// list replaced wholesale.
func (b *Board) RecordCycle(cycleID uuid.UUID, summaries []domain.AccountSummary, finished time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.snapshot.CyclesFinished++
	b.snapshot.LastCycleID = cycleID.String()
	b.snapshot.LastCycleEnd = &finished
	b.snapshot.Accounts = summaries

	var totals domain.AttemptCounters
	for _, summary := range summaries {
		totals.Add(summary.Counters)
	}
	b.snapshot.Totals = totals
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := b.snapshot
	snap.Accounts = append([]domain.AccountSummary(nil), b.snapshot.Accounts...)
	return snap
}
