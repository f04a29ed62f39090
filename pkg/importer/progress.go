// LBGDB Metadata
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LBGDB Metadata.
//
// LBGDB Metadata is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LBGDB Metadata is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LBGDB Metadata.  If not, see <http://www.gnu.org/licenses/>.

package importer

import (
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
)

// Progress is a snapshot of the current or last import run.
type Progress struct {
	StartedAt   time.Time `json:"startedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	RunID       string    `json:"runId,omitempty"`
	State       State     `json:"state"`
	LastError   string    `json:"lastError,omitempty"`
	Hash        string    `json:"hash,omitempty"`
	Records     int64     `json:"records"`
	Stage       int       `json:"stage"`
	TotalStages int       `json:"totalStages"`
	Running     bool      `json:"running"`
}

// ProgressTracker manages import progress and notifications
type ProgressTracker struct {
	clock         clockwork.Clock
	notifications chan<- Progress
	progress      Progress
	mu            syncutil.RWMutex
}

// NewProgressTracker creates a new progress tracker. Notifications may be
// nil; sends never block.
func NewProgressTracker(clock clockwork.Clock, notifications chan<- Progress) *ProgressTracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ProgressTracker{
		clock:         clock,
		notifications: notifications,
		progress:      Progress{State: StateIdle, TotalStages: TotalStages},
	}
}

// Update applies fn to the progress, stamps it and notifies listeners.
func (pt *ProgressTracker) Update(fn func(*Progress)) {
	pt.mu.Lock()
	fn(&pt.progress)
	pt.progress.UpdatedAt = pt.clock.Now()
	snapshot := pt.progress
	pt.mu.Unlock()

	if pt.notifications != nil {
		select {
		case pt.notifications <- snapshot:
		default:
			// Don't block if notifications channel is full
		}
	}
}

// Get returns a copy of the current progress
func (pt *ProgressTracker) Get() Progress {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.progress
}

// Start resets the progress for a new run passing through stages states.
func (pt *ProgressTracker) Start(runID string, stages int) {
	pt.Update(func(p *Progress) {
		*p = Progress{
			RunID:       runID,
			State:       StateIdle,
			TotalStages: stages,
			StartedAt:   pt.clock.Now(),
			Running:     true,
		}
	})
}

// Advance moves to the next stage.
func (pt *ProgressTracker) Advance(state State) {
	pt.Update(func(p *Progress) {
		p.State = state
		p.Stage++
	})
}

func (pt *ProgressTracker) AddRecords(n int) {
	pt.Update(func(p *Progress) {
		p.Records += int64(n)
	})
}

// Fail ends the run with an error, keeping the stage it failed in.
func (pt *ProgressTracker) Fail(err error) {
	pt.Update(func(p *Progress) {
		if err != nil {
			p.LastError = err.Error()
		}
		p.Running = false
	})
}

// Complete ends a successful run.
func (pt *ProgressTracker) Complete(hash string) {
	pt.Update(func(p *Progress) {
		p.State = StateIdle
		p.Hash = hash
		p.LastError = ""
		p.Running = false
	})
}
