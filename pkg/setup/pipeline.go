// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"context"
	"time"
)

// Stage names in pipeline order.
const (
	StageReset   = "reset"
	StageSchema  = "schema"
	StageIndexes = "indexes"
	StageSeed    = "seed"
	StageVerify  = "verify"
	StageExport  = "export"
)

// Stage is one step of the provisioning pipeline.
type Stage struct {
	// Name identifies the stage in output and metrics.
	Name string

	// Description is the one-line banner shown when the stage starts.
	Description string

	// Run executes the stage. A non-nil error is a warning: the pipeline
	// reports it and proceeds to the next stage.
	Run func(ctx context.Context) error
}

// StageResult records one executed stage.
type StageResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Report accumulates what each stage produced during a run.
type Report struct {
	Schema  *SchemaResult
	Indexes *IndexResult
	Seed    *SeedResult
	Verify  *VerifyResult
	Export  *ExportResult
}

// Stages returns the ordered pipeline for this run. The reset stage is
// included only when requested; everything else always runs, in the fixed
// order schema → indexes → seed → verify → export.
func (s *Setup) Stages(reset bool) []Stage {
	var stages []Stage

	if reset {
		stages = append(stages, Stage{
			Name:        StageReset,
			Description: "Dropping existing database",
			Run:         s.DropDatabase,
		})
	}

	stages = append(stages,
		Stage{
			Name:        StageSchema,
			Description: "Creating collections with validators",
			Run: func(ctx context.Context) error {
				_, err := s.CreateCollections(ctx)
				return err
			},
		},
		Stage{
			Name:        StageIndexes,
			Description: "Building indexes",
			Run: func(ctx context.Context) error {
				_, err := s.EnsureIndexes(ctx)
				return err
			},
		},
		Stage{
			Name:        StageSeed,
			Description: "Loading sample data",
			Run: func(ctx context.Context) error {
				_, err := s.Seed(ctx)
				return err
			},
		},
		Stage{
			Name:        StageVerify,
			Description: "Verifying setup",
			Run: func(ctx context.Context) error {
				_, err := s.Verify(ctx)
				return err
			},
		},
		Stage{
			Name:        StageExport,
			Description: "Exporting JSON snapshots",
			Run: func(ctx context.Context) error {
				_, err := s.Export(ctx, s.opts.OutDir)
				return err
			},
		},
	)

	return stages
}

// StageObserver is notified after each stage completes.
type StageObserver func(StageResult)

// RunStages executes the stages in order. A stage error is recorded and
// reported to the observer, and the run continues with the next stage; the
// only thing that stops the pipeline early is context cancellation.
func RunStages(ctx context.Context, stages []Stage, obs StageObserver) []StageResult {
	results := make([]StageResult, 0, len(stages))

	for _, st := range stages {
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		err := st.Run(ctx)
		res := StageResult{Name: st.Name, Err: err, Duration: time.Since(start)}

		stageMetricsObserve(st.Name, res.Duration, err != nil)
		if obs != nil {
			obs(res)
		}
		results = append(results, res)
	}

	return results
}

// Warnings returns the results that carried an error.
func Warnings(results []StageResult) []StageResult {
	var warn []StageResult
	for _, r := range results {
		if r.Err != nil {
			warn = append(warn, r)
		}
	}
	return warn
}
