// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStages_ContinuesAfterWarning(t *testing.T) {
	var ran []string
	stages := []Stage{
		{Name: "first", Run: func(ctx context.Context) error {
			ran = append(ran, "first")
			return nil
		}},
		{Name: "second", Run: func(ctx context.Context) error {
			ran = append(ran, "second")
			return fmt.Errorf("index build failed")
		}},
		{Name: "third", Run: func(ctx context.Context) error {
			ran = append(ran, "third")
			return nil
		}},
	}

	results := RunStages(context.Background(), stages, nil)

	// A stage warning must never stop the pipeline.
	assert.Equal(t, []string{"first", "second", "third"}, ran)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
}

func TestRunStages_ObserverSeesEveryResult(t *testing.T) {
	var observed []string
	stages := []Stage{
		{Name: "a", Run: func(ctx context.Context) error { return nil }},
		{Name: "b", Run: func(ctx context.Context) error { return fmt.Errorf("boom") }},
	}

	RunStages(context.Background(), stages, func(res StageResult) {
		observed = append(observed, res.Name)
	})

	assert.Equal(t, []string{"a", "b"}, observed)
}

func TestRunStages_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ran []string
	stages := []Stage{
		{Name: "first", Run: func(ctx context.Context) error {
			ran = append(ran, "first")
			cancel()
			return nil
		}},
		{Name: "second", Run: func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
	}

	results := RunStages(ctx, stages, nil)

	assert.Equal(t, []string{"first"}, ran, "cancellation stops the pipeline")
	assert.Len(t, results, 1)
}

func TestWarnings(t *testing.T) {
	results := []StageResult{
		{Name: "schema"},
		{Name: "indexes", Err: fmt.Errorf("boom")},
		{Name: "seed"},
	}

	warn := Warnings(results)
	require.Len(t, warn, 1)
	assert.Equal(t, "indexes", warn[0].Name)
}

func TestStages_OrderAndResetFlag(t *testing.T) {
	s := &Setup{} // stage wiring only; nothing is run

	names := func(stages []Stage) []string {
		out := make([]string, len(stages))
		for i, st := range stages {
			out[i] = st.Name
		}
		return out
	}

	assert.Equal(t,
		[]string{StageSchema, StageIndexes, StageSeed, StageVerify, StageExport},
		names(s.Stages(false)))

	assert.Equal(t,
		[]string{StageReset, StageSchema, StageIndexes, StageSeed, StageVerify, StageExport},
		names(s.Stages(true)))
}
