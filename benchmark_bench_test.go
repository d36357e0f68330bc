package benchcast

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/profile"
)

var benchReport *Report

func BenchmarkEvaluate(b *testing.B) {
	series := setupSeries(18288)
	opt := NewDefaultOptions()
	opt.SubmissionOptions.Dir = filepath.Join(b.TempDir(), "submissions")

	bench, err := New(opt, nil)
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		benchReport, err = bench.Evaluate(context.Background(), series)
		if err != nil {
			panic(err)
		}
	}
}
