package quirk

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"

	"github.com/fnproject/quirk/common"
)

var (
	trialCountMeasure    = common.MakeMeasure("quirk_trial_count", "Runner Trials Executed Per Run", "")
	discardCountMeasure  = common.MakeMeasure("quirk_discard_count", "Runner Trials Discarded Per Run", "")
	failureCountMeasure  = common.MakeMeasure("quirk_failure_count", "Runner Falsified Property Count", "")
	shrinkStepsMeasure   = common.MakeMeasure("quirk_shrink_steps", "Shrinker Candidate Replays Per Failure", "")
	shrinkAcceptMeasure  = common.MakeMeasure("quirk_shrink_accepted", "Shrinker Accepted Edits Per Failure", "")
	runLatencyMeasure    = common.MakeMeasure("quirk_run_latency", "Property Run Latency", "msecs")
	replayedCountMeasure = common.MakeMeasure("quirk_replayed_failures", "Known Failures Rediscovered On Replay", "")
)

func recordRunStats(ctx context.Context, res *RunReport) {
	stats.Record(ctx,
		trialCountMeasure.M(int64(res.Trials)),
		discardCountMeasure.M(int64(res.Discards)),
		runLatencyMeasure.M(int64(res.Elapsed/time.Millisecond)),
	)
}

func recordFailureStats(ctx context.Context, steps, shrinks int, replayed bool) {
	stats.Record(ctx,
		failureCountMeasure.M(1),
		shrinkStepsMeasure.M(int64(steps)),
		shrinkAcceptMeasure.M(int64(shrinks)),
	)
	if replayed {
		stats.Record(ctx, replayedCountMeasure.M(1))
	}
}

// RegisterRunnerViews registers the engine's metric views with the given tag
// keys. Hosts that export metrics call this once at startup; everyone else
// pays only a no-op stats.Record per run.
func RegisterRunnerViews(tagKeys []string, latencyDist []float64) {
	err := view.Register(
		common.CreateView(trialCountMeasure, view.Distribution(0, 1, 10, 100, 1000, 10000), tagKeys),
		common.CreateView(discardCountMeasure, view.Distribution(0, 1, 10, 100, 1000, 10000), tagKeys),
		common.CreateView(failureCountMeasure, view.Count(), tagKeys),
		common.CreateView(shrinkStepsMeasure, view.Distribution(0, 10, 100, 1000, 10000, 100000), tagKeys),
		common.CreateView(shrinkAcceptMeasure, view.Distribution(0, 2, 4, 8, 16, 32, 64, 128), tagKeys),
		common.CreateView(replayedCountMeasure, view.Count(), tagKeys),
		common.CreateView(runLatencyMeasure, view.Distribution(latencyDist...), tagKeys),
	)
	if err != nil {
		logrus.WithError(err).Fatal("cannot create view")
	}
}
