package quirk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fnproject/quirk/common"
	"github.com/fnproject/quirk/id"
)

// Run executes prop against values drawn from gen until cfg.Trials pass, a
// counterexample is found, or the discard budget runs out. A found
// counterexample is shrunk before the result is returned. A nil cfg means
// DefaultConfig.
//
// The reported seed reproduces the whole run: the stream for trial t,
// attempt a is derived from it, so a failure replays identically even when
// earlier runs discarded a different number of values along the way.
func Run[T any](ctx context.Context, gen Generator[T], prop func(T) error, cfg *Config) *Result[T] {
	cfg = cfg.withDefaults()

	name := cfg.Name
	if name == "" {
		name = gen.Label()
	}
	res := &Result[T]{
		Status: RunPassed,
		Name:   name,
		RunID:  id.New().String(),
		Seed:   cfg.Seed,
	}

	ctx = common.WithLogger(ctx, common.Logger(ctx).WithFields(logrus.Fields{
		"run_id":   res.RunID,
		"property": name,
		"seed":     cfg.Seed,
	}))
	log := common.Logger(ctx)

	if err := fireBeforeRun(ctx, cfg.Listeners, res.Report()); err != nil {
		log.WithError(err).Error("run vetoed by listener")
		res.Status = RunInconclusive
		res.Err = err
		return res
	}

	start := time.Now()
	runTrials(ctx, gen, prop, cfg, res)
	res.Elapsed = time.Since(start)

	rep := res.Report()
	recordRunStats(ctx, rep)

	switch res.Status {
	case RunPassed:
		log.WithFields(logrus.Fields{
			"trials":   res.Trials,
			"discards": res.Discards,
		}).Info("property passed")
	case RunFailed:
		f := res.Failure
		recordFailureStats(ctx, f.Steps, f.Shrinks, f.Replayed)
		log.WithFields(logrus.Fields{
			"trial":   f.Trial,
			"minimal": fmt.Sprintf("%+v", f.Value),
			"draws":   f.Choices.Len(),
			"steps":   f.Steps,
			"shrinks": f.Shrinks,
		}).Error("property falsified")
		fireFailure(ctx, cfg.Listeners, res.FailureRecord())
	case RunInconclusive:
		log.WithError(res.Err).WithFields(logrus.Fields{
			"trials":   res.Trials,
			"discards": res.Discards,
		}).Warn("property inconclusive")
	}

	fireAfterRun(ctx, cfg.Listeners, rep)
	return res
}

func runTrials[T any](ctx context.Context, gen Generator[T], prop func(T) error, cfg *Config, res *Result[T]) {
	log := common.Logger(ctx)

	// stored counterexamples first, cheapest way to catch a regression
	for ki, kf := range cfg.Replay {
		if kf.Choices == nil {
			continue
		}
		size := kf.Size
		if size <= 0 {
			size = cfg.MaxSize
		}
		v, err := gen.Generate(newReplaySource(kf.Choices, size))
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{"replay": ki}).Debug("stored failure no longer generates")
			continue
		}
		perr := prop(v)
		if perr == nil || errors.Is(perr, ErrSkip) {
			continue
		}
		log.WithFields(logrus.Fields{"replay": ki}).Info("stored counterexample still fails")
		res.Status = RunFailed
		res.Failure = falsified(ctx, gen, prop, cfg, kf.Choices, v, perr, 0, size, true)
		return
	}

	discardBudget := int(cfg.MaxDiscardRatio * float64(cfg.Trials))

	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			res.Status = RunInconclusive
			res.Err = err
			return
		}
		size := cfg.sizeFor(trial)
		for attempt := 0; ; attempt++ {
			src := newSource(deriveSeed(cfg.Seed, uint64(trial), uint64(attempt)), size)
			v, err := gen.Generate(src)
			if err != nil {
				if !errors.Is(err, ErrRejected) {
					// the generator itself broke, not a filter giving up
					log.WithError(err).WithFields(logrus.Fields{"trial": trial}).Error("generator error")
					res.Status = RunInconclusive
					res.Err = err
					return
				}
				res.Discards++
				if res.Discards > discardBudget {
					res.Status = RunInconclusive
					res.Err = ErrTooManyDiscards
					return
				}
				continue
			}
			perr := prop(v)
			if perr == nil {
				break
			}
			if errors.Is(perr, ErrSkip) {
				res.Discards++
				if res.Discards > discardBudget {
					res.Status = RunInconclusive
					res.Err = ErrTooManyDiscards
					return
				}
				continue
			}

			choices := src.recording()
			res.Trials = trial + 1
			log.WithFields(logrus.Fields{
				"trial": trial,
				"draws": choices.Len(),
			}).Info("property falsified, shrinking")
			res.Status = RunFailed
			res.Failure = falsified(ctx, gen, prop, cfg, choices, v, perr, trial, size, false)
			return
		}
		res.Trials = trial + 1
	}
}

func falsified[T any](ctx context.Context, gen Generator[T], prop func(T) error, cfg *Config, c *Choices, v T, perr error, trial, size int, replayed bool) *Failure[T] {
	sh := newShrinker(gen, prop, cfg.MaxShrinkSteps, size)
	sres := sh.shrink(ctx, c, v, perr)
	return &Failure[T]{
		ShrinkResult:    sres,
		Err:             sh.bestErr,
		Trial:           trial,
		Size:            size,
		Replayed:        replayed,
		Original:        v,
		OriginalChoices: c,
		OriginalErr:     perr,
	}
}

func fireBeforeRun(ctx context.Context, ls []RunListener, rep *RunReport) error {
	for _, l := range ls {
		if err := l.BeforeRun(ctx, rep); err != nil {
			return err
		}
	}
	return nil
}

func fireAfterRun(ctx context.Context, ls []RunListener, rep *RunReport) {
	for _, l := range ls {
		if err := l.AfterRun(ctx, rep); err != nil {
			common.Logger(ctx).WithError(err).Error("after run listener error")
		}
	}
}

func fireFailure(ctx context.Context, ls []RunListener, rec *FailureRecord) {
	for _, l := range ls {
		if err := l.OnFailure(ctx, rec.Clone()); err != nil {
			common.Logger(ctx).WithError(err).Error("failure listener error")
		}
	}
}
