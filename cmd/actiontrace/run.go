package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/on-the-ground/action_ive_go/actions"
	"github.com/on-the-ground/action_ive_go/config"
	"github.com/on-the-ground/action_ive_go/effects/log"
	"github.com/on-the-ground/action_ive_go/effects/saga"
	"github.com/on-the-ground/action_ive_go/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	outcomeResolve = "resolve"
	outcomeReject  = "reject"
	outcomeCancel  = "cancel"

	cancelType = "CANCEL"
)

var errRejected = errors.New("rejected")

type runOptions struct {
	outcome string
	delay   time.Duration
	prefix  string
	params  map[string]string
}

type traceResult struct {
	Args []any `json:"args"`
}

// traceLine is one journal record as printed.
type traceLine struct {
	Seq    uint64            `json:"seq"`
	Type   string            `json:"type"`
	At     string            `json:"at"`
	Action actions.AnyAction `json:"action"`
}

func newRunCmd(out io.Writer) *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run [args...]",
		Short: "Bind a demo worker to TRACE and print the store journal as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Prefix = opts.prefix
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer zap.ReplaceGlobals(logger)()

			return runTrace(cmd.Context(), cfg, logger, opts, args, out)
		},
	}
	cmd.Flags().StringVar(&opts.outcome, "outcome", outcomeResolve, "How the worker ends: resolve|reject|cancel")
	cmd.Flags().DurationVar(&opts.delay, "delay", 50*time.Millisecond, "How long the worker runs")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Action type prefix (env "+config.KeyTypePrefix+")")
	cmd.Flags().StringToStringVar(&opts.params, "param", nil, "Worker params as key=value, repeatable")
	return cmd
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if !cfg.Production() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.ZapLevel())
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func runTrace(
	ctx context.Context,
	cfg config.Config,
	logger *zap.Logger,
	opts runOptions,
	args []string,
	out io.Writer,
) error {
	switch opts.outcome {
	case outcomeResolve, outcomeReject, outcomeCancel:
	default:
		return fmt.Errorf("unknown outcome %q", opts.outcome)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	f := actions.NewFactory(cfg.FactoryOptions()...)
	ac, err := actions.NewAsync[map[string]string, traceResult, error](f, "TRACE", actions.Meta{"source": "actiontrace"})
	if err != nil {
		return err
	}
	st := store.New[struct{}](nil, struct{}{}, store.WithLogger(logger))

	ctx, endOfLog := log.WithZapEffectHandler(ctx, cfg.DispatchBufferSize, logger)
	defer endOfLog()
	ctx, endOfSaga := saga.WithEffectHandlers(ctx, st, cfg.DispatchBufferSize, cfg.DispatchNumWorkers)

	bound := saga.BindAsyncAction(ac)(func(ctx context.Context, _ map[string]string, args ...any) (traceResult, error) {
		select {
		case <-time.After(opts.delay):
		case <-ctx.Done():
			return traceResult{}, ctx.Err()
		}
		if opts.outcome == outcomeReject {
			return traceResult{}, errRejected
		}
		return traceResult{Args: args}, nil
	})

	workerArgs := make([]any, len(args))
	for i, a := range args {
		workerArgs[i] = a
	}

	cancelCh := st.Take(ctx, actions.TypeIs(cancelType))
	if opts.outcome == outcomeCancel {
		time.AfterFunc(opts.delay/2, func() {
			_ = st.Dispatch(context.Background(), actions.Action[actions.Empty]{Type: cancelType})
		})
	}

	outcome := saga.Race(ctx,
		func(ctx context.Context) (traceResult, error) {
			return bound(ctx, opts.params, workerArgs...)
		},
		cancelCh,
	)
	endOfSaga()

	logger.Info("trace finished",
		zap.String("type", ac.Type),
		zap.Bool("cancelled", outcome.Cancelled),
		zap.Error(outcome.Err),
	)

	if err := writeJournal(out, st.Journal()); err != nil {
		return err
	}
	if outcome.Err != nil && !errors.Is(outcome.Err, errRejected) {
		return outcome.Err
	}
	return nil
}

func writeJournal(out io.Writer, journal []store.Record) error {
	enc := json.NewEncoder(out)
	for _, rec := range journal {
		line := traceLine{
			Seq:    rec.Seq,
			Type:   rec.Action.ActionType(),
			At:     rec.At.Start().Add(rec.At.Duration() / 2).Format(time.RFC3339Nano),
			Action: rec.Action,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write journal: %w", err)
		}
	}
	return nil
}
