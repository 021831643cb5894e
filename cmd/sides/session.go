package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wippyai/sides/config"
	"github.com/wippyai/sides/consumer"
	"github.com/wippyai/sides/guest"
	"github.com/wippyai/sides/metrics"
	"github.com/wippyai/sides/provider"
	"github.com/wippyai/sides/thing"
)

// session wires one provider, consumer and sink for the run command.
type session struct {
	provider *provider.Provider
	consumer *consumer.Consumer
	sink     *guest.Sink
	registry *prometheus.Registry
	log      *zap.Logger
}

type sessionOptions struct {
	reporter consumer.Reporter
	useGuest bool
}

func newSession(ctx context.Context, cfg config.Config, log *zap.Logger, opts sessionOptions) (*session, error) {
	s := &session{
		provider: provider.New("cli"),
		registry: prometheus.NewRegistry(),
		log:      log,
	}

	collector, err := metrics.New(s.registry)
	if err != nil {
		return nil, err
	}

	var sink consumer.Sink
	if opts.useGuest {
		gs, err := guest.NewSink(ctx,
			guest.WithTrace(cfg.GuestTrace),
			guest.WithReportHandler(func(r guest.Report) {
				log.Debug("other side reported",
					zap.Uint32("handle", uint32(r.Handle)),
					zap.Int32("value", r.Value))
			}),
		)
		if err != nil {
			return nil, err
		}
		gs.Table().Subscribe(collector)
		s.sink = gs
		sink = gs
	} else {
		sink = logSink(log)
	}

	reporter := opts.reporter
	if reporter == nil {
		reporter = consumer.NewWriterReporter(nil, cfg.Label)
	}
	s.consumer = consumer.New(s.provider, sink,
		consumer.WithReporter(reporter),
		consumer.WithRecorder(collector),
	)
	return s, nil
}

// logSink stands in for the guest: it logs the object's number and ends
// its lifetime through the vtable.
func logSink(log *zap.Logger) consumer.Sink {
	return consumer.SinkFunc(func(_ context.Context, t thing.Thing) error {
		n, err := thing.Number(t)
		if err != nil {
			return err
		}
		log.Info("other side received object", zap.String("type", fmt.Sprintf("%T", t)), zap.Int32("number", n))
		return thing.Destroy(t)
	})
}

func (s *session) runOnce(ctx context.Context, ctor provider.Constructor) error {
	if err := s.provider.Register(ctor); err != nil {
		return err
	}
	return s.consumer.Run(ctx)
}

func (s *session) lastGuestReport() (guest.Report, bool) {
	if s.sink == nil {
		return guest.Report{}, false
	}
	return s.sink.LastReport()
}

func (s *session) writeMetrics(w io.Writer) error {
	return metrics.Write(w, s.registry)
}

func (s *session) Close(ctx context.Context) error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Close(ctx)
}
