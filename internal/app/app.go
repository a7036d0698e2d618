package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/atvirokodosprendimai/loginwatch/internal/adapters/auditd"
	"github.com/atvirokodosprendimai/loginwatch/internal/adapters/delivery"
	"github.com/atvirokodosprendimai/loginwatch/internal/adapters/dnsresolver"
	"github.com/atvirokodosprendimai/loginwatch/internal/adapters/geoip"
	"github.com/atvirokodosprendimai/loginwatch/internal/adapters/httpapi"
	"github.com/atvirokodosprendimai/loginwatch/internal/config"
	"github.com/atvirokodosprendimai/loginwatch/internal/core/ports"
	"github.com/atvirokodosprendimai/loginwatch/internal/core/usecase"
	"github.com/atvirokodosprendimai/loginwatch/internal/logging"
)

const shutdownTimeout = 10 * time.Second

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Pipeline is the wired login notification pipeline.
type Pipeline struct {
	dispatcher *usecase.Dispatcher
	exclusions *usecase.ExclusionSet
	hostLabel  string
	closer     io.Closer
}

// NewPipeline opens the geolocation database and resolves the exclusion list.
// It fails fast when the database cannot be opened.
func NewPipeline(ctx context.Context, cfg config.Config) (*Pipeline, error) {
	locator, err := geoip.Open(cfg.GeoIP.DBPath)
	if err != nil {
		return nil, err
	}

	sender, err := newDelivery(cfg)
	if err != nil {
		_ = locator.Close()
		return nil, err
	}

	return assemble(ctx, cfg, locator, sender, dnsresolver.New(), locator), nil
}

func assemble(ctx context.Context, cfg config.Config, geo ports.GeoSource, sender ports.Delivery, resolver ports.AddressResolver, closers ...io.Closer) *Pipeline {
	exclusions := usecase.NewExclusionSet(ctx, resolver, cfg.Exclusions, cfg.ResolveTimeout)
	logging.Info().Int("entries", exclusions.Len()).Msg("exclusion list loaded")

	hostLabel := cfg.HostLabel
	if hostLabel == "" {
		hostLabel = usecase.DefaultHostLabel
	}

	extractor := usecase.NewLoginExtractor(auditd.NewTokenizer())
	composer := usecase.NewComposer(hostLabel, exclusions)

	return &Pipeline{
		dispatcher: usecase.NewDispatcher(extractor, geo, composer, sender),
		exclusions: exclusions,
		hostLabel:  hostLabel,
		closer:     resourceCloser{closers: closers},
	}
}

func newDelivery(cfg config.Config) (ports.Delivery, error) {
	switch cfg.Delivery {
	case config.DeliveryTelegram, "":
		return delivery.NewTelegram(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Timeout), nil
	case config.DeliveryLog:
		return delivery.NewLog(), nil
	default:
		return nil, fmt.Errorf("unknown delivery %q", cfg.Delivery)
	}
}

func (p *Pipeline) Metrics() usecase.DispatcherMetrics {
	return p.dispatcher.Metrics()
}

func (p *Pipeline) Close() error {
	return p.closer.Close()
}

// Run consumes in until EOF or until ctx is cancelled. When statusAddr is set
// the status server runs alongside and is shut down once the input ends.
func (p *Pipeline) Run(ctx context.Context, in io.Reader, statusAddr string) error {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return p.consume(gctx, in)
	})

	if statusAddr != "" {
		server := &http.Server{
			Addr:              statusAddr,
			Handler:           httpapi.NewHandler(p.exclusions, p.dispatcher, p.hostLabel).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logging.Info().Str("addr", statusAddr).Msg("status server listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-done:
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// consume returns as soon as ctx is cancelled, even while the reader is
// blocked waiting for input.
func (p *Pipeline) consume(ctx context.Context, in io.Reader) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.dispatcher.Run(ctx, in)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err == nil {
			logging.Info().Interface("stats", p.dispatcher.Metrics()).Msg("input exhausted")
		}
		return err
	case <-ctx.Done():
		logging.Info().Msg("pipeline stopped")
		return nil
	}
}
