package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/ports"
	"github.com/atvirokodosprendimai/loginwatch/internal/logging"
	"github.com/atvirokodosprendimai/loginwatch/internal/metrics"
)

type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeGeoFailed
	OutcomeSuppressed
	OutcomeDelivered
	OutcomeDeliveryFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeGeoFailed:
		return "geo_failed"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// OK reports whether the line finished without a failure. Suppression is not
// a failure.
func (o Outcome) OK() bool {
	return o == OutcomeSkipped || o == OutcomeSuppressed || o == OutcomeDelivered
}

// Dispatcher runs every input line through extract, geolocate, compose and
// deliver. Lines are handled one at a time; a failure is contained to its line.
type Dispatcher struct {
	extractor ports.Extractor
	geo       ports.GeoSource
	composer  *Composer
	delivery  ports.Delivery

	linesTotal          atomic.Int64
	skippedTotal        atomic.Int64
	geoFailedTotal      atomic.Int64
	suppressedTotal     atomic.Int64
	deliveredTotal      atomic.Int64
	deliveryFailedTotal atomic.Int64
}

type DispatcherMetrics struct {
	LinesTotal          int64 `json:"lines_total"`
	SkippedTotal        int64 `json:"skipped_total"`
	GeoFailedTotal      int64 `json:"geo_failed_total"`
	SuppressedTotal     int64 `json:"suppressed_total"`
	DeliveredTotal      int64 `json:"delivered_total"`
	DeliveryFailedTotal int64 `json:"delivery_failed_total"`
}

func NewDispatcher(extractor ports.Extractor, geo ports.GeoSource, composer *Composer, delivery ports.Delivery) *Dispatcher {
	return &Dispatcher{extractor: extractor, geo: geo, composer: composer, delivery: delivery}
}

// Run processes r line by line until EOF or until ctx is cancelled between
// lines.
func (d *Dispatcher) Run(ctx context.Context, r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			d.Process(ctx, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
}

func (d *Dispatcher) Process(ctx context.Context, line string) Outcome {
	outcome := d.process(ctx, line)
	d.record(outcome)
	return outcome
}

func (d *Dispatcher) process(ctx context.Context, line string) Outcome {
	fact, ok, err := d.extractor.Extract(line)
	if err != nil {
		logging.Debug().Err(err).Msg("line skipped")
		return OutcomeSkipped
	}
	if !ok {
		return OutcomeSkipped
	}

	traceID := uuid.NewString()
	location, err := d.geo.Locate(ctx, fact.Address)
	if err != nil {
		logging.Warn().Err(err).
			Str("trace_id", traceID).
			Str("user", fact.User).
			Str("address", fact.Address).
			Msg("geo lookup failed, notification dropped")
		return OutcomeGeoFailed
	}

	n := d.composer.Compose(fact, location)
	if d.composer.ShouldSuppress(n) {
		logging.Info().
			Str("trace_id", traceID).
			Str("user", n.User).
			Str("address", n.Address).
			Msg("login from excluded address, notification suppressed")
		return OutcomeSuppressed
	}

	start := time.Now()
	err = d.delivery.Send(ctx, d.composer.Render(n))
	metrics.DeliveryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logging.Error().Err(err).
			Str("trace_id", traceID).
			Str("user", n.User).
			Str("address", n.Address).
			Msg("notification delivery failed")
		return OutcomeDeliveryFailed
	}

	logging.Info().
		Str("trace_id", traceID).
		Str("user", n.User).
		Str("address", n.Address).
		Str("city", n.Location.City).
		Str("country", n.Location.Country).
		Msg("login notification delivered")
	return OutcomeDelivered
}

func (d *Dispatcher) record(o Outcome) {
	d.linesTotal.Add(1)
	metrics.LinesProcessed.Inc()
	metrics.LineOutcomes.WithLabelValues(o.String()).Inc()

	switch o {
	case OutcomeSkipped:
		d.skippedTotal.Add(1)
	case OutcomeGeoFailed:
		d.geoFailedTotal.Add(1)
	case OutcomeSuppressed:
		d.suppressedTotal.Add(1)
	case OutcomeDelivered:
		d.deliveredTotal.Add(1)
	case OutcomeDeliveryFailed:
		d.deliveryFailedTotal.Add(1)
	}
}

func (d *Dispatcher) Metrics() DispatcherMetrics {
	return DispatcherMetrics{
		LinesTotal:          d.linesTotal.Load(),
		SkippedTotal:        d.skippedTotal.Load(),
		GeoFailedTotal:      d.geoFailedTotal.Load(),
		SuppressedTotal:     d.suppressedTotal.Load(),
		DeliveredTotal:      d.deliveredTotal.Load(),
		DeliveryFailedTotal: d.deliveryFailedTotal.Load(),
	}
}
