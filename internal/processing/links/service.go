package links

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("links")

// errLinkExpired aborts the click append inside Store.Update.
var errLinkExpired = errors.New("link expired")

type Service struct {
	store     Store
	generator *CodeGenerator
	publisher EventPublisher
	baseURL   string
	now       func() time.Time
}

type ServiceOptions struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// Publisher may be nil.
	Publisher           EventPublisher
	BaseURL             string
	MaxGenerateAttempts int
}

func NewService(store Store, source CodeSource) *Service {
	return NewServiceWithOptions(store, source, ServiceOptions{})
}

func NewServiceWithOptions(store Store, source CodeSource, opts ServiceOptions) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		store:     store,
		generator: NewCodeGenerator(source, opts.MaxGenerateAttempts),
		publisher: opts.Publisher,
		baseURL:   strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		now:       opts.Now,
	}
}

// CreateBatch validates and assigns codes for every row, then commits all
// records in one store write. The first failing row rejects the whole batch.
func (s *Service) CreateBatch(ctx context.Context, reqs []CreateRequest) ([]LinkRecord, error) {
	ctx, span := tracer.Start(ctx, "links.create_batch",
		trace.WithAttributes(attribute.Int("links.batch_size", len(reqs))),
	)
	defer span.End()

	records, err := s.createBatch(ctx, reqs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create batch failed")
		metrics.BatchRejected(rejectionReason(err))

		fields := []zap.Field{zap.Error(err), zap.Int("batch_size", len(reqs))}
		var verr *ValidationError
		if errors.As(err, &verr) {
			fields = append(fields,
				zap.Int("row", verr.Row),
				zap.String("field", verr.Field),
				zap.String("value", verr.Value),
			)
		}
		logger.Warn("link batch rejected", fields...)
		return nil, err
	}

	metrics.LinksCreated(len(records))
	logger.Info("link batch created",
		zap.Int("count", len(records)),
		zap.Strings("shortcodes", shortcodes(records)),
	)

	if s.publisher != nil {
		for _, rec := range records {
			if err := s.publisher.LinkCreated(ctx, rec); err != nil {
				metrics.EventPublishFailed("link.created")
				logger.Warn("failed to publish link created event",
					zap.Error(err),
					zap.String("shortcode", rec.Shortcode),
				)
			}
		}
	}

	return records, nil
}

func (s *Service) createBatch(ctx context.Context, reqs []CreateRequest) ([]LinkRecord, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	existing := make(codeSet, len(snapshot))
	for _, rec := range snapshot {
		existing.add(rec.Shortcode)
	}
	pending := make(codeSet, len(reqs))

	records := make([]LinkRecord, 0, len(reqs))
	for i, req := range reqs {
		row := i + 1

		in, err := NormalizeRequest(row, req)
		if err != nil {
			return nil, err
		}

		code, err := s.generator.Assign(in.Shortcode, existing, pending)
		if err != nil {
			if errors.Is(err, ErrShortcodeCollision) || errors.Is(err, ErrCodeSpaceExhausted) {
				return nil, &ValidationError{Row: row, Field: "shortcode", Value: in.Shortcode, Err: err}
			}
			return nil, err
		}
		pending.add(code)

		records = append(records, NewLinkRecord(code, in.LongURL, in.ValidityMinutes, s.now()))
	}

	if err := s.store.AppendAll(ctx, records); err != nil {
		if errors.Is(err, ErrShortcodeCollision) {
			return nil, err
		}
		return nil, &StorageError{Op: "append", Err: err}
	}

	return records, nil
}

// Resolve records a click and returns the target when the link exists and has
// not expired. NotFound and Expired are outcomes; err is only set when the
// store fails.
func (s *Service) Resolve(ctx context.Context, shortcode string, cc ClickContext) (RedirectOutcome, error) {
	ctx, span := tracer.Start(ctx, "links.resolve",
		trace.WithAttributes(attribute.String("links.shortcode", shortcode)),
	)
	defer span.End()

	outcome, click, err := s.resolve(ctx, shortcode, cc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		logger.Error("failed to resolve shortcode", zap.Error(err), zap.String("shortcode", shortcode))
		return RedirectOutcome{}, err
	}

	span.SetAttributes(attribute.String("links.outcome", outcome.Status.String()))
	metrics.Redirect(outcome.Status.String())

	switch outcome.Status {
	case RedirectNotFound:
		logger.Info("shortcode not found", zap.String("shortcode", shortcode))
	case RedirectExpired:
		logger.Warn("shortcode expired", zap.String("shortcode", shortcode))
	case RedirectFound:
		logger.Info("redirecting to original url",
			zap.String("shortcode", shortcode),
			zap.String("long_url", outcome.LongURL),
			zap.String("source", click.Source),
			zap.String("location", click.Location),
		)
		if s.publisher != nil {
			if err := s.publisher.ClickRecorded(ctx, shortcode, click); err != nil {
				metrics.EventPublishFailed("click.recorded")
				logger.Warn("failed to publish click recorded event",
					zap.Error(err),
					zap.String("shortcode", shortcode),
				)
			}
		}
	}

	return outcome, nil
}

func (s *Service) resolve(ctx context.Context, shortcode string, cc ClickContext) (RedirectOutcome, ClickEvent, error) {
	if shortcode == "" {
		return RedirectOutcome{Status: RedirectNotFound}, ClickEvent{}, nil
	}

	var (
		outcome RedirectOutcome
		click   ClickEvent
	)
	err := s.store.Update(ctx, shortcode, func(rec *LinkRecord) error {
		now := s.now().UTC()
		if rec.ExpiredAt(now) {
			return errLinkExpired
		}

		click = ClickEvent{
			Timestamp: now,
			Source:    orDefault(cc.Source, SourceDirect),
			Location:  orDefault(cc.Location, LocationUnknown),
		}
		rec.Clicks = append(rec.Clicks, click)
		outcome = RedirectOutcome{Status: RedirectFound, LongURL: rec.LongURL}
		return nil
	})

	switch {
	case err == nil:
		return outcome, click, nil
	case errors.Is(err, ErrNotFound):
		return RedirectOutcome{Status: RedirectNotFound}, ClickEvent{}, nil
	case errors.Is(err, errLinkExpired):
		return RedirectOutcome{Status: RedirectExpired}, ClickEvent{}, nil
	default:
		return RedirectOutcome{}, ClickEvent{}, &StorageError{Op: "update", Err: err}
	}
}

// Report projects every stored link, expired ones included, in store order.
func (s *Service) Report(ctx context.Context) ([]StatsRow, error) {
	ctx, span := tracer.Start(ctx, "links.report")
	defer span.End()

	records, err := s.store.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "report failed")
		return nil, &StorageError{Op: "list", Err: err}
	}

	rows := make([]StatsRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, s.statsRow(rec))
	}

	span.SetAttributes(attribute.Int("links.count", len(rows)))
	return rows, nil
}

func (s *Service) StatsFor(ctx context.Context, shortcode string) (StatsRow, error) {
	rows, err := s.Report(ctx)
	if err != nil {
		return StatsRow{}, err
	}
	for _, row := range rows {
		if row.Shortcode == shortcode {
			return row, nil
		}
	}
	return StatsRow{}, ErrNotFound
}

// ShortURL renders <base>/<shortcode>; with no base URL it is just /<shortcode>.
func (s *Service) ShortURL(shortcode string) string {
	return s.baseURL + "/" + shortcode
}

func (s *Service) statsRow(rec LinkRecord) StatsRow {
	clicks := make([]ClickEvent, len(rec.Clicks))
	copy(clicks, rec.Clicks)

	return StatsRow{
		Shortcode:  rec.Shortcode,
		LongURL:    rec.LongURL,
		ShortURL:   s.ShortURL(rec.Shortcode),
		CreatedAt:  rec.CreatedAt,
		ExpiresAt:  rec.ExpiresAt,
		ClickCount: len(rec.Clicks),
		Clicks:     clicks,
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrInvalidValidity):
		return "invalid_validity"
	case errors.Is(err, ErrInvalidShortcodeFormat):
		return "invalid_shortcode_format"
	case errors.Is(err, ErrShortcodeCollision):
		return "shortcode_collision"
	case errors.Is(err, ErrCodeSpaceExhausted):
		return "code_space_exhausted"
	case errors.Is(err, ErrBatchTooLarge):
		return "batch_too_large"
	case errors.Is(err, ErrEmptyBatch):
		return "empty_batch"
	default:
		return "storage"
	}
}

func shortcodes(records []LinkRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Shortcode)
	}
	return out
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
