package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkovac/erpsync/internal/config"
	"github.com/mkovac/erpsync/internal/domain"
	"github.com/mkovac/erpsync/internal/erp"
	"github.com/mkovac/erpsync/internal/observability"
	"github.com/mkovac/erpsync/internal/pkg/flight"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

type Remote interface {
	FindOrderByReference(ctx context.Context, token, reference string) (*erp.RemoteOrder, error)
	CreateOrder(ctx context.Context, token string, p erp.OrderPayload, idempotencyKey string) (*erp.CreatedOrder, error)
}

type EntityResolver interface {
	Item(ctx context.Context, token, code string) (domain.ResolvedEntity, error)
	Customer(ctx context.Context, token string, order *domain.Order) (domain.ResolvedEntity, error)
}

type Cache interface {
	Get(reference string) (*domain.SyncRecord, bool)
	Set(rec *domain.SyncRecord)
}

type Journal interface {
	Record(ctx context.Context, rec *domain.SyncRecord) error
	GetByReference(ctx context.Context, reference string) (*domain.SyncRecord, error)
}

// Service pushes one commerce order into the remote accounting system exactly
// once. Concurrent syncs of the same reference are collapsed into a single
// submission whose outcome every caller observes.
type Service struct {
	remote   Remote
	resolver EntityResolver
	cache    Cache
	journal  Journal
	flights  *flight.Group[domain.Outcome]
	erpCfg   config.ERP
	limit    config.RateLimit
	poll     config.Poll
	logger   *zap.Logger
	metrics  observability.Metrics
}

func NewService(
	remote Remote,
	resolver EntityResolver,
	cache Cache,
	journal Journal,
	erpCfg config.ERP,
	limit config.RateLimit,
	poll config.Poll,
	logger *zap.Logger,
	metrics observability.Metrics,
) *Service {
	return &Service{
		remote:   remote,
		resolver: resolver,
		cache:    cache,
		journal:  journal,
		flights:  flight.NewGroup[domain.Outcome](),
		erpCfg:   erpCfg,
		limit:    limit,
		poll:     poll,
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *Service) Sync(ctx context.Context, token string, order *domain.Order) (domain.Outcome, error) {
	out, _, err := s.SyncWithStats(ctx, token, order)
	return out, err
}

func (s *Service) SyncWithStats(ctx context.Context, token string, order *domain.Order) (domain.Outcome, SyncStats, error) {
	var st SyncStats

	if err := order.Validate(); err != nil {
		return domain.Outcome{}, st, err
	}

	ref := order.Reference()
	t0 := time.Now()
	outcome, shared, err := s.flights.Do(ref, func() (domain.Outcome, error) {
		return s.sync(ctx, token, order)
	})
	st.TotalMs = convertToMs(t0)
	st.Coalesced = shared
	if shared {
		s.metrics.IncCoalesced()
	}
	if err != nil {
		st.Result = ResultFailed
		s.metrics.ObserveSync(st.Result, st.TotalMs)
		return domain.Outcome{}, st, err
	}

	if outcome.Created {
		st.Result = ResultCreated
	} else {
		st.Result = ResultExisting
	}
	s.metrics.ObserveSync(st.Result, st.TotalMs)
	return outcome, st, nil
}

// sync runs the whole state machine for one reference. The flight group above
// guarantees it is executed at most once concurrently per reference.
func (s *Service) sync(ctx context.Context, token string, order *domain.Order) (domain.Outcome, error) {
	ref := order.Reference()

	// Advisory pre-check: an explicit match is always trusted, any failure
	// here only means we proceed to create.
	if ro, err := s.remote.FindOrderByReference(ctx, token, ref); err == nil {
		s.logger.Info("order already synced",
			zap.String("reference", ref),
			zap.Int64("remote_order_id", ro.ID),
		)
		outcome := domain.Outcome{RemoteOrderID: ro.ID, Created: false}
		s.record(ctx, ref, outcome, nil)
		return outcome, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("pre-check failed, proceeding to create",
			zap.String("reference", ref),
			zap.Error(err),
		)
	}

	payload, err := s.buildPayload(ctx, token, order)
	if err != nil {
		// No partial orders: any unresolved line item aborts the sync.
		serr := &domain.SyncError{Reference: ref, Err: err}
		s.record(ctx, ref, domain.Outcome{}, serr)
		return domain.Outcome{}, serr
	}

	outcome, err := s.submit(ctx, token, ref, payload)
	s.record(ctx, ref, outcome, err)
	return outcome, err
}

func (s *Service) buildPayload(ctx context.Context, token string, order *domain.Order) (erp.OrderPayload, error) {
	customer, err := s.resolver.Customer(ctx, token, order)
	if err != nil {
		return erp.OrderPayload{}, err
	}

	rows := make([]erp.OrderRow, 0, len(order.Items))
	for _, li := range order.Items {
		item, err := s.resolver.Item(ctx, token, li.SKU)
		if err != nil {
			return erp.OrderPayload{}, err
		}
		rows = append(rows, erp.OrderRow{
			Item:              erp.IDRef{ID: item.RemoteID},
			ItemCode:          item.Code,
			ItemName:          item.Name,
			Quantity:          li.Quantity,
			Price:             li.UnitPrice,
			UnitOfMeasurement: item.Unit,
			Warehouse:         erp.IDRef{ID: s.erpCfg.WarehouseID},
		})
	}

	date := order.CreatedAt.Format("2006-01-02")
	currency := erp.NamedRef{ID: s.erpCfg.CurrencyID, Name: s.erpCfg.CurrencyName}
	if order.Currency != "" {
		currency.Name = order.Currency
	}

	ref := order.Reference()
	return erp.OrderPayload{
		DocumentType:        "ReceivedOrder",
		Date:                date,
		DueDate:             date,
		ReceivedIssued:      "P",
		Customer:            erp.IDRef{ID: customer.RemoteID},
		CustomerName:        order.CustomerName(),
		CustomerAddress:     order.Billing.Address,
		CustomerPostalCode:  order.Billing.Zip,
		CustomerCity:        order.Billing.City,
		CustomerCountry:     erp.NamedRef{ID: s.erpCfg.CountryID, Name: s.erpCfg.CountryName},
		CustomerCountryName: countryName(order.Billing.Country),
		Analytic:            s.erpCfg.AnalyticID,
		Currency:            currency,
		Reference:           ref,
		Notes:               "Porudzbina iz Shopify " + ref,
		DescriptionBelow:    "Potvrdjujemo Vasu porudzbinu koja je prikazana u ovom dokumentu.",
		Status:              "P",
		OrderRows:           rows,
		IsPriceWithVAT:      true,
	}, nil
}

// submit POSTs the order and reconciles every inconclusive outcome. At most
// two submission rounds happen: the initial one plus a single replay when the
// remote rate-limits the create itself.
func (s *Service) submit(ctx context.Context, token, ref string, payload erp.OrderPayload) (domain.Outcome, error) {
	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		// Idempotency token is fresh per attempt; a rate-limited round never
		// reached the order book.
		created, err := s.remote.CreateOrder(ctx, token, payload, uuid.NewString())

		switch {
		case err == nil && created != nil:
			s.logger.Info("order created",
				zap.String("reference", ref),
				zap.Int64("remote_order_id", created.ID),
			)
			return domain.Outcome{RemoteOrderID: created.ID, Created: true}, nil

		case err == nil:
			// Accepted without confirmation: the order may materialise
			// asynchronously. Poll before giving up.
			s.logger.Warn("order create ambiguous, reconciling", zap.String("reference", ref))
			if ro, ok := s.pollForOrder(ctx, token, ref); ok {
				return domain.Outcome{RemoteOrderID: ro.ID, Created: true}, nil
			}
			return domain.Outcome{}, &domain.SyncError{Reference: ref, Err: domain.ErrAmbiguous}

		case errors.Is(err, domain.ErrConflict):
			// Another path created it; the remote copy is authoritative.
			s.logger.Info("order create conflict, re-querying", zap.String("reference", ref))
			if ro, ferr := s.remote.FindOrderByReference(ctx, token, ref); ferr == nil {
				return domain.Outcome{RemoteOrderID: ro.ID, Created: false}, nil
			}
			return domain.Outcome{}, &domain.SyncError{Reference: ref, Err: err}

		case errors.Is(err, domain.ErrRateLimited) && attempt == 1:
			s.logger.Warn("order create rate limited, replaying submission",
				zap.String("reference", ref),
			)
			lastErr = err
			if serr := sleepWithContext(ctx, s.limit.Delay); serr != nil {
				return domain.Outcome{}, &domain.SyncError{Reference: ref, Err: serr}
			}
			continue

		default:
			lastErr = err
		}
		break
	}

	// Final safety net: the remote may have applied a request we saw fail.
	// One last lookup before declaring the sync dead.
	if ro, ferr := s.remote.FindOrderByReference(ctx, token, ref); ferr == nil {
		s.logger.Warn("create failed but order exists remotely",
			zap.String("reference", ref),
			zap.Int64("remote_order_id", ro.ID),
			zap.Error(lastErr),
		)
		return domain.Outcome{RemoteOrderID: ro.ID, Created: true}, nil
	}

	serr := &domain.SyncError{Reference: ref, Err: lastErr}
	var re *domain.RemoteError
	if errors.As(lastErr, &re) {
		serr.LastStatus = re.Status
	}
	return domain.Outcome{}, serr
}

// record journals the terminal outcome. Best-effort: journal or cache trouble
// never changes the sync result.
func (s *Service) record(ctx context.Context, ref string, outcome domain.Outcome, syncErr error) {
	rec := &domain.SyncRecord{
		Reference:     ref,
		RemoteOrderID: outcome.RemoteOrderID,
		Created:       outcome.Created,
		Status:        domain.SyncStatusOK,
		SyncedAt:      time.Now().UTC(),
	}
	if syncErr != nil {
		rec.Status = domain.SyncStatusFailed
		rec.Error = syncErr.Error()
	}

	if err := s.journal.Record(ctx, rec); err != nil {
		s.logger.Warn("journal write failed",
			zap.String("reference", ref),
			zap.Error(err),
		)
	}
	s.cache.Set(rec)
}

// StatusByReference serves the recorded outcome of a past sync: cache first,
// then the journal.
func (s *Service) StatusByReference(ctx context.Context, reference string) (*domain.SyncRecord, LookupStats, error) {
	var st LookupStats

	tCacheStart := time.Now()
	if rec, ok := s.cache.Get(reference); ok {
		st.Source = SourceCache
		st.CacheMs = convertToMs(tCacheStart)
		s.metrics.IncCacheHit()
		s.metrics.ObserveLookup(string(st.Source), st.CacheMs, 0)
		return rec, st, nil
	}

	s.metrics.IncCacheMiss()
	st.CacheMs = convertToMs(tCacheStart)

	tDbStart := time.Now()
	rec, err := s.journal.GetByReference(ctx, reference)
	if err != nil {
		s.logger.Error("sync record lookup failed",
			zap.String("reference", reference),
			zap.Error(err),
			zap.Float64("cache_ms", st.CacheMs),
		)
		return nil, st, err
	}

	st.Source = SourceDB
	st.DBMs = convertToMs(tDbStart)
	s.cache.Set(rec)
	s.metrics.ObserveLookup(string(st.Source), st.CacheMs, st.DBMs)
	return rec, st, nil
}

func countryName(billing string) string {
	if billing != "" {
		return billing
	}
	return "Serbia"
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
