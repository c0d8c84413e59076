package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mkovac/erpsync/internal/config"
	"github.com/mkovac/erpsync/internal/domain"
	"github.com/mkovac/erpsync/internal/erp"
	"github.com/mkovac/erpsync/internal/pkg/flight"
)

//go:generate mockgen -source internal/resolver/resolver.go -destination=internal/resolver/resolver_mock_test.go -package=resolver

type remoteAPI interface {
	GetItemByCode(ctx context.Context, token, code string) (*erp.Item, error)
	ListItems(ctx context.Context, token string, pageSize int) ([]erp.Item, error)
	GetCustomerByCode(ctx context.Context, token, code string) (*erp.Customer, error)
	CreateCustomer(ctx context.Context, token string, p erp.CustomerPayload) (*erp.Customer, error)
	AddCustomerContact(ctx context.Context, token string, customerID int64, p erp.ContactPayload) error
}

// Resolver finds remote item and customer records by natural key. Items are
// only discovered (fast path by code, slow path via a whole-catalog listing);
// customers are created on miss, with a duplicate-key conflict treated as a
// lost race followed by a lookup. Concurrent resolutions of the same key are
// coalesced into one remote call.
type Resolver struct {
	api     remoteAPI
	flights *flight.Group[domain.ResolvedEntity]
	cfg     config.ERP
	logger  *zap.Logger
}

func New(api remoteAPI, cfg config.ERP, logger *zap.Logger) *Resolver {
	return &Resolver{
		api:     api,
		flights: flight.NewGroup[domain.ResolvedEntity](),
		cfg:     cfg,
		logger:  logger,
	}
}

// Item resolves a line-item SKU. Never creates anything.
func (r *Resolver) Item(ctx context.Context, token, code string) (domain.ResolvedEntity, error) {
	ent, shared, err := r.flights.Do(string(domain.KindItem)+":"+code, func() (domain.ResolvedEntity, error) {
		return r.resolveItem(ctx, token, code)
	})
	if shared {
		r.logger.Debug("item resolution coalesced", zap.String("code", code))
	}
	return ent, err
}

func (r *Resolver) resolveItem(ctx context.Context, token, code string) (domain.ResolvedEntity, error) {
	item, err := r.api.GetItemByCode(ctx, token, code)
	if err == nil {
		return r.mapItem(item), nil
	}
	if !fallbackToScan(err) {
		return domain.ResolvedEntity{}, err
	}
	r.logger.Info("item lookup missed, scanning full catalog",
		zap.String("code", code),
		zap.Error(err),
	)

	items, err := r.api.ListItems(ctx, token, r.cfg.PageSize)
	if err != nil {
		return domain.ResolvedEntity{}, fmt.Errorf("catalog scan for %q: %w", code, err)
	}
	for i := range items {
		if items[i].Code == code {
			return r.mapItem(&items[i]), nil
		}
	}
	return domain.ResolvedEntity{}, fmt.Errorf("item %q: %w", code, domain.ErrNotFound)
}

// fallbackToScan decides whether a direct-lookup failure is worth the slow
// path. Hard remote failures (5xx, network) still get one chance via the
// listing; only context cancellation stops resolution outright.
func fallbackToScan(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (r *Resolver) mapItem(item *erp.Item) domain.ResolvedEntity {
	unit := item.UnitOfMeasurement
	if unit == "" {
		unit = r.cfg.DefaultUnit
	}
	return domain.ResolvedEntity{
		RemoteID: item.ItemID,
		Code:     item.Code,
		Name:     item.Name,
		Unit:     unit,
		Price:    item.Price,
	}
}

// Customer resolves the order's customer, creating it when absent. A conflict
// on create means another caller won the race; the record is then fetched by
// code as the normal outcome.
func (r *Resolver) Customer(ctx context.Context, token string, order *domain.Order) (domain.ResolvedEntity, error) {
	code := order.CustomerCode()
	ent, shared, err := r.flights.Do(string(domain.KindCustomer)+":"+code, func() (domain.ResolvedEntity, error) {
		return r.resolveCustomer(ctx, token, code, order)
	})
	if shared {
		r.logger.Debug("customer resolution coalesced", zap.String("code", code))
	}
	return ent, err
}

func (r *Resolver) resolveCustomer(ctx context.Context, token, code string, order *domain.Order) (domain.ResolvedEntity, error) {
	if cust, err := r.api.GetCustomerByCode(ctx, token, code); err == nil {
		return mapCustomer(cust), nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		r.logger.Warn("customer lookup failed, attempting create",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	payload := erp.CustomerPayload{
		Name:         order.CustomerName(),
		Code:         code,
		Address:      order.Billing.Address,
		PostalCode:   order.Billing.Zip,
		City:         order.Billing.City,
		Country:      erp.NamedRef{ID: r.cfg.CountryID, Name: r.cfg.CountryName},
		SubjectToVAT: "Ne",
		Currency:     erp.NamedRef{ID: r.cfg.CurrencyID, Name: r.cfg.CurrencyName},
		Email:        order.Email,
		Phone:        order.Billing.Phone,
	}

	cust, err := r.api.CreateCustomer(ctx, token, payload)
	switch {
	case errors.Is(err, domain.ErrConflict):
		// Expected under concurrent syncs of the same shop customer.
		cust, err = r.api.GetCustomerByCode(ctx, token, code)
		if err != nil {
			return domain.ResolvedEntity{}, fmt.Errorf("customer %q after conflict: %w", code, err)
		}
	case err != nil:
		return domain.ResolvedEntity{}, fmt.Errorf("create customer %q: %w", code, err)
	case cust == nil:
		// Created, but the body carried no id.
		cust, err = r.api.GetCustomerByCode(ctx, token, code)
		if err != nil {
			return domain.ResolvedEntity{}, fmt.Errorf("customer %q after create: %w", code, err)
		}
	default:
		// Freshly created with an id in the response.
	}

	r.attachContact(token, cust.CustomerID, order)
	return mapCustomer(cust), nil
}

// attachContact is best-effort and detached: its failure is logged, never
// joined into the resolution result.
func (r *Resolver) attachContact(token string, customerID int64, order *domain.Order) {
	name := order.CustomerName()
	if name == "" {
		name = "Shopify Kupac"
	}
	email := order.Billing.Email
	if email == "" {
		email = order.Email
	}
	contact := erp.ContactPayload{
		FullName:    name,
		Email:       email,
		PhoneNumber: order.Billing.Phone,
		Default:     "D",
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := r.api.AddCustomerContact(ctx, token, customerID, contact); err != nil {
			r.logger.Warn("customer contact attach failed",
				zap.Int64("customer_id", customerID),
				zap.Error(err),
			)
		}
	}()
}

func mapCustomer(cust *erp.Customer) domain.ResolvedEntity {
	return domain.ResolvedEntity{
		RemoteID: cust.CustomerID,
		Code:     cust.Code,
		Name:     cust.Name,
	}
}
