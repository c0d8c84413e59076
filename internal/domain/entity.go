package domain

import "github.com/shopspring/decimal"

type EntityKind string

const (
	KindItem     EntityKind = "item"
	KindCustomer EntityKind = "customer"
)

// ResolvedEntity is a remote item or customer record mapped to the fields the
// sync engine needs. It lives only for the duration of one coalesced
// resolution; it is never cached across calls.
type ResolvedEntity struct {
	RemoteID int64
	Code     string
	Name     string
	Unit     string
	Price    decimal.Decimal
}
