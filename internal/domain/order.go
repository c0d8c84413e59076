package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the commerce-platform order document as delivered by the shop
// webhook/export. The sync engine treats it as read-only input.
type Order struct {
	Number    int64      `json:"order_number"`
	Email     string     `json:"email"`
	Billing   Billing    `json:"billing_address"`
	Items     []LineItem `json:"line_items"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`
}

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address1"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type LineItem struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// Reference is the human-readable order reference used for lookups in the
// remote system. Globally unique per source order.
func (o *Order) Reference() string {
	return fmt.Sprintf("#%d", o.Number)
}

// CustomerCode is the natural key under which the order's customer is
// created/looked up in the remote system.
func (o *Order) CustomerCode() string {
	return fmt.Sprintf("SHOPIFY_%d", o.Number)
}

// CustomerName builds a display name from the billing block.
func (o *Order) CustomerName() string {
	return strings.TrimSpace(o.Billing.FirstName + " " + o.Billing.LastName)
}

func (o *Order) Validate() error {
	if o.Number <= 0 {
		return ErrMissingNumber
	}
	if len(o.Items) == 0 {
		return ErrNoLineItems
	}
	for _, it := range o.Items {
		if it.SKU == "" {
			return ErrMissingSKU
		}
		if it.Quantity <= 0 {
			return ErrBadQuantity
		}
		if it.UnitPrice.IsNegative() {
			return ErrBadPrice
		}
	}
	return nil
}
