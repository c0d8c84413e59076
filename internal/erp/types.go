package erp

import "github.com/shopspring/decimal"

// Wire types for the Minimax-style accounting API. Field names follow the
// remote system's PascalCase JSON.

type IDRef struct {
	ID int64 `json:"ID"`
}

type NamedRef struct {
	ID   int64  `json:"ID"`
	Name string `json:"Name"`
}

type Item struct {
	ItemID            int64           `json:"ItemId"`
	Code              string          `json:"Code"`
	Name              string          `json:"Name"`
	UnitOfMeasurement string          `json:"UnitOfMeasurement"`
	Price             decimal.Decimal `json:"Price"`
}

// itemPage tolerates both page shapes the remote has been seen to return.
type itemPage struct {
	Rows  []Item `json:"Rows"`
	Items []Item `json:"Items"`
}

type Customer struct {
	CustomerID int64  `json:"CustomerId"`
	Code       string `json:"Code"`
	Name       string `json:"Name"`
}

type CustomerPayload struct {
	Name         string   `json:"Name"`
	Code         string   `json:"Code"`
	Address      string   `json:"Address"`
	PostalCode   string   `json:"PostalCode"`
	City         string   `json:"City"`
	Country      NamedRef `json:"Country"`
	SubjectToVAT string   `json:"SubjectToVAT"`
	Currency     NamedRef `json:"Currency"`
	Email        string   `json:"Email"`
	Phone        string   `json:"Phone"`
}

type ContactPayload struct {
	FullName    string `json:"FullName"`
	Email       string `json:"Email,omitempty"`
	PhoneNumber string `json:"PhoneNumber,omitempty"`
	Default     string `json:"Default"`
}

type OrderRow struct {
	Item              IDRef           `json:"Item"`
	ItemCode          string          `json:"ItemCode"`
	ItemName          string          `json:"ItemName"`
	Quantity          int             `json:"Quantity"`
	Price             decimal.Decimal `json:"Price"`
	UnitOfMeasurement string          `json:"UnitOfMeasurement"`
	Warehouse         IDRef           `json:"Warehouse"`
}

type OrderPayload struct {
	DocumentType        string     `json:"DocumentType"`
	Date                string     `json:"Date"`
	DueDate             string     `json:"DueDate"`
	ReceivedIssued      string     `json:"ReceivedIssued"`
	Customer            IDRef      `json:"Customer"`
	CustomerName        string     `json:"CustomerName"`
	CustomerAddress     string     `json:"CustomerAddress"`
	CustomerPostalCode  string     `json:"CustomerPostalCode"`
	CustomerCity        string     `json:"CustomerCity"`
	CustomerCountry     NamedRef   `json:"CustomerCountry"`
	CustomerCountryName string     `json:"CustomerCountryName"`
	Analytic            int64      `json:"Analytic"`
	Currency            NamedRef   `json:"Currency"`
	Reference           string     `json:"Reference"`
	Notes               string     `json:"Notes"`
	DescriptionBelow    string     `json:"DescriptionBelow"`
	Status              string     `json:"Status"`
	OrderRows           []OrderRow `json:"OrderRows"`
	IsPriceWithVAT      bool       `json:"IsPriceWithVAT"`
}

// RemoteOrder is an order document as listed by the remote system.
type RemoteOrder struct {
	ID        int64  `json:"ID"`
	Reference string `json:"Reference"`
	Status    string `json:"Status"`
}

type orderPage struct {
	Rows []RemoteOrder `json:"Rows"`
}

// CreatedOrder is the synchronous confirmation of POST /orders. The remote is
// also known to answer with an empty array body; in that case the create is
// ambiguous and the caller must reconcile by re-querying.
type CreatedOrder struct {
	ID int64 `json:"ID"`
}
