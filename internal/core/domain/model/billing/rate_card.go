package billing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"fulfillment/internal/pkg/errs"
)

// Rate codes billed by the fulfillment core. Container codes are billed per
// container; handling codes are billed per shipment event.
const (
	RateCodeBox12 = "BOX-12"
	RateCodeBox8  = "BOX-8"
	RateCodeBox6  = "BOX-6"
	RateCodeBox4  = "BOX-4"
	RateCodeBox3  = "BOX-3"
	RateCodeBox2  = "BOX-2"
	RateCodeBox1  = "BOX-1"

	RateCodeCan24 = "CAN-24"
	RateCodeCan12 = "CAN-12"
	RateCodeCan6  = "CAN-6"

	RateCodeOutboundHandling = "OUTBOUND-HANDLING"
	RateCodeReturnHandling   = "RETURN-HANDLING"
)

// ContainerKind distinguishes the two container families on the rate card.
type ContainerKind int

const (
	// ContainerBoxes selects the standard box sizes.
	ContainerBoxes ContainerKind = iota

	// ContainerCans selects the can tray sizes.
	ContainerCans
)

// ContainerRate is one billable container SKU: its rate code, how many
// units it holds, and its unit price.
type ContainerRate struct {
	Code     string
	Capacity int
	Price    decimal.Decimal
}

// RateCard maps rate codes to unit prices and exposes the container SKUs
// available for packing. Prices are sub-linear per unit for larger
// containers, which is what makes the greedy largest-first packing
// acceptable.
type RateCard struct {
	prices     map[string]decimal.Decimal
	containers map[ContainerKind][]ContainerRate
}

// DefaultRateCard returns the standard warehouse rate card.
func DefaultRateCard() *RateCard {
	boxes := []ContainerRate{
		{Code: RateCodeBox12, Capacity: 12, Price: decimal.NewFromFloat(20.00)},
		{Code: RateCodeBox8, Capacity: 8, Price: decimal.NewFromFloat(15.00)},
		{Code: RateCodeBox6, Capacity: 6, Price: decimal.NewFromFloat(12.00)},
		{Code: RateCodeBox4, Capacity: 4, Price: decimal.NewFromFloat(9.50)},
		{Code: RateCodeBox3, Capacity: 3, Price: decimal.NewFromFloat(7.50)},
		{Code: RateCodeBox2, Capacity: 2, Price: decimal.NewFromFloat(6.00)},
		{Code: RateCodeBox1, Capacity: 1, Price: decimal.NewFromFloat(5.00)},
	}
	cans := []ContainerRate{
		{Code: RateCodeCan24, Capacity: 24, Price: decimal.NewFromFloat(8.50)},
		{Code: RateCodeCan12, Capacity: 12, Price: decimal.NewFromFloat(5.50)},
		{Code: RateCodeCan6, Capacity: 6, Price: decimal.NewFromFloat(3.50)},
	}

	prices := map[string]decimal.Decimal{
		RateCodeOutboundHandling: decimal.NewFromFloat(4.25),
		RateCodeReturnHandling:   decimal.NewFromFloat(6.75),
	}
	for _, c := range append(append([]ContainerRate{}, boxes...), cans...) {
		prices[c.Code] = c.Price
	}

	return &RateCard{
		prices: prices,
		containers: map[ContainerKind][]ContainerRate{
			ContainerBoxes: boxes,
			ContainerCans:  cans,
		},
	}
}

// UnitPrice returns the unit price for a rate code.
// Returns an ObjectNotFoundError for codes not on the card.
func (rc *RateCard) UnitPrice(rateCode string) (decimal.Decimal, error) {
	price, ok := rc.prices[rateCode]
	if !ok {
		return decimal.Zero, errs.NewObjectNotFoundError("rateCode", rateCode)
	}
	return price, nil
}

// ContainerRates returns the container SKUs of the given kind, sorted by
// capacity descending (the order the packing heuristic consumes them in).
func (rc *RateCard) ContainerRates(kind ContainerKind) []ContainerRate {
	rates := make([]ContainerRate, len(rc.containers[kind]))
	copy(rates, rc.containers[kind])
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Capacity > rates[j].Capacity
	})
	return rates
}

// IsContainerCode reports whether a rate code belongs to the container
// families. Used to detect pre-existing box assignments on an order.
func (rc *RateCard) IsContainerCode(rateCode string) bool {
	for _, rates := range rc.containers {
		for _, c := range rates {
			if c.Code == rateCode {
				return true
			}
		}
	}
	return false
}

// ContainerCodes returns every container rate code on the card.
func (rc *RateCard) ContainerCodes() []string {
	var codes []string
	for _, kind := range []ContainerKind{ContainerBoxes, ContainerCans} {
		for _, c := range rc.containers[kind] {
			codes = append(codes, c.Code)
		}
	}
	return codes
}

// String returns the container kind's human-readable name.
func (k ContainerKind) String() string {
	switch k {
	case ContainerBoxes:
		return "Boxes"
	case ContainerCans:
		return "Cans"
	default:
		return fmt.Sprintf("ContainerKind(%d)", int(k))
	}
}
