package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/billing"
	"fulfillment/internal/pkg/errs"
)

// BoxSuggestion is one line of a packing plan: how many containers of one
// SKU to use and what each costs.
type BoxSuggestion struct {
	Code      string
	Qty       int
	UnitPrice decimal.Decimal
}

// TotalCost returns the cost of this suggestion line.
func (s BoxSuggestion) TotalCost() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Qty)))
}

// BoxAllocator is a domain service that packs a unit count into standard
// shipping containers from the rate card.
//
// Packing algorithm (greedy bin-packing heuristic):
//   - Candidate container sizes are taken in descending capacity order
//   - For each size, take floor(remaining / capacity) containers and
//     subtract the packed units
//   - Any leftover units too small for the smallest defined container
//     still consume exactly one of the smallest container
//
// The result is deterministic and terminates in O(number of sizes). It is
// not globally cost-minimal, but larger containers are priced sub-linearly
// per unit, so using the fewest large containers first is acceptable.
type BoxAllocator struct {
	rateCard *billing.RateCard
}

// NewBoxAllocator creates a BoxAllocator over the given rate card.
func NewBoxAllocator(rateCard *billing.RateCard) BoxAllocator {
	return BoxAllocator{rateCard: rateCard}
}

// SuggestBoxes computes the packing plan for totalUnits. isCans selects the
// can tray SKUs instead of the standard box SKUs. Pure function: same
// inputs always produce the same plan.
//
// Returns an empty plan for zero units and an error for negative counts or
// an empty container family.
func (a BoxAllocator) SuggestBoxes(totalUnits int, isCans bool) ([]BoxSuggestion, error) {
	if totalUnits < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("totalUnits is invalid",
			fmt.Errorf("%d is negative", totalUnits))
	}
	if totalUnits == 0 {
		return []BoxSuggestion{}, nil
	}

	kind := billing.ContainerBoxes
	if isCans {
		kind = billing.ContainerCans
	}

	rates := a.rateCard.ContainerRates(kind)
	if len(rates) == 0 {
		return nil, errs.NewObjectNotFoundError("containerRates", kind.String())
	}

	suggestions := make([]BoxSuggestion, 0, len(rates))
	remaining := totalUnits

	for _, rate := range rates {
		if remaining <= 0 {
			break
		}
		count := remaining / rate.Capacity
		if count == 0 {
			continue
		}
		suggestions = append(suggestions, BoxSuggestion{
			Code:      rate.Code,
			Qty:       count,
			UnitPrice: rate.Price,
		})
		remaining -= count * rate.Capacity
	}

	// Leftover smaller than the smallest container still ships in one of it.
	if remaining > 0 {
		smallest := rates[len(rates)-1]
		merged := false
		for i := range suggestions {
			if suggestions[i].Code == smallest.Code {
				suggestions[i].Qty++
				merged = true
				break
			}
		}
		if !merged {
			suggestions = append(suggestions, BoxSuggestion{
				Code:      smallest.Code,
				Qty:       1,
				UnitPrice: smallest.Price,
			})
		}
	}

	return suggestions, nil
}
