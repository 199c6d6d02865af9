// Package averaging implements the averaging-down (물타기) calculator:
// new-average simulation, multi-quantity scenarios and the target-average
// back-solve.
package averaging

import (
	"fmt"
	"math"
)

// DefaultScenarios are the standard additional-buy quantities to simulate
var DefaultScenarios = []int64{1, 5, 10, 20}

// Result is one averaging-down simulation outcome
type Result struct {
	NewAvg          int64   `json:"new_avg"`
	Change          int64   `json:"change"`     // 평단가 변화 금액
	ChangePct       float64 `json:"change_pct"` // 평단가 변화율
	TotalQty        int64   `json:"total_qty"`
	TotalCost       int64   `json:"total_cost"`
	BreakevenPrice  int64   `json:"breakeven_price"`
	ProfitIfSellNow int64   `json:"profit_if_sell_now"`
	ProfitPct       float64 `json:"profit_pct"`
	AddQty          int64   `json:"add_qty,omitempty"`
}

// Calculate simulates buying addQuantity more shares at currentPrice on top
// of an existing position.
func Calculate(avgPrice float64, quantity int64, currentPrice float64, addQuantity int64) (*Result, error) {
	if avgPrice <= 0 || quantity < 0 || currentPrice <= 0 || addQuantity < 0 {
		return nil, fmt.Errorf("averaging inputs must be positive (avg=%.0f qty=%d price=%.0f add=%d)",
			avgPrice, quantity, currentPrice, addQuantity)
	}

	existingCost := avgPrice * float64(quantity)
	additionalCost := currentPrice * float64(addQuantity)
	totalCost := existingCost + additionalCost
	totalQty := quantity + addQuantity

	var newAvg float64
	if totalQty > 0 {
		newAvg = totalCost / float64(totalQty)
	}

	change := newAvg - avgPrice
	changePct := 0.0
	if avgPrice > 0 {
		changePct = change / avgPrice * 100
	}

	currentValue := currentPrice * float64(totalQty)
	profit := currentValue - totalCost
	profitPct := 0.0
	if totalCost > 0 {
		profitPct = profit / totalCost * 100
	}

	return &Result{
		NewAvg:          int64(newAvg),
		Change:          int64(change),
		ChangePct:       round2(changePct),
		TotalQty:        totalQty,
		TotalCost:       int64(totalCost),
		BreakevenPrice:  int64(newAvg),
		ProfitIfSellNow: int64(profit),
		ProfitPct:       round2(profitPct),
	}, nil
}

// CalculateScenarios runs the simulation for each additional-buy quantity
func CalculateScenarios(avgPrice float64, quantity int64, currentPrice float64, scenarios []int64) ([]*Result, error) {
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios
	}

	results := make([]*Result, 0, len(scenarios))
	for _, addQty := range scenarios {
		result, err := Calculate(avgPrice, quantity, currentPrice, addQty)
		if err != nil {
			return nil, err
		}
		result.AddQty = addQty
		results = append(results, result)
	}

	return results, nil
}

// TargetResult is the back-solved quantity needed to reach a target average
type TargetResult struct {
	RequiredQty    int64  `json:"required_qty"`
	AdditionalCost int64  `json:"additional_cost"`
	Feasible       bool   `json:"feasible"`
	Reason         string `json:"reason,omitempty"`
	ActualAvg      int64  `json:"actual_avg,omitempty"`
	TargetAvg      int64  `json:"target_avg,omitempty"`
	Difference     int64  `json:"difference,omitempty"`
}

// CalculateTargetQuantity back-solves how many shares must be bought at the
// current price to move the average to targetAvg.
//
// The average can only move toward the current price: lowering it requires
// the price to sit below the average, and the target must lie between the
// two. The share count is ceiled to a whole number and re-verified.
func CalculateTargetQuantity(avgPrice float64, quantity int64, currentPrice, targetAvg float64) (*TargetResult, error) {
	if avgPrice <= 0 || quantity <= 0 || currentPrice <= 0 || targetAvg <= 0 {
		return nil, fmt.Errorf("averaging inputs must be positive")
	}

	infeasible := func(reason string) *TargetResult {
		return &TargetResult{Feasible: false, Reason: reason}
	}

	if currentPrice >= avgPrice {
		// 평단가를 올리는 방향만 가능
		if targetAvg <= avgPrice {
			return infeasible("현재가가 평단가보다 높아서 평단가를 낮출 수 없습니다"), nil
		}
	} else {
		// 평단가를 낮추는 방향만 가능
		if targetAvg >= avgPrice {
			return infeasible("현재가가 평단가보다 낮아서 평단가를 올릴 수 없습니다"), nil
		}
		if targetAvg < currentPrice {
			return infeasible(fmt.Sprintf("목표 평단가(%.0f원)가 현재가(%.0f원)보다 낮아 달성 불가능합니다",
				targetAvg, currentPrice)), nil
		}
	}

	// target_avg = (avg*qty + price*X) / (qty + X) 를 X에 대해 풀면
	// X = qty * (avg - target) / (target - price)
	denominator := targetAvg - currentPrice
	if math.Abs(denominator) < 0.01 {
		return infeasible("목표 평단가와 현재가가 거의 같아 계산이 불가능합니다"), nil
	}

	required := float64(quantity) * (avgPrice - targetAvg) / denominator
	if required < 0 {
		return infeasible("목표 평단가 달성을 위한 조건이 맞지 않습니다"), nil
	}

	requiredQty := int64(math.Ceil(required))

	verify, err := Calculate(avgPrice, quantity, currentPrice, requiredQty)
	if err != nil {
		return nil, err
	}

	return &TargetResult{
		RequiredQty:    requiredQty,
		AdditionalCost: int64(currentPrice * float64(requiredQty)),
		Feasible:       true,
		ActualAvg:      verify.NewAvg,
		TargetAvg:      int64(targetAvg),
		Difference:     verify.NewAvg - int64(targetAvg),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
