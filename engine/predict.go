package engine

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"
)

// undatedHistoryDays stands in for days-since-last-purchase when a history
// contains no parseable timestamp at all: the customer is treated as
// maximally stale (deepest risk tier, cross-sell probability at the floor).
const undatedHistoryDays = 365

// ScorePredictions derives one Prediction per category in Categories for the
// given customer, sorted descending by buy probability (ties keep enumeration
// order). An unknown customer yields an empty list and a nil error. The
// output is a pure function of the customer's purchase history and the
// injected clock, except for the cold-start branch which draws from the
// injected random source.
func (e *Engine) ScorePredictions(ctx context.Context, customerID int64) ([]Prediction, error) {
	if _, err := e.store.GetCustomer(ctx, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	purchases, err := e.store.ListPurchasesByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if len(purchases) == 0 {
		return e.coldStart(), nil
	}
	return e.score(purchases), nil
}

// coldStart scores a customer with no purchase history: demographic-only, a
// small uniform base probability per category and a neutral risk score.
func (e *Engine) coldStart() []Prediction {
	preds := make([]Prediction, 0, len(Categories))
	for _, cat := range Categories {
		// Floor keeps the draw strictly inside [10, 30) after rounding
		// to one decimal.
		p := math.Floor((10+e.rng.Float64()*20)*10) / 10
		preds = append(preds, Prediction{
			Category:          cat,
			BuyProbability:    p,
			RiskScore:         50,
			EstimatedValue:    0,
			RecommendedAction: ActionInitialContact,
		})
	}
	sortPredictions(preds)
	return preds
}

func (e *Engine) score(purchases []Purchase) []Prediction {
	now := e.now()

	frequency := len(purchases)
	var totalSpent float64
	purchased := make(map[string]bool, len(purchases))
	var lastPurchase time.Time
	for _, p := range purchases {
		totalSpent += p.Amount
		purchased[p.Category] = true
		if !p.Date.IsZero() && p.Date.After(lastPurchase) {
			lastPurchase = p.Date
		}
	}
	avgOrderValue := totalSpent / float64(frequency)

	daysSinceLast := undatedHistoryDays
	if !lastPurchase.IsZero() {
		daysSinceLast = wholeDays(now, lastPurchase)
	}

	// Risk baseline by recency, softened by frequency: frequent buyers are
	// never flagged high-risk regardless of how long ago they last bought.
	risk := 10
	switch {
	case daysSinceLast > 180:
		risk = 80
	case daysSinceLast > 90:
		risk = 60
	case daysSinceLast > 30:
		risk = 30
	}
	risk -= frequency * 5
	if risk < 0 {
		risk = 0
	}

	preds := make([]Prediction, 0, len(Categories))
	for _, cat := range Categories {
		var prob float64
		if purchased[cat] {
			// Replacement branch: probability grows with time since the
			// last purchase in this category relative to its cycle.
			if last, ok := lastCategoryPurchase(purchases, cat); ok {
				prob = float64(wholeDays(now, last)) / replacementCycleDays(cat) * 100
				if prob > 95 {
					prob = 95
				}
			}
		} else {
			// Cross-sell branch: more purchases and more recent activity
			// raise the probability, staleness lowers it.
			prob = 30 + float64(frequency)*5 - float64(daysSinceLast)*0.5
			if prob < 5 {
				prob = 5
			}
			if prob > 70 {
				prob = 70
			}
		}

		action := ActionBuildAwareness
		switch {
		case prob > 60:
			action = ActionHighPriorityOffer
		case prob > 30:
			action = ActionStandardMarketing
		}

		preds = append(preds, Prediction{
			Category:          cat,
			BuyProbability:    math.Round(prob*10) / 10,
			RiskScore:         risk,
			EstimatedValue:    math.Round(avgOrderValue * prob / 100),
			RecommendedAction: action,
		})
	}
	sortPredictions(preds)
	return preds
}

// lastCategoryPurchase returns the most recent dated purchase in category.
// Undated purchases carry no recency signal and are skipped.
func lastCategoryPurchase(purchases []Purchase, category string) (time.Time, bool) {
	var last time.Time
	for _, p := range purchases {
		if p.Category == category && !p.Date.IsZero() && p.Date.After(last) {
			last = p.Date
		}
	}
	return last, !last.IsZero()
}

func wholeDays(now, then time.Time) int {
	d := int(now.Sub(then).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// sortPredictions orders descending by buy probability; the stable sort keeps
// tied categories in enumeration order.
func sortPredictions(preds []Prediction) {
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].BuyProbability > preds[j].BuyProbability
	})
}
