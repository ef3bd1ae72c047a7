package engine

import (
	"sort"
	"time"
)

// TopCustomers groups the batch by customer name, accumulates visit counts,
// spend totals and the most recent visit, and returns the top limit entries
// by visit count. The stable sort keeps tied customers in first-seen order.
// Transactions without a customer name are skipped.
func (e *Engine) TopCustomers(txs []Purchase, limit int) []CustomerRank {
	index := make(map[string]int)
	ranks := make([]CustomerRank, 0)
	for _, tx := range txs {
		if tx.CustomerName == "" {
			continue
		}
		i, ok := index[tx.CustomerName]
		if !ok {
			i = len(ranks)
			index[tx.CustomerName] = i
			ranks = append(ranks, CustomerRank{Name: tx.CustomerName})
		}
		ranks[i].Visits++
		ranks[i].TotalSpent += tx.Amount
		if !tx.Date.IsZero() && tx.Date.After(ranks[i].LastVisit) {
			ranks[i].LastVisit = tx.Date
		}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Visits > ranks[j].Visits
	})
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// RecentActivity projects the most recent limit transactions that carry both
// a customer name and a timestamp, newest first. An unset payment method
// defaults to "Unknown".
func (e *Engine) RecentActivity(txs []Purchase, limit int) []ActivityRecord {
	dated := make([]Purchase, 0, len(txs))
	for _, tx := range txs {
		if tx.CustomerName != "" && !tx.Date.IsZero() {
			dated = append(dated, tx)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.After(dated[j].Date)
	})
	if limit > 0 && len(dated) > limit {
		dated = dated[:limit]
	}

	records := make([]ActivityRecord, len(dated))
	for i, tx := range dated {
		method := tx.PaymentMethod
		if method == "" {
			method = "Unknown"
		}
		records[i] = ActivityRecord{
			Customer:      tx.CustomerName,
			Product:       tx.Product,
			Amount:        tx.Amount,
			Timestamp:     tx.Date,
			PaymentMethod: method,
		}
	}
	return records
}

// OverviewStats derives the batch-level KPIs: distinct customer count,
// revenue booked on the current calendar day, and the busiest hour across an
// unbounded 24-hour window (coarser than the operating-window bucketing).
func (e *Engine) OverviewStats(txs []Purchase) Overview {
	now := e.now()
	names := make(map[string]bool)
	var todayRevenue float64

	var perHour [24]map[string]bool
	for _, tx := range txs {
		if tx.CustomerName != "" {
			names[tx.CustomerName] = true
		}
		if tx.Date.IsZero() {
			continue
		}
		if sameDay(tx.Date, now) {
			todayRevenue += tx.Amount
		}
		if tx.CustomerName != "" {
			h := tx.Date.Hour()
			if perHour[h] == nil {
				perHour[h] = make(map[string]bool)
			}
			perHour[h][tx.CustomerName] = true
		}
	}

	peak := NoData
	peakCount := 0
	for h, set := range perHour {
		if len(set) > peakCount {
			peakCount = len(set)
			peak = hourLabel(h)
		}
	}

	return Overview{
		Customers:     len(names),
		TodayRevenue:  todayRevenue,
		PeakHour:      peak,
		PeakCustomers: peakCount,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
