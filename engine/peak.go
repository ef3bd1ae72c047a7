package engine

import (
	"fmt"
	"math"
	"time"
)

// AggregatePeakTimes buckets the batch into one HourlyBucket per operating
// hour and derives the peak-time insights. Transactions outside the operating
// window, without a customer name, or without a timestamp are silently
// excluded: store-hours analysis over resolvable records is intentional.
// An empty batch yields all-zero buckets over the full window and sentinel
// insights, never an error.
func (e *Engine) AggregatePeakTimes(txs []Purchase) PeakTimeResult {
	w := e.window
	slots := w.Slots()

	buckets := make([]HourlyBucket, slots)
	seen := make([]map[string]bool, slots)
	for i := range buckets {
		hour := w.Open + i
		buckets[i] = HourlyBucket{Hour: hour, Label: hourLabel(hour), Names: []string{}}
		seen[i] = make(map[string]bool)
	}
	weekday := make([]int, slots)
	weekend := make([]int, slots)

	for _, tx := range txs {
		if tx.CustomerName == "" || tx.Date.IsZero() {
			continue
		}
		hour := tx.Date.Hour()
		if !w.Contains(hour) {
			continue
		}
		i := hour - w.Open

		// Distinct names per bucket; revenue stays a raw sum.
		if !seen[i][tx.CustomerName] {
			seen[i][tx.CustomerName] = true
			buckets[i].Names = append(buckets[i].Names, tx.CustomerName)
			buckets[i].Customers++
		}
		buckets[i].Revenue += tx.Amount

		if isWeekend(tx.Date.Weekday()) {
			weekend[i]++
		} else {
			weekday[i]++
		}
	}

	return PeakTimeResult{
		Buckets: buckets,
		Weekday: weekday,
		Weekend: weekend,
		Insights: Insights{
			PeakHour:     peakHour(buckets),
			QuietPeriod:  quietPeriod(buckets),
			WeekendTrend: weekendTrend(weekday, weekend),
		},
	}
}

// peakHour is the bucket with the highest distinct customer count, first
// occurrence winning ties. Sentinel when no bucket saw any customer.
func peakHour(buckets []HourlyBucket) string {
	best := -1
	max := 0
	for i, b := range buckets {
		if b.Customers > max {
			max = b.Customers
			best = i
		}
	}
	if best < 0 {
		return NoData
	}
	return buckets[best].Label
}

// quietPeriod is the bucket with the lowest positive customer count. Buckets
// with zero customers are excluded: "quiet but open" differs from "no data".
func quietPeriod(buckets []HourlyBucket) string {
	best := -1
	min := 0
	for i, b := range buckets {
		if b.Customers > 0 && (best < 0 || b.Customers < min) {
			min = b.Customers
			best = i
		}
	}
	if best < 0 {
		return NoData
	}
	return buckets[best].Label
}

// weekendTrend compares total weekend traffic to total weekday traffic as a
// ratio. Either side being empty reports the sentinel rather than dividing
// by zero.
func weekendTrend(weekday, weekend []int) string {
	var wd, we int
	for i := range weekday {
		wd += weekday[i]
		we += weekend[i]
	}
	if wd == 0 || we == 0 {
		return NoData
	}
	ratio := float64(we) / float64(wd)
	switch {
	case ratio > 1.2:
		return fmt.Sprintf("%d%% higher on weekends", int(math.Round((ratio-1)*100)))
	case ratio < 0.8:
		return fmt.Sprintf("%d%% lower on weekends", int(math.Round((1-ratio)*100)))
	default:
		return "Similar traffic on weekends and weekdays"
	}
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// hourLabel renders an hour of day as a 12-hour clock label ("9 AM", "12 PM").
func hourLabel(hour int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d %s", display, period)
}
