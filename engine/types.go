// Package engine computes purchase predictions and peak-time analytics over
// an in-memory snapshot of customer and purchase records.
//
// All computations are pure derivations of the snapshot handed to them: the
// engine never writes to the record store, keeps no state between calls, and
// recomputes deterministically for a fixed snapshot. The only randomness is
// the cold-start base probability, drawn from an injectable seedable source.
package engine

import "time"

// Customer is a registered customer as read from the record store.
type Customer struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Location string    `json:"location"`
	JoinDate time.Time `json:"joinDate"`
}

// Purchase is a single recorded transaction. A zero Date means the record
// carries no usable timestamp; an empty CustomerName means the owning
// customer could not be resolved. Both are tolerated: such records degrade
// locally (excluded from recency and bucketing) rather than failing a
// computation.
type Purchase struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	Category      string    `json:"category"`
	Product       string    `json:"product"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	Date          time.Time `json:"date"`
}

// Prediction is the per-category scoring output. One Prediction per category
// in the fixed enumeration, re-derived on every call and never persisted.
type Prediction struct {
	Category          string  `json:"category"`
	BuyProbability    float64 `json:"buyProbability"` // 0–100, one decimal
	RiskScore         int     `json:"riskScore"`      // 0–100
	EstimatedValue    float64 `json:"estimatedValue"` // currency units, whole
	RecommendedAction string  `json:"recommendedAction"`
}

// Recommended actions, keyed off buy probability.
const (
	ActionInitialContact    = "Initial Contact"
	ActionHighPriorityOffer = "High Priority Offer"
	ActionStandardMarketing = "Standard Marketing"
	ActionBuildAwareness    = "Build Awareness"
)

// Categories is the fixed product category enumeration. Scoring always emits
// exactly one Prediction per entry, in this order for probability ties.
var Categories = []string{
	"TV", "Refrigerator", "Washing Machine", "AC", "Microwave",
	"Laptop", "Mobile", "Camera", "Speaker", "Headphones",
}

// replacementCycleDays returns the assumed number of days before a customer
// replaces a product in the given category. Large appliances turn over
// slowest, personal electronics fastest, everything else sits in between.
func replacementCycleDays(category string) float64 {
	switch category {
	case "TV", "Refrigerator":
		return 1825
	case "Laptop", "Mobile":
		return 730
	default:
		return 1095
	}
}

// HourlyBucket aggregates one operating-hour slot across the whole batch.
// Customers counts distinct customer names (repeat purchases by the same
// customer within the hour count once); Revenue is a raw, non-deduplicated
// sum.
type HourlyBucket struct {
	Hour      int      `json:"hour"`
	Label     string   `json:"label"`
	Customers int      `json:"customers"`
	Revenue   float64  `json:"revenue"`
	Names     []string `json:"names"`
}

// NoData is the sentinel insight value reported when a metric has no
// qualifying observations.
const NoData = "--"

// Insights are the human-readable derivations over the hourly buckets.
type Insights struct {
	PeakHour     string `json:"peakHour"`
	QuietPeriod  string `json:"quietPeriod"`
	WeekendTrend string `json:"weekendTrend"`
}

// PeakTimeResult is the full peak-time aggregation output. Weekday and
// Weekend run parallel to Buckets and hold raw (non-distinct) occurrence
// counts split by day of week.
type PeakTimeResult struct {
	Buckets  []HourlyBucket `json:"buckets"`
	Weekday  []int          `json:"weekday"`
	Weekend  []int          `json:"weekend"`
	Insights Insights       `json:"insights"`
}

// CustomerRank is one row of the top-customers view.
type CustomerRank struct {
	Name       string    `json:"name"`
	Visits     int       `json:"visits"`
	TotalSpent float64   `json:"totalSpent"`
	LastVisit  time.Time `json:"lastVisit"`
}

// ActivityRecord is one row of the recent-activity view.
type ActivityRecord struct {
	Customer      string    `json:"customer"`
	Product       string    `json:"product"`
	Amount        float64   `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
	PaymentMethod string    `json:"paymentMethod"`
}

// Overview holds the batch-level KPIs for the dashboard header.
type Overview struct {
	Customers     int     `json:"customers"`
	TodayRevenue  float64 `json:"todayRevenue"`
	PeakHour      string  `json:"peakHour"`
	PeakCustomers int     `json:"peakCustomers"`
}
