package api

import (
	"net/http"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/engine"
)

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "customerID")
	if !ok {
		jsonErr(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	preds, err := s.engine.ScorePredictions(r.Context(), id)
	if err != nil {
		s.logger.Error("score predictions", "customer_id", id, "error", err)
		jsonErr(w, "failed to generate predictions", http.StatusInternalServerError)
		return
	}
	if preds == nil {
		preds = []engine.Prediction{}
	}
	jsonOK(w, map[string]any{"predictions": preds})
}

func (s *Server) handlePeakTimes(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListPurchases(r.Context())
	if err != nil {
		s.logger.Error("list purchases", "error", err)
		jsonErr(w, "failed to analyze peak times", http.StatusInternalServerError)
		return
	}
	res := s.engine.AggregatePeakTimes(txs)
	jsonOK(w, map[string]any{
		"hourlyData": res.Buckets,
		"weekday":    res.Weekday,
		"weekend":    res.Weekend,
		"insights":   res.Insights,
	})
}

func (s *Server) handleTopCustomers(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListPurchases(r.Context())
	if err != nil {
		s.logger.Error("list purchases", "error", err)
		jsonErr(w, "failed to rank customers", http.StatusInternalServerError)
		return
	}
	ranks := s.engine.TopCustomers(txs, queryLimit(r, 10))
	if ranks == nil {
		ranks = []engine.CustomerRank{}
	}
	jsonOK(w, map[string]any{"topCustomers": ranks})
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListPurchases(r.Context())
	if err != nil {
		s.logger.Error("list purchases", "error", err)
		jsonErr(w, "failed to load recent activity", http.StatusInternalServerError)
		return
	}
	activity := s.engine.RecentActivity(txs, queryLimit(r, 20))
	if activity == nil {
		activity = []engine.ActivityRecord{}
	}
	jsonOK(w, map[string]any{"recentActivity": activity})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListPurchases(r.Context())
	if err != nil {
		s.logger.Error("list purchases", "error", err)
		jsonErr(w, "failed to compute overview", http.StatusInternalServerError)
		return
	}
	jsonOK(w, map[string]any{"overview": s.engine.OverviewStats(txs)})
}
