package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/engine"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/events"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/store"
)

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.ListCustomers(r.Context())
	if err != nil {
		s.logger.Error("list customers", "error", err)
		jsonErr(w, "failed to get customers", http.StatusInternalServerError)
		return
	}
	jsonOK(w, map[string]any{"customers": customers})
}

func (s *Server) handleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		jsonErr(w, "name and email are required", http.StatusBadRequest)
		return
	}

	c := engine.Customer{Name: req.Name, Email: req.Email, Phone: req.Phone, Location: req.Location}
	if err := s.store.AddCustomer(r.Context(), &c); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			jsonErr(w, "customer with this email already exists", http.StatusBadRequest)
			return
		}
		s.logger.Error("add customer", "error", err)
		jsonErr(w, "failed to add customer", http.StatusInternalServerError)
		return
	}

	s.events.Log(r.Context(), events.Event{
		Type: "customer", EntityType: "customer",
		EntityID: strconv.FormatInt(c.ID, 10), Action: "created", Success: true,
	})
	jsonOK(w, map[string]any{"customer": c})
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonErr(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	// Partial update: only fields present in the body are changed.
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Location *string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := s.store.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			jsonErr(w, "customer not found", http.StatusNotFound)
			return
		}
		s.logger.Error("get customer", "error", err)
		jsonErr(w, "failed to update customer", http.StatusInternalServerError)
		return
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Location != nil {
		c.Location = *req.Location
	}

	if err := s.store.UpdateCustomer(r.Context(), c); err != nil {
		switch {
		case errors.Is(err, engine.ErrNotFound):
			jsonErr(w, "customer not found", http.StatusNotFound)
		case errors.Is(err, store.ErrDuplicateEmail):
			jsonErr(w, "customer with this email already exists", http.StatusBadRequest)
		default:
			s.logger.Error("update customer", "error", err)
			jsonErr(w, "failed to update customer", http.StatusInternalServerError)
		}
		return
	}
	jsonOK(w, map[string]any{"customer": c})
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonErr(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	if err := s.store.DeleteCustomer(r.Context(), id); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			jsonErr(w, "customer not found", http.StatusNotFound)
			return
		}
		s.logger.Error("delete customer", "error", err)
		jsonErr(w, "failed to delete customer", http.StatusInternalServerError)
		return
	}
	s.events.Log(r.Context(), events.Event{
		Type: "customer", EntityType: "customer",
		EntityID: strconv.FormatInt(id, 10), Action: "deleted", Success: true,
	})
	jsonOK(w, map[string]any{"message": "customer deleted"})
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.store.ListPurchases(r.Context())
	if err != nil {
		s.logger.Error("list purchases", "error", err)
		jsonErr(w, "failed to get purchases", http.StatusInternalServerError)
		return
	}
	jsonOK(w, map[string]any{"purchases": purchases})
}

func (s *Server) handleAddPurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID    int64   `json:"customerId"`
		Category      string  `json:"category"`
		Product       string  `json:"product"`
		Amount        float64 `json:"amount"`
		PaymentMethod string  `json:"paymentMethod"`
		Date          string  `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CustomerID <= 0 || strings.TrimSpace(req.Category) == "" {
		jsonErr(w, "customer id and category are required", http.StatusBadRequest)
		return
	}
	if req.Amount < 0 {
		jsonErr(w, "amount must not be negative", http.StatusBadRequest)
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := parsePurchaseDate(req.Date)
		if err != nil {
			jsonErr(w, "invalid date", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	p := engine.Purchase{
		CustomerID:    req.CustomerID,
		Category:      req.Category,
		Product:       req.Product,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Date:          date,
	}
	if err := s.store.AddPurchase(r.Context(), &p); err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			jsonErr(w, "customer not found", http.StatusNotFound)
			return
		}
		s.logger.Error("add purchase", "error", err)
		jsonErr(w, "failed to record purchase", http.StatusInternalServerError)
		return
	}

	s.events.Log(r.Context(), events.Event{
		Type: "purchase", EntityType: "purchase",
		EntityID: strconv.FormatInt(p.ID, 10), Action: "recorded", Success: true,
	})
	jsonOK(w, map[string]any{"purchase": p})
}

// parsePurchaseDate accepts a bare date or an RFC 3339 timestamp.
func parsePurchaseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
