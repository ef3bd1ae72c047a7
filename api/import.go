package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/events"
	"github.com/PrinceAsodariya05/Customer-Behavior-Analysis-And-Predictive-Analysis/importer"
)

func (s *Server) handleImportExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonErr(w, "uploaded file is too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonErr(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		jsonErr(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := importer.ReadWorkbook(file)
	if err != nil {
		jsonErr(w, "could not read workbook: "+err.Error(), http.StatusBadRequest)
		return
	}

	report := importer.ImportRows(r.Context(), s.store, rows)
	s.events.Log(r.Context(), events.Event{
		Type: "import", EntityType: "import", Action: "excel",
		Details: fmt.Sprintf(`{"imported":%d,"errors":%d}`, report.Imported, len(report.Errors)),
		Success: true,
	})
	jsonOK(w, map[string]any{
		"message":  fmt.Sprintf("Successfully imported %d customer(s)", report.Imported),
		"imported": report.Imported,
		"errors":   report.Errors,
	})
}

func (s *Server) handleImportDatabase(w http.ResponseWriter, r *http.Request) {
	var src importer.MySQLSource
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rows, err := importer.FetchMySQLRows(r.Context(), src)
	if err != nil {
		s.logger.Error("database import", "error", err)
		jsonErr(w, "could not import from database: "+err.Error(), http.StatusBadGateway)
		return
	}

	report := importer.ImportRows(r.Context(), s.store, rows)
	s.events.Log(r.Context(), events.Event{
		Type: "import", EntityType: "import", Action: "database",
		Details: fmt.Sprintf(`{"imported":%d,"errors":%d}`, report.Imported, len(report.Errors)),
		Success: true,
	})
	jsonOK(w, map[string]any{
		"message":  fmt.Sprintf("Successfully imported %d customer(s)", report.Imported),
		"imported": report.Imported,
		"errors":   report.Errors,
	})
}

func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var src importer.MySQLSource
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		jsonErr(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := importer.TestMySQL(r.Context(), src); err != nil {
		jsonErr(w, "connection failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	jsonOK(w, map[string]any{"message": "Connection successful"})
}

func (s *Server) handleSampleFormat(w http.ResponseWriter, _ *http.Request) {
	data, err := importer.SampleWorkbook()
	if err != nil {
		s.logger.Error("sample workbook", "error", err)
		jsonErr(w, "failed to generate sample file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_customers.xlsx"`)
	w.Write(data)
}
