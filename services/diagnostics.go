package services

import (
	"context"
	"os"

	"go.uber.org/zap"

	"food-delivery-backend/store"
)

const maxReportedCollections = 10

// Report describes the backend and its database connection.
type Report struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	DatabaseBackend  string   `json:"database_backend"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Diagnostics reports on the health of the persistence layer.
type Diagnostics struct {
	gw     store.Gateway
	log    *zap.Logger
	lookup func(string) (string, bool)
}

// NewDiagnostics creates a Diagnostics service reading the process
// environment.
func NewDiagnostics(gw store.Gateway, log *zap.Logger) *Diagnostics {
	return &Diagnostics{gw: gw, log: log, lookup: os.LookupEnv}
}

// Report never fails: problems are described in the returned report.
func (d *Diagnostics) Report(ctx context.Context) Report {
	r := Report{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if d.gw != nil {
		r.DatabaseBackend = d.gw.Name()
		if err := d.gw.Ping(ctx); err != nil {
			d.log.Warn("Database ping failed", zap.Error(err))
			r.Database = "❌ Error: " + clip(err.Error())
		} else {
			r.Database = "✅ Available"
			r.ConnectionStatus = "Connected"
			names, err := d.gw.Collections(ctx)
			if err != nil {
				d.log.Warn("Listing collections failed", zap.Error(err))
				r.Database = "⚠️  Connected but Error: " + clip(err.Error())
			} else {
				if len(names) > maxReportedCollections {
					names = names[:maxReportedCollections]
				}
				r.Collections = names
				r.Database = "✅ Connected & Working"
			}
		}
	}

	r.DatabaseURL = d.envStatus("DATABASE_URL")
	r.DatabaseName = d.envStatus("DATABASE_NAME")
	return r
}

func (d *Diagnostics) envStatus(key string) string {
	if v, ok := d.lookup(key); ok && v != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

// clip shortens an error message to 50 runes.
func clip(s string) string {
	r := []rune(s)
	if len(r) > 50 {
		return string(r[:50])
	}
	return s
}
