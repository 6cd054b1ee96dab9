package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	logf "github.com/sdcio/logger"

	"github.com/sdcio/fea-server/pkg/config"
	"github.com/sdcio/fea-server/pkg/datastore/ops"
	"github.com/sdcio/fea-server/pkg/tree"
)

const (
	ViewDeclared = "declared"
	ViewLive     = "live"
	ViewSystem   = "system"
	ViewOriginal = "original"

	maxBodySize = 1 << 20
)

var views = []string{ViewDeclared, ViewLive, ViewSystem, ViewOriginal}

// ApplyResponse is returned by a successful apply.
type ApplyResponse struct {
	Interfaces int `json:"interfaces"`
}

func (s *Server) registerRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/interfaces", s.getInterfaces).Methods(http.MethodGet)
	api.HandleFunc("/interfaces/{view}", s.getInterfaces).Methods(http.MethodGet)
	api.HandleFunc("/interfaces", s.applyInterfaces).Methods(http.MethodPost)
	api.HandleFunc("/plugins", s.getPlugins).Methods(http.MethodGet)
}

// getInterfaces renders one of the trees as interface records. The
// declared tree is the default view.
func (s *Server) getInterfaces(w http.ResponseWriter, r *http.Request) {
	view := mux.Vars(r)["view"]
	if view == "" {
		view = ViewDeclared
	}
	var t *tree.IfTree
	switch view {
	case ViewDeclared:
		t = s.ds.DeclaredConfig()
	case ViewLive:
		t = s.ds.LiveConfig()
	case ViewSystem:
		t = s.ds.SystemConfig()
	case ViewOriginal:
		t = s.ds.OriginalConfig()
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown view %q, expected one of %v", view, views), "")
		return
	}
	writeJSON(w, http.StatusOK, ops.ToInterfaceConfig(t))
}

// applyInterfaces commits the YAML or JSON interface records of the body.
func (s *Server) applyInterfaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	records, err := config.ParseInterfaces(b)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	if err := s.ds.ApplyInterfaces(ctx, records); err != nil {
		logf.FromContext(ctx).Info("apply failed", "error", err)
		writeError(w, httpStatus(err), err, s.ds.TransactionError())
		return
	}
	writeJSON(w, http.StatusOK, ApplyResponse{Interfaces: len(records)})
}

func (s *Server) getPlugins(w http.ResponseWriter, _ *http.Request) {
	result := map[string]string{}
	for name, st := range s.ds.PluginStatus() {
		result[name] = st.String()
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
