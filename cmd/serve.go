package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yatradesk/tourdata/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for catalog lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/api/places", handleKind(env, model.KindPlace))
		r.Post("/api/festivals", handleKind(env, model.KindFestival))
		r.Post("/api/place-detail", handleKind(env, model.KindPlaceDetail))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// handleKind serves one entity kind. An omitted state falls back to the
// configured default; place detail additionally requires a place name.
func handleKind(e *env, kind model.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			State string `json:"state"`
			Place string `json:"place"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		state := strings.TrimSpace(body.State)
		if state == "" {
			// The festival calendar is meaningless without a state; the other
			// endpoints fall back to the configured default.
			if kind == model.KindFestival {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "state is required"})
				return
			}
			state = cfg.Pipeline.DefaultState
		}

		var subject model.Subject
		if kind == model.KindPlaceDetail {
			place := strings.TrimSpace(body.Place)
			if place == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "place is required"})
				return
			}
			subject = model.PlaceSubject(state, place)
		} else {
			subject = model.StateSubject(state)
		}

		result, err := e.Pipeline.Run(req.Context(), kind, subject)
		if err != nil {
			zap.L().Error("request failed",
				zap.String("kind", string(kind)),
				zap.String("subject", subject.String()),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
