package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jiaming2012/trainer-otel/src/telemetry"
	"github.com/jiaming2012/trainer-otel/src/trainer"
)

type trainRequestDTO struct {
	TrainerFunc string `json:"trainer_func"`
	ModelName   string `json:"model_name"`
}

type trainResponseDTO struct {
	JobID  string            `json:"job_id"`
	PodEnv map[string]string `json:"pod_env"`
}

type trainHandler struct {
	client *trainer.Client
}

// ServeHTTP submits a training job on behalf of a remote caller. The
// otelhttp middleware has already extracted any incoming traceparent into
// the request context, so the submit span joins the caller's trace.
func (h *trainHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var dto trainRequestDTO
	if err := json.NewDecoder(req.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.client.Train(req.Context(), trainer.TrainRequest{
		TrainerFunc: dto.TrainerFunc,
		ModelName:   dto.ModelName,
	})

	if err != nil {
		log.WithContext(req.Context()).Errorf("failed to submit job: %v", err)
		http.Error(w, "failed to submit job", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(trainResponseDTO{
		JobID:  result.JobID,
		PodEnv: result.PodEnv,
	}); err != nil {
		log.WithContext(req.Context()).Errorf("failed to encode response: %v", err)
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := telemetry.ConfigFromEnv("trainer-api")

	otelShutdown, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to set up telemetry: %v", err)
	}

	router := mux.NewRouter()
	router.Handle("/train", otelhttp.WithRouteTag("/train", &trainHandler{client: trainer.NewClient()})).Methods(http.MethodPost)

	srv := &http.Server{
		Handler: otelhttp.NewHandler(router, "/"),
		Addr:    fmt.Sprintf(":%s", port),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		log.Infof("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shutdown server: %v", err)
	}

	if err := otelShutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shutdown telemetry: %v", err)
	}
}
