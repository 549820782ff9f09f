package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlekbai/timesheet/internal/handler"
	"github.com/atlekbai/timesheet/internal/invoice"
	"github.com/atlekbai/timesheet/internal/middleware"
	"github.com/atlekbai/timesheet/internal/model"
	"github.com/atlekbai/timesheet/internal/repository"
	"github.com/atlekbai/timesheet/internal/server"
	"github.com/atlekbai/timesheet/internal/service"
	"github.com/atlekbai/timesheet/internal/status"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			cfg.Server.Port = servePort
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides server.port)")
}

func serve(ctx context.Context) error {
	conn, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	statuses := status.NewCache()
	if err := statuses.Load(ctx, repository.New[model.Status](conn, log)); err != nil {
		return err
	}
	log.Info("status cache loaded", zap.Int("statuses", statuses.Len()))

	invoices := invoice.NewService(conn, log)
	documents := handler.New(invoices, cfg.PDF.CacheSize, cfg.PDF.CacheTTL, log)

	services := []server.ConnectService{
		service.NewClientService(conn, documents, log),
		service.NewProjectService(conn, documents, log),
		service.NewTimesheetService(conn, documents, log),
		service.NewInvoiceService(conn, invoices, documents, log),
		service.NewStatusService(statuses),
	}

	httpMux := http.NewServeMux()
	server.Mount(httpMux, server.Interceptors(log), services...)

	router := mux.NewRouter()
	documents.Register(router)
	httpMux.Handle("/invoices/", router)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: middleware.Chain(httpMux,
			middleware.Recovery(log),
			middleware.RequestID,
			middleware.Logging(log),
		),
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.Addr()), zap.String("database", cfg.Database.Path))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
