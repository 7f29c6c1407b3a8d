package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpc_adapter "github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/in/grpc"
	http_adapter "github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/in/http"
	memory_adapter "github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/out/memory"
	sqlite_adapter "github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/out/sqlite"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-savings-ledger/internal/config"
	"github.com/JoeShih716/go-savings-ledger/pkg/journal"
	"github.com/JoeShih716/go-savings-ledger/pkg/sqldb"
	pb "github.com/JoeShih716/go-savings-ledger/proto"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 稽核日誌 (可選)
	var journalFile *journal.Journal
	if cfg.Ledger.Journal != "" {
		var opts []journal.Option
		if cfg.Ledger.JournalTruncate {
			opts = append(opts, journal.WithTruncate())
		}
		j, err := journal.Open(cfg.Ledger.Journal, opts...)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		journalFile = j
		logger.Info("journal opened", "path", cfg.Ledger.Journal, "run", j.Run())
	}

	// 3. 選擇帳本引擎
	ledger, cleanup, err := newLedger(ctx, cfg, journalFile)
	if err != nil {
		return err
	}
	defer cleanup()
	logger.Info("ledger engine ready", "engine", cfg.Ledger.Engine)

	// 4. UseCase
	core := usecase.NewCoreUseCase(ledger)

	errCh := make(chan error, 2)

	// 5. gRPC Server
	var grpcServer *grpc.Server
	if cfg.GRPC.Addr != "" {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			return fmt.Errorf("grpc listen %s: %w", cfg.GRPC.Addr, err)
		}
		grpcServer = newGRPCServer(core, logger)

		go func() {
			logger.Info("starting gRPC server", "addr", cfg.GRPC.Addr)
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc serve: %w", err)
			}
		}()
	}

	// 6. HTTP Server
	var httpServer *http.Server
	if cfg.HTTP.Addr != "" {
		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		httpServer = &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           http_adapter.NewHandler(core).Router(logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting HTTP server", "addr", cfg.HTTP.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http serve: %w", err)
			}
		}()
	}

	// Graceful Shutdown
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "error", err)
		}
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	return serveErr
}

// newGRPCServer 註冊帳本服務與 grpc.health.v1
// 帳本服務沒有 protobuf 描述檔，不註冊 reflection
func newGRPCServer(core *usecase.CoreUseCase, logger *slog.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor(logger)))
	pb.RegisterLedgerServiceServer(s, grpc_adapter.NewGrpcServer(core))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(pb.LedgerService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)
	return s
}

// newLedger 依設定建立帳本實作，cleanup 在伺服器停止後呼叫
func newLedger(ctx context.Context, cfg *config.Config, j *journal.Journal) (usecase.Ledger, func(), error) {
	switch cfg.Ledger.Engine {
	case config.EngineMutex:
		var opts []memory_adapter.Option
		if j != nil {
			opts = append(opts, memory_adapter.WithJournal(j))
		}
		return memory_adapter.NewMutexLedger(opts...), func() {}, nil

	case config.EngineSequencer:
		var opts []memory_adapter.Option
		if j != nil {
			opts = append(opts, memory_adapter.WithJournal(j))
		}
		// 核心迴圈不跟隨訊號 ctx，於 server 停止後由 cleanup 結束
		loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		seq := memory_adapter.NewSequencerLedger(cfg.Ledger.BufferSize, opts...)
		seq.Start(loopCtx)
		return seq, func() {
			cancel()
			<-seq.Done()
		}, nil

	case config.EngineSQLite:
		client, err := sqldb.NewClient(cfg.SQL)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		var opts []sqlite_adapter.Option
		if j != nil {
			opts = append(opts, sqlite_adapter.WithJournal(j))
		}
		ledger, err := sqlite_adapter.NewSQLiteLedger(client, opts...)
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("init sqlite ledger: %w", err)
		}
		return ledger, func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown ledger engine %q", cfg.Ledger.Engine)
}
