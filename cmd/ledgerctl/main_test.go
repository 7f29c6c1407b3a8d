package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/grpc"

	grpc_adapter "github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/in/grpc"
	memory_adapter "github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-savings-ledger/pkg/journal"
	pb "github.com/JoeShih716/go-savings-ledger/proto"
)

func startServer(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.LoggingInterceptor(logger)))
	pb.RegisterLedgerServiceServer(s, grpc_adapter.NewGrpcServer(usecase.NewCoreUseCase(memory_adapter.NewMutexLedger())))
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)
	return lis.Addr().String()
}

func runCmd(t *testing.T, addr string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(context.Background(), append([]string{"-addr", addr}, args...), &out); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out.String()
}

func TestLedgerctlCommands(t *testing.T) {
	addr := startServer(t)

	var customer pb.Customer
	if err := json.Unmarshal([]byte(runCmd(t, addr, "add-customer", "-name", "Ama")), &customer); err != nil {
		t.Fatal(err)
	}
	if customer.Id != 1 {
		t.Fatalf("customer=%+v", customer)
	}

	runCmd(t, addr, "deposit", "-id", "1", "-amount", "50.00")
	runCmd(t, addr, "withdraw", "-id", "1", "-amount", "20.00", "-ref", "7f1c7c3e-1d1a-4a57-9b7b-3a0d8f0e2c11")

	var history []pb.Transaction
	if err := json.Unmarshal([]byte(runCmd(t, addr, "history", "-id", "1")), &history); err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].RunningBalance != "30.00" {
		t.Fatalf("history=%+v", history)
	}

	if err := json.Unmarshal([]byte(runCmd(t, addr, "customer", "-id", "1")), &customer); err != nil {
		t.Fatal(err)
	}
	if customer.CurrentBalance != "30.00" {
		t.Fatalf("balance=%s", customer.CurrentBalance)
	}
}

func TestLedgerctlBench(t *testing.T) {
	addr := startServer(t)
	runCmd(t, addr, "add-customer", "-name", "Kofi")

	out := runCmd(t, addr, "bench", "-id", "1", "-amount", "1.00", "-n", "200", "-c", "8")
	if !strings.Contains(out, "(0 failed)") || !strings.Contains(out, "TPS:") {
		t.Fatalf("bench output=%q", out)
	}

	var customer pb.Customer
	if err := json.Unmarshal([]byte(runCmd(t, addr, "customer", "-id", "1")), &customer); err != nil {
		t.Fatal(err)
	}
	if customer.CurrentBalance != "200.00" {
		t.Fatalf("balance=%s want 200.00", customer.CurrentBalance)
	}
}

func TestLedgerctlErrors(t *testing.T) {
	addr := startServer(t)
	var out bytes.Buffer

	if err := run(context.Background(), []string{"-addr", addr}, &out); err != errUsage {
		t.Fatalf("err=%v want usage", err)
	}
	if err := run(context.Background(), []string{"-addr", addr, "transfer"}, &out); err == nil {
		t.Fatal("expected unknown command error")
	}
	if err := run(context.Background(), []string{"-addr", addr, "customer", "-id", "9"}, &out); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestLedgerctlAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	runs := make([]string, 2)
	for i := range runs {
		j, err := journal.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := j.Write(map[string]int64{"id": 1}); err != nil {
			t.Fatal(err)
		}
		runs[i] = j.Run().String()
		j.Close()
	}

	var out bytes.Buffer
	if err := run(context.Background(), []string{"audit", "-file", path, "-run", runs[1]}, &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%d want open + record of one run: %s", len(lines), out.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, runs[1]) {
			t.Fatalf("line from another run: %s", line)
		}
	}
}
