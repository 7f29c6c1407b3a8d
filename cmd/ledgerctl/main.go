// ledgerctl 是帳本 gRPC 服務的命令列客戶端。
//
//	ledgerctl [-addr host:port] <command> [flags]
//
//	add-customer -name NAME
//	customers
//	customer     -id ID
//	deposit      -id ID -amount 50.00 [-ref UUID]
//	withdraw     -id ID -amount 20.00 [-ref UUID]
//	history      -id ID
//	bench        -id ID -amount 1.00 -n 100000 -c 100
//	audit        -file journal.log [-run UUID]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	grpcpool "github.com/JoeShih716/go-savings-ledger/pkg/grpc"
	"github.com/JoeShih716/go-savings-ledger/pkg/journal"
	pb "github.com/JoeShih716/go-savings-ledger/proto"
)

var errUsage = errors.New("usage: ledgerctl [-addr host:port] <add-customer|customers|customer|deposit|withdraw|history|bench|audit> [flags]")

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		logger.Error("ledgerctl failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("ledgerctl", flag.ContinueOnError)
	addr := global.String("addr", "localhost:50051", "ledger gRPC address")
	timeout := global.Duration("timeout", 10*time.Second, "per-command timeout (bench uses it per request)")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		return errUsage
	}

	cmd, cmdArgs := global.Arg(0), global.Args()[1:]
	if cmd == "audit" {
		return audit(cmdArgs, out)
	}

	pool := grpcpool.NewPool(grpcpool.WithCallOptions(grpc.CallContentSubtype(pb.CodecName)))
	defer pool.Close()
	conn, err := pool.GetConnection(*addr)
	if err != nil {
		return err
	}
	c := pb.NewLedgerServiceClient(conn)

	if cmd == "bench" {
		return bench(ctx, c, cmdArgs, *timeout, out)
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	switch cmd {
	case "add-customer":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		name := fs.String("name", "", "customer name")
		if err := fs.Parse(cmdArgs); err != nil {
			return err
		}
		resp, err := c.AddCustomer(ctx, &pb.AddCustomerRequest{Name: *name})
		if err != nil {
			return err
		}
		return printJSON(out, resp.Customer)

	case "customers":
		resp, err := c.ListCustomers(ctx, &pb.ListCustomersRequest{})
		if err != nil {
			return err
		}
		return printJSON(out, resp.Customers)

	case "customer":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		id := fs.Int64("id", 0, "customer id")
		if err := fs.Parse(cmdArgs); err != nil {
			return err
		}
		resp, err := c.GetCustomer(ctx, &pb.GetCustomerRequest{CustomerId: *id})
		if err != nil {
			return err
		}
		return printJSON(out, resp.Customer)

	case "deposit", "withdraw":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		id := fs.Int64("id", 0, "customer id")
		amount := fs.String("amount", "", "amount, e.g. 50.00")
		ref := fs.String("ref", "", "idempotency reference (UUID)")
		if err := fs.Parse(cmdArgs); err != nil {
			return err
		}
		req := &pb.PostRequest{CustomerId: *id, Amount: *amount, RefId: *ref}
		var resp *pb.PostResponse
		if cmd == "deposit" {
			resp, err = c.Deposit(ctx, req)
		} else {
			resp, err = c.Withdraw(ctx, req)
		}
		if err != nil {
			return err
		}
		return printJSON(out, resp.Transaction)

	case "history":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		id := fs.Int64("id", 0, "customer id")
		if err := fs.Parse(cmdArgs); err != nil {
			return err
		}
		resp, err := c.ListTransactions(ctx, &pb.ListTransactionsRequest{CustomerId: *id})
		if err != nil {
			return err
		}
		return printJSON(out, resp.Transactions)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

// bench 以固定併發量送出存款請求並輸出 TPS
func bench(ctx context.Context, c pb.LedgerServiceClient, args []string, timeout time.Duration, out io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	id := fs.Int64("id", 1, "customer id")
	amount := fs.String("amount", "1.00", "amount per deposit")
	total := fs.Int("n", 10000, "total requests")
	concurrency := fs.Int("c", 100, "concurrent requests")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *total <= 0 || *concurrency <= 0 {
		return errors.New("bench: -n and -c must be positive")
	}

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
		sem    = make(chan struct{}, *concurrency)
	)
	start := time.Now()
	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			reqCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			_, err := c.Deposit(reqCtx, &pb.PostRequest{
				RefId:      uuid.NewString(),
				CustomerId: *id,
				Amount:     *amount,
			})
			if err != nil {
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Fprintf(out, "Completed %d requests in %v (%d failed)\n", *total, elapsed, failed.Load())
	fmt.Fprintf(out, "TPS: %.2f\n", float64(*total)/elapsed.Seconds())
	return nil
}

// audit 讀取本機稽核日誌，輸出交易紀錄 (可只看某次啟動)
func audit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	path := fs.String("file", "journal.log", "journal file")
	runFlag := fs.String("run", "", "only show records of this run id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var runID uuid.UUID
	if *runFlag != "" {
		parsed, err := uuid.Parse(*runFlag)
		if err != nil {
			return fmt.Errorf("invalid -run: %w", err)
		}
		runID = parsed
	}

	enc := json.NewEncoder(out)
	return journal.ReadFile(*path, func(e journal.Entry) error {
		if runID != uuid.Nil && e.Run != runID {
			return nil
		}
		return enc.Encode(&e)
	})
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
