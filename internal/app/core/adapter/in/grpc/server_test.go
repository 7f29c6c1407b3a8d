package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-savings-ledger/proto"
)

// newTestClient 以 bufconn 啟動完整的 gRPC server，不佔用實體 port
func newTestClient(t *testing.T) pb.LedgerServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	core := usecase.NewCoreUseCase(memory.NewMutexLedger())

	s := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	pb.RegisterLedgerServiceServer(s, NewGrpcServer(core))
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient err=%v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return pb.NewLedgerServiceClient(conn)
}

func wantCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if got := status.Code(err); got != want {
		t.Fatalf("code=%s want=%s (err=%v)", got, want, err)
	}
}

func TestGrpcLedgerFlow(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	added, err := c.AddCustomer(ctx, &pb.AddCustomerRequest{Name: "Ama"})
	if err != nil {
		t.Fatal(err)
	}
	if added.Customer.Id != 1 || added.Customer.CurrentBalance != "0.00" {
		t.Fatalf("customer=%+v", added.Customer)
	}

	dep, err := c.Deposit(ctx, &pb.PostRequest{CustomerId: 1, Amount: "50.0"})
	if err != nil {
		t.Fatal(err)
	}
	if dep.Transaction.Id != 1 || dep.Transaction.RunningBalance != "50.00" || !dep.Transaction.IsDeposit {
		t.Fatalf("deposit=%+v", dep.Transaction)
	}

	wd, err := c.Withdraw(ctx, &pb.PostRequest{CustomerId: 1, Amount: "20"})
	if err != nil {
		t.Fatal(err)
	}
	if wd.Transaction.Id != 2 || wd.Transaction.RunningBalance != "30.00" || wd.Transaction.IsDeposit {
		t.Fatalf("withdraw=%+v", wd.Transaction)
	}

	history, err := c.ListTransactions(ctx, &pb.ListTransactionsRequest{CustomerId: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(history.Transactions) != 2 || history.Transactions[0].Id != 2 {
		t.Fatalf("history=%+v", history.Transactions)
	}

	got, err := c.GetCustomer(ctx, &pb.GetCustomerRequest{CustomerId: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got.Customer.CurrentBalance != "30.00" {
		t.Fatalf("balance=%s want 30.00", got.Customer.CurrentBalance)
	}

	all, err := c.ListCustomers(ctx, &pb.ListCustomersRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all.Customers) != 1 || all.Customers[0].Name != "Ama" {
		t.Fatalf("customers=%+v", all.Customers)
	}
}

func TestGrpcErrorCodes(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.AddCustomer(ctx, &pb.AddCustomerRequest{Name: "  "})
	wantCode(t, err, codes.InvalidArgument)

	if _, err := c.AddCustomer(ctx, &pb.AddCustomerRequest{Name: "Ama"}); err != nil {
		t.Fatal(err)
	}

	_, err = c.Deposit(ctx, &pb.PostRequest{CustomerId: 9, Amount: "1"})
	wantCode(t, err, codes.NotFound)

	_, err = c.Deposit(ctx, &pb.PostRequest{CustomerId: 1, Amount: "-5"})
	wantCode(t, err, codes.InvalidArgument)

	_, err = c.Deposit(ctx, &pb.PostRequest{CustomerId: 1, Amount: "abc"})
	wantCode(t, err, codes.InvalidArgument)

	_, err = c.Withdraw(ctx, &pb.PostRequest{CustomerId: 1, Amount: "1000"})
	wantCode(t, err, codes.FailedPrecondition)

	_, err = c.Deposit(ctx, &pb.PostRequest{CustomerId: 1, Amount: "1", RefId: "not-a-uuid"})
	wantCode(t, err, codes.InvalidArgument)

	// 餘額溢位
	if _, err := c.Deposit(ctx, &pb.PostRequest{CustomerId: 1, Amount: "92233720368547758.07"}); err != nil {
		t.Fatal(err)
	}
	_, err = c.Deposit(ctx, &pb.PostRequest{CustomerId: 1, Amount: "1.00"})
	wantCode(t, err, codes.FailedPrecondition)
	got, err := c.GetCustomer(ctx, &pb.GetCustomerRequest{CustomerId: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got.Customer.CurrentBalance != "92233720368547758.07" {
		t.Fatalf("balance=%s after rejected overflow", got.Customer.CurrentBalance)
	}

	_, err = c.GetCustomer(ctx, &pb.GetCustomerRequest{CustomerId: 9})
	wantCode(t, err, codes.NotFound)
}

func TestGrpcAddCustomerKeepsName(t *testing.T) {
	c := newTestClient(t)
	resp, err := c.AddCustomer(context.Background(), &pb.AddCustomerRequest{Name: " Ama Owusu "})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Customer.Name != " Ama Owusu " {
		t.Fatalf("name=%q want it stored as sent", resp.Customer.Name)
	}
}

func TestGrpcDepositRefIDIdempotent(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	if _, err := c.AddCustomer(ctx, &pb.AddCustomerRequest{Name: "Ama"}); err != nil {
		t.Fatal(err)
	}

	req := &pb.PostRequest{CustomerId: 1, Amount: "10", RefId: uuid.NewString()}
	first, err := c.Deposit(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Deposit(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Transaction.Id != second.Transaction.Id || second.Transaction.RefId != req.RefId {
		t.Fatalf("first=%+v second=%+v", first.Transaction, second.Transaction)
	}

	got, err := c.GetCustomer(ctx, &pb.GetCustomerRequest{CustomerId: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got.Customer.CurrentBalance != "10.00" {
		t.Fatalf("balance=%s want 10.00", got.Customer.CurrentBalance)
	}
}
