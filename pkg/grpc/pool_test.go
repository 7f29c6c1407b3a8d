package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	grpcadapter "github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-savings-ledger/proto"
)

func TestPoolReusesConnection(t *testing.T) {
	p := NewPool()
	defer p.Close()

	var wg sync.WaitGroup
	conns := make([]*grpc.ClientConn, 16)
	for i := range conns {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn, err := p.GetConnection("localhost:50051")
			if err != nil {
				t.Errorf("GetConnection: %v", err)
				return
			}
			conns[i] = conn
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(conns); i++ {
		if conns[i] != conns[0] {
			t.Fatalf("conn %d differs from conn 0", i)
		}
	}
}

func TestPoolReplacesClosedConnection(t *testing.T) {
	p := NewPool()
	defer p.Close()

	first, err := p.GetConnection("localhost:50051")
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}
	second, err := p.GetConnection("localhost:50051")
	if err != nil {
		t.Fatal(err)
	}
	if second == first {
		t.Fatal("expected a new connection after close")
	}
}

func TestPoolRoundTrip(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := grpc.NewServer(grpc.UnaryInterceptor(grpcadapter.LoggingInterceptor(logger)))
	pb.RegisterLedgerServiceServer(s, grpcadapter.NewGrpcServer(usecase.NewCoreUseCase(memory.NewMutexLedger())))
	go func() {
		_ = s.Serve(lis)
	}()
	defer s.Stop()

	var calls atomic.Int32
	p := NewPool(
		WithCallOptions(grpc.CallContentSubtype(pb.CodecName)),
		WithInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			calls.Add(1)
			return invoker(ctx, method, req, reply, cc, opts...)
		}),
	)
	defer p.Close()

	conn, err := p.GetConnection("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	c := pb.NewLedgerServiceClient(conn)
	resp, err := c.AddCustomer(context.Background(), &pb.AddCustomerRequest{Name: "Kofi"})
	if err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}
	if resp.Customer.Id != 1 || resp.Customer.Name != "Kofi" {
		t.Fatalf("customer=%+v", resp.Customer)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("interceptor calls=%d want 1", got)
	}
}
