package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
	pb "github.com/JoeShih716/go-savings-ledger/proto"
)

type GrpcServer struct {
	pb.UnimplementedLedgerServiceServer
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

func (s *GrpcServer) AddCustomer(ctx context.Context, req *pb.AddCustomerRequest) (*pb.AddCustomerResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, status.Error(codes.InvalidArgument, "name must not be empty")
	}
	customer, err := s.core.AddCustomer(ctx, req.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.AddCustomerResponse{Customer: toPbCustomer(customer)}, nil
}

func (s *GrpcServer) ListCustomers(ctx context.Context, _ *pb.ListCustomersRequest) (*pb.ListCustomersResponse, error) {
	customers, err := s.core.GetCustomers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &pb.ListCustomersResponse{Customers: make([]*pb.Customer, 0, len(customers))}
	for i := range customers {
		resp.Customers = append(resp.Customers, toPbCustomer(&customers[i]))
	}
	return resp, nil
}

func (s *GrpcServer) GetCustomer(ctx context.Context, req *pb.GetCustomerRequest) (*pb.GetCustomerResponse, error) {
	customer, err := s.core.GetCustomer(ctx, req.CustomerId)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.GetCustomerResponse{Customer: toPbCustomer(customer)}, nil
}

func (s *GrpcServer) Deposit(ctx context.Context, req *pb.PostRequest) (*pb.PostResponse, error) {
	return s.post(ctx, req, s.core.Deposit)
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *pb.PostRequest) (*pb.PostResponse, error) {
	return s.post(ctx, req, s.core.Withdraw)
}

type postFunc func(ctx context.Context, customerID int64, amount domain.Amount, opts ...usecase.PostOption) (*domain.Transaction, error)

func (s *GrpcServer) post(ctx context.Context, req *pb.PostRequest, fn postFunc) (*pb.PostResponse, error) {
	// 1. 金額解析
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	// 2. UUID 解析 (可選)
	var opts []usecase.PostOption
	if req.RefId != "" {
		u, err := uuid.Parse(req.RefId)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "invalid ref_id: "+err.Error())
		}
		opts = append(opts, usecase.WithRefID(u))
	}

	// 3. 執行交易
	tran, err := fn(ctx, req.CustomerId, amount, opts...)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.PostResponse{Transaction: toPbTransaction(tran)}, nil
}

func (s *GrpcServer) ListTransactions(ctx context.Context, req *pb.ListTransactionsRequest) (*pb.ListTransactionsResponse, error) {
	trans, err := s.core.GetTransactions(ctx, req.CustomerId)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &pb.ListTransactionsResponse{Transactions: make([]*pb.Transaction, 0, len(trans))}
	for i := range trans {
		resp.Transactions = append(resp.Transactions, toPbTransaction(&trans[i]))
	}
	return resp, nil
}

// toStatus 將業務錯誤轉換為 gRPC status code
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidTransactionType):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance), errors.Is(err, domain.ErrBalanceOverflow):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toPbCustomer(c *domain.Customer) *pb.Customer {
	return &pb.Customer{
		Id:             c.ID,
		Name:           c.Name,
		CurrentBalance: c.CurrentBalance.String(),
	}
}

func toPbTransaction(t *domain.Transaction) *pb.Transaction {
	out := &pb.Transaction{
		Id:             t.ID,
		CustomerId:     t.CustomerID,
		DateAdded:      t.DateAdded.Format(time.RFC3339Nano),
		Amount:         t.Amount.String(),
		RunningBalance: t.RunningBalance.String(),
		IsDeposit:      t.IsDeposit(),
	}
	if t.HasRefID() {
		out.RefId = t.RefID.String()
	}
	return out
}
