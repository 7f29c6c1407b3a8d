package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	LedgerService_AddCustomer_FullMethodName      = "/ledger.v1.LedgerService/AddCustomer"
	LedgerService_ListCustomers_FullMethodName    = "/ledger.v1.LedgerService/ListCustomers"
	LedgerService_GetCustomer_FullMethodName      = "/ledger.v1.LedgerService/GetCustomer"
	LedgerService_Deposit_FullMethodName          = "/ledger.v1.LedgerService/Deposit"
	LedgerService_Withdraw_FullMethodName         = "/ledger.v1.LedgerService/Withdraw"
	LedgerService_ListTransactions_FullMethodName = "/ledger.v1.LedgerService/ListTransactions"
)

// LedgerServiceClient is the client API for LedgerService.
type LedgerServiceClient interface {
	AddCustomer(ctx context.Context, in *AddCustomerRequest, opts ...grpc.CallOption) (*AddCustomerResponse, error)
	ListCustomers(ctx context.Context, in *ListCustomersRequest, opts ...grpc.CallOption) (*ListCustomersResponse, error)
	GetCustomer(ctx context.Context, in *GetCustomerRequest, opts ...grpc.CallOption) (*GetCustomerResponse, error)
	Deposit(ctx context.Context, in *PostRequest, opts ...grpc.CallOption) (*PostResponse, error)
	Withdraw(ctx context.Context, in *PostRequest, opts ...grpc.CallOption) (*PostResponse, error)
	ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error)
}

type ledgerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLedgerServiceClient 每個呼叫都會帶上 JSON codec 的 content-subtype
func NewLedgerServiceClient(cc grpc.ClientConnInterface) LedgerServiceClient {
	return &ledgerServiceClient{cc}
}

func (c *ledgerServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *ledgerServiceClient) AddCustomer(ctx context.Context, in *AddCustomerRequest, opts ...grpc.CallOption) (*AddCustomerResponse, error) {
	out := new(AddCustomerResponse)
	if err := c.invoke(ctx, LedgerService_AddCustomer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) ListCustomers(ctx context.Context, in *ListCustomersRequest, opts ...grpc.CallOption) (*ListCustomersResponse, error) {
	out := new(ListCustomersResponse)
	if err := c.invoke(ctx, LedgerService_ListCustomers_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) GetCustomer(ctx context.Context, in *GetCustomerRequest, opts ...grpc.CallOption) (*GetCustomerResponse, error) {
	out := new(GetCustomerResponse)
	if err := c.invoke(ctx, LedgerService_GetCustomer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Deposit(ctx context.Context, in *PostRequest, opts ...grpc.CallOption) (*PostResponse, error) {
	out := new(PostResponse)
	if err := c.invoke(ctx, LedgerService_Deposit_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) Withdraw(ctx context.Context, in *PostRequest, opts ...grpc.CallOption) (*PostResponse, error) {
	out := new(PostResponse)
	if err := c.invoke(ctx, LedgerService_Withdraw_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	out := new(ListTransactionsResponse)
	if err := c.invoke(ctx, LedgerService_ListTransactions_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// LedgerServiceServer is the server API for LedgerService.
// 實作必須嵌入 UnimplementedLedgerServiceServer
type LedgerServiceServer interface {
	AddCustomer(context.Context, *AddCustomerRequest) (*AddCustomerResponse, error)
	ListCustomers(context.Context, *ListCustomersRequest) (*ListCustomersResponse, error)
	GetCustomer(context.Context, *GetCustomerRequest) (*GetCustomerResponse, error)
	Deposit(context.Context, *PostRequest) (*PostResponse, error)
	Withdraw(context.Context, *PostRequest) (*PostResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	mustEmbedUnimplementedLedgerServiceServer()
}

// UnimplementedLedgerServiceServer must be embedded to have forward compatible implementations.
type UnimplementedLedgerServiceServer struct{}

func (UnimplementedLedgerServiceServer) AddCustomer(context.Context, *AddCustomerRequest) (*AddCustomerResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddCustomer not implemented")
}
func (UnimplementedLedgerServiceServer) ListCustomers(context.Context, *ListCustomersRequest) (*ListCustomersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCustomers not implemented")
}
func (UnimplementedLedgerServiceServer) GetCustomer(context.Context, *GetCustomerRequest) (*GetCustomerResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCustomer not implemented")
}
func (UnimplementedLedgerServiceServer) Deposit(context.Context, *PostRequest) (*PostResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Deposit not implemented")
}
func (UnimplementedLedgerServiceServer) Withdraw(context.Context, *PostRequest) (*PostResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Withdraw not implemented")
}
func (UnimplementedLedgerServiceServer) ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListTransactions not implemented")
}
func (UnimplementedLedgerServiceServer) mustEmbedUnimplementedLedgerServiceServer() {}

func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}

// unaryHandler 產生 grpc.MethodDesc 需要的 handler
func unaryHandler[Req any, Resp any](fullMethod string, call func(LedgerServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// LedgerService_ServiceDesc is the grpc.ServiceDesc for LedgerService service.
var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ledger.v1.LedgerService",
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AddCustomer",
			Handler:    unaryHandler(LedgerService_AddCustomer_FullMethodName, LedgerServiceServer.AddCustomer),
		},
		{
			MethodName: "ListCustomers",
			Handler:    unaryHandler(LedgerService_ListCustomers_FullMethodName, LedgerServiceServer.ListCustomers),
		},
		{
			MethodName: "GetCustomer",
			Handler:    unaryHandler(LedgerService_GetCustomer_FullMethodName, LedgerServiceServer.GetCustomer),
		},
		{
			MethodName: "Deposit",
			Handler:    unaryHandler(LedgerService_Deposit_FullMethodName, LedgerServiceServer.Deposit),
		},
		{
			MethodName: "Withdraw",
			Handler:    unaryHandler(LedgerService_Withdraw_FullMethodName, LedgerServiceServer.Withdraw),
		},
		{
			MethodName: "ListTransactions",
			Handler:    unaryHandler(LedgerService_ListTransactions_FullMethodName, LedgerServiceServer.ListTransactions),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger.v1",
}
