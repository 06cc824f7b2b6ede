package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// PackagePrefix is the path prefix of every procedure.
const PackagePrefix = "/groupsplit.v1."

// Fully-qualified service names.
const (
	MemberServiceName     = "groupsplit.v1.MemberService"
	ActivityServiceName   = "groupsplit.v1.ActivityService"
	SettlementServiceName = "groupsplit.v1.SettlementService"
	BankServiceName       = "groupsplit.v1.BankService"
)

// Procedure paths.
const (
	MemberServiceListMembersProcedure                      = "/groupsplit.v1.MemberService/ListMembers"
	MemberServiceSearchMembersProcedure                    = "/groupsplit.v1.MemberService/SearchMembers"
	MemberServiceGetMemberProcedure                        = "/groupsplit.v1.MemberService/GetMember"
	MemberServiceCreateMemberProcedure                     = "/groupsplit.v1.MemberService/CreateMember"
	MemberServiceUpdateMemberProcedure                     = "/groupsplit.v1.MemberService/UpdateMember"
	MemberServiceDeleteMemberProcedure                     = "/groupsplit.v1.MemberService/DeleteMember"
	ActivityServiceListActivitiesProcedure                 = "/groupsplit.v1.ActivityService/ListActivities"
	ActivityServiceGetActivityProcedure                    = "/groupsplit.v1.ActivityService/GetActivity"
	ActivityServiceCreateActivityProcedure                 = "/groupsplit.v1.ActivityService/CreateActivity"
	ActivityServiceUpdateActivityProcedure                 = "/groupsplit.v1.ActivityService/UpdateActivity"
	ActivityServiceDeleteActivityProcedure                 = "/groupsplit.v1.ActivityService/DeleteActivity"
	ActivityServiceDeleteAllActivitiesProcedure            = "/groupsplit.v1.ActivityService/DeleteAllActivities"
	SettlementServiceGetResultsProcedure                   = "/groupsplit.v1.SettlementService/GetResults"
	SettlementServiceListTransactionsProcedure             = "/groupsplit.v1.SettlementService/ListTransactions"
	SettlementServiceSaveTransactionProcedure              = "/groupsplit.v1.SettlementService/SaveTransaction"
	SettlementServiceSetTransactionCompletedProcedure      = "/groupsplit.v1.SettlementService/SetTransactionCompleted"
	SettlementServiceMarkAllTransactionsCompletedProcedure = "/groupsplit.v1.SettlementService/MarkAllTransactionsCompleted"
	SettlementServiceFinishSessionProcedure                = "/groupsplit.v1.SettlementService/FinishSession"
	SettlementServiceResetSessionProcedure                 = "/groupsplit.v1.SettlementService/ResetSession"
	BankServiceListBanksProcedure                          = "/groupsplit.v1.BankService/ListBanks"
	BankServiceGenerateQRProcedure                         = "/groupsplit.v1.BankService/GenerateQR"
)

// MemberServiceHandler is the server side of the MemberService: it manages
// group members. Deleting a member is a soft delete.
type MemberServiceHandler interface {
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	SearchMembers(context.Context, *connect.Request[SearchMembersRequest]) (*connect.Response[SearchMembersResponse], error)
	GetMember(context.Context, *connect.Request[GetMemberRequest]) (*connect.Response[GetMemberResponse], error)
	CreateMember(context.Context, *connect.Request[CreateMemberRequest]) (*connect.Response[CreateMemberResponse], error)
	UpdateMember(context.Context, *connect.Request[UpdateMemberRequest]) (*connect.Response[UpdateMemberResponse], error)
	DeleteMember(context.Context, *connect.Request[DeleteMemberRequest]) (*connect.Response[DeleteMemberResponse], error)
}

// NewMemberServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(MemberServiceListMembersProcedure, connect.NewUnaryHandler(MemberServiceListMembersProcedure, svc.ListMembers, opts...))
	mux.Handle(MemberServiceSearchMembersProcedure, connect.NewUnaryHandler(MemberServiceSearchMembersProcedure, svc.SearchMembers, opts...))
	mux.Handle(MemberServiceGetMemberProcedure, connect.NewUnaryHandler(MemberServiceGetMemberProcedure, svc.GetMember, opts...))
	mux.Handle(MemberServiceCreateMemberProcedure, connect.NewUnaryHandler(MemberServiceCreateMemberProcedure, svc.CreateMember, opts...))
	mux.Handle(MemberServiceUpdateMemberProcedure, connect.NewUnaryHandler(MemberServiceUpdateMemberProcedure, svc.UpdateMember, opts...))
	mux.Handle(MemberServiceDeleteMemberProcedure, connect.NewUnaryHandler(MemberServiceDeleteMemberProcedure, svc.DeleteMember, opts...))
	return "/" + MemberServiceName + "/", mux
}

// MemberServiceClient calls a remote MemberService.
type MemberServiceClient struct {
	listMembers   *connect.Client[ListMembersRequest, ListMembersResponse]
	searchMembers *connect.Client[SearchMembersRequest, SearchMembersResponse]
	getMember     *connect.Client[GetMemberRequest, GetMemberResponse]
	createMember  *connect.Client[CreateMemberRequest, CreateMemberResponse]
	updateMember  *connect.Client[UpdateMemberRequest, UpdateMemberResponse]
	deleteMember  *connect.Client[DeleteMemberRequest, DeleteMemberResponse]
}

// NewMemberServiceClient creates a client for the service at baseURL (e.g. http://localhost:8080).
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MemberServiceClient {
	opts = clientOptions(opts)
	return &MemberServiceClient{
		listMembers:   connect.NewClient[ListMembersRequest, ListMembersResponse](httpClient, baseURL+MemberServiceListMembersProcedure, opts...),
		searchMembers: connect.NewClient[SearchMembersRequest, SearchMembersResponse](httpClient, baseURL+MemberServiceSearchMembersProcedure, opts...),
		getMember:     connect.NewClient[GetMemberRequest, GetMemberResponse](httpClient, baseURL+MemberServiceGetMemberProcedure, opts...),
		createMember:  connect.NewClient[CreateMemberRequest, CreateMemberResponse](httpClient, baseURL+MemberServiceCreateMemberProcedure, opts...),
		updateMember:  connect.NewClient[UpdateMemberRequest, UpdateMemberResponse](httpClient, baseURL+MemberServiceUpdateMemberProcedure, opts...),
		deleteMember:  connect.NewClient[DeleteMemberRequest, DeleteMemberResponse](httpClient, baseURL+MemberServiceDeleteMemberProcedure, opts...),
	}
}

// ListMembers calls MemberService.ListMembers.
func (c *MemberServiceClient) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

// SearchMembers calls MemberService.SearchMembers.
func (c *MemberServiceClient) SearchMembers(ctx context.Context, req *connect.Request[SearchMembersRequest]) (*connect.Response[SearchMembersResponse], error) {
	return c.searchMembers.CallUnary(ctx, req)
}

// GetMember calls MemberService.GetMember.
func (c *MemberServiceClient) GetMember(ctx context.Context, req *connect.Request[GetMemberRequest]) (*connect.Response[GetMemberResponse], error) {
	return c.getMember.CallUnary(ctx, req)
}

// CreateMember calls MemberService.CreateMember.
func (c *MemberServiceClient) CreateMember(ctx context.Context, req *connect.Request[CreateMemberRequest]) (*connect.Response[CreateMemberResponse], error) {
	return c.createMember.CallUnary(ctx, req)
}

// UpdateMember calls MemberService.UpdateMember.
func (c *MemberServiceClient) UpdateMember(ctx context.Context, req *connect.Request[UpdateMemberRequest]) (*connect.Response[UpdateMemberResponse], error) {
	return c.updateMember.CallUnary(ctx, req)
}

// DeleteMember calls MemberService.DeleteMember.
func (c *MemberServiceClient) DeleteMember(ctx context.Context, req *connect.Request[DeleteMemberRequest]) (*connect.Response[DeleteMemberResponse], error) {
	return c.deleteMember.CallUnary(ctx, req)
}

// ActivityServiceHandler is the server side of the ActivityService: it
// manages shared expenses and their participants.
type ActivityServiceHandler interface {
	ListActivities(context.Context, *connect.Request[ListActivitiesRequest]) (*connect.Response[ListActivitiesResponse], error)
	GetActivity(context.Context, *connect.Request[GetActivityRequest]) (*connect.Response[GetActivityResponse], error)
	CreateActivity(context.Context, *connect.Request[CreateActivityRequest]) (*connect.Response[CreateActivityResponse], error)
	UpdateActivity(context.Context, *connect.Request[UpdateActivityRequest]) (*connect.Response[UpdateActivityResponse], error)
	DeleteActivity(context.Context, *connect.Request[DeleteActivityRequest]) (*connect.Response[DeleteActivityResponse], error)
	DeleteAllActivities(context.Context, *connect.Request[DeleteAllActivitiesRequest]) (*connect.Response[DeleteAllActivitiesResponse], error)
}

// NewActivityServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewActivityServiceHandler(svc ActivityServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ActivityServiceListActivitiesProcedure, connect.NewUnaryHandler(ActivityServiceListActivitiesProcedure, svc.ListActivities, opts...))
	mux.Handle(ActivityServiceGetActivityProcedure, connect.NewUnaryHandler(ActivityServiceGetActivityProcedure, svc.GetActivity, opts...))
	mux.Handle(ActivityServiceCreateActivityProcedure, connect.NewUnaryHandler(ActivityServiceCreateActivityProcedure, svc.CreateActivity, opts...))
	mux.Handle(ActivityServiceUpdateActivityProcedure, connect.NewUnaryHandler(ActivityServiceUpdateActivityProcedure, svc.UpdateActivity, opts...))
	mux.Handle(ActivityServiceDeleteActivityProcedure, connect.NewUnaryHandler(ActivityServiceDeleteActivityProcedure, svc.DeleteActivity, opts...))
	mux.Handle(ActivityServiceDeleteAllActivitiesProcedure, connect.NewUnaryHandler(ActivityServiceDeleteAllActivitiesProcedure, svc.DeleteAllActivities, opts...))
	return "/" + ActivityServiceName + "/", mux
}

// ActivityServiceClient calls a remote ActivityService.
type ActivityServiceClient struct {
	listActivities      *connect.Client[ListActivitiesRequest, ListActivitiesResponse]
	getActivity         *connect.Client[GetActivityRequest, GetActivityResponse]
	createActivity      *connect.Client[CreateActivityRequest, CreateActivityResponse]
	updateActivity      *connect.Client[UpdateActivityRequest, UpdateActivityResponse]
	deleteActivity      *connect.Client[DeleteActivityRequest, DeleteActivityResponse]
	deleteAllActivities *connect.Client[DeleteAllActivitiesRequest, DeleteAllActivitiesResponse]
}

// NewActivityServiceClient creates a client for the service at baseURL (e.g. http://localhost:8080).
func NewActivityServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ActivityServiceClient {
	opts = clientOptions(opts)
	return &ActivityServiceClient{
		listActivities:      connect.NewClient[ListActivitiesRequest, ListActivitiesResponse](httpClient, baseURL+ActivityServiceListActivitiesProcedure, opts...),
		getActivity:         connect.NewClient[GetActivityRequest, GetActivityResponse](httpClient, baseURL+ActivityServiceGetActivityProcedure, opts...),
		createActivity:      connect.NewClient[CreateActivityRequest, CreateActivityResponse](httpClient, baseURL+ActivityServiceCreateActivityProcedure, opts...),
		updateActivity:      connect.NewClient[UpdateActivityRequest, UpdateActivityResponse](httpClient, baseURL+ActivityServiceUpdateActivityProcedure, opts...),
		deleteActivity:      connect.NewClient[DeleteActivityRequest, DeleteActivityResponse](httpClient, baseURL+ActivityServiceDeleteActivityProcedure, opts...),
		deleteAllActivities: connect.NewClient[DeleteAllActivitiesRequest, DeleteAllActivitiesResponse](httpClient, baseURL+ActivityServiceDeleteAllActivitiesProcedure, opts...),
	}
}

// ListActivities calls ActivityService.ListActivities.
func (c *ActivityServiceClient) ListActivities(ctx context.Context, req *connect.Request[ListActivitiesRequest]) (*connect.Response[ListActivitiesResponse], error) {
	return c.listActivities.CallUnary(ctx, req)
}

// GetActivity calls ActivityService.GetActivity.
func (c *ActivityServiceClient) GetActivity(ctx context.Context, req *connect.Request[GetActivityRequest]) (*connect.Response[GetActivityResponse], error) {
	return c.getActivity.CallUnary(ctx, req)
}

// CreateActivity calls ActivityService.CreateActivity.
func (c *ActivityServiceClient) CreateActivity(ctx context.Context, req *connect.Request[CreateActivityRequest]) (*connect.Response[CreateActivityResponse], error) {
	return c.createActivity.CallUnary(ctx, req)
}

// UpdateActivity calls ActivityService.UpdateActivity.
func (c *ActivityServiceClient) UpdateActivity(ctx context.Context, req *connect.Request[UpdateActivityRequest]) (*connect.Response[UpdateActivityResponse], error) {
	return c.updateActivity.CallUnary(ctx, req)
}

// DeleteActivity calls ActivityService.DeleteActivity.
func (c *ActivityServiceClient) DeleteActivity(ctx context.Context, req *connect.Request[DeleteActivityRequest]) (*connect.Response[DeleteActivityResponse], error) {
	return c.deleteActivity.CallUnary(ctx, req)
}

// DeleteAllActivities calls ActivityService.DeleteAllActivities.
func (c *ActivityServiceClient) DeleteAllActivities(ctx context.Context, req *connect.Request[DeleteAllActivitiesRequest]) (*connect.Response[DeleteAllActivitiesResponse], error) {
	return c.deleteAllActivities.CallUnary(ctx, req)
}

// SettlementServiceHandler is the server side of the SettlementService: it
// computes balances and drives the settlement session.
type SettlementServiceHandler interface {
	GetResults(context.Context, *connect.Request[GetResultsRequest]) (*connect.Response[GetResultsResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	SaveTransaction(context.Context, *connect.Request[SaveTransactionRequest]) (*connect.Response[SaveTransactionResponse], error)
	SetTransactionCompleted(context.Context, *connect.Request[SetTransactionCompletedRequest]) (*connect.Response[SetTransactionCompletedResponse], error)
	MarkAllTransactionsCompleted(context.Context, *connect.Request[MarkAllTransactionsCompletedRequest]) (*connect.Response[MarkAllTransactionsCompletedResponse], error)
	FinishSession(context.Context, *connect.Request[FinishSessionRequest]) (*connect.Response[FinishSessionResponse], error)
	ResetSession(context.Context, *connect.Request[ResetSessionRequest]) (*connect.Response[ResetSessionResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SettlementServiceGetResultsProcedure, connect.NewUnaryHandler(SettlementServiceGetResultsProcedure, svc.GetResults, opts...))
	mux.Handle(SettlementServiceListTransactionsProcedure, connect.NewUnaryHandler(SettlementServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(SettlementServiceSaveTransactionProcedure, connect.NewUnaryHandler(SettlementServiceSaveTransactionProcedure, svc.SaveTransaction, opts...))
	mux.Handle(SettlementServiceSetTransactionCompletedProcedure, connect.NewUnaryHandler(SettlementServiceSetTransactionCompletedProcedure, svc.SetTransactionCompleted, opts...))
	mux.Handle(SettlementServiceMarkAllTransactionsCompletedProcedure, connect.NewUnaryHandler(SettlementServiceMarkAllTransactionsCompletedProcedure, svc.MarkAllTransactionsCompleted, opts...))
	mux.Handle(SettlementServiceFinishSessionProcedure, connect.NewUnaryHandler(SettlementServiceFinishSessionProcedure, svc.FinishSession, opts...))
	mux.Handle(SettlementServiceResetSessionProcedure, connect.NewUnaryHandler(SettlementServiceResetSessionProcedure, svc.ResetSession, opts...))
	return "/" + SettlementServiceName + "/", mux
}

// SettlementServiceClient calls a remote SettlementService.
type SettlementServiceClient struct {
	getResults                   *connect.Client[GetResultsRequest, GetResultsResponse]
	listTransactions             *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	saveTransaction              *connect.Client[SaveTransactionRequest, SaveTransactionResponse]
	setTransactionCompleted      *connect.Client[SetTransactionCompletedRequest, SetTransactionCompletedResponse]
	markAllTransactionsCompleted *connect.Client[MarkAllTransactionsCompletedRequest, MarkAllTransactionsCompletedResponse]
	finishSession                *connect.Client[FinishSessionRequest, FinishSessionResponse]
	resetSession                 *connect.Client[ResetSessionRequest, ResetSessionResponse]
}

// NewSettlementServiceClient creates a client for the service at baseURL (e.g. http://localhost:8080).
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SettlementServiceClient {
	opts = clientOptions(opts)
	return &SettlementServiceClient{
		getResults:                   connect.NewClient[GetResultsRequest, GetResultsResponse](httpClient, baseURL+SettlementServiceGetResultsProcedure, opts...),
		listTransactions:             connect.NewClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL+SettlementServiceListTransactionsProcedure, opts...),
		saveTransaction:              connect.NewClient[SaveTransactionRequest, SaveTransactionResponse](httpClient, baseURL+SettlementServiceSaveTransactionProcedure, opts...),
		setTransactionCompleted:      connect.NewClient[SetTransactionCompletedRequest, SetTransactionCompletedResponse](httpClient, baseURL+SettlementServiceSetTransactionCompletedProcedure, opts...),
		markAllTransactionsCompleted: connect.NewClient[MarkAllTransactionsCompletedRequest, MarkAllTransactionsCompletedResponse](httpClient, baseURL+SettlementServiceMarkAllTransactionsCompletedProcedure, opts...),
		finishSession:                connect.NewClient[FinishSessionRequest, FinishSessionResponse](httpClient, baseURL+SettlementServiceFinishSessionProcedure, opts...),
		resetSession:                 connect.NewClient[ResetSessionRequest, ResetSessionResponse](httpClient, baseURL+SettlementServiceResetSessionProcedure, opts...),
	}
}

// GetResults calls SettlementService.GetResults.
func (c *SettlementServiceClient) GetResults(ctx context.Context, req *connect.Request[GetResultsRequest]) (*connect.Response[GetResultsResponse], error) {
	return c.getResults.CallUnary(ctx, req)
}

// ListTransactions calls SettlementService.ListTransactions.
func (c *SettlementServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

// SaveTransaction calls SettlementService.SaveTransaction.
func (c *SettlementServiceClient) SaveTransaction(ctx context.Context, req *connect.Request[SaveTransactionRequest]) (*connect.Response[SaveTransactionResponse], error) {
	return c.saveTransaction.CallUnary(ctx, req)
}

// SetTransactionCompleted calls SettlementService.SetTransactionCompleted.
func (c *SettlementServiceClient) SetTransactionCompleted(ctx context.Context, req *connect.Request[SetTransactionCompletedRequest]) (*connect.Response[SetTransactionCompletedResponse], error) {
	return c.setTransactionCompleted.CallUnary(ctx, req)
}

// MarkAllTransactionsCompleted calls SettlementService.MarkAllTransactionsCompleted.
func (c *SettlementServiceClient) MarkAllTransactionsCompleted(ctx context.Context, req *connect.Request[MarkAllTransactionsCompletedRequest]) (*connect.Response[MarkAllTransactionsCompletedResponse], error) {
	return c.markAllTransactionsCompleted.CallUnary(ctx, req)
}

// FinishSession calls SettlementService.FinishSession.
func (c *SettlementServiceClient) FinishSession(ctx context.Context, req *connect.Request[FinishSessionRequest]) (*connect.Response[FinishSessionResponse], error) {
	return c.finishSession.CallUnary(ctx, req)
}

// ResetSession calls SettlementService.ResetSession.
func (c *SettlementServiceClient) ResetSession(ctx context.Context, req *connect.Request[ResetSessionRequest]) (*connect.Response[ResetSessionResponse], error) {
	return c.resetSession.CallUnary(ctx, req)
}

// BankServiceHandler is the server side of the BankService: it looks up
// banks and builds display-only transfer QR codes.
type BankServiceHandler interface {
	ListBanks(context.Context, *connect.Request[ListBanksRequest]) (*connect.Response[ListBanksResponse], error)
	GenerateQR(context.Context, *connect.Request[GenerateQRRequest]) (*connect.Response[GenerateQRResponse], error)
}

// NewBankServiceHandler builds an HTTP handler for svc. It returns the path to mount it on.
func NewBankServiceHandler(svc BankServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(BankServiceListBanksProcedure, connect.NewUnaryHandler(BankServiceListBanksProcedure, svc.ListBanks, opts...))
	mux.Handle(BankServiceGenerateQRProcedure, connect.NewUnaryHandler(BankServiceGenerateQRProcedure, svc.GenerateQR, opts...))
	return "/" + BankServiceName + "/", mux
}

// BankServiceClient calls a remote BankService.
type BankServiceClient struct {
	listBanks  *connect.Client[ListBanksRequest, ListBanksResponse]
	generateQR *connect.Client[GenerateQRRequest, GenerateQRResponse]
}

// NewBankServiceClient creates a client for the service at baseURL (e.g. http://localhost:8080).
func NewBankServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BankServiceClient {
	opts = clientOptions(opts)
	return &BankServiceClient{
		listBanks:  connect.NewClient[ListBanksRequest, ListBanksResponse](httpClient, baseURL+BankServiceListBanksProcedure, opts...),
		generateQR: connect.NewClient[GenerateQRRequest, GenerateQRResponse](httpClient, baseURL+BankServiceGenerateQRProcedure, opts...),
	}
}

// ListBanks calls BankService.ListBanks.
func (c *BankServiceClient) ListBanks(ctx context.Context, req *connect.Request[ListBanksRequest]) (*connect.Response[ListBanksResponse], error) {
	return c.listBanks.CallUnary(ctx, req)
}

// GenerateQR calls BankService.GenerateQR.
func (c *BankServiceClient) GenerateQR(ctx context.Context, req *connect.Request[GenerateQRRequest]) (*connect.Response[GenerateQRResponse], error) {
	return c.generateQR.CallUnary(ctx, req)
}
