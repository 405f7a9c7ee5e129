package reviewlens

import (
	"context"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/canned"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/reviewlens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/reviewlens/internal/usecase/search"
	usageuc "github.com/kailas-cloud/reviewlens/internal/usecase/usage"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	rawFn     func(ctx context.Context, v request.Variant, req request.Request) ([]byte, error)
	viewFn    func(ctx context.Context, v request.Variant, req request.Request, page int) (searchuc.View, error)
	commonFn  func(ctx context.Context, t canned.QueryType, category string, page int) (searchuc.View, error)
	startupFn func(ctx context.Context, page int) (searchuc.View, error)
}

func (m *mockSearchUC) Raw(ctx context.Context, v request.Variant, req request.Request) ([]byte, error) {
	return m.rawFn(ctx, v, req)
}

func (m *mockSearchUC) View(
	ctx context.Context, v request.Variant, req request.Request, page int,
) (searchuc.View, error) {
	return m.viewFn(ctx, v, req, page)
}

func (m *mockSearchUC) Common(
	ctx context.Context, t canned.QueryType, category string, page int,
) (searchuc.View, error) {
	return m.commonFn(ctx, t, category, page)
}

func (m *mockSearchUC) Startup(ctx context.Context, page int) (searchuc.View, error) {
	return m.startupFn(ctx, page)
}

func (m *mockSearchUC) VanitySearch(_ context.Context, _ string, _ int) (searchuc.View, error) {
	return searchuc.View{}, nil
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- usageUseCase mock ---

type mockUsageUC struct {
	report usageuc.Report
	err    error
}

func (m *mockUsageUC) Report(_ context.Context) (usageuc.Report, error) { return m.report, m.err }

func newTestClient(s searchUseCase) *Client {
	return &Client{searchSvc: s, healthSvc: &mockHealthUC{}, usageSvc: &mockUsageUC{}}
}
