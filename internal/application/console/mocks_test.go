package console

import (
	"context"
	"sync"

	"github.com/erp/catalogconsole/internal/domain/catalog"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Mocks
// ============================================================================

// MockRemote is a mock implementation of Remote
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockRemote) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockRemote) GetProduct(ctx context.Context, id catalog.ID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockRemote) CreateProduct(ctx context.Context, payload catalog.ProductPayload) (*catalog.Product, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockRemote) UpdateProduct(ctx context.Context, id catalog.ID, payload catalog.ProductPayload) (*catalog.Product, error) {
	args := m.Called(ctx, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockRemote) DeleteProduct(ctx context.Context, id catalog.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategorySource is a mock implementation of CategorySource
type MockCategorySource struct {
	mock.Mock
}

func (m *MockCategorySource) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

type notice struct {
	Message  string
	Severity Severity
}

// recordingNotifier keeps every notice it receives
type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recordingNotifier) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{Message: message, Severity: severity})
}

func (r *recordingNotifier) all() []notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notice, len(r.notices))
	copy(out, r.notices)
	return out
}

func (r *recordingNotifier) last() notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notice{}
	}
	return r.notices[len(r.notices)-1]
}

func answer(yes bool) ConfirmFunc {
	return func(context.Context, string) bool { return yes }
}
