package floorplan

import (
	"context"
	"sort"
	"sync"

	"github.com/appetiteclub/floorplan/services/floorplan/internal/booking"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/member"
	"github.com/appetiteclub/floorplan/services/floorplan/internal/plan"
	"github.com/google/uuid"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	published   []publishedMessage
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

type publishedMessage struct {
	topic string
	data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	m.published = append(m.published, publishedMessage{topic: topic, data: msg})
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	return nil
}

func (m *MockPublisher) Messages(topic string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out [][]byte
	for _, p := range m.published {
		if p.topic == topic {
			out = append(out, p.data)
		}
	}
	return out
}

// MockPlanRepo is a mock implementation of PlanRepo for testing
type MockPlanRepo struct {
	mu         sync.RWMutex
	plans      map[uuid.UUID]*plan.Plan
	gets       int
	CreateFunc func(ctx context.Context, p *plan.Plan) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*plan.Plan, error)
	SaveFunc   func(ctx context.Context, p *plan.Plan) error
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockPlanRepo(plans ...*plan.Plan) *MockPlanRepo {
	m := &MockPlanRepo{
		plans: make(map[uuid.UUID]*plan.Plan),
	}
	for _, p := range plans {
		m.plans[p.ID] = p.Clone()
	}
	return m
}

func (m *MockPlanRepo) Create(ctx context.Context, p *plan.Plan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = p.Clone()
	return nil
}

func (m *MockPlanRepo) Get(ctx context.Context, id uuid.UUID) (*plan.Plan, error) {
	m.mu.Lock()
	m.gets++
	m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (m *MockPlanRepo) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.plans {
		if p.Name == name {
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (m *MockPlanRepo) List(ctx context.Context) ([]*plan.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := []*plan.Plan{}
	for _, p := range m.plans {
		result = append(result, p.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockPlanRepo) Save(ctx context.Context, p *plan.Plan) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = p.Clone()
	return nil
}

func (m *MockPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return ErrPlanNotFound
	}
	delete(m.plans, id)
	return nil
}

func (m *MockPlanRepo) Stored(id uuid.UUID) *plan.Plan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plans[id]
}

func (m *MockPlanRepo) GetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets
}

// MockSubmitter records bookings handed to it.
type MockSubmitter struct {
	mu         sync.Mutex
	requests   []booking.Request
	SubmitFunc func(ctx context.Context, req booking.Request) error
}

func (m *MockSubmitter) SubmitBooking(ctx context.Context, req booking.Request) error {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return nil
}

func (m *MockSubmitter) Requests() []booking.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]booking.Request(nil), m.requests...)
}

// MockMemberAPI is a mock implementation of MemberAPI for testing
type MockMemberAPI struct {
	calls            []string
	registered       map[string]bool
	members          []member.Member
	registrations    []member.Registration
	CheckLineIDFunc  func(ctx context.Context, lineID string) (bool, error)
	CreateMemberFunc func(ctx context.Context, m member.Member) error
	RegisterFunc     func(ctx context.Context, reg member.Registration) error
}

func NewMockMemberAPI(registered ...string) *MockMemberAPI {
	m := &MockMemberAPI{registered: make(map[string]bool)}
	for _, id := range registered {
		m.registered[id] = true
	}
	return m
}

func (m *MockMemberAPI) CheckLineID(ctx context.Context, lineID string) (bool, error) {
	m.calls = append(m.calls, "check")
	if m.CheckLineIDFunc != nil {
		return m.CheckLineIDFunc(ctx, lineID)
	}
	return m.registered[lineID], nil
}

func (m *MockMemberAPI) CreateMember(ctx context.Context, mem member.Member) error {
	m.calls = append(m.calls, "create")
	if m.CreateMemberFunc != nil {
		return m.CreateMemberFunc(ctx, mem)
	}
	m.members = append(m.members, mem)
	m.registered[mem.LineID] = true
	return nil
}

func (m *MockMemberAPI) Register(ctx context.Context, reg member.Registration) error {
	m.calls = append(m.calls, "register")
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	m.registrations = append(m.registrations, reg)
	return nil
}
