package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"canna-backoffice-requests/internal/config"
	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRequests struct {
	mock.Mock
}

func (m *MockRequests) Model(ctx context.Context, term string) (*requests.Model, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requests.Model), args.Error(1)
}

func (m *MockRequests) Lookup(ctx context.Context, key domain.RequestKey) (domain.PendingRequest, error) {
	args := m.Called(ctx, key)
	return nil, args.Error(1)
}

func (m *MockRequests) PlanChange(ctx context.Context, id int32) (*domain.PlanChangeRequest, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}

func (m *MockRequests) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to []string, subject, plain, html string) error {
	return m.Called(ctx, to, subject, plain, html).Error(0)
}

func newRunner(to []string) (*JobRunner, *MockRequests, *MockMailer) {
	reqs, mailer := new(MockRequests), new(MockMailer)
	cfg := &config.Config{Mail: config.MailConfig{DigestTo: to}}
	return NewJobRunner(&Services{Requests: reqs, Mailer: mailer}, cfg), reqs, mailer
}

func TestSendPendingDigest(t *testing.T) {
	admins := []string{"ops@example.com"}

	t.Run("Sends summary", func(t *testing.T) {
		jr, reqs, mailer := newRunner(admins)
		model := &requests.Model{
			Rows:  []requests.Row{{ID: 1, RequestType: domain.RequestTypeRegistration, Name: "Acme <Labs>", Email: "a@acme.com", DisplayDate: "10/03/2025"}},
			Stats: domain.Stats{TotalRequests: 1, PendingRegistrations: 1, NewRequests: 1},
		}
		reqs.On("Refresh", mock.Anything).Return(nil).Once()
		reqs.On("Model", mock.Anything, "").Return(model, nil).Once()
		mailer.On("Send", mock.Anything, admins, "Solicitações pendentes: 1",
			mock.MatchedBy(func(plain string) bool { return strings.Contains(plain, "Acme <Labs>") }),
			mock.MatchedBy(func(html string) bool { return strings.Contains(html, "Acme &lt;Labs&gt;") }),
		).Return(nil).Once()

		jr.SendPendingDigest()

		reqs.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("Empty queue sends nothing", func(t *testing.T) {
		jr, reqs, mailer := newRunner(admins)
		reqs.On("Refresh", mock.Anything).Return(nil).Once()
		reqs.On("Model", mock.Anything, "").Return(&requests.Model{}, nil).Once()

		jr.SendPendingDigest()

		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No recipients skips backend", func(t *testing.T) {
		jr, reqs, mailer := newRunner(nil)

		jr.SendPendingDigest()

		reqs.AssertNotCalled(t, "Model", mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Backend failure is contained", func(t *testing.T) {
		jr, reqs, mailer := newRunner(admins)
		reqs.On("Refresh", mock.Anything).Return(errors.New("redis down")).Once()
		reqs.On("Model", mock.Anything, "").Return(nil, errors.New("connection refused")).Once()

		assert.NotPanics(t, jr.SendPendingDigest)
		reqs.AssertExpectations(t)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Backend failure is returned", func(t *testing.T) {
		jr, reqs, mailer := newRunner(admins)
		reqs.On("Refresh", mock.Anything).Return(nil).Once()
		reqs.On("Model", mock.Anything, "").Return(nil, errors.New("connection refused")).Once()

		err := jr.sendPendingDigest(context.Background())
		assert.ErrorContains(t, err, "connection refused")
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRunWithRecovery(t *testing.T) {
	jr, _, _ := newRunner(nil)
	assert.NotPanics(t, func() {
		jr.runWithRecovery("boom", func() { panic("boom") })
	})
}

func TestRenderDigest(t *testing.T) {
	model := &requests.Model{
		Rows: []requests.Row{
			{RequestType: domain.RequestTypePlanChange, Name: "Verde", Email: "v@verde.com", DisplayDate: "01/02/2025"},
		},
		Stats: domain.Stats{TotalRequests: 3, PendingRegistrations: 2, PendingPlanChanges: 1},
	}

	subject, plain, html := renderDigest(model)

	assert.Equal(t, "Solicitações pendentes: 3", subject)
	assert.Contains(t, plain, "Cadastros pendentes: 2")
	assert.Contains(t, plain, "Mudanças de plano: 1")
	assert.Contains(t, plain, "[plan_change] Verde <v@verde.com> 01/02/2025")
	assert.Contains(t, html, "<td>Verde</td>")
}
