package service

import (
	"context"
	"fmt"
	"time"

	"canna-backoffice-requests/internal/cache"
	"canna-backoffice-requests/internal/domain"
	"canna-backoffice-requests/internal/logger"
	"canna-backoffice-requests/internal/notify"
	"canna-backoffice-requests/internal/repository"
)

// DefaultFollowUpDelay separates the success notification from the re-login reminder.
const DefaultFollowUpDelay = time.Second

const (
	titleError         = "Erro"
	titleFollowUp      = "Sistema atualizado"
	messageReLogin     = "Os usuários da organização precisam sair e entrar novamente para ver as alterações."
	msgApproveRegFail  = "Ocorreu um erro ao aprovar a organização."
	msgRejectRegFail   = "Ocorreu um erro ao rejeitar a organização."
	msgApprovePlanFail = "Ocorreu um erro ao aprovar a mudança de plano."
	msgRejectPlanFail  = "Ocorreu um erro ao rejeitar a mudança de plano."
)

// ActionResult describes a successful dispatch and the notifications it produced.
type ActionResult struct {
	Key           domain.RequestKey         `json:"key"`
	Verb          domain.Verb               `json:"verb"`
	Status        domain.OrganizationStatus `json:"status"`
	OrgCode       string                    `json:"orgCode,omitempty"`
	ModulesAdded  int                       `json:"modulesAdded,omitempty"`
	Notifications []domain.Notification     `json:"notifications"`
	FollowUp      *domain.Notification      `json:"followUp,omitempty"`

	invalidates []string
	detail      string
}

type dispatcher struct {
	backend       Backend
	requests      ReconciliationService
	cache         Invalidator
	notifier      notify.Notifier
	followUps     FollowUpScheduler
	decisions     repository.DecisionRepository
	followUpDelay time.Duration
}

func NewDispatcher(
	backend Backend,
	requests ReconciliationService,
	invalidator Invalidator,
	notifier notify.Notifier,
	followUps FollowUpScheduler,
	decisions repository.DecisionRepository,
	followUpDelay time.Duration,
) ActionService {
	if decisions == nil {
		decisions = repository.NopDecisionRepository{}
	}
	if followUpDelay <= 0 {
		followUpDelay = DefaultFollowUpDelay
	}
	return &dispatcher{
		backend:       backend,
		requests:      requests,
		cache:         invalidator,
		notifier:      notifier,
		followUps:     followUps,
		decisions:     decisions,
		followUpDelay: followUpDelay,
	}
}

func (d *dispatcher) ApproveRegistration(ctx context.Context, id int32) (*ActionResult, error) {
	key := domain.RequestKey{Type: domain.RequestTypeRegistration, ID: id}
	return d.run(ctx, key, domain.VerbApprove, msgApproveRegFail, func(ctx context.Context) (*ActionResult, error) {
		org, err := d.backend.UpdateOrganizationStatus(ctx, id, domain.OrganizationStatusApproved)
		if err != nil {
			return nil, err
		}

		message := "A organização foi aprovada com sucesso."
		if org.OrgCode != "" {
			message = fmt.Sprintf("A organização foi aprovada com sucesso. Código de acesso: %s", org.OrgCode)
		}
		return &ActionResult{
			Status:  domain.OrganizationStatusApproved,
			OrgCode: org.OrgCode,
			Notifications: []domain.Notification{
				domain.NewNotification(domain.NotificationDefault, "Organização aprovada", message),
			},
			invalidates: []string{cache.KeyOrganizations},
			detail:      org.OrgCode,
		}, nil
	})
}

func (d *dispatcher) RejectRegistration(ctx context.Context, id int32) (*ActionResult, error) {
	key := domain.RequestKey{Type: domain.RequestTypeRegistration, ID: id}
	return d.run(ctx, key, domain.VerbReject, msgRejectRegFail, func(ctx context.Context) (*ActionResult, error) {
		if _, err := d.backend.UpdateOrganizationStatus(ctx, id, domain.OrganizationStatusRejected); err != nil {
			return nil, err
		}
		return &ActionResult{
			Status: domain.OrganizationStatusRejected,
			Notifications: []domain.Notification{
				domain.NewNotification(domain.NotificationDefault, "Organização rejeitada", "A solicitação de cadastro foi rejeitada."),
			},
			invalidates: []string{cache.KeyOrganizations},
		}, nil
	})
}

func (d *dispatcher) ApprovePlanChange(ctx context.Context, id int32) (*ActionResult, error) {
	key := domain.RequestKey{Type: domain.RequestTypePlanChange, ID: id}
	return d.run(ctx, key, domain.VerbApprove, msgApprovePlanFail, func(ctx context.Context) (*ActionResult, error) {
		pc, err := d.requests.PlanChange(ctx, id)
		if err != nil {
			return nil, err
		}

		res, err := d.backend.ApprovePlanChange(ctx, pc.ID, pc.RequestedPlanID)
		if err != nil {
			return nil, err
		}

		planName := pc.RequestedPlanName
		if planName == "" {
			planName = fmt.Sprintf("#%d", pc.RequestedPlanID)
		}
		notes := []domain.Notification{
			domain.NewNotification(domain.NotificationDefault, "Mudança de plano aprovada",
				fmt.Sprintf("O plano da organização foi atualizado para %s.", planName)),
		}
		if res.ModulesAdded > 0 {
			notes = append(notes, domain.NewNotification(domain.NotificationDefault, "Módulos adicionados",
				fmt.Sprintf("%d módulo(s) foram adicionados à organização.", res.ModulesAdded)))
		}
		followUp := domain.NewNotification(domain.NotificationDefault, titleFollowUp, messageReLogin)

		return &ActionResult{
			Status:        domain.OrganizationStatusApproved,
			ModulesAdded:  res.ModulesAdded,
			Notifications: notes,
			FollowUp:      &followUp,
			invalidates:   []string{cache.KeyPlanChangeRequests, cache.KeyOrganizations},
			detail:        fmt.Sprintf("plan %d, modules added %d", pc.RequestedPlanID, res.ModulesAdded),
		}, nil
	})
}

func (d *dispatcher) RejectPlanChange(ctx context.Context, id int32) (*ActionResult, error) {
	key := domain.RequestKey{Type: domain.RequestTypePlanChange, ID: id}
	return d.run(ctx, key, domain.VerbReject, msgRejectPlanFail, func(ctx context.Context) (*ActionResult, error) {
		if _, err := d.backend.RejectPlanChange(ctx, id); err != nil {
			return nil, err
		}
		followUp := domain.NewNotification(domain.NotificationDefault, titleFollowUp, messageReLogin)
		return &ActionResult{
			Status: domain.OrganizationStatusRejected,
			Notifications: []domain.Notification{
				domain.NewNotification(domain.NotificationDefault, "Mudança de plano rejeitada", "A solicitação de mudança de plano foi rejeitada."),
			},
			FollowUp:    &followUp,
			invalidates: []string{cache.KeyPlanChangeRequests, cache.KeyOrganizations},
		}, nil
	})
}

// Dispatch routes a pending request to the operation for its variant.
func (d *dispatcher) Dispatch(ctx context.Context, req domain.PendingRequest, verb domain.Verb) (*ActionResult, error) {
	switch r := req.(type) {
	case *domain.Registration:
		switch verb {
		case domain.VerbApprove:
			return d.ApproveRegistration(ctx, r.ID)
		case domain.VerbReject:
			return d.RejectRegistration(ctx, r.ID)
		}
	case *domain.PlanChange:
		switch verb {
		case domain.VerbApprove:
			return d.ApprovePlanChange(ctx, r.ID)
		case domain.VerbReject:
			return d.RejectPlanChange(ctx, r.ID)
		}
	default:
		return nil, fmt.Errorf("unsupported request %T", req)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
}

// run sends one mutation. On success it invalidates, notifies and schedules the follow-up, in
// that order. On failure nothing is invalidated and a destructive notification is sent.
func (d *dispatcher) run(ctx context.Context, key domain.RequestKey, verb domain.Verb, failureMessage string, call func(context.Context) (*ActionResult, error)) (*ActionResult, error) {
	log := logger.WithRequest(key.String())
	log.Info("Dispatching action", "verb", verb, "actor", ActorFrom(ctx))

	res, err := call(ctx)
	if err != nil {
		actionErr := &ActionError{Kind: Classify(err), Key: key, Verb: verb, Err: err}
		log.Error("Action failed", "verb", verb, "kind", actionErr.Kind, "error", err)
		d.notify(ctx, domain.NewNotification(domain.NotificationDestructive, titleError, failureMessage))
		d.record(ctx, key, verb, domain.DecisionFailed, fmt.Sprintf("%s: %v", actionErr.Kind, err))
		return nil, actionErr
	}

	res.Key = key
	res.Verb = verb

	if err := d.cache.Invalidate(ctx, res.invalidates...); err != nil {
		log.Warn("Cache invalidation failed after successful action", "error", err)
	}
	for _, n := range res.Notifications {
		d.notify(ctx, n)
	}
	if res.FollowUp != nil && d.followUps != nil {
		d.followUps.Schedule(d.followUpDelay, *res.FollowUp)
	}
	d.record(ctx, key, verb, domain.DecisionSucceeded, res.detail)

	log.Info("Action succeeded", "verb", verb, "status", res.Status)
	return res, nil
}

func (d *dispatcher) notify(ctx context.Context, n domain.Notification) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(ctx, n); err != nil {
		logger.Warn("Failed to deliver notification", "title", n.Title, "error", err)
	}
}

func (d *dispatcher) record(ctx context.Context, key domain.RequestKey, verb domain.Verb, outcome domain.DecisionOutcome, detail string) {
	decision := &domain.Decision{
		RequestType: key.Type,
		RequestID:   key.ID,
		Verb:        verb,
		Outcome:     outcome,
		Detail:      detail,
		DecidedBy:   ActorFrom(ctx),
	}
	if err := d.decisions.Create(ctx, decision); err != nil {
		logger.Warn("Failed to record decision", "request", key.String(), "error", err)
	}
}
