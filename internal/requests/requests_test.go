package requests

import (
	"testing"
	"time"

	"canna-backoffice-requests/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func fixtures() ([]domain.Organization, []domain.PlanChangeRequest) {
	orgs := []domain.Organization{
		{ID: 1, Name: "Acme Labs", Email: "contato@acme.com", Type: "laboratory", Status: domain.OrganizationStatusPending, CreatedAt: ago(2 * time.Hour)},
		{ID: 2, Name: "Verde Vivo", Email: "oi@verdevivo.org", Type: "association", Status: domain.OrganizationStatusApproved, CreatedAt: ago(72 * time.Hour)},
		{ID: 3, Email: "anon@cultivo.br", Type: "cultivation", Status: domain.OrganizationStatusPending, CreatedAt: ago(48 * time.Hour)},
		{ID: 4, Name: "Farmácia Sol", Status: domain.OrganizationStatusRejected},
	}
	planChanges := []domain.PlanChangeRequest{
		{ID: 1, Name: "Clínica Bem Estar", Email: "admin@bemestar.com", CurrentPlanID: 1, RequestedPlanID: 3, CurrentPlanName: "Básico", RequestedPlanName: "Premium", RequestDate: ago(time.Hour)},
		{ID: 9, CurrentPlanID: 2, RequestedPlanID: 1},
	}
	return orgs, planChanges
}

func TestNormalize(t *testing.T) {
	orgs, planChanges := fixtures()
	pending := PendingOrganizations(orgs)
	require.Len(t, pending, 2)

	list := Normalize(pending, planChanges, now)

	t.Run("Completeness", func(t *testing.T) {
		require.Len(t, list, len(pending)+len(planChanges))
		got := make([]domain.RequestKey, 0, len(list))
		for _, r := range list {
			got = append(got, r.Key())
		}
		want := []domain.RequestKey{
			{Type: domain.RequestTypeRegistration, ID: 1},
			{Type: domain.RequestTypeRegistration, ID: 3},
			{Type: domain.RequestTypePlanChange, ID: 1},
			{Type: domain.RequestTypePlanChange, ID: 9},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Fallbacks", func(t *testing.T) {
		assert.Equal(t, FallbackName, list[1].Name())
		assert.Equal(t, FallbackCategory, list[3].Category())

		pc, ok := list[3].(*domain.PlanChange)
		require.True(t, ok)
		assert.Equal(t, FallbackName, pc.Name())
		assert.Equal(t, FallbackEmail, pc.Email())
		assert.Equal(t, FallbackPlanName, pc.CurrentPlanName)
		assert.Equal(t, FallbackPlanName, pc.RequestedPlanName)
		assert.Equal(t, int32(1), pc.RequestedPlanID)
		assert.Equal(t, now, pc.Date())
	})

	t.Run("Plan fields carried", func(t *testing.T) {
		pc := list[2].(*domain.PlanChange)
		assert.Equal(t, "Premium", pc.RequestedPlanName)
		assert.Equal(t, int32(3), pc.RequestedPlanID)
		assert.Equal(t, domain.OrganizationStatusPending, pc.Status())
	})
}

func TestFilter(t *testing.T) {
	orgs, planChanges := fixtures()
	list := Normalize(PendingOrganizations(orgs), planChanges, now)

	t.Run("Empty term is identity", func(t *testing.T) {
		assert.Equal(t, list, Filter(list, ""))
		assert.Equal(t, list, Filter(list, "   "))
	})

	t.Run("Case insensitive", func(t *testing.T) {
		upper := Filter(list, "ACME")
		lower := Filter(list, "acme")
		require.Len(t, upper, 1)
		assert.Equal(t, upper, lower)
		assert.Equal(t, "Acme Labs", upper[0].Name())
	})

	t.Run("Idempotent", func(t *testing.T) {
		for _, term := range []string{"a", "com", "9", "zzz"} {
			once := Filter(list, term)
			assert.Equal(t, once, Filter(once, term), term)
		}
	})

	t.Run("Matches email and id", func(t *testing.T) {
		byEmail := Filter(list, "bemestar")
		require.Len(t, byEmail, 1)
		assert.Equal(t, domain.RequestTypePlanChange, byEmail[0].Key().Type)

		byID := Filter(list, "9")
		require.Len(t, byID, 1)
		assert.Equal(t, int32(9), byID[0].Key().ID)
	})

	t.Run("Stable", func(t *testing.T) {
		got := Filter(list, "1")
		require.Len(t, got, 2)
		assert.Equal(t, domain.RequestTypeRegistration, got[0].Key().Type)
		assert.Equal(t, domain.RequestTypePlanChange, got[1].Key().Type)
	})
}

func TestSummarize(t *testing.T) {
	orgs, planChanges := fixtures()
	pending := PendingOrganizations(orgs)

	stats := Summarize(pending, planChanges, now)
	assert.Equal(t, len(pending)+len(planChanges), stats.TotalRequests)
	assert.Equal(t, 2, stats.PendingRegistrations)
	assert.Equal(t, 2, stats.PendingPlanChanges)
	assert.Equal(t, 1, stats.NewRequests)

	t.Run("24h window boundary", func(t *testing.T) {
		inside := domain.Organization{ID: 10, Status: domain.OrganizationStatusPending, CreatedAt: ago(23*time.Hour + 59*time.Minute)}
		outside := domain.Organization{ID: 11, Status: domain.OrganizationStatusPending, CreatedAt: ago(24*time.Hour + time.Minute)}
		exact := domain.Organization{ID: 12, Status: domain.OrganizationStatusPending, CreatedAt: ago(24 * time.Hour)}

		assert.Equal(t, 1, Summarize([]domain.Organization{inside}, nil, now).NewRequests)
		assert.Equal(t, 0, Summarize([]domain.Organization{outside}, nil, now).NewRequests)
		assert.Equal(t, 0, Summarize([]domain.Organization{exact}, nil, now).NewRequests)
	})

	t.Run("Missing createdAt counts as now", func(t *testing.T) {
		s := Summarize([]domain.Organization{{ID: 5, Status: domain.OrganizationStatusPending}}, nil, now)
		assert.Equal(t, 1, s.NewRequests)
		assert.Equal(t, 1, s.TotalRequests)
	})
}

func TestRenderModel(t *testing.T) {
	orgs, planChanges := fixtures()

	full := RenderModel(orgs, planChanges, "", now, time.UTC)
	filtered := RenderModel(orgs, planChanges, "acme", now, time.UTC)

	assert.Len(t, full.Rows, 4)
	assert.Len(t, filtered.Rows, 1)
	assert.Equal(t, full.Stats, filtered.Stats, "search never changes the counts")
	assert.Equal(t, 4, filtered.Stats.TotalRequests)

	row := filtered.Rows[0]
	assert.Equal(t, "10/03/2025", row.DisplayDate)
	assert.Equal(t, LabelApprove, row.ApproveLabel)
	assert.Equal(t, LabelReject, row.RejectLabel)

	pcRow := full.Rows[2]
	assert.Equal(t, domain.RequestTypePlanChange, pcRow.RequestType)
	assert.Equal(t, "Básico", pcRow.CurrentPlanName)

	t.Run("Display date uses location", func(t *testing.T) {
		sp := time.FixedZone("BRT", -3*60*60)
		late := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
		assert.Equal(t, "09/03/2025", FormatDate(late, sp))
	})
}

func TestFind(t *testing.T) {
	orgs, planChanges := fixtures()
	list := Normalize(PendingOrganizations(orgs), planChanges, now)

	r, ok := Find(list, domain.RequestKey{Type: domain.RequestTypePlanChange, ID: 1})
	require.True(t, ok)
	assert.Equal(t, "Clínica Bem Estar", r.Name())

	r, ok = Find(list, domain.RequestKey{Type: domain.RequestTypeRegistration, ID: 1})
	require.True(t, ok)
	assert.Equal(t, "Acme Labs", r.Name())

	_, ok = Find(list, domain.RequestKey{Type: domain.RequestTypeRegistration, ID: 2})
	assert.False(t, ok)
}
