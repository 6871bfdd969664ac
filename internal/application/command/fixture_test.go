package command

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mentoria-hub/mentoria-hub/internal/domain/business"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/diagnostic"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/material"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/mentor"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/qualification"
	"github.com/mentoria-hub/mentoria-hub/internal/domain/shared"
	"github.com/mentoria-hub/mentoria-hub/internal/infrastructure/persistence/memory"
	"github.com/mentoria-hub/mentoria-hub/pkg/timeutil"
)

var (
	now   = time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC)
	admin = shared.Actor{ID: "admin-1", Role: shared.RoleAdmin}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	pub   *recordingPublisher
	rt    Runtime
	seq   int
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: memory.NewStore(),
		pub:   &recordingPublisher{},
	}
	f.rt = Runtime{
		Clock:     timeutil.FixedClock(now),
		Publisher: f.pub,
		IDs: func() string {
			f.seq++
			return fmt.Sprintf("id-%d", f.seq)
		},
	}
	return f
}

func (f *fixture) evaluator() *qualification.Evaluator {
	return qualification.NewEvaluator(f.store.Mentors, f.store.Materials, f.store.Progress)
}

// seedCatalog stores n mandatory materials m1..mn plus one optional extra.
func (f *fixture) seedCatalog(n int) {
	for i := 1; i <= n; i++ {
		f.store.Materials.Load(&material.Material{
			ID: fmt.Sprintf("m%d", i), Title: fmt.Sprintf("Módulo %d", i),
			Type: material.TypeVideo, Mandatory: true, Order: i,
		})
	}
	f.store.Materials.Load(&material.Material{ID: "extra", Title: "Extra", Type: material.TypeLink, Order: n + 1})
}

func (f *fixture) mentor(id string) shared.Actor {
	m, err := mentor.New(id, "Mentor "+id, id+"@example.com", now)
	require.NoError(f.t, err)
	require.NoError(f.t, f.store.Mentors.Create(f.ctx, m))
	return shared.Actor{ID: id, Role: shared.RoleMentor}
}

// qualify completes every catalog material and accepts the protocol.
func (f *fixture) qualify(actor shared.Actor) {
	items, err := f.store.Materials.List(f.ctx)
	require.NoError(f.t, err)
	h := NewCompleteMaterialHandler(f.store.Mentors, f.store.Materials, f.store.Progress, f.rt)
	for _, m := range items {
		_, err := h.Handle(f.ctx, CompleteMaterialCommand{Actor: actor, MentorID: actor.ID, MaterialID: m.ID})
		require.NoError(f.t, err)
	}
	_, err = NewAcceptProtocolHandler(f.store.Mentors, f.rt).Handle(f.ctx, AcceptProtocolCommand{Actor: actor, MentorID: actor.ID})
	require.NoError(f.t, err)
}

func (f *fixture) assignedBusiness(mentorActor shared.Actor) *business.Business {
	b, err := NewCreateBusinessHandler(f.store.Businesses, f.rt).Handle(f.ctx, CreateBusinessCommand{Actor: admin, Name: "Padaria Sol"})
	require.NoError(f.t, err)
	b, err = NewAssignMentorHandler(f.store.Businesses, f.evaluator(), f.rt).Handle(f.ctx, AssignMentorCommand{
		Actor: admin, BusinessID: b.ID, MentorID: mentorActor.ID,
	})
	require.NoError(f.t, err)
	return b
}

func completeDiagnostic() diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Name: "Joana", Email: "joana@padaria.com", WhatsApp: "+55 11 98888-7777",
		BusinessStatus: "Em operação", TimeOperating: "3 anos", Sector: "Alimentação",
		MaturityManagement: 2, MaturityFinance: 1,
		MainPain: diagnostic.PainFinance, PainDescription: "Sem controle de caixa",
		PainImpact: "Atrasos com fornecedores", PainAttempts: "Planilha", PainExpectation: "Fluxo de caixa",
		InvestmentProfile: diagnostic.InvestmentConservative, DropoutMotive: "Falta de tempo",
		Extroversion: 3, Empathy: 4,
	}
}

func intPtr(v int) *int { return &v }
