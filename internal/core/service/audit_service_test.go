package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

type stubAuditRepo struct {
	inserted []domain.AuthEvent
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuthEvent) error {
	r.inserted = append(r.inserted, *event)
	return nil
}

func (r *stubAuditRepo) ListByAccount(_ context.Context, accountID string, _ int64) ([]*domain.AuthEvent, error) {
	out := make([]*domain.AuthEvent, 0)
	for i := range r.inserted {
		if r.inserted[i].AccountID == accountID {
			out = append(out, &r.inserted[i])
		}
	}
	return out, nil
}

type stubIncidentMarker struct {
	marked []string
}

func (m *stubIncidentMarker) MarkReuse(_ context.Context, accountID string) error {
	m.marked = append(m.marked, accountID)
	return nil
}

func TestAuditService_Process_PersistsEvent(t *testing.T) {
	repo := &stubAuditRepo{}
	marker := &stubIncidentMarker{}
	svc := NewAuditService(repo, marker, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuthEvent{
		AccountID: "acc_1",
		Kind:      domain.AuthEventLogin,
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Kind != domain.AuthEventLogin {
		t.Fatalf("event not persisted: %+v", repo.inserted)
	}
	if len(marker.marked) != 0 {
		t.Fatalf("login must not mark an incident")
	}
}

func TestAuditService_Process_ReuseMarksIncident(t *testing.T) {
	repo := &stubAuditRepo{}
	marker := &stubIncidentMarker{}
	svc := NewAuditService(repo, marker, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuthEvent{
		AccountID: "acc_7",
		Kind:      domain.AuthEventReuseDetected,
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(marker.marked) != 1 || marker.marked[0] != "acc_7" {
		t.Fatalf("incident not marked: %v", marker.marked)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("reuse event not persisted")
	}
}
