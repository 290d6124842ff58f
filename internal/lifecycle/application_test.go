package lifecycle

import (
	"context"
	"errors"
	"testing"

	"roomatch/internal/domain"
)

func newTestService(f *fakeStore) *Service { return New(f, nil) }

func TestCreateApplication(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	off := f.seedOffer("owner1", domain.OfferActive, 1)
	svc := newTestService(f)

	app, err := svc.CreateApplication(ctx, "tenant1", off.ID, "bonjour")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if app.Status != domain.ApplicationPending {
		t.Errorf("status = %q, want pending", app.Status)
	}
	if app.OfferID != off.ID || app.ApplicantID != "tenant1" {
		t.Errorf("app = %+v", app)
	}
}

func TestCreateApplicationPreconditions(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	active := f.seedOffer("owner1", domain.OfferActive, 1)
	draft := f.seedOffer("owner1", domain.OfferDraft, 1)
	rented := f.seedOffer("owner1", domain.OfferRented, 1)
	f.seedApplication(active.ID, "dup", domain.ApplicationPending)
	f.seedApplication(active.ID, "winner", domain.ApplicationAccepted)
	f.seedApplication(active.ID, "loser", domain.ApplicationRejected)
	svc := newTestService(f)

	cases := []struct {
		name      string
		applicant string
		offerID   string
		want      error
	}{
		{"missing offer", "tenant1", "nope", domain.ErrNotFound},
		{"own offer", "owner1", active.ID, domain.ErrSelfApplication},
		{"draft offer", "tenant1", draft.ID, domain.ErrOfferNotAccepting},
		{"rented offer", "tenant1", rented.ID, domain.ErrOfferNotAccepting},
		{"pending duplicate", "dup", active.ID, domain.ErrDuplicateApp},
		{"accepted duplicate", "winner", active.ID, domain.ErrDuplicateApp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateApplication(ctx, tc.applicant, tc.offerID, ""); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	// 被拒后可以再申
	if _, err := svc.CreateApplication(ctx, "loser", active.ID, "on retente"); err != nil {
		t.Fatalf("re-apply after rejection: %v", err)
	}
}

// 接受级联：目标 accepted，其余 pending 全部 rejected，生成一条
// Sejour，offer 满员转 rented。
func TestAcceptApplicationCascade(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	off := f.seedOffer("owner1", domain.OfferActive, 1)
	target := f.seedApplication(off.ID, "tenant1", domain.ApplicationPending)
	rival1 := f.seedApplication(off.ID, "tenant2", domain.ApplicationPending)
	rival2 := f.seedApplication(off.ID, "tenant3", domain.ApplicationPending)
	already := f.seedApplication(off.ID, "tenant4", domain.ApplicationRejected)
	svc := newTestService(f)

	sj, err := svc.AcceptApplication(ctx, "owner1", false, target.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if sj.OfferID != off.ID || sj.OwnerID != "owner1" || sj.TenantID != "tenant1" {
		t.Errorf("sejour = %+v", sj)
	}
	if sj.StartDate.IsZero() || sj.EndDate != nil {
		t.Errorf("sejour dates = %+v", sj)
	}

	wantStatus := map[string]domain.ApplicationStatus{
		target.ID: domain.ApplicationAccepted,
		rival1.ID: domain.ApplicationRejected,
		rival2.ID: domain.ApplicationRejected,
		already.ID: domain.ApplicationRejected,
	}
	for id, want := range wantStatus {
		got, _ := f.FindApplicationByID(ctx, id)
		if got.Status != want {
			t.Errorf("application %s: status = %q, want %q", id, got.Status, want)
		}
	}

	got, _ := f.FindOfferByID(ctx, off.ID)
	if got.Status != domain.OfferRented {
		t.Errorf("offer status = %q, want rented", got.Status)
	}
	if got.SlotsTaken != 1 {
		t.Errorf("slotsTaken = %d, want 1", got.SlotsTaken)
	}
}

// 多槽位时接受一个不拒其余、不转 rented；占满最后一个槽才级联。
func TestAcceptApplicationMultiSlot(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	off := f.seedOffer("owner1", domain.OfferActive, 2)
	a1 := f.seedApplication(off.ID, "tenant1", domain.ApplicationPending)
	a2 := f.seedApplication(off.ID, "tenant2", domain.ApplicationPending)
	a3 := f.seedApplication(off.ID, "tenant3", domain.ApplicationPending)
	svc := newTestService(f)

	if _, err := svc.AcceptApplication(ctx, "owner1", false, a1.ID); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	got, _ := f.FindOfferByID(ctx, off.ID)
	if got.Status != domain.OfferActive || got.SlotsTaken != 1 {
		t.Fatalf("after first accept: %+v", got)
	}
	if app, _ := f.FindApplicationByID(ctx, a2.ID); app.Status != domain.ApplicationPending {
		t.Fatalf("rival must stay pending while slots remain, got %q", app.Status)
	}

	if _, err := svc.AcceptApplication(ctx, "owner1", false, a2.ID); err != nil {
		t.Fatalf("second accept: %v", err)
	}
	got, _ = f.FindOfferByID(ctx, off.ID)
	if got.Status != domain.OfferRented || got.SlotsTaken != 2 {
		t.Fatalf("after filling: %+v", got)
	}
	if app, _ := f.FindApplicationByID(ctx, a3.ID); app.Status != domain.ApplicationRejected {
		t.Fatalf("last rival must be rejected once full, got %q", app.Status)
	}
}

func TestAcceptApplicationErrors(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	off := f.seedOffer("owner1", domain.OfferActive, 1)
	pending := f.seedApplication(off.ID, "tenant1", domain.ApplicationPending)
	rejected := f.seedApplication(off.ID, "tenant2", domain.ApplicationRejected)
	svc := newTestService(f)

	if _, err := svc.AcceptApplication(ctx, "owner1", false, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing application: %v", err)
	}
	if _, err := svc.AcceptApplication(ctx, "someone", false, pending.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner: %v", err)
	}
	if _, err := svc.AcceptApplication(ctx, "owner1", false, rejected.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("terminal application: %v", err)
	}

	// 管理员可代业主接受
	if _, err := svc.AcceptApplication(ctx, "admin", true, pending.ID); err != nil {
		t.Errorf("admin accept: %v", err)
	}
	// 二次接受同一申请：已是终态
	if _, err := svc.AcceptApplication(ctx, "owner1", false, pending.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("double accept: %v", err)
	}
}

func TestAcceptApplicationStorageFailure(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	off := f.seedOffer("owner1", domain.OfferActive, 1)
	app := f.seedApplication(off.ID, "tenant1", domain.ApplicationPending)
	f.failOn["CreateSejour"] = domain.ErrStorageUnavailable
	svc := newTestService(f)

	if _, err := svc.AcceptApplication(ctx, "owner1", false, app.ID); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}

func TestRejectApplication(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	off := f.seedOffer("owner1", domain.OfferActive, 1)
	app := f.seedApplication(off.ID, "tenant1", domain.ApplicationPending)
	svc := newTestService(f)

	if err := svc.RejectApplication(ctx, "stranger", false, app.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner reject: %v", err)
	}
	if err := svc.RejectApplication(ctx, "owner1", false, app.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	got, _ := f.FindApplicationByID(ctx, app.ID)
	if got.Status != domain.ApplicationRejected {
		t.Fatalf("status = %q", got.Status)
	}
	// 拒绝没有级联
	if o, _ := f.FindOfferByID(ctx, off.ID); o.Status != domain.OfferActive || o.SlotsTaken != 0 {
		t.Errorf("offer must be untouched: %+v", o)
	}
	// 终态不能再拒
	if err := svc.RejectApplication(ctx, "owner1", false, app.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("double reject: %v", err)
	}
}

func TestWithdrawApplication(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	off := f.seedOffer("owner1", domain.OfferActive, 1)
	app := f.seedApplication(off.ID, "tenant1", domain.ApplicationPending)
	svc := newTestService(f)

	if err := svc.WithdrawApplication(ctx, "tenant2", app.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("only the applicant may withdraw: %v", err)
	}
	if err := svc.WithdrawApplication(ctx, "tenant1", app.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	got, _ := f.FindApplicationByID(ctx, app.ID)
	if got.Status != domain.ApplicationRejected {
		t.Fatalf("status = %q, want rejected", got.Status)
	}
	// 撤回后可重新申请
	if _, err := svc.CreateApplication(ctx, "tenant1", off.ID, ""); err != nil {
		t.Fatalf("re-apply after withdraw: %v", err)
	}
}
