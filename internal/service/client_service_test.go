package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/courtside/facility-booking/internal/authz"
	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/service"
	"github.com/courtside/facility-booking/internal/service/servicetest"
)

func newClientService() (*service.ClientService, *servicetest.ClientStore) {
	store := servicetest.NewClientStore()
	return service.NewClientService(store), store
}

func profileInput(company string) service.ClientProfileInput {
	return service.ClientProfileInput{
		CompanyName: company,
		Phone:       "+1-555-0100",
		Address:     "12 Court St",
		City:        "Lahore",
		Country:     "PK",
	}
}

func TestRegisterClientForcesRoleAndPendingProfile(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	res, err := svc.RegisterClient(ctx, service.RegisterInput{
		Name:     "Venue Owner",
		Email:    "owner@example.com",
		Password: "secret1",
		Role:     model.RoleSuperAdmin, // must be ignored
	}, profileInput("Courtside Sports"))
	if err != nil {
		t.Fatalf("RegisterClient: %v", err)
	}
	if res.User.Role != model.RoleClient {
		t.Fatalf("role = %s, want %s regardless of the requested role", res.User.Role, model.RoleClient)
	}
	if res.Profile == nil || res.Profile.Status != model.ClientPending {
		t.Fatalf("profile = %+v, want a pending profile", res.Profile)
	}
	if res.Profile.UserID != res.User.ID {
		t.Fatalf("profile.UserID = %d, want %d", res.Profile.UserID, res.User.ID)
	}
}

func TestRegisterClientRequiresCompanyName(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.RegisterClient(context.Background(), service.RegisterInput{
		Email:    "owner@example.com",
		Password: "secret1",
	}, service.ClientProfileInput{})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCreateProfileDuplicateConflict(t *testing.T) {
	svc, _ := newClientService()
	ctx := context.Background()
	owner := authz.Requester{ID: 7, Role: model.RoleClient}

	if _, err := svc.CreateProfile(ctx, owner, owner.ID, profileInput("First Co")); err != nil {
		t.Fatalf("first CreateProfile: %v", err)
	}
	_, err := svc.CreateProfile(ctx, owner, owner.ID, profileInput("Second Co"))
	if !errors.Is(err, service.ErrConflict) {
		t.Fatalf("second CreateProfile err = %v, want ErrConflict", err)
	}
}

func TestCreateProfileForOthersIsAdminOnly(t *testing.T) {
	svc, _ := newClientService()
	ctx := context.Background()

	user := authz.Requester{ID: 3, Role: model.RoleUser}
	if _, err := svc.CreateProfile(ctx, user, 99, profileInput("Not Mine")); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("non-admin for another user: err = %v, want ErrForbidden", err)
	}

	admin := authz.Requester{ID: 1, Role: model.RoleAdmin}
	p, err := svc.CreateProfile(ctx, admin, 99, profileInput("On Behalf"))
	if err != nil {
		t.Fatalf("admin CreateProfile: %v", err)
	}
	if p.UserID != 99 {
		t.Fatalf("p.UserID = %d, want 99", p.UserID)
	}
}

func TestApprovalWorkflowTransitions(t *testing.T) {
	svc, _ := newClientService()
	ctx := context.Background()
	admin := authz.Requester{ID: 1, Role: model.RoleAdmin}
	owner := authz.Requester{ID: 7, Role: model.RoleClient}

	p, err := svc.CreateProfile(ctx, owner, owner.ID, profileInput("Courtside"))
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	// A pending profile cannot go straight to active.
	if _, err := svc.Activate(ctx, admin, p.ID); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("activate pending: err = %v, want ErrValidation", err)
	}

	got, err := svc.Approve(ctx, admin, p.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got.Status != model.ClientApproved {
		t.Fatalf("status = %s, want approved", got.Status)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != admin.ID {
		t.Fatalf("ApprovedBy = %v, want the deciding admin", got.ApprovedBy)
	}
	if got.ApprovedAt == nil {
		t.Fatal("ApprovedAt not recorded")
	}

	// Approve and reject are one-shot decisions on a pending profile.
	if _, err := svc.Approve(ctx, admin, p.ID); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("re-approve: err = %v, want ErrValidation", err)
	}
	if _, err := svc.Reject(ctx, admin, p.ID, "late paperwork"); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("reject approved: err = %v, want ErrValidation", err)
	}

	got, err = svc.Activate(ctx, admin, p.ID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got.Status != model.ClientActive {
		t.Fatalf("status = %s, want active", got.Status)
	}

	got, err = svc.Suspend(ctx, admin, p.ID, "chargeback dispute")
	if err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if got.Status != model.ClientSuspended || got.RejectionReason != "chargeback dispute" {
		t.Fatalf("after suspend: %+v", got)
	}

	// A suspended profile can come back without another review.
	if got, err = svc.Activate(ctx, admin, p.ID); err != nil || got.Status != model.ClientActive {
		t.Fatalf("reactivate suspended: status=%v err=%v", got.Status, err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	svc, _ := newClientService()
	ctx := context.Background()
	admin := authz.Requester{ID: 1, Role: model.RoleAdmin}
	owner := authz.Requester{ID: 7, Role: model.RoleClient}

	p, err := svc.CreateProfile(ctx, owner, owner.ID, profileInput("Courtside"))
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if _, err := svc.Reject(ctx, admin, p.ID, ""); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("reject without reason: err = %v, want ErrValidation", err)
	}
	got, err := svc.Reject(ctx, admin, p.ID, "registration number invalid")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got.Status != model.ClientRejected || got.RejectionReason != "registration number invalid" {
		t.Fatalf("after reject: %+v", got)
	}
}

func TestWorkflowDecisionsAreAdminOnly(t *testing.T) {
	svc, _ := newClientService()
	ctx := context.Background()
	owner := authz.Requester{ID: 7, Role: model.RoleClient}

	p, err := svc.CreateProfile(ctx, owner, owner.ID, profileInput("Courtside"))
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if _, err := svc.Approve(ctx, owner, p.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("owner self-approve: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.List(ctx, owner, ""); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("owner List: err = %v, want ErrForbidden", err)
	}
}

func TestProfileVisibility(t *testing.T) {
	svc, _ := newClientService()
	ctx := context.Background()
	admin := authz.Requester{ID: 1, Role: model.RoleAdmin}
	owner := authz.Requester{ID: 7, Role: model.RoleClient}
	stranger := authz.Requester{ID: 8, Role: model.RoleUser}

	p, err := svc.CreateProfile(ctx, owner, owner.ID, profileInput("Courtside"))
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if _, err := svc.Get(ctx, stranger, p.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("stranger Get: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, owner, p.ID); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
	if _, err := svc.Get(ctx, admin, p.ID); err != nil {
		t.Fatalf("admin Get: %v", err)
	}

	own, err := svc.GetOwn(ctx, owner)
	if err != nil || own.ID != p.ID {
		t.Fatalf("GetOwn = %+v, %v", own, err)
	}
	if _, err := svc.GetOwn(ctx, stranger); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("GetOwn without profile: err = %v, want ErrNotFound", err)
	}

	pending, err := svc.List(ctx, admin, model.ClientPending)
	if err != nil || len(pending) != 1 {
		t.Fatalf("List pending = %v, %v", pending, err)
	}
	if _, err := svc.List(ctx, admin, "bogus"); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("List with unknown status: err = %v, want ErrValidation", err)
	}
}
