package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
	"github.com/stacksapp/stacks-api/pkg/helpers"
)

func newUserService() (*UserService, *memUserRepo) {
	users := newMemUserRepo()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewUserService(users, jwt, nil, nil, nil), users
}

func register(t *testing.T, svc *UserService, email string) *entity.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "correct horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _ := newUserService()
	u := register(t, svc, "ada@example.com")

	if u.Password == "correct horse" {
		t.Fatal("password stored in plain text")
	}
	if !helpers.CompareHashAndPassword(u.Password, "correct horse") {
		t.Fatal("stored hash does not match password")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	register(t, svc, "ada@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{Email: "ada@example.com", Password: "x"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newUserService()
	register(t, svc, "ada@example.com")

	_, errUnknown := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	_, errWrongPwd := svc.Authenticate(context.Background(), "ada@example.com", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPwd, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for both, got %v / %v", errUnknown, errWrongPwd)
	}
	if errUnknown.Error() != errWrongPwd.Error() {
		t.Fatalf("failure modes distinguishable: %q vs %q", errUnknown, errWrongPwd)
	}
}

func TestLoginIssuesParseableTokens(t *testing.T) {
	svc, _ := newUserService()
	register(t, svc, "ada@example.com")

	profile, pair, err := svc.Login(context.Background(), "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if profile.Email != "ada@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != profile.UserID || claims.SessionID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	rclaims, err := svc.JWT.ParseRefreshToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if rclaims.SessionID != claims.SessionID {
		t.Fatal("access and refresh carry different session ids")
	}
}

func TestUpdateProfileAllowList(t *testing.T) {
	svc, _ := newUserService()
	u := register(t, svc, "ada@example.com")

	got, err := svc.UpdateProfile(context.Background(), u.ID, []Field{
		{Name: "firstName", Value: "Grace"},
		{Name: "lastName", Value: "Hopper"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FirstName != "Grace" || got.LastName != "Hopper" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestUpdateProfileRejectsForbiddenFieldFirst(t *testing.T) {
	svc, users := newUserService()
	u := register(t, svc, "ada@example.com")

	_, err := svc.UpdateProfile(context.Background(), u.ID, []Field{
		{Name: "firstName", Value: "Grace"},
		{Name: "password", Value: "sneaky"},
		{Name: "deals", Value: []string{"d1"}},
	})
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("want FieldError, got %v", err)
	}
	if fe.Field != "password" {
		t.Fatalf("want first disallowed field password, got %q", fe.Field)
	}

	stored, _ := users.GetByID(context.Background(), u.ID)
	if stored.FirstName != "Ada" {
		t.Fatalf("partial write applied: %+v", stored)
	}
}

func TestUpdateProfileRejectsNonStringValue(t *testing.T) {
	svc, _ := newUserService()
	u := register(t, svc, "ada@example.com")

	_, err := svc.UpdateProfile(context.Background(), u.ID, []Field{
		{Name: "firstName", Value: 42.0},
	})
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("want FieldError, got %v", err)
	}
}

func TestDealLifecycleTransitions(t *testing.T) {
	svc, _ := newUserService()
	u := register(t, svc, "ada@example.com")
	ctx := context.Background()

	got, err := svc.AddDeal(ctx, u.ID, "d1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(got.HeldDeals) != 1 || got.HeldDeals[0] != "d1" {
		t.Fatalf("after add: %+v", got)
	}

	got, err = svc.RedeemDeal(ctx, u.ID, "d1")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if len(got.HeldDeals) != 0 || len(got.RedeemedDeals) != 1 {
		t.Fatalf("after redeem: held=%v redeemed=%v", got.HeldDeals, got.RedeemedDeals)
	}

	got, err = svc.AddDeal(ctx, u.ID, "d2")
	if err != nil {
		t.Fatalf("add d2: %v", err)
	}
	got, err = svc.DismissDeal(ctx, u.ID, "d2")
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if len(got.HeldDeals) != 0 || len(got.DismissedDeals) != 1 || got.DismissedDeals[0] != "d2" {
		t.Fatalf("after dismiss: held=%v dismissed=%v", got.HeldDeals, got.DismissedDeals)
	}
}

func TestAddDealIsIdempotent(t *testing.T) {
	svc, _ := newUserService()
	u := register(t, svc, "ada@example.com")
	ctx := context.Background()

	if _, err := svc.AddDeal(ctx, u.ID, "d1"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	got, err := svc.AddDeal(ctx, u.ID, "d1")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(got.HeldDeals) != 1 {
		t.Fatalf("duplicate held entry: %v", got.HeldDeals)
	}
}

func TestSetsStayPairwiseDisjoint(t *testing.T) {
	svc, _ := newUserService()
	u := register(t, svc, "ada@example.com")
	ctx := context.Background()

	// bounce one deal through every transition
	steps := []func() (*entity.User, error){
		func() (*entity.User, error) { return svc.AddDeal(ctx, u.ID, "d1") },
		func() (*entity.User, error) { return svc.RedeemDeal(ctx, u.ID, "d1") },
		func() (*entity.User, error) { return svc.AddDeal(ctx, u.ID, "d1") },
		func() (*entity.User, error) { return svc.DismissDeal(ctx, u.ID, "d1") },
		func() (*entity.User, error) { return svc.AddDeal(ctx, u.ID, "d1") },
	}
	for i, step := range steps {
		got, err := step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		total := len(got.HeldDeals) + len(got.RedeemedDeals) + len(got.DismissedDeals)
		if total != 1 {
			t.Fatalf("step %d: d1 in %d sets (held=%v redeemed=%v dismissed=%v)",
				i, total, got.HeldDeals, got.RedeemedDeals, got.DismissedDeals)
		}
	}
}

func TestDealTransitionForUnknownUserDenied(t *testing.T) {
	svc, _ := newUserService()

	if _, err := svc.AddDeal(context.Background(), "ghost", "d1"); !errors.Is(err, ErrCannotMutate) {
		t.Fatalf("want ErrCannotMutate, got %v", err)
	}
}
