package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fernpay/payments-backend/internal/data/repos/payments"
	"github.com/fernpay/payments-backend/internal/data/repos/testutil"
	pkgerrors "github.com/fernpay/payments-backend/internal/pkg/errors"
)

func newAccountFixture(t *testing.T) AccountService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewAccountService(db, log, payments.NewAccountRepo(db, log), nil)
}

func TestAccountServiceCreateValidation(t *testing.T) {
	svc := newAccountFixture(t)
	ctx := context.Background()

	cases := []struct {
		name          string
		accountName   string
		accountNumber int64
	}{
		{"empty name", "", testutil.AccountNumber()},
		{"whitespace name", "   ", testutil.AccountNumber()},
		{"zero account number", "Ada", 0},
		{"negative account number", "Ada", -7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.accountName, 100, tc.accountNumber)
			if !errors.Is(err, pkgerrors.ErrInvalidInput) {
				t.Fatalf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAccountServiceCreateAndGet(t *testing.T) {
	svc := newAccountFixture(t)
	ctx := context.Background()
	db := testutil.DB(t)

	number := testutil.AccountNumber()
	testutil.PurgeAccounts(t, db, number)

	created, err := svc.Create(ctx, "  Grace Hopper  ", 2500, number)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Grace Hopper" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}
	if created.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected generated id")
	}

	got, err := svc.GetByAccountNumber(ctx, number)
	if err != nil {
		t.Fatalf("GetByAccountNumber: %v", err)
	}
	if got.ID != created.ID || got.Balance != 2500 {
		t.Fatalf("got %+v, want the created account", got)
	}

	if _, err := svc.Create(ctx, "Impostor", 0, number); !errors.Is(err, pkgerrors.ErrDuplicateKey) {
		t.Fatalf("duplicate account number: got %v, want ErrDuplicateKey", err)
	}
}

func TestAccountServiceGetUnknown(t *testing.T) {
	svc := newAccountFixture(t)
	if _, err := svc.GetByAccountNumber(context.Background(), testutil.AccountNumber()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestAccountServiceList(t *testing.T) {
	svc := newAccountFixture(t)
	ctx := context.Background()
	db := testutil.DB(t)

	first := testutil.AccountNumber()
	second := testutil.AccountNumber()
	testutil.PurgeAccounts(t, db, first, second)

	if _, err := svc.Create(ctx, "Alan", 10, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "Barbara", 20, second); err != nil {
		t.Fatalf("Create: %v", err)
	}

	accounts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	seen := map[int64]bool{}
	for _, a := range accounts {
		seen[a.AccountNumber] = true
	}
	if !seen[first] || !seen[second] {
		t.Fatalf("listed accounts missing fixtures: %v %v", seen[first], seen[second])
	}
}
