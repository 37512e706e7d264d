package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/fernpay/payments-backend/internal/data/repos/testutil"
	"github.com/fernpay/payments-backend/internal/domain"
	"github.com/fernpay/payments-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fernpay/payments-backend/internal/pkg/errors"
)

func TestAccountRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewAccountRepo(db, testutil.Logger(t))

	number := testutil.AccountNumber()
	created, err := repo.Create(dbc, &domain.Account{
		Name:          "Alice",
		Balance:       1000,
		AccountNumber: number,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.String() == "" {
		t.Fatal("Create: id not assigned")
	}

	got, err := repo.GetByAccountNumber(dbc, number)
	if err != nil {
		t.Fatalf("GetByAccountNumber: %v", err)
	}
	if got.Name != "Alice" || got.Balance != 1000 {
		t.Fatalf("GetByAccountNumber: got %+v", got)
	}

	locked, err := repo.GetByAccountNumberForUpdate(dbc, number)
	if err != nil {
		t.Fatalf("GetByAccountNumberForUpdate: %v", err)
	}
	if locked.ID != created.ID {
		t.Fatalf("GetByAccountNumberForUpdate: got id %s want %s", locked.ID, created.ID)
	}

	if err := repo.UpdateBalance(dbc, created.ID, 250); err != nil {
		t.Fatalf("UpdateBalance: %v", err)
	}
	got, err = repo.GetByAccountNumber(dbc, number)
	if err != nil {
		t.Fatalf("GetByAccountNumber after update: %v", err)
	}
	if got.Balance != 250 {
		t.Fatalf("balance not persisted: got %v want 250", got.Balance)
	}

	if _, err := repo.GetByAccountNumber(dbc, testutil.AccountNumber()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown account: got %v want ErrNotFound", err)
	}

	accounts, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, a := range accounts {
		if a.AccountNumber == number {
			found = true
		}
	}
	if !found {
		t.Fatal("List: created account missing")
	}
}

func TestAccountRepoDuplicateAccountNumber(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewAccountRepo(db, testutil.Logger(t))

	number := testutil.AccountNumber()
	if _, err := repo.Create(dbc, &domain.Account{Name: "Alice", Balance: 100, AccountNumber: number}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	// Second insert aborts the transaction, so this is the last statement.
	_, err := repo.Create(dbc, &domain.Account{Name: "Bob", Balance: 100, AccountNumber: number})
	if !errors.Is(err, pkgerrors.ErrDuplicateKey) {
		t.Fatalf("duplicate Create: got %v want ErrDuplicateKey", err)
	}
}
