package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/fernpay/payments-backend/internal/data/repos/payments"
	"github.com/fernpay/payments-backend/internal/data/repos/testutil"
	"github.com/fernpay/payments-backend/internal/domain"
	"github.com/fernpay/payments-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fernpay/payments-backend/internal/pkg/errors"
)

func newTransferFixture(t *testing.T, balances ...float64) (*transferService, payments.AccountRepo, []*domain.Account, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	accountRepo := payments.NewAccountRepo(db, log)
	transferRepo := payments.NewTransferRepo(db, log)
	svc := NewTransferService(db, log, accountRepo, transferRepo, nil, 3*time.Second).(*transferService)

	dbc := dbctx.Context{Ctx: context.Background()}
	accounts := make([]*domain.Account, 0, len(balances))
	numbers := make([]int64, 0, len(balances))
	for _, balance := range balances {
		number := testutil.AccountNumber()
		account, err := accountRepo.Create(dbc, &domain.Account{
			Name:          "Account",
			Balance:       balance,
			AccountNumber: number,
		})
		if err != nil {
			t.Fatalf("create account: %v", err)
		}
		accounts = append(accounts, account)
		numbers = append(numbers, number)
	}
	testutil.PurgeAccounts(t, db, numbers...)
	return svc, accountRepo, accounts, db
}

func balanceOf(t *testing.T, repo payments.AccountRepo, accountNumber int64) float64 {
	t.Helper()
	account, err := repo.GetByAccountNumber(dbctx.Context{Ctx: context.Background()}, accountNumber)
	if err != nil {
		t.Fatalf("read balance of %d: %v", accountNumber, err)
	}
	return account.Balance
}

func TestProcessTransferSuccess(t *testing.T) {
	svc, accountRepo, accounts, _ := newTransferFixture(t, 1000, 3000)
	sender, receiver := accounts[0], accounts[1]

	record, err := svc.ProcessTransfer(context.Background(), sender.AccountNumber, receiver.AccountNumber, 1000)
	if err != nil {
		t.Fatalf("ProcessTransfer: %v", err)
	}
	if record.Status != domain.StatusSuccess {
		t.Fatalf("status: got %q want %q", record.Status, domain.StatusSuccess)
	}
	if record.ID == 0 {
		t.Fatal("record not persisted")
	}

	senderAfter := balanceOf(t, accountRepo, sender.AccountNumber)
	receiverAfter := balanceOf(t, accountRepo, receiver.AccountNumber)
	if senderAfter != 0 {
		t.Fatalf("sender balance: got %v want 0", senderAfter)
	}
	if receiverAfter != 4000 {
		t.Fatalf("receiver balance: got %v want 4000", receiverAfter)
	}
	if senderAfter+receiverAfter != 4000 {
		t.Fatalf("funds not conserved: %v", senderAfter+receiverAfter)
	}
}

func TestProcessTransferInsufficientFunds(t *testing.T) {
	svc, accountRepo, accounts, _ := newTransferFixture(t, 1000, 3000)
	sender, receiver := accounts[0], accounts[1]

	record, err := svc.ProcessTransfer(context.Background(), sender.AccountNumber, receiver.AccountNumber, 2000)
	if err != nil {
		t.Fatalf("ProcessTransfer: %v", err)
	}
	if record.Status != domain.StatusInsufficientFunds {
		t.Fatalf("status: got %q want %q", record.Status, domain.StatusInsufficientFunds)
	}

	if got := balanceOf(t, accountRepo, sender.AccountNumber); got != 1000 {
		t.Fatalf("sender balance mutated on rejection: got %v want 1000", got)
	}
	if got := balanceOf(t, accountRepo, receiver.AccountNumber); got != 3000 {
		t.Fatalf("receiver balance mutated on rejection: got %v want 3000", got)
	}

	// The rejected attempt is still recorded.
	history, err := svc.ListByAccountNumber(context.Background(), sender.AccountNumber)
	if err != nil {
		t.Fatalf("ListByAccountNumber: %v", err)
	}
	if len(history) != 1 || history[0].Status != domain.StatusInsufficientFunds {
		t.Fatalf("rejected attempt not recorded: %+v", history)
	}
}

// A transfer from an account to itself must leave the balance exactly where
// it was: the debit and credit land on the same row and cancel.
func TestProcessTransferSelfTransferConservesFunds(t *testing.T) {
	svc, accountRepo, accounts, _ := newTransferFixture(t, 1000)
	account := accounts[0]

	record, err := svc.ProcessTransfer(context.Background(), account.AccountNumber, account.AccountNumber, 500)
	if err != nil {
		t.Fatalf("ProcessTransfer: %v", err)
	}
	if record.Status != domain.StatusSuccess {
		t.Fatalf("status: got %q want %q", record.Status, domain.StatusSuccess)
	}
	if record.SenderID != account.ID || record.ReceiverID != account.ID {
		t.Fatalf("record endpoints: got %s -> %s want both %s", record.SenderID, record.ReceiverID, account.ID)
	}

	if got := balanceOf(t, accountRepo, account.AccountNumber); got != 1000 {
		t.Fatalf("self-transfer changed balance: got %v want 1000", got)
	}

	// Exceeding the balance still rejects even against oneself.
	record, err = svc.ProcessTransfer(context.Background(), account.AccountNumber, account.AccountNumber, 2000)
	if err != nil {
		t.Fatalf("ProcessTransfer over balance: %v", err)
	}
	if record.Status != domain.StatusInsufficientFunds {
		t.Fatalf("over-balance status: got %q", record.Status)
	}
	if got := balanceOf(t, accountRepo, account.AccountNumber); got != 1000 {
		t.Fatalf("rejected self-transfer changed balance: got %v want 1000", got)
	}
}

func TestProcessTransferUnknownAccounts(t *testing.T) {
	svc, _, accounts, _ := newTransferFixture(t, 1000)
	known := accounts[0]
	unknown := testutil.AccountNumber()

	if _, err := svc.ProcessTransfer(context.Background(), unknown, known.AccountNumber, 10); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown sender: got %v want ErrNotFound", err)
	}
	if _, err := svc.ProcessTransfer(context.Background(), known.AccountNumber, unknown, 10); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown receiver: got %v want ErrNotFound", err)
	}

	// A failed resolution produces no ledger row.
	history, err := svc.ListByAccountNumber(context.Background(), known.AccountNumber)
	if err != nil {
		t.Fatalf("ListByAccountNumber: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("ledger row written for failed resolution: %+v", history)
	}
}

// The executor accepts zero and negative amounts; a negative amount moves
// funds from receiver to sender. This pins the current behavior.
func TestProcessTransferNonPositiveAmounts(t *testing.T) {
	svc, accountRepo, accounts, _ := newTransferFixture(t, 1000, 3000)
	sender, receiver := accounts[0], accounts[1]

	record, err := svc.ProcessTransfer(context.Background(), sender.AccountNumber, receiver.AccountNumber, 0)
	if err != nil {
		t.Fatalf("zero amount: %v", err)
	}
	if record.Status != domain.StatusSuccess {
		t.Fatalf("zero amount status: got %q", record.Status)
	}

	record, err = svc.ProcessTransfer(context.Background(), sender.AccountNumber, receiver.AccountNumber, -500)
	if err != nil {
		t.Fatalf("negative amount: %v", err)
	}
	if record.Status != domain.StatusSuccess {
		t.Fatalf("negative amount status: got %q", record.Status)
	}
	if got := balanceOf(t, accountRepo, sender.AccountNumber); got != 1500 {
		t.Fatalf("sender balance after negative amount: got %v want 1500", got)
	}
	if got := balanceOf(t, accountRepo, receiver.AccountNumber); got != 2500 {
		t.Fatalf("receiver balance after negative amount: got %v want 2500", got)
	}
}

func TestProcessTransferRecordsEveryAttemptOnce(t *testing.T) {
	svc, _, accounts, _ := newTransferFixture(t, 1000, 3000)
	sender, receiver := accounts[0], accounts[1]

	attempts := []float64{400, 9999, 300}
	for _, amount := range attempts {
		if _, err := svc.ProcessTransfer(context.Background(), sender.AccountNumber, receiver.AccountNumber, amount); err != nil {
			t.Fatalf("ProcessTransfer(%v): %v", amount, err)
		}
	}

	history, err := svc.ListByAccountNumber(context.Background(), sender.AccountNumber)
	if err != nil {
		t.Fatalf("ListByAccountNumber: %v", err)
	}
	if len(history) != len(attempts) {
		t.Fatalf("record count: got %d want %d", len(history), len(attempts))
	}
	// Newest first, timestamps non-increasing down the list.
	for i := 1; i < len(history); i++ {
		if history[i].TransferTime.After(history[i-1].TransferTime) {
			t.Fatalf("history not ordered by time desc at row %d", i)
		}
	}
}

func TestListByAccountNumber(t *testing.T) {
	svc, _, accounts, _ := newTransferFixture(t, 1000, 3000)
	sender, receiver := accounts[0], accounts[1]

	// No transfers yet: empty sequence, not an error.
	history, err := svc.ListByAccountNumber(context.Background(), receiver.AccountNumber)
	if err != nil {
		t.Fatalf("ListByAccountNumber: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d rows", len(history))
	}

	if _, err := svc.ListByAccountNumber(context.Background(), testutil.AccountNumber()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown account: got %v want ErrNotFound", err)
	}

	if _, err := svc.ProcessTransfer(context.Background(), sender.AccountNumber, receiver.AccountNumber, 100); err != nil {
		t.Fatalf("ProcessTransfer: %v", err)
	}
	if _, err := svc.ProcessTransfer(context.Background(), receiver.AccountNumber, sender.AccountNumber, 50); err != nil {
		t.Fatalf("ProcessTransfer back: %v", err)
	}

	// Both directions appear, newest first, and repeated reads agree.
	history, err = svc.ListByAccountNumber(context.Background(), sender.AccountNumber)
	if err != nil {
		t.Fatalf("ListByAccountNumber: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("merged history: got %d rows want 2", len(history))
	}
	if history[0].Sender == nil || history[0].Sender.AccountNumber != receiver.AccountNumber {
		t.Fatalf("newest row should be the return transfer: %+v", history[0])
	}
	again, err := svc.ListByAccountNumber(context.Background(), sender.AccountNumber)
	if err != nil {
		t.Fatalf("ListByAccountNumber repeat: %v", err)
	}
	for i := range again {
		if again[i].ID != history[i].ID {
			t.Fatalf("ordering not stable at row %d", i)
		}
	}
}
