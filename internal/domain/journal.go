package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerAccount is a fixed ledger account code. The set is closed; accounts
// are never user-created.
type LedgerAccount string

const (
	AccountCash                LedgerAccount = "cash"
	AccountMemberPayable       LedgerAccount = "member_payable"
	AccountMemberReceivable    LedgerAccount = "member_receivable"
	AccountInventory           LedgerAccount = "inventory"
	AccountInventoryAdjustment LedgerAccount = "inventory_adjustment"
)

// Valid reports whether the account code belongs to the closed set.
func (a LedgerAccount) Valid() bool {
	switch a {
	case AccountCash, AccountMemberPayable, AccountMemberReceivable,
		AccountInventory, AccountInventoryAdjustment:
		return true
	}
	return false
}

// JournalLine is one side of a double-entry record. Exactly one of Debit or
// Credit is non-zero.
type JournalLine struct {
	Account LedgerAccount
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// JournalEntry is a balanced double-entry bookkeeping record. Entries are
// immutable once written; deletion happens only as part of rolling back the
// operation that wrote them.
type JournalEntry struct {
	Date        time.Time
	ID          string
	Description string
	Lines       []JournalLine
}

// Validate checks the double-entry invariant: every line has exactly one side
// set, every account is known, and total debits equal total credits.
func (j *JournalEntry) Validate() error {
	if len(j.Lines) == 0 {
		return ErrUnbalancedJournal
	}

	debits := decimal.Zero
	credits := decimal.Zero

	for _, line := range j.Lines {
		if !line.Account.Valid() {
			return ErrUnknownAccount
		}

		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			return ErrInvalidJournalLine
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return ErrInvalidJournalLine
		}

		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Equal(credits) {
		return ErrUnbalancedJournal
	}

	return nil
}

// Total returns the entry's debit total (equal to the credit total for a
// valid entry).
func (j *JournalEntry) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range j.Lines {
		total = total.Add(line.Debit)
	}
	return total
}
