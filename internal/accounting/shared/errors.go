package shared

import "errors"

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("accounting: journal requires at least two lines")
	// ErrAccountNotFound indicates a referenced account does not resolve.
	ErrAccountNotFound = errors.New("accounting: account not found")
	// ErrAccountInactive indicates the account exists but can no longer be posted to.
	ErrAccountInactive = errors.New("accounting: account is inactive")
	// ErrSourceAlreadyLinked indicates idempotency conflict.
	ErrSourceAlreadyLinked = errors.New("accounting: source already linked")
	// ErrJournalNotFound indicates missing entry.
	ErrJournalNotFound = errors.New("accounting: journal entry not found")
	// ErrInvalidStatus indicates action can't proceed.
	ErrInvalidStatus = errors.New("accounting: invalid status transition")
	// ErrSourceConflict indicates the source link already exists.
	ErrSourceConflict = errors.New("accounting: source link conflict")
	// ErrRefNotConfigured indicates a required chart-of-accounts reference
	// is missing or inactive. Setup fault, not user input.
	ErrRefNotConfigured = errors.New("accounting: referenced account not configured")
)
