/*
Package wallet is the prepaid wallet ledger.

Every balance change goes through TryDebit or Credit, which update the
student's balance and append a ledger row in one database transaction. A
debit only succeeds when the balance before the debit covers the amount, so
the balance can never go negative.

When called with a context that already carries a transaction (see
repositories.TxManager) both operations join it, which is how order
placement debits the wallet atomically with the order and token writes.

Cache Management:

A student's profile (name and balance) is cached in Redis for the menu and
profile screens. The entry is invalidated after the surrounding transaction
commits; reads that need an authoritative balance use BalanceOf or LockOwner,
which always go to the database.

Reconciliation:

For every student, credits minus debits over the ledger equals the current
balance. Opening balances are recorded as credits so the baseline is zero.
*/
package wallet
