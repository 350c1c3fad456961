package services

import (
	"github.com/SscSPs/bank_ledger_api/internal/core/duplicates"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger_api/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// sink may be nil.
func NewServiceContainer(repos portsrepo.RepositoryProvider, engine *duplicates.Engine, sink portssvc.DuplicateEventSink) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Bank = NewBankService(repos.BankRepo, WithClock(engine))
	container.Account = NewAccountService(repos.AccountRepo, repos.BankRepo, WithClock(engine))

	var txnOptions []TransactionServiceOption
	if sink != nil {
		txnOptions = append(txnOptions, WithDuplicateEventSink(sink))
	}
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.BankRepo, engine, txnOptions...)

	return container
}
