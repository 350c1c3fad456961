package pgsql_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/SscSPs/bank_ledger_api/internal/core/domain"
	"github.com/SscSPs/bank_ledger_api/internal/core/duplicates"
	portsrepo "github.com/SscSPs/bank_ledger_api/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/bank_ledger_api/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const migrationsDir = "../../../../migrations/postgres"

// PgxRepositoryTestSuite runs against the database named by PGSQL_URL.
// Every test works on its own bank, account and amount range and removes
// only the rows it created.
type PgxRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	pool    *pgxpool.Pool
	repos   portsrepo.RepositoryProvider
	clockMu sync.Mutex
	now     time.Time
	engine  *duplicates.Engine
	bank    *domain.Bank
	account *domain.Account
	base    int64
}

var t0 = time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

func (suite *PgxRepositoryTestSuite) SetupSuite() {
	url := os.Getenv("PGSQL_URL")
	if url == "" {
		suite.T().Skip("PGSQL_URL not set, skipping Postgres repository tests")
	}
	suite.ctx = context.Background()

	_, err := database.RunPostgresMigrations(url, migrationsDir)
	suite.Require().NoError(err)

	suite.pool, err = database.NewPgxPool(suite.ctx, url, true)
	suite.Require().NoError(err)
	suite.repos = pgsql.NewRepositoryProvider(suite.pool)
}

func (suite *PgxRepositoryTestSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.repos.Close()
	}
}

func (suite *PgxRepositoryTestSuite) SetupTest() {
	suite.setNow(t0)
	suite.engine = duplicates.NewEngine(time.Minute, duplicates.WithClock(duplicates.ClockFunc(suite.clockNow)))
	suite.base = 100000 + rand.Int63n(1_000_000_000)

	var err error
	suite.bank, err = suite.repos.BankRepo.SaveBank(suite.ctx, domain.Bank{
		Name:        "Credit Union " + uuid.NewString(),
		AuditFields: domain.AuditFields{CreatedAt: t0, UpdatedAt: t0},
	})
	suite.Require().NoError(err)
	suite.account, err = suite.repos.AccountRepo.SaveAccount(suite.ctx, domain.Account{
		BankID:      suite.bank.BankID,
		Name:        "Savings " + uuid.NewString(),
		AuditFields: domain.AuditFields{CreatedAt: t0, UpdatedAt: t0},
	})
	suite.Require().NoError(err)
}

func (suite *PgxRepositoryTestSuite) TearDownTest() {
	if suite.bank == nil {
		return
	}
	_, err := suite.pool.Exec(suite.ctx, `DELETE FROM transactions WHERE bank_id = $1`, suite.bank.BankID)
	suite.NoError(err)
	_, err = suite.pool.Exec(suite.ctx, `DELETE FROM accounts WHERE bank_id = $1`, suite.bank.BankID)
	suite.NoError(err)
	_, err = suite.pool.Exec(suite.ctx, `DELETE FROM banks WHERE bank_id = $1`, suite.bank.BankID)
	suite.NoError(err)
}

func (suite *PgxRepositoryTestSuite) clockNow() time.Time {
	suite.clockMu.Lock()
	defer suite.clockMu.Unlock()
	return suite.now
}

func (suite *PgxRepositoryTestSuite) setNow(t time.Time) {
	suite.clockMu.Lock()
	defer suite.clockMu.Unlock()
	suite.now = t
}

// amount renders this test's base amount with the given number of decimals.
func (suite *PgxRepositoryTestSuite) amount(scale int) string {
	if scale == 0 {
		return fmt.Sprintf("%d", suite.base)
	}
	return fmt.Sprintf("%d.%0*d", suite.base, scale, 0)
}

func (suite *PgxRepositoryTestSuite) newTxn(at time.Time, amount string, description *string) domain.Transaction {
	return domain.Transaction{
		BankID:      suite.bank.BankID,
		AccountID:   suite.account.AccountID,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Date:        at,
		AuditFields: domain.AuditFields{CreatedAt: at, UpdatedAt: at},
	}
}

func (suite *PgxRepositoryTestSuite) save(at time.Time, amount string, description *string) *domain.Transaction {
	suite.setNow(at)
	saved, err := suite.repos.TransactionRepo.CreateTransaction(suite.ctx, suite.newTxn(at, amount, description), suite.engine.Resolve)
	suite.Require().NoError(err)
	return saved
}

func strPtr(s string) *string { return &s }

func (suite *PgxRepositoryTestSuite) TestBankConstraints() {
	_, err := suite.repos.BankRepo.SaveBank(suite.ctx, domain.Bank{Name: suite.bank.Name, AuditFields: domain.AuditFields{CreatedAt: t0, UpdatedAt: t0}})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	err = suite.repos.BankRepo.DeleteBank(suite.ctx, suite.bank.BankID)
	suite.ErrorIs(err, apperrors.ErrHasDependents)

	_, err = suite.repos.AccountRepo.FindAccountByBankAndID(suite.ctx, suite.bank.BankID+1_000_000, suite.account.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PgxRepositoryTestSuite) TestNumericScalesShareAGroup() {
	desc := strPtr("electricity " + uuid.NewString())
	a := suite.save(t0, suite.amount(2), desc)
	b := suite.save(t0.Add(10*time.Second), suite.amount(1), desc)
	c := suite.save(t0.Add(20*time.Second), suite.amount(0), desc)

	suite.True(a.DuplicateGroup.IsEmpty())
	suite.Equal([]int64{a.TransactionID}, b.DuplicateGroup.IDs())
	suite.Equal([]int64{a.TransactionID, b.TransactionID}, c.DuplicateGroup.IDs())

	reloaded, err := suite.repos.TransactionRepo.FindTransactionByID(suite.ctx, suite.bank.BankID, suite.account.AccountID, c.TransactionID)
	suite.Require().NoError(err)
	suite.True(reloaded.DuplicateGroup.Equal(c.DuplicateGroup))
	suite.Equal(desc, reloaded.Description)
}

func (suite *PgxRepositoryTestSuite) TestNullDescriptionIsItsOwnBucket() {
	withText := suite.save(t0, suite.amount(0), strPtr(""))
	absent := suite.save(t0.Add(time.Second), suite.amount(0), nil)
	absentAgain := suite.save(t0.Add(2*time.Second), suite.amount(0), nil)
	emptyAgain := suite.save(t0.Add(3*time.Second), suite.amount(0), strPtr(""))

	suite.True(absent.DuplicateGroup.IsEmpty())
	suite.Nil(absent.Description)
	suite.Equal([]int64{absent.TransactionID}, absentAgain.DuplicateGroup.IDs())
	suite.Equal([]int64{withText.TransactionID}, emptyAgain.DuplicateGroup.IDs())
}

func (suite *PgxRepositoryTestSuite) TestWindowBoundsAreInclusive() {
	desc := strPtr("boundary " + uuid.NewString())
	now := t0.Add(time.Hour)
	tooOld := suite.save(now.Add(-time.Minute-time.Microsecond), suite.amount(0), desc)
	edge := suite.save(now.Add(-time.Minute), suite.amount(0), desc)

	candidate := suite.save(now, suite.amount(0), desc)

	suite.Equal([]int64{edge.TransactionID}, candidate.DuplicateGroup.IDs())
	suite.False(candidate.DuplicateGroup.Contains(tooOld.TransactionID))

	groups, err := suite.repos.TransactionRepo.FindRecentMatches(suite.ctx, decimal.RequireFromString(suite.amount(3)), now.Add(-time.Minute), now)
	suite.Require().NoError(err)
	suite.Require().Len(groups, 1)
	suite.Equal([]int64{edge.TransactionID, candidate.TransactionID}, groups[0].IDs)
	suite.Equal(desc, groups[0].Description)
}

func (suite *PgxRepositoryTestSuite) TestUpdateRestampsWithoutSelf() {
	desc := strPtr("book " + uuid.NewString())
	a := suite.save(t0, suite.amount(0), desc)
	b := suite.save(t0.Add(time.Second), "7.70", desc)

	suite.setNow(t0.Add(2 * time.Second))
	b.Amount = decimal.RequireFromString(suite.amount(2))
	b.UpdatedAt = t0.Add(2 * time.Second)
	updated, err := suite.repos.TransactionRepo.UpdateTransaction(suite.ctx, *b, suite.engine.Resolve)
	suite.Require().NoError(err)
	suite.Equal([]int64{a.TransactionID}, updated.DuplicateGroup.IDs())

	sum, err := suite.repos.AccountRepo.SumTransactionAmounts(suite.ctx, suite.bank.BankID, suite.account.AccountID)
	suite.Require().NoError(err)
	suite.True(sum.Equal(decimal.NewFromInt(2*suite.base)), sum.String())
}

func (suite *PgxRepositoryTestSuite) TestTimestampsKeepMicroseconds() {
	at := t0.Add(1500 * time.Nanosecond)
	saved := suite.save(at, suite.amount(0), nil)

	suite.True(saved.CreatedAt.Equal(t0.Add(time.Microsecond)), saved.CreatedAt.String())

	reloaded, err := suite.repos.TransactionRepo.FindTransactionByID(suite.ctx, suite.bank.BankID, suite.account.AccountID, saved.TransactionID)
	suite.Require().NoError(err)
	suite.True(reloaded.CreatedAt.Equal(saved.CreatedAt))
}

func (suite *PgxRepositoryTestSuite) TestConcurrentWritersAreSerialized() {
	const writers = 8
	desc := strPtr("coffee " + uuid.NewString())

	var wg sync.WaitGroup
	sizes := make(chan int, writers)
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			saved, err := suite.repos.TransactionRepo.CreateTransaction(suite.ctx, suite.newTxn(t0, suite.amount(0), desc), suite.engine.Resolve)
			if err != nil {
				errs <- err
				return
			}
			sizes <- saved.DuplicateGroup.Len()
		}()
	}
	wg.Wait()
	close(sizes)
	close(errs)

	for err := range errs {
		suite.NoError(err)
	}
	// the advisory lock lets each writer see every row committed before it
	seen := make(map[int]bool, writers)
	for n := range sizes {
		seen[n] = true
	}
	suite.Len(seen, writers)
	for n := 0; n < writers; n++ {
		suite.True(seen[n], "missing group of size %d", n)
	}
}

func TestPgxRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PgxRepositoryTestSuite))
}
