package receiptrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/adapters/out/postgres/receiptrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type ReceiptStoreIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	store     *receiptrepo.GormReceiptStore
}

func (suite *ReceiptStoreIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *ReceiptStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	suite.store = receiptrepo.NewGormReceiptStore(suite.db, time.Minute)
}

func (suite *ReceiptStoreIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ReceiptStoreIntegrationTestSuite) TestClaimOnceThenSent() {
	ctx := context.Background()
	runID := kernel.NewUUID()

	_, claimed, err := suite.store.Claim(ctx, runID, "order:1", "customer")
	suite.Require().NoError(err)
	suite.True(claimed)

	receipt, claimed, err := suite.store.Claim(ctx, runID, "order:1", "customer")
	suite.Require().NoError(err)
	suite.False(claimed)
	suite.Equal(ports.ReceiptPending, receipt.Status)

	suite.Require().NoError(suite.store.MarkSent(ctx, runID, "order:1", "SM123"))
	receipt, claimed, err = suite.store.Claim(ctx, runID, "order:1", "customer")
	suite.Require().NoError(err)
	suite.False(claimed)
	suite.Equal(ports.ReceiptSent, receipt.Status)
	suite.Equal("SM123", receipt.Reference)

	_, claimed, err = suite.store.Claim(ctx, kernel.NewUUID(), "order:1", "customer")
	suite.Require().NoError(err)
	suite.True(claimed, "receipts are scoped to a run")
}

func (suite *ReceiptStoreIntegrationTestSuite) TestReleaseAllowsRetry() {
	ctx := context.Background()
	runID := kernel.NewUUID()

	_, claimed, err := suite.store.Claim(ctx, runID, "driver", "driver")
	suite.Require().NoError(err)
	suite.Require().True(claimed)
	suite.Require().NoError(suite.store.Release(ctx, runID, "driver"))

	_, claimed, err = suite.store.Claim(ctx, runID, "driver", "driver")
	suite.Require().NoError(err)
	suite.True(claimed)
}

func (suite *ReceiptStoreIntegrationTestSuite) TestStaleClaimIsTakenOver() {
	ctx := context.Background()
	runID := kernel.NewUUID()
	store := receiptrepo.NewGormReceiptStore(suite.db, -time.Second)

	_, claimed, err := store.Claim(ctx, runID, "driver", "driver")
	suite.Require().NoError(err)
	suite.Require().True(claimed)

	_, claimed, err = store.Claim(ctx, runID, "driver", "driver")
	suite.Require().NoError(err)
	suite.True(claimed)
}

func TestReceiptStoreIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ReceiptStoreIntegrationTestSuite))
}
