package services

import (
	"context"
	"io"
	"strings"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/bug-tracker-api/internal/database"
	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"github.com/yukikurage/bug-tracker-api/internal/storage"
	"gorm.io/gorm"
)

// serviceSuite wires every service against in-memory sqlite and a temp blob store
type serviceSuite struct {
	suite.Suite
	db          *gorm.DB
	ctx         context.Context
	store       *storage.LocalStore
	bugRepo     repository.BugRepository
	products    *ProductService
	statuses    *StatusService
	bugs        *BugService
	attachments *AttachmentService
}

// testMaxBytes keeps oversized fixtures small
const testMaxBytes = 64

func (suite *serviceSuite) SetupTest() {
	var err error
	suite.db, err = database.OpenInMemory()
	suite.Require().NoError(err)

	suite.store, err = storage.NewLocalStore(suite.T().TempDir())
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	productRepo := repository.NewProductRepository(suite.db)
	statusRepo := repository.NewStatusRepository(suite.db)
	suite.bugRepo = repository.NewBugRepository(suite.db)

	suite.products = NewProductService(productRepo)
	suite.statuses = NewStatusService(statusRepo)
	suite.attachments = NewAttachmentService(suite.store, suite.bugRepo, testMaxBytes)
	suite.bugs = NewBugService(suite.bugRepo, productRepo, statusRepo, suite.attachments)
}

func (suite *serviceSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *serviceSuite) mustProduct(name string) *models.Product {
	product, err := suite.products.CreateProduct(suite.ctx, CreateProductInput{Name: name})
	suite.Require().NoError(err)
	return product
}

func (suite *serviceSuite) mustStatus(name string, order int) *models.Status {
	status, err := suite.statuses.CreateStatus(suite.ctx, CreateStatusInput{Name: name, Order: &order})
	suite.Require().NoError(err)
	return status
}

func (suite *serviceSuite) mustBug(productID string) *models.Bug {
	bug, err := suite.bugs.CreateBug(suite.ctx, CreateBugInput{
		ProductID:   productID,
		Summary:     "Crash",
		Description: "It crashes",
	})
	suite.Require().NoError(err)
	return bug
}

func upload(name, content string) Upload {
	return Upload{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func strPtr(s string) *string {
	return &s
}
