package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/bug-tracker-api/internal/dto"
	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"gorm.io/gorm"
)

type uncountedStatusRepository struct {
	repository.StatusRepository
	db *gorm.DB
}

func (r uncountedStatusRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Status{}, "id = ?", id)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return 0, nil
}

type StatusServiceTestSuite struct {
	serviceSuite
}

func (suite *StatusServiceTestSuite) TestCreateStatus_OrderDefaults() {
	first, err := suite.statuses.CreateStatus(suite.ctx, CreateStatusInput{Name: "New"})
	suite.Require().NoError(err)
	suite.Equal(0, first.Order)
	suite.Equal(models.DefaultStatusColor, first.Color)

	suite.mustStatus("Later", 7)

	next, err := suite.statuses.CreateStatus(suite.ctx, CreateStatusInput{Name: "Closed", Color: "#FFF"})
	suite.Require().NoError(err)
	suite.Equal(8, next.Order)
	suite.Equal("#FFF", next.Color)
}

func (suite *StatusServiceTestSuite) TestCreateStatus_ExplicitZeroOrderIsKept() {
	suite.mustStatus("A", 3)

	zero := 0
	status, err := suite.statuses.CreateStatus(suite.ctx, CreateStatusInput{Name: "B", Order: &zero})
	suite.Require().NoError(err)
	suite.Equal(0, status.Order)
}

func (suite *StatusServiceTestSuite) TestCreateStatus_InvalidColor() {
	for _, color := range []string{"blue", "#12345", "#gggggg", "3b82f6"} {
		_, err := suite.statuses.CreateStatus(suite.ctx, CreateStatusInput{Name: "X", Color: color})
		var verr *ValidationError
		suite.Require().True(errors.As(err, &verr), color)
		suite.Equal("color", verr.Field)
	}
}

func (suite *StatusServiceTestSuite) TestCreateStatus_DuplicateName() {
	suite.mustStatus("New", 0)
	_, err := suite.statuses.CreateStatus(suite.ctx, CreateStatusInput{Name: "New"})
	suite.ErrorIs(err, ErrStatusNameTaken)
}

func (suite *StatusServiceTestSuite) TestUpdateStatus() {
	status := suite.mustStatus("New", 0)

	updated, err := suite.statuses.UpdateStatus(suite.ctx, status.ID, UpdateStatusInput{
		Color: dto.Some("#22c55e"),
		Order: dto.Some(4),
	})
	suite.Require().NoError(err)
	suite.Equal("New", updated.Name)
	suite.Equal("#22c55e", updated.Color)
	suite.Equal(4, updated.Order)

	_, err = suite.statuses.UpdateStatus(suite.ctx, status.ID, UpdateStatusInput{Order: dto.Null[int]()})
	var verr *ValidationError
	suite.Require().True(errors.As(err, &verr))
	suite.Equal("order", verr.Field)

	_, err = suite.statuses.UpdateStatus(suite.ctx, "missing", UpdateStatusInput{})
	suite.ErrorIs(err, ErrStatusNotFound)
}

func (suite *StatusServiceTestSuite) TestDeleteStatus_ReassignThenDelete() {
	product := suite.mustProduct("P")
	a := suite.mustStatus("A", 0)
	b := suite.mustStatus("B", 1)

	bug := suite.mustBug(product.ID)
	suite.Equal(a.ID, bug.StatusID)

	err := suite.statuses.DeleteStatus(suite.ctx, a.ID)
	var inUse *InUseError
	suite.Require().True(errors.As(err, &inUse))
	suite.Equal(int64(1), inUse.Count)

	_, err = suite.bugs.UpdateBug(suite.ctx, bug.ID, UpdateBugInput{StatusID: dto.Some(b.ID)})
	suite.Require().NoError(err)

	suite.NoError(suite.statuses.DeleteStatus(suite.ctx, a.ID))
}

func (suite *StatusServiceTestSuite) TestDeleteStatus_BugInsertedAfterCount() {
	product := suite.mustProduct("P")
	status := suite.mustStatus("New", 0)
	suite.mustBug(product.ID)

	statuses := NewStatusService(uncountedStatusRepository{
		StatusRepository: repository.NewStatusRepository(suite.db),
		db:               suite.db,
	})

	err := statuses.DeleteStatus(suite.ctx, status.ID)
	var inUse *InUseError
	suite.Require().True(errors.As(err, &inUse), "got %v", err)
	suite.Zero(inUse.Count)

	_, err = repository.NewStatusRepository(suite.db).FindByID(suite.ctx, status.ID)
	suite.NoError(err)
}

func (suite *StatusServiceTestSuite) TestReorderStatuses() {
	a := suite.mustStatus("A", 0)
	b := suite.mustStatus("B", 1)
	c := suite.mustStatus("C", 2)

	err := suite.statuses.ReorderStatuses(suite.ctx, []repository.StatusOrder{
		{ID: c.ID, Order: 0},
		{ID: a.ID, Order: 2},
		{ID: "unknown", Order: 9},
	})
	suite.Require().NoError(err)

	statuses, err := suite.statuses.ListStatuses(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]string{c.ID, b.ID, a.ID}, []string{statuses[0].ID, statuses[1].ID, statuses[2].ID})

	// The new lowest status becomes the default for bugs
	product := suite.mustProduct("P")
	suite.Equal(c.ID, suite.mustBug(product.ID).StatusID)
}

func (suite *StatusServiceTestSuite) TestReorderStatuses_RejectsEmptyID() {
	err := suite.statuses.ReorderStatuses(suite.ctx, []repository.StatusOrder{{ID: "", Order: 1}})
	var verr *ValidationError
	suite.True(errors.As(err, &verr))
}

func TestStatusServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatusServiceTestSuite))
}
