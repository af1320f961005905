package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/bug-tracker-api/internal/dto"
	"github.com/yukikurage/bug-tracker-api/internal/models"
	"github.com/yukikurage/bug-tracker-api/internal/repository"
	"github.com/yukikurage/bug-tracker-api/internal/storage"
)

type BugServiceTestSuite struct {
	serviceSuite
}

func (suite *BugServiceTestSuite) TestCreateBug_UsesLowestOrderStatus() {
	product := suite.mustProduct("P")
	suite.mustStatus("Later", 5)
	first := suite.mustStatus("First", 1)

	bug := suite.mustBug(product.ID)
	suite.Equal(first.ID, bug.StatusID)
	suite.Equal(models.SeverityMedium, bug.Severity)
	suite.Empty(bug.Screenshots)
}

func (suite *BugServiceTestSuite) TestCreateBug_NoStatuses() {
	product := suite.mustProduct("P")

	_, err := suite.bugs.CreateBug(suite.ctx, CreateBugInput{ProductID: product.ID, Summary: "s", Description: "d"})
	suite.ErrorIs(err, ErrNoStatusesConfigured)
}

func (suite *BugServiceTestSuite) TestCreateBug_Validation() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)

	cases := []struct {
		input CreateBugInput
		field string
	}{
		{CreateBugInput{ProductID: product.ID, Summary: " ", Description: "d"}, "summary"},
		{CreateBugInput{ProductID: product.ID, Summary: strings.Repeat("s", 201), Description: "d"}, "summary"},
		{CreateBugInput{ProductID: product.ID, Summary: "s", Description: ""}, "description"},
		{CreateBugInput{ProductID: product.ID, Summary: "s", Description: "d", Severity: "Urgent"}, "severity"},
		{CreateBugInput{ProductID: product.ID, Summary: "s", Description: "d", Severity: "high"}, "severity"},
		{CreateBugInput{ProductID: "missing", Summary: "s", Description: "d"}, "product_id"},
		{CreateBugInput{ProductID: product.ID, Summary: "s", Description: "d", ReporterName: strPtr(strings.Repeat("n", 101))}, "reporter_name"},
	}
	for _, tc := range cases {
		_, err := suite.bugs.CreateBug(suite.ctx, tc.input)
		var verr *ValidationError
		suite.Require().True(errors.As(err, &verr), "expected validation error for %s, got %v", tc.field, err)
		suite.Equal(tc.field, verr.Field)
	}

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Bug{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *BugServiceTestSuite) TestCreateBug_ReporterEmailIsNotFormatChecked() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)

	bug, err := suite.bugs.CreateBug(suite.ctx, CreateBugInput{
		ProductID:     product.ID,
		Summary:       "s",
		Description:   "d",
		Severity:      "Critical",
		ReporterName:  strPtr("Ann"),
		ReporterEmail: strPtr("not-an-email"),
	})
	suite.Require().NoError(err)
	suite.Equal(models.SeverityCritical, bug.Severity)
	suite.Equal("not-an-email", *bug.ReporterEmail)
}

func (suite *BugServiceTestSuite) TestCreateBug_SkipsRejectedAttachments() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)

	bug, err := suite.bugs.CreateBug(suite.ctx, CreateBugInput{
		ProductID:   product.ID,
		Summary:     "With files",
		Description: "d",
		Uploads: []Upload{
			upload("one.png", "png-bytes"),
			upload("two.JPG", "jpg-bytes"),
			upload("three.jpeg", "jpeg-bytes"),
			upload("notes.txt", "text"),
			upload("huge.png", strings.Repeat("x", testMaxBytes+1)),
			{Filename: "broken.png", Open: func() (io.ReadCloser, error) { return nil, errors.New("gone") }},
		},
	})
	suite.Require().NoError(err)
	suite.Require().Len(bug.Screenshots, 3)

	detail, err := suite.bugs.GetBug(suite.ctx, bug.ID)
	suite.Require().NoError(err)
	suite.Require().Len(detail.Screenshots, 3)

	contents := map[string]string{
		"one.png":    "png-bytes",
		"two.JPG":    "jpg-bytes",
		"three.jpeg": "jpeg-bytes",
	}
	originals := map[string]bool{}
	for _, s := range detail.Screenshots {
		originals[s.OriginalFilename] = true
		suite.NotEqual(s.OriginalFilename, s.Filename)
		suite.Equal(strings.ToLower(filepath.Ext(s.OriginalFilename)), filepath.Ext(s.Filename))
		suite.Equal(int64(len(contents[s.OriginalFilename])), s.FileSize, s.OriginalFilename)

		info, err := os.Stat(filepath.Join(suite.store.Root, bug.ID, s.Filename))
		suite.Require().NoError(err)
		suite.Equal(s.FileSize, info.Size())
	}
	suite.Equal(map[string]bool{"one.png": true, "two.JPG": true, "three.jpeg": true}, originals)
}

func (suite *BugServiceTestSuite) TestCreateBug_StoreFailureKeepsBug() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)
	suite.attachments.store = failingStore{suite.store}

	bug, err := suite.bugs.CreateBug(suite.ctx, CreateBugInput{
		ProductID:   product.ID,
		Summary:     "s",
		Description: "d",
		Uploads:     []Upload{upload("one.png", "bytes")},
	})
	suite.Require().NoError(err)
	suite.Empty(bug.Screenshots)

	_, err = suite.bugs.GetBug(suite.ctx, bug.ID)
	suite.NoError(err)
}

func (suite *BugServiceTestSuite) TestCreateBug_ScreenshotRowFailureKeepsBug() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)
	bugs := NewBugService(
		screenshotlessBugRepository{suite.bugRepo},
		repository.NewProductRepository(suite.db),
		repository.NewStatusRepository(suite.db),
		suite.attachments,
	)

	bug, err := bugs.CreateBug(suite.ctx, CreateBugInput{
		ProductID:   product.ID,
		Summary:     "s",
		Description: "d",
		Uploads:     []Upload{upload("one.png", "bytes")},
	})
	suite.Require().NoError(err)
	suite.Empty(bug.Screenshots)

	detail, err := suite.bugs.GetBug(suite.ctx, bug.ID)
	suite.Require().NoError(err)
	suite.Empty(detail.Screenshots)
}

func (suite *BugServiceTestSuite) TestListBugs_InvalidSeverityFilter() {
	severity := "Severe"
	_, _, _, err := suite.bugs.ListBugs(suite.ctx, ListBugsInput{Severity: &severity})
	var verr *ValidationError
	suite.Require().True(errors.As(err, &verr))
	suite.Equal("severity", verr.Field)
}

func (suite *BugServiceTestSuite) TestListBugs_EchoesEffectivePage() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)
	for i := 0; i < 3; i++ {
		suite.mustBug(product.ID)
	}

	bugs, total, page, err := suite.bugs.ListBugs(suite.ctx, ListBugsInput{Skip: -4, Limit: 5000})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(bugs, 3)
	suite.Equal(0, page.Skip)
	suite.Equal(100, page.Limit)
}

func (suite *BugServiceTestSuite) TestUpdateBug() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)
	closed := suite.mustStatus("Closed", 1)
	bug := suite.mustBug(product.ID)

	updated, err := suite.bugs.UpdateBug(suite.ctx, bug.ID, UpdateBugInput{Severity: dto.Some("High")})
	suite.Require().NoError(err)
	suite.Equal(models.SeverityHigh, updated.Severity)
	suite.Equal(bug.StatusID, updated.StatusID)

	updated, err = suite.bugs.UpdateBug(suite.ctx, bug.ID, UpdateBugInput{StatusID: dto.Some(closed.ID)})
	suite.Require().NoError(err)
	suite.Equal(closed.ID, updated.StatusID)
	suite.Equal(models.SeverityHigh, updated.Severity)
}

func (suite *BugServiceTestSuite) TestUpdateBug_Rejections() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)
	bug := suite.mustBug(product.ID)

	var verr *ValidationError
	_, err := suite.bugs.UpdateBug(suite.ctx, bug.ID, UpdateBugInput{StatusID: dto.Some("missing")})
	suite.Require().True(errors.As(err, &verr))
	suite.Equal("status_id", verr.Field)

	_, err = suite.bugs.UpdateBug(suite.ctx, bug.ID, UpdateBugInput{Severity: dto.Null[string]()})
	suite.Require().True(errors.As(err, &verr))
	suite.Equal("severity", verr.Field)

	_, err = suite.bugs.UpdateBug(suite.ctx, bug.ID, UpdateBugInput{Severity: dto.Some("Blocker")})
	suite.Require().True(errors.As(err, &verr))

	_, err = suite.bugs.UpdateBug(suite.ctx, "missing", UpdateBugInput{})
	suite.ErrorIs(err, ErrBugNotFound)
}

func (suite *BugServiceTestSuite) TestDeleteBug_RemovesRowsAndFiles() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)
	bug, err := suite.bugs.CreateBug(suite.ctx, CreateBugInput{
		ProductID:   product.ID,
		Summary:     "s",
		Description: "d",
		Uploads:     []Upload{upload("a.png", "a"), upload("b.png", "b")},
	})
	suite.Require().NoError(err)
	filename := bug.Screenshots[0].Filename

	suite.Require().NoError(suite.bugs.DeleteBug(suite.ctx, bug.ID))

	_, err = suite.bugs.GetBug(suite.ctx, bug.ID)
	suite.ErrorIs(err, ErrBugNotFound)

	var screenshots int64
	suite.Require().NoError(suite.db.Model(&models.Screenshot{}).Count(&screenshots).Error)
	suite.Zero(screenshots)

	_, err = os.Stat(filepath.Join(suite.store.Root, bug.ID))
	suite.True(os.IsNotExist(err))

	_, _, _, err = suite.bugs.OpenScreenshot(suite.ctx, bug.ID, filename)
	suite.ErrorIs(err, ErrScreenshotNotFound)

	suite.ErrorIs(suite.bugs.DeleteBug(suite.ctx, bug.ID), ErrBugNotFound)
}

func (suite *BugServiceTestSuite) TestDeleteBug_StoreFailureKeepsRows() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)
	bug := suite.mustBug(product.ID)
	suite.attachments.store = failingStore{suite.store}

	err := suite.bugs.DeleteBug(suite.ctx, bug.ID)
	suite.Error(err)

	_, err = suite.bugs.GetBug(suite.ctx, bug.ID)
	suite.NoError(err)
}

func (suite *BugServiceTestSuite) TestOpenScreenshot() {
	product := suite.mustProduct("P")
	suite.mustStatus("New", 0)
	bug, err := suite.bugs.CreateBug(suite.ctx, CreateBugInput{
		ProductID:   product.ID,
		Summary:     "s",
		Description: "d",
		Uploads:     []Upload{upload("shot.jpg", "jpeg-data")},
	})
	suite.Require().NoError(err)
	filename := bug.Screenshots[0].Filename

	rc, contentType, size, err := suite.bugs.OpenScreenshot(suite.ctx, bug.ID, filename)
	suite.Require().NoError(err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	suite.Require().NoError(err)
	suite.Equal("jpeg-data", string(data))
	suite.Equal("image/jpeg", contentType)
	suite.Equal(int64(len("jpeg-data")), size)

	other := suite.mustBug(product.ID)
	_, _, _, err = suite.bugs.OpenScreenshot(suite.ctx, other.ID, filename)
	suite.ErrorIs(err, ErrScreenshotNotFound)
}

func TestBugServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BugServiceTestSuite))
}

// screenshotlessBugRepository fails every screenshot insert
type screenshotlessBugRepository struct {
	repository.BugRepository
}

func (screenshotlessBugRepository) CreateScreenshots(ctx context.Context, screenshots []models.Screenshot) error {
	return errors.New("database is locked")
}

// failingStore rejects writes and deletes but still serves reads
type failingStore struct {
	storage.BlobStore
}

func (failingStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return errors.New("disk full")
}

func (failingStore) DeletePrefix(ctx context.Context, prefix string) error {
	return errors.New("permission denied")
}
