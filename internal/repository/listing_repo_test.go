package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"listing_wizard_v1_202610/internal/middleware"
	"listing_wizard_v1_202610/internal/model"
	"listing_wizard_v1_202610/internal/wizard"
)

func setupListingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	// :memory: 每个连接是独立的库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Listing{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	middleware.RegisterAuditCallbacks(db)
	return db
}

func testPayload(title, categoryID string) *wizard.ListingPayload {
	return &wizard.ListingPayload{
		Title:         title,
		Description:   "Barely used, battery health 95%, original box.",
		Price:         450,
		Currency:      "EUR",
		Negotiable:    true,
		CategoryID:    categoryID,
		SubcategoryID: "smartphones",
		Condition:     "Like New",
		Attributes: map[string]any{
			"brand":       "Apple",
			"year":        2022.0,
			"unlocked":    true,
			"seller_type": "private",
		},
		Location: "Berlin",
		ContactMethods: []wizard.ContactMethod{
			{Type: wizard.ContactChat},
			{Type: wizard.ContactCall, Value: "+49 30 123456"},
		},
		Images: []string{"media://1", "media://2"},
	}
}

func TestListingRepo_CreateAndGet(t *testing.T) {
	db := setupListingTestDB(t)
	repo := NewListingRepository(db)
	ctx := middleware.WithAuditInfo(context.Background(), 7, "alice")

	created, err := repo.Create(ctx, testPayload("iPhone 14", "electronics"), 7)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, int64(7), got.CreatedBy, "审计字段由回调填充")
	assert.Equal(t, "iPhone 14", got.Title)
	assert.Equal(t, 450.0, got.Price)
	assert.Equal(t, model.ListingStatusActive, got.Status)
	assert.Equal(t, "Apple", got.Attributes["brand"])
	assert.Equal(t, 2022.0, got.Attributes["year"])
	assert.Equal(t, true, got.Attributes["unlocked"])
	assert.Equal(t, []string{"media://1", "media://2"}, []string(got.Images))
	assert.Equal(t, []wizard.ContactMethod{
		{Type: wizard.ContactChat},
		{Type: wizard.ContactCall, Value: "+49 30 123456"},
	}, []wizard.ContactMethod(got.ContactMethods))
}

func TestListingRepo_GetByID_NotFound(t *testing.T) {
	repo := NewListingRepository(setupListingTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListingRepo_ListByUser(t *testing.T) {
	db := setupListingTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, testPayload(fmt.Sprintf("Phone %d", i), "electronics"), 1)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, testPayload("Golf", "vehicles"), 1)
	require.NoError(t, err)
	_, err = repo.Create(ctx, testPayload("Someone else", "electronics"), 2)
	require.NoError(t, err)

	tests := []struct {
		name      string
		filter    ListingFilter
		wantTotal int64
		wantLen   int
	}{
		{"全部", ListingFilter{UserID: 1}, 4, 4},
		{"按分类", ListingFilter{UserID: 1, CategoryID: "vehicles"}, 1, 1},
		{"分页", ListingFilter{UserID: 1, Page: 2, PageSize: 3}, 4, 1},
		{"其他用户", ListingFilter{UserID: 2}, 1, 1},
		{"按状态", ListingFilter{UserID: 1, Status: model.ListingStatusArchived}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := repo.ListByUser(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, list, tt.wantLen)
			for _, l := range list {
				assert.Equal(t, tt.filter.UserID, l.UserID)
			}
		})
	}
}

// ==================== DBListingCreator ====================

type failingRepo struct{ ListingRepository }

func (failingRepo) Create(context.Context, *wizard.ListingPayload, int64) (*model.Listing, error) {
	return nil, errors.New("disk full")
}

func TestDBListingCreator(t *testing.T) {
	t.Run("成功", func(t *testing.T) {
		repo := NewListingRepository(setupListingTestDB(t))
		creator := NewDBListingCreator(repo)
		ctx := middleware.WithAuditInfo(context.Background(), 3, "bob")

		id, err := creator.Create(ctx, testPayload("iPhone 15", "electronics"))
		require.NoError(t, err)

		pk, err := ParseListingID(string(id))
		require.NoError(t, err)
		got, err := repo.GetByID(ctx, pk)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.UserID)
	})

	t.Run("缺少用户", func(t *testing.T) {
		creator := NewDBListingCreator(NewListingRepository(setupListingTestDB(t)))

		_, err := creator.Create(context.Background(), testPayload("iPhone 15", "electronics"))
		var serr *wizard.SubmissionError
		require.ErrorAs(t, err, &serr)
		assert.NotEmpty(t, serr.Detail)
	})

	t.Run("仓储失败", func(t *testing.T) {
		creator := NewDBListingCreator(failingRepo{})
		ctx := middleware.WithAuditInfo(context.Background(), 3, "bob")

		_, err := creator.Create(ctx, testPayload("iPhone 15", "electronics"))
		var serr *wizard.SubmissionError
		require.ErrorAs(t, err, &serr)
		assert.Empty(t, serr.Detail)
		assert.Equal(t, "发布失败，请稍后重试", serr.UserMessage())
	})
}

func TestParseListingID(t *testing.T) {
	id, err := ParseListingID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := ParseListingID(raw)
		assert.ErrorIs(t, err, ErrListingNotFound, raw)
	}
}
