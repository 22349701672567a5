package repository

import (
	"context"
	"testing"

	"snapgold/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotationRepository_InsertWithGold(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnnotationRepository(db, NewGoldTransferExecutor(db))
	ctx := context.Background()

	owner := createTestUser(t, db, 0)
	annotator := createTestUser(t, db, 50)
	category := createTestCategory(t, db, "Sunsets", owner.ID)
	photo := createTestPhoto(t, db, owner.ID, category.ID)

	created, err := repo.Insert(ctx, &models.Annotation{
		PhotoID:    photo.ID,
		FromUserID: annotator.ID,
		Text:       "Stunning light",
		GoldCount:  15,
	})
	require.NoError(t, err)
	assert.Equal(t, "Stunning light", created.Text)

	// Gold moved annotator -> owner and the photo total tracks it
	assert.Equal(t, int64(35), reloadUser(t, db, annotator.ID).GoldBalance)
	assert.Equal(t, int64(15), reloadUser(t, db, annotator.ID).GoldGiven)
	assert.Equal(t, int64(15), reloadUser(t, db, owner.ID).GoldBalance)

	var photoAfter models.Photo
	require.NoError(t, db.First(&photoAfter, photo.ID).Error)
	assert.Equal(t, int64(15), photoAfter.GoldCount)

	var entry models.GoldTransaction
	require.NoError(t, db.Where("type = ?", models.PhotoGoldTransaction).First(&entry).Error)
	assert.Equal(t, photo.ID, entry.PhotoID)
	assert.Equal(t, annotator.ID, entry.FromUserID)
	assert.Equal(t, owner.ID, entry.ToUserID)
}

func TestAnnotationRepository_InsertZeroGold(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnnotationRepository(db, NewGoldTransferExecutor(db))
	ctx := context.Background()

	owner := createTestUser(t, db, 0)
	annotator := createTestUser(t, db, 0)
	category := createTestCategory(t, db, "Sunsets", owner.ID)
	photo := createTestPhoto(t, db, owner.ID, category.ID)

	// A plain comment needs no balance at all
	_, err := repo.Insert(ctx, &models.Annotation{
		PhotoID:    photo.ID,
		FromUserID: annotator.ID,
		Text:       "Nice",
	})
	require.NoError(t, err)

	assert.Zero(t, ledgerCount(t, db, models.PhotoGoldTransaction))

	var photoAfter models.Photo
	require.NoError(t, db.First(&photoAfter, photo.ID).Error)
	assert.Zero(t, photoAfter.GoldCount)
}

func TestAnnotationRepository_InsertInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnnotationRepository(db, NewGoldTransferExecutor(db))
	ctx := context.Background()

	owner := createTestUser(t, db, 0)
	annotator := createTestUser(t, db, 5)
	category := createTestCategory(t, db, "Sunsets", owner.ID)
	photo := createTestPhoto(t, db, owner.ID, category.ID)

	_, err := repo.Insert(ctx, &models.Annotation{
		PhotoID:    photo.ID,
		FromUserID: annotator.ID,
		Text:       "Take my gold",
		GoldCount:  10,
	})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeBalanceTooLow))

	// No annotation, no transfer, no photo change
	var count int64
	db.Model(&models.Annotation{}).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, int64(5), reloadUser(t, db, annotator.ID).GoldBalance)
}

func TestAnnotationRepository_InsertValidation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnnotationRepository(db, NewGoldTransferExecutor(db))
	ctx := context.Background()

	owner := createTestUser(t, db, 0)
	category := createTestCategory(t, db, "Sunsets", owner.ID)
	photo := createTestPhoto(t, db, owner.ID, category.ID)

	cases := []models.Annotation{
		{PhotoID: photo.ID, FromUserID: owner.ID, Text: ""},
		{PhotoID: photo.ID, FromUserID: owner.ID, Text: "x", GoldCount: -1},
		{PhotoID: photo.ID, Text: "no author"},
	}
	for _, a := range cases {
		a := a
		_, err := repo.Insert(ctx, &a)
		require.Error(t, err)
		assert.True(t, models.HasCode(err, models.CodeValidation))
	}

	_, err := repo.Insert(ctx, &models.Annotation{
		PhotoID: 9999, FromUserID: owner.ID, Text: "ghost photo",
	})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestAnnotationRepository_ListByPhoto(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnnotationRepository(db, NewGoldTransferExecutor(db))
	ctx := context.Background()

	owner := createTestUser(t, db, 0)
	annotator := createTestUser(t, db, 100)
	category := createTestCategory(t, db, "Sunsets", owner.ID)
	photo := createTestPhoto(t, db, owner.ID, category.ID)
	other := createTestPhoto(t, db, owner.ID, category.ID)

	for _, text := range []string{"first", "second", "third"} {
		_, err := repo.Insert(ctx, &models.Annotation{
			PhotoID: photo.ID, FromUserID: annotator.ID, Text: text,
		})
		require.NoError(t, err)
	}
	_, err := repo.Insert(ctx, &models.Annotation{
		PhotoID: other.ID, FromUserID: annotator.ID, Text: "elsewhere",
	})
	require.NoError(t, err)

	annotations, err := repo.ListByPhoto(ctx, photo.ID)
	require.NoError(t, err)
	require.Len(t, annotations, 3)
	assert.Equal(t, "first", annotations[0].Text)
	assert.Equal(t, "third", annotations[2].Text)
}

func TestAnnotationRepository_DeleteRetractsGoldCountOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAnnotationRepository(db, NewGoldTransferExecutor(db))
	ctx := context.Background()

	owner := createTestUser(t, db, 0)
	annotator := createTestUser(t, db, 50)
	category := createTestCategory(t, db, "Sunsets", owner.ID)
	photo := createTestPhoto(t, db, owner.ID, category.ID)

	created, err := repo.Insert(ctx, &models.Annotation{
		PhotoID:    photo.ID,
		FromUserID: annotator.ID,
		Text:       "Retract me",
		GoldCount:  20,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	// The photo total drops back; balances and the ledger keep the transfer
	var photoAfter models.Photo
	require.NoError(t, db.First(&photoAfter, photo.ID).Error)
	assert.Zero(t, photoAfter.GoldCount)

	assert.Equal(t, int64(30), reloadUser(t, db, annotator.ID).GoldBalance)
	assert.Equal(t, int64(20), reloadUser(t, db, owner.ID).GoldBalance)
	assert.Equal(t, int64(1), ledgerCount(t, db, models.PhotoGoldTransaction))

	// The annotation stops appearing in listings
	annotations, err := repo.ListByPhoto(ctx, photo.ID)
	require.NoError(t, err)
	assert.Empty(t, annotations)

	// Retracting twice is an error
	err = repo.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
