package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/school_cbt/database/dbtest"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priority(name string, number int) PriorityItemInput {
	return PriorityItemInput{FeeName: name, PriorityNumber: &number}
}

func feeNames(p models.PaymentPriority) []string {
	names := make([]string, 0, len(p.PriorityOrder))
	for _, item := range p.PriorityOrder {
		names = append(names, item.FeeName)
	}
	return names
}

func TestSetPaymentPriority(t *testing.T) {
	db := dbtest.Use(t)
	ctx := context.Background()

	_, err := FetchPaymentPriority(ctx)
	requireBusinessError(t, err, "No payment priority has been set.")

	first, err := SetPaymentPriority(ctx, []PriorityItemInput{
		priority("Tuition", 1),
		priority(" Bus ", 3),
		priority("Uniform", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tuition", "Uniform", "Bus"}, feeNames(first))

	// replacing keeps the same record and only the latest list
	second, err := SetPaymentPriority(ctx, []PriorityItemInput{
		priority("Exam fee", 2),
		priority("Tuition", 2),
		priority("Library", 7),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.PriorityOrder, 3)
	assert.Equal(t, "Library", second.PriorityOrder[2].FeeName)

	fetched, err := FetchPaymentPriority(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, fetched.ID)
	names := feeNames(fetched)
	require.Len(t, names, 3)
	assert.ElementsMatch(t, []string{"Exam fee", "Tuition"}, names[:2], "equal priority numbers are both kept")
	assert.Equal(t, "Library", names[2])

	var records, items int64
	require.NoError(t, db.Model(&models.PaymentPriority{}).Count(&records).Error)
	require.NoError(t, db.Model(&models.PaymentPriorityItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), records)
	assert.Equal(t, int64(3), items)
}
