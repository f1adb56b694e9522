package export

import (
	"bytes"
	"testing"

	"dorm_booking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestApplicationsWorkbook(t *testing.T) {
	roomID := uint(5)
	apps := []domain.Application{
		{
			ID: 7, StudentID: 1001, FirstName: "Ada", LastName: "Lovelace", Email: "ada@uni.edu",
			RoomID: &roomID, Room: &domain.Room{ID: 5, Building: 2, FloorNumber: 3, RoomType: "Single"},
			Status: domain.StatusApproved,
		},
		{ID: 8, StudentID: 1002, FirstName: "Alan", LastName: "Turing", Status: domain.StatusPending},
	}

	data, err := Applications(apps)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ApplicationHeader, rows[0])
	assert.Equal(t, []string{"7", "1001", "Ada Lovelace", "ada@uni.edu"}, rows[1][:4])
	assert.Equal(t, "Single", rows[1][7])
	assert.Equal(t, "Application Approved", rows[1][8])
	assert.Equal(t, "", rows[2][7])
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
}
