package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkboard/linkboard/internal/db/controller"
	"github.com/linkboard/linkboard/internal/db/dbtest"
	"github.com/linkboard/linkboard/internal/db/models"
)

func TestCreate(t *testing.T) {
	db := dbtest.Open(t)
	empty := ""
	phone := "+49 30 123456"

	testCases := []struct {
		name      string
		phone     *string
		wantPhone *string
	}{
		{name: "without phone"},
		{name: "empty phone dropped", phone: &empty},
		{name: "with phone", phone: &phone, wantPhone: &phone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := models.ContactMessage{Name: "Ada", Email: "ada@example.com", Phone: tc.phone, Message: "hi"}
			require.NoError(t, Create(db, &m))
			require.NotEmpty(t, m.ID)

			var stored models.ContactMessage
			require.NoError(t, db.First(&stored, "id = ?", m.ID).Error)
			assert.Equal(t, tc.wantPhone, stored.Phone)
		})
	}
}

func TestCreateNilDB(t *testing.T) {
	assert.ErrorIs(t, Create(nil, &models.ContactMessage{}), controller.ErrDBNil)
}
