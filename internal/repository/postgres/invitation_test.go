package postgres

import (
	"testing"
	"time"

	"avtoclub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func invitationRows(invitations ...domain.Invitation) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "ref", "car_id", "inviter_id", "comment",
		"photo_file_ids", "status", "created_at", "updated_at",
	})
	for _, inv := range invitations {
		rows.AddRow(inv.ID, inv.Ref, inv.CarID, inv.InviterID, inv.Comment,
			"{}", inv.Status, now, now)
	}
	return rows
}

func TestInvitationRepo_GetOpenByPlate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewInvitationRepo(db)

	open := domain.Invitation{
		ID: 1, Ref: uuid.NewString(), CarID: 2, Status: domain.InvitationPending,
	}

	mock.ExpectQuery("(?s)SELECT (.+) FROM invitations i").
		WithArgs("A123BC77").
		WillReturnRows(invitationRows(open))

	invitations, err := repo.GetOpenByPlate("A123BC77")

	assert.NoError(t, err)
	assert.Len(t, invitations, 1)
	assert.Equal(t, domain.InvitationPending, invitations[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewInvitationRepo(db)

	inviterID := int64(5)
	inv := &domain.Invitation{
		Ref:          uuid.NewString(),
		CarID:        2,
		InviterID:    &inviterID,
		Comment:      "видел во дворе",
		PhotoFileIDs: []string{"photo1", "photo2"},
		Status:       domain.InvitationNew,
	}

	mock.ExpectQuery("INSERT INTO invitations").
		WithArgs(inv.Ref, inv.CarID, inv.InviterID, inv.Comment,
			pq.Array(inv.PhotoFileIDs), inv.Status).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	id, err := repo.Create(inv)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepo_Relink(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewInvitationRepo(db)

	mock.ExpectExec("UPDATE invitations SET car_id").
		WithArgs(int64(9), domain.InvitationJoinedClub, int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Relink(11, 9, domain.InvitationJoinedClub))
	assert.NoError(t, mock.ExpectationsWereMet())
}
