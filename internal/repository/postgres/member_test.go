package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"avtoclub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func memberRows(id, telegramID int64, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "telegram_id", "chat_id", "first_name", "last_name", "birth_date",
		"city", "country", "phone", "about", "photo_file_id", "status",
		"created_at", "updated_at",
	}).AddRow(id, telegramID, telegramID, "Иван", "Петров", nil,
		"Москва", "Россия", "+79990001122", "", "", status, now, now)
}

func TestMemberRepo_GetByTelegramID(t *testing.T) {
	tests := []struct {
		name          string
		telegramID    int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedNil   bool
		expectedError bool
	}{
		{
			name:       "member found",
			telegramID: 123,
			mockRows:   memberRows(1, 123, "member"),
		},
		{
			name:        "member absent maps to nil, nil",
			telegramID:  456,
			mockError:   sql.ErrNoRows,
			expectedNil: true,
		},
		{
			name:          "store failure",
			telegramID:    789,
			mockError:     fmt.Errorf("connection refused"),
			expectedNil:   true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewMemberRepo(db)

			query := "(?s)SELECT (.+) FROM members WHERE telegram_id = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.telegramID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.telegramID).WillReturnRows(tt.mockRows)
			}

			member, err := repo.GetByTelegramID(tt.telegramID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedNil {
				assert.Nil(t, member)
			} else {
				assert.NotNil(t, member)
				assert.Equal(t, tt.telegramID, member.TelegramID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMemberRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemberRepo(db)

	m := &domain.Member{
		TelegramID: 123,
		ChatID:     123,
		FirstName:  "Иван",
		LastName:   "Петров",
		Country:    "Россия",
		Status:     domain.StatusNew,
	}

	mock.ExpectQuery("INSERT INTO members").
		WithArgs(m.TelegramID, m.ChatID, m.FirstName, m.LastName, m.BirthDate,
			m.City, m.Country, m.Phone, m.About, m.PhotoFileID, m.Status).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := repo.Create(m)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepo_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewMemberRepo(db)

	mock.ExpectExec("UPDATE members SET status").
		WithArgs(domain.StatusActive, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateStatus(7, domain.StatusActive))
	assert.NoError(t, mock.ExpectationsWereMet())
}
