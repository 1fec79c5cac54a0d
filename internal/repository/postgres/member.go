package postgres

import (
	"database/sql"

	"avtoclub/internal/domain"
)

// MemberRepo implements repository.MemberRepository
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo creates a new member repository
func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

const memberColumns = `id, telegram_id, chat_id, first_name, last_name, birth_date,
		city, country, phone, about, photo_file_id, status, created_at, updated_at`

func scanMember(row *sql.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(
		&m.ID, &m.TelegramID, &m.ChatID, &m.FirstName, &m.LastName, &m.BirthDate,
		&m.City, &m.Country, &m.Phone, &m.About, &m.PhotoFileID, &m.Status,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByTelegramID returns the member with the given Telegram id, or nil
func (r *MemberRepo) GetByTelegramID(telegramID int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE telegram_id = $1`
	return scanMember(r.db.QueryRow(query, telegramID))
}

// GetByID returns the member with the given id, or nil
func (r *MemberRepo) GetByID(id int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.db.QueryRow(query, id))
}

// Create inserts a new member and returns its id
func (r *MemberRepo) Create(m *domain.Member) (int64, error) {
	query := `
		INSERT INTO members (telegram_id, chat_id, first_name, last_name, birth_date,
			city, country, phone, about, photo_file_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(query,
		m.TelegramID, m.ChatID, m.FirstName, m.LastName, m.BirthDate,
		m.City, m.Country, m.Phone, m.About, m.PhotoFileID, m.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites the member's editable fields
func (r *MemberRepo) Update(m *domain.Member) error {
	query := `
		UPDATE members
		SET first_name = $1, last_name = $2, birth_date = $3, city = $4,
			country = $5, phone = $6, about = $7, photo_file_id = $8,
			updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(query,
		m.FirstName, m.LastName, m.BirthDate, m.City,
		m.Country, m.Phone, m.About, m.PhotoFileID, m.ID,
	)
	return err
}

// UpdateStatus changes only the member's status
func (r *MemberRepo) UpdateStatus(id int64, status domain.MemberStatus) error {
	query := `UPDATE members SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(query, status, id)
	return err
}
