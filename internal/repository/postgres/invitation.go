package postgres

import (
	"database/sql"

	"avtoclub/internal/domain"

	"github.com/lib/pq"
)

// InvitationRepo implements repository.InvitationRepository
type InvitationRepo struct {
	db *sql.DB
}

// NewInvitationRepo creates a new invitation repository
func NewInvitationRepo(db *sql.DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

const invitationColumns = `id, ref, car_id, inviter_id, comment,
		photo_file_ids, status, created_at, updated_at`

func collectInvitations(rows *sql.Rows) ([]domain.Invitation, error) {
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		err := rows.Scan(
			&inv.ID, &inv.Ref, &inv.CarID, &inv.InviterID, &inv.Comment,
			pq.Array(&inv.PhotoFileIDs), &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// GetByCar returns all invitations referencing the car, newest first
func (r *InvitationRepo) GetByCar(carID int64) ([]domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE car_id = $1 ORDER BY id DESC`
	rows, err := r.db.Query(query, carID)
	if err != nil {
		return nil, err
	}
	return collectInvitations(rows)
}

// GetOpenByPlate returns non-terminal invitations whose car carries the
// plate, across every vehicle record sharing it
func (r *InvitationRepo) GetOpenByPlate(plate string) ([]domain.Invitation, error) {
	query := `
		SELECT i.id, i.ref, i.car_id, i.inviter_id, i.comment,
			i.photo_file_ids, i.status, i.created_at, i.updated_at
		FROM invitations i
		JOIN cars c ON c.id = i.car_id
		WHERE c.plate = $1 AND i.status NOT IN ('joined_club', 'deleted')
		ORDER BY i.id
	`
	rows, err := r.db.Query(query, plate)
	if err != nil {
		return nil, err
	}
	return collectInvitations(rows)
}

// Create inserts a new invitation and returns its id
func (r *InvitationRepo) Create(inv *domain.Invitation) (int64, error) {
	query := `
		INSERT INTO invitations (ref, car_id, inviter_id, comment, photo_file_ids, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(query,
		inv.Ref, inv.CarID, inv.InviterID, inv.Comment,
		pq.Array(inv.PhotoFileIDs), inv.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateStatus changes only the invitation's status
func (r *InvitationRepo) UpdateStatus(id int64, status domain.InvitationStatus) error {
	query := `UPDATE invitations SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(query, status, id)
	return err
}

// Relink points the invitation at another car record and sets its status.
// Used when an invitation-only plate is superseded by an owned vehicle.
func (r *InvitationRepo) Relink(id int64, carID int64, status domain.InvitationStatus) error {
	query := `UPDATE invitations SET car_id = $1, status = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.Exec(query, carID, status, id)
	return err
}
