package postgres

import (
	"database/sql"

	"avtoclub/internal/domain"

	"github.com/lib/pq"
)

// CarRepo implements repository.CarRepository
type CarRepo struct {
	db *sql.DB
}

// NewCarRepo creates a new car repository
func NewCarRepo(db *sql.DB) *CarRepo {
	return &CarRepo{db: db}
}

const carColumns = `id, owner_id, plate, brand, model, year, color,
		photo_file_ids, status, created_at, updated_at`

func scanCar(scan func(dest ...any) error) (*domain.Car, error) {
	var c domain.Car
	err := scan(
		&c.ID, &c.OwnerID, &c.Plate, &c.Brand, &c.Model, &c.Year, &c.Color,
		pq.Array(&c.PhotoFileIDs), &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCars(rows *sql.Rows) ([]domain.Car, error) {
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		car, err := scanCar(rows.Scan)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *car)
	}
	return cars, rows.Err()
}

// GetByID returns the car with the given id, or nil
func (r *CarRepo) GetByID(id int64) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	return scanCar(r.db.QueryRow(query, id).Scan)
}

// GetByOwner returns all cars owned by the member
func (r *CarRepo) GetByOwner(memberID int64) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE owner_id = $1 ORDER BY id`
	rows, err := r.db.Query(query, memberID)
	if err != nil {
		return nil, err
	}
	return collectCars(rows)
}

// GetByPlate returns all cars with an exact normalized plate match
func (r *CarRepo) GetByPlate(plate string) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE plate = $1 ORDER BY id`
	rows, err := r.db.Query(query, plate)
	if err != nil {
		return nil, err
	}
	return collectCars(rows)
}

// Create inserts a new car record and returns its id
func (r *CarRepo) Create(c *domain.Car) (int64, error) {
	query := `
		INSERT INTO cars (owner_id, plate, brand, model, year, color, photo_file_ids, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(query,
		c.OwnerID, c.Plate, c.Brand, c.Model, c.Year, c.Color,
		pq.Array(c.PhotoFileIDs), c.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites the car's editable fields
func (r *CarRepo) Update(c *domain.Car) error {
	query := `
		UPDATE cars
		SET owner_id = $1, plate = $2, brand = $3, model = $4, year = $5,
			color = $6, photo_file_ids = $7, status = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(query,
		c.OwnerID, c.Plate, c.Brand, c.Model, c.Year,
		c.Color, pq.Array(c.PhotoFileIDs), c.Status, c.ID,
	)
	return err
}

// UpdateStatus changes only the car's status
func (r *CarRepo) UpdateStatus(id int64, status domain.CarStatus) error {
	query := `UPDATE cars SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(query, status, id)
	return err
}
