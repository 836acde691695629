package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
)

// PersonDAO provides read access to client records. The consent engine only
// ever reads a person's ID and lifecycle status.
type PersonDAO struct {
	db *database.DB
}

// NewPersonDAO creates a new PersonDAO instance
func NewPersonDAO(db *database.DB) *PersonDAO {
	return &PersonDAO{db: db}
}

// GetByID retrieves a person by ID
func (dao *PersonDAO) GetByID(ctx context.Context, personID int64) (*models.Person, error) {
	query := `SELECT PERSON_ID, STATUS FROM PERSON WHERE PERSON_ID = ?`

	var person models.Person
	err := dao.db.GetContext(ctx, &person, query, personID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %d", ErrPersonNotFound, personID)
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	return &person, nil
}
