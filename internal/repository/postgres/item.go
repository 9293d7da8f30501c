package postgres

import (
	"context"
	"database/sql"
	"errors"

	"lendaround-backend/internal/domain"
	"lendaround-backend/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	item := &domain.Item{}
	query := `SELECT id, owner_id, name, daily_price_cents, deposit_cents, is_available, created_on, updated_on FROM items WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.OwnerID, &item.Name, &item.DailyPriceCents,
		&item.DepositCents, &item.IsAvailable, &item.CreatedOn, &item.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("item %d", id)
	}
	if err != nil {
		return nil, err
	}

	windowQuery := `SELECT id, item_id, start_date, end_date FROM item_availability WHERE item_id = $1 ORDER BY start_date ASC`
	rows, err := r.db.QueryContext(ctx, windowQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var w domain.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.ItemID, &w.Start, &w.End); err != nil {
			return nil, err
		}
		item.Availability = append(item.Availability, w)
	}
	return item, rows.Err()
}
