// Package sqlite is a SQLite-backed delivery journal for local runs.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// timestamps are stored as text; this layout sorts lexically in UTC
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Journal implements ports.DeliveryJournal on a single SQLite file.
type Journal struct{ db *sql.DB }

// NewJournal opens (creating if needed) the database at path and applies the schema.
func NewJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err = j.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	schema, err := migrationFS.ReadFile("migrations/0001_init.sql")
	if err != nil {
		return err
	}
	if _, err = j.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (j *Journal) Ping(ctx context.Context) error {
	if j.db == nil {
		return errors.New("db not initialized")
	}
	return j.db.PingContext(ctx)
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record inserts one delivery row.
func (j *Journal) Record(ctx context.Context, record courier.DeliveryRecord) error {
	if err := record.Order.ID.Validate(); err != nil {
		return err
	}

	deliveredAt := record.Order.CreatedAt
	if record.Order.DeliveredAt != nil {
		deliveredAt = *record.Order.DeliveredAt
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO deliveries (
			order_id, courier_id, courier_name, courier_number,
			customer, food, drink, dessert, created_at, delivered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Order.ID.String(),
		record.CourierID.String(),
		record.CourierName,
		record.CourierNumber,
		record.Order.Customer,
		record.Order.Food,
		record.Order.Drink,
		record.Order.Dessert,
		record.Order.CreatedAt.UTC().Format(timeLayout),
		deliveredAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record delivery of order %s: %w", record.Order.ID, err)
	}
	return nil
}

// List returns every delivery ordered by delivery time.
func (j *Journal) List(ctx context.Context) ([]courier.DeliveryRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT
			order_id, courier_id, courier_name, courier_number,
			customer, food, drink, dessert, created_at, delivered_at
		FROM deliveries
		ORDER BY delivered_at, order_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]courier.DeliveryRecord, 0)
	for rows.Next() {
		record, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// CountByCourier returns how many deliveries each courier has made.
func (j *Journal) CountByCourier(ctx context.Context) (map[string]int, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT courier_name, COUNT(*) FROM deliveries GROUP BY courier_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var total int
		if err = rows.Scan(&name, &total); err != nil {
			return nil, err
		}
		counts[name] = total
	}
	return counts, rows.Err()
}

func scanRecord(rows *sql.Rows) (courier.DeliveryRecord, error) {
	var (
		orderID, courierID, createdAt, deliveredAt string
		record                                     courier.DeliveryRecord
	)

	err := rows.Scan(
		&orderID,
		&courierID,
		&record.CourierName,
		&record.CourierNumber,
		&record.Order.Customer,
		&record.Order.Food,
		&record.Order.Drink,
		&record.Order.Dessert,
		&createdAt,
		&deliveredAt,
	)
	if err != nil {
		return courier.DeliveryRecord{}, err
	}

	if record.Order.ID, err = kernel.UUIDFromString(orderID); err != nil {
		return courier.DeliveryRecord{}, err
	}
	if record.CourierID, err = kernel.UUIDFromString(courierID); err != nil {
		return courier.DeliveryRecord{}, err
	}
	if record.Order.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return courier.DeliveryRecord{}, fmt.Errorf("parse created_at: %w", err)
	}

	delivered, err := time.Parse(timeLayout, deliveredAt)
	if err != nil {
		return courier.DeliveryRecord{}, fmt.Errorf("parse delivered_at: %w", err)
	}
	record.Order.DeliveredAt = &delivered
	record.Order.Status = order.Delivered

	return record, nil
}
