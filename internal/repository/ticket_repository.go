// Package repository contains data access logic separated from the service
// and HTTP layers. This file defines the ticket store gateway: plain SQL
// CRUD against the tickets table, translating rows to and from model.Ticket
// values. The table enforces no uniqueness on (customer_id, movie_id, type);
// that invariant lives in the service.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-api/internal/model"
)

// ErrTicketNotFound is returned when no row matches the requested id.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrMissingInsertID is returned when the store violates its own contract
// and does not hand back a generated identifier on insert. Handlers should
// translate this into an HTTP 500 response.
var ErrMissingInsertID = errors.New("store did not return a generated id")

// TicketRepo encapsulates all database queries related to tickets. It
// depends on a sql.DB connection pool configured elsewhere.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// FindAll returns every ticket ordered ascending by id. The service caches
// exactly this order, so the ORDER BY must stay.
func (r *TicketRepo) FindAll(ctx context.Context) ([]model.Ticket, error) {
	const q = `SELECT id, customer_id, movie_id, type, base_price, final_price
	           FROM tickets ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.MovieID, &t.Type, &t.BasePrice, &t.FinalPrice); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single ticket. It returns ErrTicketNotFound when the
// row is absent so that store-specific empty-result signaling does not leak
// past this layer.
func (r *TicketRepo) FindByID(ctx context.Context, id int64) (model.Ticket, error) {
	const q = `SELECT id, customer_id, movie_id, type, base_price, final_price
	           FROM tickets WHERE id = ?`
	var t model.Ticket
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.CustomerID, &t.MovieID, &t.Type, &t.BasePrice, &t.FinalPrice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Ticket{}, ErrTicketNotFound
		}
		return model.Ticket{}, err
	}
	return t, nil
}

// Save inserts a new ticket and returns it with the auto-generated id
// populated. ErrMissingInsertID signals a store contract violation.
func (r *TicketRepo) Save(ctx context.Context, t model.Ticket) (model.Ticket, error) {
	const q = `INSERT INTO tickets (customer_id, movie_id, type, base_price, final_price)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.CustomerID, t.MovieID, t.Type, t.BasePrice, t.FinalPrice)
	if err != nil {
		return model.Ticket{}, err
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		return model.Ticket{}, ErrMissingInsertID
	}
	t.ID = id
	return t, nil
}

// Update rewrites every mutable column of the row identified by id and
// returns the persisted record. Zero rows affected means the row vanished
// (possibly deleted concurrently) and yields ErrTicketNotFound. A follow-up
// SELECT returns the row as the store sees it.
func (r *TicketRepo) Update(ctx context.Context, id int64, t model.Ticket) (model.Ticket, error) {
	const q = `UPDATE tickets
	           SET customer_id = ?, movie_id = ?, type = ?, base_price = ?, final_price = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.CustomerID, t.MovieID, t.Type, t.BasePrice, t.FinalPrice, id)
	if err != nil {
		return model.Ticket{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected can also be 0 when the new values equal the old ones;
		// MySQL reports changed rows by default. The DSN sets clientFoundRows
		// so matched rows are counted instead, making 0 mean "no such row".
		return model.Ticket{}, ErrTicketNotFound
	}
	return r.FindByID(ctx, id)
}

// DeleteByID removes the row if present. Deleting an absent id is a no-op,
// keeping the operation idempotent; existence checks belong to the service.
func (r *TicketRepo) DeleteByID(ctx context.Context, id int64) error {
	const q = `DELETE FROM tickets WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
