package sqlite

import (
	"context"
	"fmt"

	"github.com/packwatch/packwatch/internal/models"
	"github.com/packwatch/packwatch/internal/repository"
)

// GetSnapshots returns the persisted snapshot set in page order, cards sorted
// by name. Returns repository.ErrStateNotFound when nothing has been saved
// yet; callers treat that as an empty set.
func (r *Repository) GetSnapshots(ctx context.Context) ([]models.PackageSnapshot, error) {
	const opn = "repository.sqlite.GetSnapshots"

	// 1. Read every package in the order it appeared on the page.
	rows, err := r.db.QueryContext(
		ctx,
		"SELECT id, seller, total_text, efficiency_text, efficiency_percentage FROM packages ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get packages: %w", opn, err)
	}
	defer rows.Close()

	var snapshots []models.PackageSnapshot
	var ids []int64
	for rows.Next() {
		var id int64
		var p models.PackageSnapshot
		if err = rows.Scan(&id, &p.SellerName, &p.TotalText, &p.EfficiencyText, &p.EfficiencyPercentage); err != nil {
			return nil, fmt.Errorf("%s: failed to scan package: %w", opn, err)
		}
		snapshots = append(snapshots, p)
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	if len(snapshots) == 0 {
		return nil, repository.ErrStateNotFound
	}

	// 2. Read the cards and attach them to their packages. ORDER BY name
	// preserves the canonical card order of each snapshot.
	byID := make(map[int64]int, len(ids))
	for idx, id := range ids {
		byID[id] = idx
	}

	cardRows, err := r.db.QueryContext(
		ctx,
		"SELECT package_id, name, condition, price_text, quantity FROM cards ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get cards: %w", opn, err)
	}
	defer cardRows.Close()

	for cardRows.Next() {
		var pkgID int64
		var c models.CardSnapshot
		if err = cardRows.Scan(&pkgID, &c.Name, &c.Condition, &c.PriceText, &c.Quantity); err != nil {
			return nil, fmt.Errorf("%s: failed to scan card: %w", opn, err)
		}
		if idx, ok := byID[pkgID]; ok {
			snapshots[idx].Cards = append(snapshots[idx].Cards, c)
		}
	}
	if err = cardRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: card rows iteration error: %w", opn, err)
	}

	return snapshots, nil
}

// SaveSnapshots atomically replaces the persisted snapshot set with the given
// one. No incremental merge: the previous set is deleted and the new set
// inserted inside a single transaction.
func (r *Repository) SaveSnapshots(ctx context.Context, snapshots []models.PackageSnapshot) error {
	const opn = "repository.sqlite.SaveSnapshots"

	tx, err := r.db.BeginTx(ctx, nil) //nolint:varnamelen // tx its a default naming for transaction
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // after a successful commit the rollback only returns sql.ErrTxDone

	if _, err = tx.ExecContext(ctx, "DELETE FROM cards"); err != nil {
		return fmt.Errorf("%s: failed to delete old cards: %w", opn, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM packages"); err != nil {
		return fmt.Errorf("%s: failed to delete old packages: %w", opn, err)
	}

	pkgStmt, err := tx.PrepareContext(
		ctx,
		"INSERT INTO packages (position, seller, total_text, efficiency_text, efficiency_percentage) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare package insert statement: %w", opn, err)
	}
	defer pkgStmt.Close()

	cardStmt, err := tx.PrepareContext(
		ctx,
		"INSERT INTO cards (package_id, name, condition, price_text, quantity) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare card insert statement: %w", opn, err)
	}
	defer cardStmt.Close()

	for position, p := range snapshots {
		res, execErr := pkgStmt.ExecContext(
			ctx,
			position,
			p.SellerName,
			p.TotalText,
			p.EfficiencyText,
			p.EfficiencyPercentage,
		)
		if execErr != nil {
			return fmt.Errorf("%s: failed to insert package for seller %s: %w", opn, p.SellerName, execErr)
		}

		pkgID, idErr := res.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("%s: failed to get package id: %w", opn, idErr)
		}

		for _, c := range p.Cards {
			if _, err = cardStmt.ExecContext(ctx, pkgID, c.Name, c.Condition, c.PriceText, c.Quantity); err != nil {
				return fmt.Errorf("%s: failed to insert card %s: %w", opn, c.Name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}

// ClearSnapshots deletes the persisted snapshot set. Invoked only by the
// explicit user reset action.
func (r *Repository) ClearSnapshots(ctx context.Context) error {
	const opn = "repository.sqlite.ClearSnapshots"

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", opn, err)
	}
	defer tx.Rollback() //nolint:errcheck // see SaveSnapshots

	if _, err = tx.ExecContext(ctx, "DELETE FROM cards"); err != nil {
		return fmt.Errorf("%s: failed to delete cards: %w", opn, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM packages"); err != nil {
		return fmt.Errorf("%s: failed to delete packages: %w", opn, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", opn, err)
	}

	return nil
}
