package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"shelfwatch/internal/types"
)

// ProductRepository provides data access for the products and product_batches
// tables. Short-code assignment (PLU, batch number) goes through
// store-generated sequences rather than count-then-format, so concurrent
// creates can never mint the same code.
type ProductRepository struct {
	db DBTX
}

// NewProductRepository creates a new ProductRepository backed by the given
// database connection (pool or transaction).
func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `p.id, p.user_id, p.barcode, p.plu, p.name, p.description, p.category, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*types.Product, error) {
	var p types.Product
	var description, category *string
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Barcode,
		&p.PLU,
		&p.Name,
		&description,
		&category,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	if category != nil {
		p.Category = *category
	}
	return &p, nil
}

// ListByUser returns the user's products with batches hydrated. Products and
// batches are both in creation order, which downstream selection relies on
// for stable output ordering.
func (r *ProductRepository) ListByUser(ctx context.Context, userID string) ([]*types.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+`
		 FROM products p
		 WHERE p.user_id = $1
		 ORDER BY p.created_at, p.id`,
		userID,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list products", err)
	}
	defer rows.Close()

	var products []*types.Product
	index := make(map[string]*types.Product)
	var ids []string
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan product row", err)
		}
		products = append(products, p)
		index[p.ID] = p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate product rows", err)
	}
	if len(products) == 0 {
		return nil, nil
	}

	batchRows, err := r.db.Query(ctx,
		`SELECT b.id, b.product_id, b.batch_number, b.expiry_date, b.rh_date,
		        b.quantity, b.status, b.created_at
		 FROM product_batches b
		 WHERE b.product_id = ANY($1)
		 ORDER BY b.created_at, b.id`,
		ids,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list product batches", err)
	}
	defer batchRows.Close()

	for batchRows.Next() {
		var b types.ProductBatch
		if err := batchRows.Scan(
			&b.ID,
			&b.ProductID,
			&b.BatchNumber,
			&b.ExpiryDate,
			&b.RHDate,
			&b.Quantity,
			&b.Status,
			&b.CreatedAt,
		); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan batch row", err)
		}
		if p, ok := index[b.ProductID]; ok {
			p.Batches = append(p.Batches, b)
		}
	}
	if err := batchRows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to iterate batch rows", err)
	}

	return products, nil
}

// GetByBarcode retrieves one product by its barcode, scoped to a user.
// Batches are not hydrated; use ListByUser for the full view.
func (r *ProductRepository) GetByBarcode(ctx context.Context, userID string, barcode string) (*types.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+`
		 FROM products p
		 WHERE p.user_id = $1 AND p.barcode = $2`,
		userID,
		barcode,
	)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundProduct, "product not found", nil)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to retrieve product", err)
	}
	return p, nil
}

// Create inserts a new product. The PLU short code is assigned from the
// products_plu_seq sequence ("PLU001", "PLU002", ...); the caller must not
// set it. Returns conflict_barcode_exists when the barcode is taken.
func (r *ProductRepository) Create(ctx context.Context, p *types.Product) error {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO products (id, user_id, barcode, plu, name, description, category)
		 VALUES ($1, $2, $3, 'PLU' || LPAD(nextval('products_plu_seq')::text, 3, '0'), $4, $5, $6)
		 RETURNING plu, created_at, updated_at`,
		p.ID,
		p.UserID,
		p.Barcode,
		p.Name,
		nilIfEmpty(p.Description),
		nilIfEmpty(p.Category),
	)
	if err := row.Scan(&p.PLU, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return types.NewAppError(types.ErrCodeConflictBarcode, "a product with this barcode already exists", nil)
		}
		return types.NewAppError(types.ErrCodeInternalDB, "failed to create product", err)
	}
	return nil
}

// AddBatch appends a batch to a product. The batch number is assigned
// sequentially across all batches ever created for the product's barcode,
// through an atomic counter upsert ("BATCH001", "BATCH002", ...). The stored
// status and rh_date are write-time caches; readers recompute both.
func (r *ProductRepository) AddBatch(ctx context.Context, productID string, b *types.ProductBatch) error {
	var barcode string
	err := r.db.QueryRow(ctx, `SELECT barcode FROM products WHERE id = $1`, productID).Scan(&barcode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.NewAppError(types.ErrCodeNotFoundProduct, "product not found", nil)
		}
		return types.NewAppError(types.ErrCodeInternalDB, "failed to resolve product barcode", err)
	}

	var seq int
	err = r.db.QueryRow(ctx,
		`INSERT INTO batch_counters (barcode, next_number)
		 VALUES ($1, 1)
		 ON CONFLICT (barcode) DO UPDATE SET next_number = batch_counters.next_number + 1
		 RETURNING next_number`,
		barcode,
	).Scan(&seq)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to allocate batch number", err)
	}

	b.ProductID = productID
	b.BatchNumber = fmt.Sprintf("BATCH%03d", seq)

	row := r.db.QueryRow(ctx,
		`INSERT INTO product_batches
		 (id, product_id, batch_number, expiry_date, rh_date, quantity, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		b.ID,
		b.ProductID,
		b.BatchNumber,
		b.ExpiryDate,
		b.RHDate,
		b.Quantity,
		string(b.Status),
	)
	if err := row.Scan(&b.CreatedAt); err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to create batch", err)
	}

	_, err = r.db.Exec(ctx, `UPDATE products SET updated_at = NOW() WHERE id = $1`, productID)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to touch product", err)
	}
	return nil
}

// Delete removes a product owned by the user. Its batches go with it via the
// ON DELETE CASCADE foreign key; notification rows keep their snapshot copy.
func (r *ProductRepository) Delete(ctx context.Context, id string, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND user_id = $2`,
		id,
		userID,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundProduct, "product not found", nil)
	}
	return nil
}
