package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edulearn-api/internal/models"
)

// productTables maps each catalog kind to its table. Table names never come from input.
var productTables = map[models.ProductKind]string{
	models.ProductLaptops:    "laptops",
	models.ProductMobiles:    "mobiles",
	models.ProductHeadphones: "headphones",
}

// ProductRepository reads and writes the retail catalog tables.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository constructs a ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func productTable(kind models.ProductKind) (string, error) {
	table, ok := productTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown product kind %q", kind)
	}
	return table, nil
}

// List returns every product of the kind.
func (r *ProductRepository) List(ctx context.Context, kind models.ProductKind) ([]models.Product, error) {
	table, err := productTable(kind)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	query := fmt.Sprintf(`SELECT pid, pname, pcost, pqty, pimage FROM %s ORDER BY pid ASC`, table)
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return products, nil
}

// FindByID returns one product of the kind.
func (r *ProductRepository) FindByID(ctx context.Context, kind models.ProductKind, id int64) (*models.Product, error) {
	table, err := productTable(kind)
	if err != nil {
		return nil, err
	}
	var product models.Product
	query := fmt.Sprintf(`SELECT pid, pname, pcost, pqty, pimage FROM %s WHERE pid = $1`, table)
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find %s: %w", table, err)
	}
	return &product, nil
}

// Create inserts a product into the kind's table.
func (r *ProductRepository) Create(ctx context.Context, kind models.ProductKind, product *models.Product) error {
	table, err := productTable(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (pname, pcost, pqty, pimage) VALUES ($1, $2, $3, $4) RETURNING pid`, table)
	if err := r.db.QueryRowxContext(ctx, query, product.Name, product.Cost, product.Quantity, product.Image).Scan(&product.ID); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	return nil
}
