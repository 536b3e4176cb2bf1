package repository

import (
	"context"
	"fmt"

	"gitlab.com/napatw/pantry-bot/internal/database"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

// VendorRepository handles vendor database operations.
type VendorRepository struct {
	db database.PGXDB
}

// NewVendorRepository creates a new VendorRepository.
func NewVendorRepository(db database.PGXDB) *VendorRepository {
	return &VendorRepository{db: db}
}

const vendorColumns = `id, name, city, promptpay_id, delivery_base_fee, delivery_per_km, lat, lng, created_at`

// Create adds a new vendor.
func (r *VendorRepository) Create(ctx context.Context, v *models.Vendor) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO vendors (name, city, promptpay_id, delivery_base_fee, delivery_per_km, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, v.Name, v.City, v.PromptPayID, v.DeliveryBaseFee, v.DeliveryPerKm, v.Lat, v.Lng,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

// GetByID retrieves a vendor by ID.
func (r *VendorRepository) GetByID(ctx context.Context, id int) (*models.Vendor, error) {
	var v models.Vendor
	err := r.db.QueryRow(ctx, `
		SELECT `+vendorColumns+` FROM vendors WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.City, &v.PromptPayID,
		&v.DeliveryBaseFee, &v.DeliveryPerKm, &v.Lat, &v.Lng, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &v, nil
}

// GetByName retrieves a vendor by exact name.
func (r *VendorRepository) GetByName(ctx context.Context, name string) (*models.Vendor, error) {
	var v models.Vendor
	err := r.db.QueryRow(ctx, `
		SELECT `+vendorColumns+` FROM vendors WHERE name = $1
	`, name).Scan(&v.ID, &v.Name, &v.City, &v.PromptPayID,
		&v.DeliveryBaseFee, &v.DeliveryPerKm, &v.Lat, &v.Lng, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor by name: %w", err)
	}
	return &v, nil
}

// List retrieves all vendors ordered by name.
func (r *VendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+vendorColumns+` FROM vendors ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	var vendors []models.Vendor
	for rows.Next() {
		var v models.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.PromptPayID,
			&v.DeliveryBaseFee, &v.DeliveryPerKm, &v.Lat, &v.Lng, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendors: %w", err)
	}
	return vendors, nil
}
