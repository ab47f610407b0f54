package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kavindus/autoparts_pos_app/internal/apperrors"
	"github.com/kavindus/autoparts_pos_app/internal/cache"
	"github.com/kavindus/autoparts_pos_app/internal/core/domain"
	portsrepo "github.com/kavindus/autoparts_pos_app/internal/core/ports/repositories"
	"github.com/kavindus/autoparts_pos_app/internal/models"
	"github.com/kavindus/autoparts_pos_app/internal/utils/mapping"
)

const productCacheTTL = 5 * time.Minute

// PgxProductRepository is the read-only catalogue lookup, with a cache in
// front of the product rows. Volume prices ride along with their product.
type PgxProductRepository struct {
	pool  *pgxpool.Pool
	cache cache.ProductCache
}

// NewProductRepository creates a ProductRepository. Pass cache.NoopProductCache{}
// when no redis is configured.
func NewProductRepository(pool *pgxpool.Pool, productCache cache.ProductCache) portsrepo.ProductRepository {
	return &PgxProductRepository{pool: pool, cache: productCache}
}

var _ portsrepo.ProductRepository = (*PgxProductRepository)(nil)

// FindByIDs resolves products by ID. Missing IDs are simply absent from the
// returned map; callers decide whether that is an error.
func (r *PgxProductRepository) FindByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(productIDs))
	var misses []string
	for _, id := range productIDs {
		if p, ok, err := r.cache.Get(ctx, id); err == nil && ok {
			result[id] = *p
		} else {
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		return result, nil
	}

	query := `
		SELECT product_id, name, category, description
		FROM products
		WHERE product_id = ANY($1);
	`
	rows, err := r.pool.Query(ctx, query, misses)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()

	var fetched []models.Product
	for rows.Next() {
		var m models.Product
		if err := rows.Scan(&m.ProductID, &m.Name, &m.Category, &m.Description); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		fetched = append(fetched, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}

	volumes, err := r.findVolumes(ctx, fetched)
	if err != nil {
		return nil, err
	}

	for _, m := range fetched {
		p := mapping.ToDomainProduct(m, volumes[m.ProductID])
		result[p.ProductID] = p
		// Cache failures only cost the next lookup a DB round trip.
		_ = r.cache.Set(ctx, p.ProductID, &p, productCacheTTL)
	}
	return result, nil
}

func (r *PgxProductRepository) findVolumes(ctx context.Context, products []models.Product) (map[string][]models.ProductVolume, error) {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ProductID
	}
	if len(ids) == 0 {
		return map[string][]models.ProductVolume{}, nil
	}

	query := `
		SELECT volume_id, product_id, description, selling_price
		FROM product_volumes
		WHERE product_id = ANY($1)
		ORDER BY product_id, description;
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query product volumes", err)
	}
	defer rows.Close()

	volumes := make(map[string][]models.ProductVolume)
	for rows.Next() {
		var v models.ProductVolume
		if err := rows.Scan(&v.VolumeID, &v.ProductID, &v.Description, &v.SellingPrice); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product volume row", err)
		}
		volumes[v.ProductID] = append(volumes[v.ProductID], v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product volume rows", err)
	}
	return volumes, nil
}
