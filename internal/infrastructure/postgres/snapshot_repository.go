package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/entity"
	"github.com/andyspruebas-jpg/Stock-Pro/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo arma la foto de inventario desde las tablas del ERP
// (productos, quants, ventas POS y compras abiertas).
type SnapshotRepo struct {
	pool       *pgxpool.Pool
	warehouses repository.WarehouseRepository
	windowDays int
	now        func() time.Time
}

// NewSnapshotRepository construye el lector. windowDays es la ventana de ventas.
func NewSnapshotRepository(pool *pgxpool.Pool, warehouses repository.WarehouseRepository, windowDays int) *SnapshotRepo {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &SnapshotRepo{pool: pool, warehouses: warehouses, windowDays: windowDays, now: time.Now}
}

type productRow struct {
	ID, Name, Barcode, Category, Provider string
}

type qtyRow struct {
	ProductID, WarehouseID string
	Qty                    float64
}

type salesRow struct {
	ProductID, WarehouseID string
	Qty                    float64
	Revenue                decimal.Decimal
}

type pendingRow struct {
	ProductID string
	Order     entity.PendingOrder
}

const productsQuery = `
	SELECT pp.id::text,
	       COALESCE(pt.name->>'es_ES', pt.name->>'en_US', ''),
	       COALESCE(pp.barcode, ''),
	       COALESCE(pc.complete_name, ''),
	       COALESCE((SELECT rp.name
	                 FROM product_supplierinfo si
	                 JOIN res_partner rp ON rp.id = si.partner_id
	                 WHERE si.product_tmpl_id = pt.id
	                 ORDER BY si.sequence, si.id LIMIT 1), '')
	FROM product_product pp
	JOIN product_template pt ON pt.id = pp.product_tmpl_id
	LEFT JOIN product_category pc ON pc.id = pt.categ_id
	WHERE pp.active AND pt.active AND pt.type = 'product'`

const stockQuery = `
	SELECT sq.product_id::text, sl.warehouse_id::text, SUM(sq.quantity)
	FROM stock_quant sq
	JOIN stock_location sl ON sl.id = sq.location_id
	WHERE sl.usage = 'internal' AND sl.warehouse_id IS NOT NULL
	GROUP BY sq.product_id, sl.warehouse_id`

const salesQuery = `
	SELECT pol.product_id::text, spt.warehouse_id::text, SUM(pol.qty), SUM(pol.price_subtotal_incl)
	FROM pos_order_line pol
	JOIN pos_order po ON po.id = pol.order_id
	JOIN pos_session ps ON ps.id = po.session_id
	JOIN pos_config pc ON pc.id = ps.config_id
	JOIN stock_picking_type spt ON spt.id = pc.picking_type_id
	WHERE po.date_order >= $1 AND po.state IN ('paid', 'done', 'invoiced')
	GROUP BY pol.product_id, spt.warehouse_id`

const pendingQuery = `
	SELECT pol.product_id::text, po.name, pol.product_qty - pol.qty_received,
	       COALESCE(pol.date_planned, po.date_planned, po.date_order), COALESCE(rp.name, ''),
	       spt.warehouse_id::text, po.state
	FROM purchase_order_line pol
	JOIN purchase_order po ON po.id = pol.order_id
	JOIN stock_picking_type spt ON spt.id = po.picking_type_id
	LEFT JOIN res_partner rp ON rp.id = po.partner_id
	WHERE po.state IN ('purchase', 'done') AND pol.product_qty > pol.qty_received`

// Load ejecuta las consultas en paralelo y combina los resultados.
func (r *SnapshotRepo) Load(ctx context.Context) (*entity.Snapshot, error) {
	var (
		products   []productRow
		stock      []qtyRow
		sales      []salesRow
		pending    []pendingRow
		warehouses []entity.Warehouse
	)
	since := r.now().AddDate(0, 0, -r.windowDays)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		warehouses, err = r.warehouses.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		products, err = collect(gctx, r.pool, "products", productsQuery, nil, func(row pgx.Rows) (productRow, error) {
			var p productRow
			err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.Category, &p.Provider)
			return p, err
		})
		return err
	})
	g.Go(func() (err error) {
		stock, err = collect(gctx, r.pool, "stock", stockQuery, nil, func(row pgx.Rows) (qtyRow, error) {
			var q qtyRow
			err := row.Scan(&q.ProductID, &q.WarehouseID, &q.Qty)
			return q, err
		})
		return err
	})
	g.Go(func() (err error) {
		sales, err = collect(gctx, r.pool, "sales", salesQuery, []any{since}, func(row pgx.Rows) (salesRow, error) {
			var s salesRow
			err := row.Scan(&s.ProductID, &s.WarehouseID, &s.Qty, &s.Revenue)
			return s, err
		})
		return err
	})
	g.Go(func() (err error) {
		pending, err = collect(gctx, r.pool, "pending", pendingQuery, nil, func(row pgx.Rows) (pendingRow, error) {
			var p pendingRow
			err := row.Scan(&p.ProductID, &p.Order.OrderRef, &p.Order.Quantity, &p.Order.ExpectedDate,
				&p.Order.Supplier, &p.Order.WarehouseID, &p.Order.State)
			return p, err
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := assemble(products, stock, sales, pending)
	snap.Warehouses = warehouses
	snap.TakenAt = r.now()
	return snap, nil
}

func collect[T any](ctx context.Context, pool *pgxpool.Pool, name, query string, args []any, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows %s: %w", name, err)
	}
	return out, nil
}

// assemble combina las filas por producto. Se ignoran filas de productos
// fuera del catálogo activo y las existencias negativas se llevan a cero.
func assemble(products []productRow, stock []qtyRow, sales []salesRow, pending []pendingRow) *entity.Snapshot {
	byID := make(map[string]*entity.ProductSnapshot, len(products))
	out := make([]entity.ProductSnapshot, len(products))
	for i, p := range products {
		out[i] = entity.ProductSnapshot{
			ID:                 p.ID,
			Name:               p.Name,
			Barcode:            p.Barcode,
			CategoryName:       p.Category,
			Provider:           p.Provider,
			StockByWarehouse:   map[string]float64{},
			SalesByWarehouse:   map[string]float64{},
			RevenueByWarehouse: map[string]decimal.Decimal{},
			PendingByWarehouse: map[string]float64{},
		}
		byID[p.ID] = &out[i]
	}

	for _, q := range stock {
		if p, ok := byID[q.ProductID]; ok && q.Qty > 0 {
			p.StockByWarehouse[q.WarehouseID] += q.Qty
		}
	}
	for _, s := range sales {
		p, ok := byID[s.ProductID]
		if !ok {
			continue
		}
		// Las devoluciones netas no generan venta negativa.
		if s.Qty > 0 {
			p.SalesByWarehouse[s.WarehouseID] += s.Qty
		}
		if s.Revenue.IsPositive() {
			p.RevenueByWarehouse[s.WarehouseID] = p.RevenueByWarehouse[s.WarehouseID].Add(s.Revenue)
		}
	}
	for _, row := range pending {
		p, ok := byID[row.ProductID]
		if !ok || row.Order.Quantity <= 0 {
			continue
		}
		p.PendingByWarehouse[row.Order.WarehouseID] += row.Order.Quantity
		p.PendingOrders = append(p.PendingOrders, row.Order)
	}
	for i := range out {
		orders := out[i].PendingOrders
		sort.SliceStable(orders, func(a, b int) bool { return orders[a].ExpectedDate.Before(orders[b].ExpectedDate) })
	}
	return &entity.Snapshot{Products: out}
}
