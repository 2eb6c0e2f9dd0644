package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

/* ---------------- Categories ---------------- */

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := q.queryRow(ctx, `SELECT id,type,name,sort,status FROM category WHERE id=?`, id).
		Scan(&c.ID, &c.Type, &c.Name, &c.Sort, &c.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := q.queryRow(ctx, `SELECT id,type,name,sort,status FROM category WHERE name=?`, name).
		Scan(&c.ID, &c.Type, &c.Name, &c.Sort, &c.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (q *Queries) CreateCategory(ctx context.Context, p CreateCategoryParams) (int64, error) {
	now := unixNow()
	return q.insert(ctx, `
		INSERT INTO category(type,name,sort,status,create_time,update_time)
		VALUES(?,?,?,?,?,?)`,
		p.Type, p.Name, p.Sort, p.Status, now, now)
}

/* ---------------- Dishes ---------------- */

const dishSelect = `
	SELECT
		d.id,d.name,d.category_id,COALESCE(c.name,''),d.price,
		COALESCE(d.image,''),COALESCE(d.description,''),d.status,
		d.create_time,d.update_time,d.create_user,d.update_user
	FROM dish d
	LEFT JOIN category c ON c.id = d.category_id`

func scanDish(row scanner) (*Dish, error) {
	var d Dish
	var ca, ua int64
	var cu, uu sql.NullInt64
	if err := row.Scan(&d.ID, &d.Name, &d.CategoryID, &d.CategoryName, &d.Price,
		&d.Image, &d.Description, &d.Status, &ca, &ua, &cu, &uu); err != nil {
		return nil, err
	}
	d.CreatedAt = tFromUnix(ca)
	d.UpdatedAt = tFromUnix(ua)
	d.CreateUser = nullToPtr(cu)
	d.UpdateUser = nullToPtr(uu)
	return &d, nil
}

func dishWhere(f DishFilter) (string, []any) {
	var conds []string
	var args []any
	if f.CategoryID != nil {
		conds = append(conds, `d.category_id=?`)
		args = append(args, *f.CategoryID)
	}
	if strings.TrimSpace(f.Name) != "" {
		conds = append(conds, `lower(d.name) LIKE ?`)
		args = append(args, likePattern(f.Name))
	}
	if f.Status != nil {
		conds = append(conds, `d.status=?`)
		args = append(args, *f.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

// GetDishByID returns nil, nil when no row matches.
func (q *Queries) GetDishByID(ctx context.Context, id int64) (*Dish, error) {
	d, err := scanDish(q.queryRow(ctx, dishSelect+` WHERE d.id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// LockDishByID is GetDishByID that also row-locks the dish until the
// transaction ends. SQLite has no row locks; its writers are serialized.
func (q *Queries) LockDishByID(ctx context.Context, id int64) (*Dish, error) {
	stmt := dishSelect + ` WHERE d.id=?`
	if q.dialect == DialectPostgres {
		stmt += ` FOR UPDATE OF d`
	}
	d, err := scanDish(q.queryRow(ctx, stmt, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (q *Queries) GetDishByName(ctx context.Context, name string) (*Dish, error) {
	d, err := scanDish(q.queryRow(ctx, dishSelect+` WHERE d.name=?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (q *Queries) ListDishes(ctx context.Context, f DishFilter) ([]Dish, error) {
	where, args := dishWhere(f)
	rows, err := q.query(ctx, dishSelect+where+` ORDER BY d.create_time DESC, d.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (q *Queries) PageDishes(ctx context.Context, f DishFilter, limit, offset int) ([]Dish, int64, error) {
	where, args := dishWhere(f)

	var total int64
	if err := q.queryRow(ctx, `SELECT COUNT(1) FROM dish d`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := q.query(ctx, dishSelect+where+`
		ORDER BY d.create_time DESC, d.id DESC
		LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	return out, total, rows.Err()
}

func (q *Queries) CreateDish(ctx context.Context, p CreateDishParams) (int64, error) {
	now := unixNow()
	return q.insert(ctx, `
		INSERT INTO dish(name,category_id,price,image,description,status,create_time,update_time,create_user,update_user)
		VALUES(?,?,?,?,?,?,?,?,?,?)`,
		p.Name, p.CategoryID, p.Price, p.Image, p.Description, p.Status, now, now, p.Actor, p.Actor)
}

// UpdateDish updates the scalar columns and reports the affected row count.
// A nil Status keeps the stored one.
func (q *Queries) UpdateDish(ctx context.Context, p UpdateDishParams) (int64, error) {
	res, err := q.exec(ctx, `
		UPDATE dish
		SET name=?, category_id=?, price=?, image=?, description=?, status=COALESCE(?, status), update_time=?, update_user=?
		WHERE id=?`,
		p.Name, p.CategoryID, p.Price, p.Image, p.Description, p.Status, unixNow(), p.Actor, p.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) SetDishStatus(ctx context.Context, id int64, status int, actor *int64) (int64, error) {
	res, err := q.exec(ctx, `UPDATE dish SET status=?, update_time=?, update_user=? WHERE id=?`, status, unixNow(), actor, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteDish(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, `DELETE FROM dish WHERE id=?`, id)
	return err
}

/* ---------------- Flavors ---------------- */

func (q *Queries) ListFlavorsByDishID(ctx context.Context, dishID int64) ([]DishFlavor, error) {
	rows, err := q.query(ctx, `
		SELECT id,dish_id,name,COALESCE(value,'')
		FROM dish_flavor WHERE dish_id=?
		ORDER BY id`, dishID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DishFlavor
	for rows.Next() {
		var f DishFlavor
		if err := rows.Scan(&f.ID, &f.DishID, &f.Name, &f.Value); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// InsertFlavors writes all flavors of a dish in one multi-row statement.
func (q *Queries) InsertFlavors(ctx context.Context, dishID int64, flavors []FlavorParams) error {
	if len(flavors) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`INSERT INTO dish_flavor(dish_id,name,value) VALUES `)
	args := make([]any, 0, len(flavors)*3)
	for i, f := range flavors {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`(?,?,?)`)
		args = append(args, dishID, f.Name, f.Value)
	}
	_, err := q.exec(ctx, b.String(), args...)
	return err
}

func (q *Queries) DeleteFlavorsByDishID(ctx context.Context, dishID int64) error {
	_, err := q.exec(ctx, `DELETE FROM dish_flavor WHERE dish_id=?`, dishID)
	return err
}

/* ---------------- Setmeals ---------------- */

func (q *Queries) CountSetmealsByDishID(ctx context.Context, dishID int64) (int64, error) {
	var n int64
	if err := q.queryRow(ctx, `SELECT COUNT(1) FROM setmeal_dish WHERE dish_id=?`, dishID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (q *Queries) CreateSetmeal(ctx context.Context, p CreateSetmealParams) (int64, error) {
	now := unixNow()
	return q.insert(ctx, `
		INSERT INTO setmeal(category_id,name,price,status,description,create_time,update_time,create_user,update_user)
		VALUES(?,?,?,?,?,?,?,?,?)`,
		p.CategoryID, p.Name, p.Price, p.Status, p.Description, now, now, p.Actor, p.Actor)
}

func (q *Queries) AddSetmealDishes(ctx context.Context, setmealID int64, items []SetmealDishParams) error {
	for _, it := range items {
		copies := it.Copies
		if copies <= 0 {
			copies = 1
		}
		if _, err := q.exec(ctx, `
			INSERT INTO setmeal_dish(setmeal_id,dish_id,name,price,copies)
			VALUES(?,?,?,?,?)`, setmealID, it.DishID, it.Name, it.Price, copies); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) ListSetmealDishes(ctx context.Context, setmealID int64) ([]SetmealDish, error) {
	rows, err := q.query(ctx, `
		SELECT id,setmeal_id,dish_id,COALESCE(name,''),price,copies
		FROM setmeal_dish WHERE setmeal_id=? ORDER BY id`, setmealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SetmealDish
	for rows.Next() {
		var sd SetmealDish
		if err := rows.Scan(&sd.ID, &sd.SetmealID, &sd.DishID, &sd.Name, &sd.Price, &sd.Copies); err != nil {
			return nil, err
		}
		out = append(out, sd)
	}
	return out, rows.Err()
}
