package db

import (
	"context"
	"fmt"
)

type seedCategory struct {
	Type int
	Name string
	Sort int
}

type seedDish struct {
	Category    string
	Name        string
	Price       float64
	Description string
	OnSale      bool
	Flavors     []FlavorParams
}

type seedSetmeal struct {
	Category string
	Name     string
	Price    float64
	Dishes   []string
}

var (
	spiceFlavor = FlavorParams{Name: "Spice", Value: `["None","Mild","Medium","Hot"]`}
	tempFlavor  = FlavorParams{Name: "Temperature", Value: `["Hot","Cold","Room temperature"]`}
	sugarFlavor = FlavorParams{Name: "Sweetness", Value: `["No sugar","Less sugar","Normal"]`}
)

// SeedCatalog inserts a starter menu. Rows whose name already exists are left untouched,
// so running it repeatedly is safe.
func SeedCatalog(ctx context.Context, s *Store) error {
	categories := []seedCategory{
		{Type: CategoryTypeDish, Name: "Hot Dishes", Sort: 1},
		{Type: CategoryTypeDish, Name: "Cold Dishes", Sort: 2},
		{Type: CategoryTypeDish, Name: "Staples", Sort: 3},
		{Type: CategoryTypeDish, Name: "Drinks", Sort: 4},
		{Type: CategoryTypeSetmeal, Name: "Lunch Combos", Sort: 5},
	}

	dishes := []seedDish{
		{Category: "Hot Dishes", Name: "Kung Pao Chicken", Price: 38, Description: "Diced chicken, peanuts, dried chili.", OnSale: true, Flavors: []FlavorParams{spiceFlavor}},
		{Category: "Hot Dishes", Name: "Mapo Tofu", Price: 26, Description: "Silken tofu in chili bean sauce.", OnSale: true, Flavors: []FlavorParams{spiceFlavor}},
		{Category: "Hot Dishes", Name: "Braised Pork Belly", Price: 58, Description: "Slow braised, soy and rock sugar.", OnSale: true},
		{Category: "Cold Dishes", Name: "Smashed Cucumber", Price: 16, Description: "Garlic, vinegar, sesame oil.", OnSale: true, Flavors: []FlavorParams{spiceFlavor}},
		{Category: "Staples", Name: "Steamed Rice", Price: 2, OnSale: true},
		{Category: "Staples", Name: "Dan Dan Noodles", Price: 22, Description: "Minced pork, chili oil.", Flavors: []FlavorParams{spiceFlavor}},
		{Category: "Drinks", Name: "Plum Juice", Price: 8, OnSale: true, Flavors: []FlavorParams{tempFlavor, sugarFlavor}},
		{Category: "Drinks", Name: "Jasmine Tea", Price: 6, OnSale: true, Flavors: []FlavorParams{tempFlavor}},
	}

	setmeals := []seedSetmeal{
		{Category: "Lunch Combos", Name: "Kung Pao Lunch", Price: 42, Dishes: []string{"Kung Pao Chicken", "Steamed Rice", "Jasmine Tea"}},
	}

	return s.WithTx(ctx, func(q *Queries) error {
		catIDs := map[string]int64{}
		for _, c := range categories {
			existing, err := q.GetCategoryByName(ctx, c.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				catIDs[c.Name] = existing.ID
				continue
			}
			id, err := q.CreateCategory(ctx, CreateCategoryParams{Type: c.Type, Name: c.Name, Sort: c.Sort, Status: StatusEnabled})
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
			catIDs[c.Name] = id
		}

		dishByName := map[string]*Dish{}
		for _, d := range dishes {
			existing, err := q.GetDishByName(ctx, d.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				dishByName[d.Name] = existing
				continue
			}
			status := StatusDisabled
			if d.OnSale {
				status = StatusEnabled
			}
			id, err := q.CreateDish(ctx, CreateDishParams{
				Name:        d.Name,
				CategoryID:  catIDs[d.Category],
				Price:       d.Price,
				Description: d.Description,
				Status:      status,
			})
			if err != nil {
				return fmt.Errorf("seed dish %q: %w", d.Name, err)
			}
			if err := q.InsertFlavors(ctx, id, d.Flavors); err != nil {
				return fmt.Errorf("seed flavors %q: %w", d.Name, err)
			}
			dishByName[d.Name] = &Dish{ID: id, Name: d.Name, Price: d.Price}
		}

		for _, sm := range setmeals {
			var exists int
			if err := q.queryRow(ctx, `SELECT COUNT(1) FROM setmeal WHERE name=?`, sm.Name).Scan(&exists); err != nil {
				return err
			}
			if exists > 0 {
				continue
			}
			id, err := q.CreateSetmeal(ctx, CreateSetmealParams{
				CategoryID: catIDs[sm.Category],
				Name:       sm.Name,
				Price:      sm.Price,
				Status:     StatusEnabled,
			})
			if err != nil {
				return fmt.Errorf("seed setmeal %q: %w", sm.Name, err)
			}
			var items []SetmealDishParams
			for _, name := range sm.Dishes {
				d := dishByName[name]
				if d == nil {
					continue
				}
				items = append(items, SetmealDishParams{DishID: d.ID, Name: d.Name, Price: d.Price, Copies: 1})
			}
			if err := q.AddSetmealDishes(ctx, id, items); err != nil {
				return fmt.Errorf("seed setmeal dishes %q: %w", sm.Name, err)
			}
		}
		return nil
	})
}

// IsCatalogEmpty reports whether no category exists yet.
func IsCatalogEmpty(ctx context.Context, s *Store) (bool, error) {
	var n int
	if err := s.Q.queryRow(ctx, `SELECT COUNT(1) FROM category`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
