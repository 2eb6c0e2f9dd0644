package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sky-admin-go/internal/cache"
	"sky-admin-go/internal/db"
)

// DishService keeps dishes, their flavors and the per-category cache entry
// consistent. Writes delete the category entry after commit; only
// ListWithFlavor populates it.
type DishService struct {
	store    *db.Store
	cache    cache.Store
	log      *slog.Logger
	notifier Notifier
}

// Notifier is told about every category whose dishes changed, after commit.
type Notifier interface {
	DishCategoryChanged(categoryID int64)
}

func NewDishService(store *db.Store, c cache.Store, logger *slog.Logger) *DishService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DishService{store: store, cache: c, log: logger}
}

func (s *DishService) SetNotifier(n Notifier) { s.notifier = n }

func (s *DishService) AddDish(ctx context.Context, in DishDTO) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return 0, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return 0, err
	}
	if err := s.checkNameFree(ctx, in.Name, 0); err != nil {
		return 0, err
	}

	status := db.StatusDisabled
	if in.Status != nil {
		status = *in.Status
	}

	var id int64
	err := s.store.WithTx(ctx, func(q *db.Queries) error {
		var err error
		id, err = q.CreateDish(ctx, db.CreateDishParams{
			Name:        in.Name,
			CategoryID:  in.CategoryID,
			Price:       in.Price,
			Image:       in.Image,
			Description: in.Description,
			Status:      status,
			Actor:       actorPtr(ctx),
		})
		if err != nil {
			return fmt.Errorf("create dish: %w", err)
		}
		if err := q.InsertFlavors(ctx, id, toFlavorParams(in.Flavors)); err != nil {
			return fmt.Errorf("insert flavors: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("dish created", "id", id, "category_id", in.CategoryID, "flavors", len(in.Flavors))
	s.invalidate(ctx, in.CategoryID)
	return id, nil
}

func (s *DishService) GetPage(ctx context.Context, q DishPageQuery) (PageResult[DishVO], error) {
	limit, offset := normalizePage(q.Page, q.PageSize)
	rows, total, err := s.store.Q.PageDishes(ctx, db.DishFilter{
		CategoryID: q.CategoryID,
		Name:       q.Name,
		Status:     q.Status,
	}, limit, offset)
	if err != nil {
		return PageResult[DishVO]{}, fmt.Errorf("page dishes: %w", err)
	}
	out := PageResult[DishVO]{Total: total, Records: make([]DishVO, 0, len(rows))}
	for i := range rows {
		out.Records = append(out.Records, toDishVO(&rows[i], nil))
	}
	return out, nil
}

// BatchRemove deletes all dishes or none. Every id is checked for being
// on sale, then for setmeal references, before anything is deleted.
func (s *DishService) BatchRemove(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: ids cannot be empty", ErrValidation)
	}

	// Checks and deletes share one transaction so a dish put on sale
	// concurrently is either seen here or blocked until commit.
	var dishes []*db.Dish
	err := s.store.WithTx(ctx, func(q *db.Queries) error {
		dishes = make([]*db.Dish, 0, len(ids))
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true

			d, err := q.LockDishByID(ctx, id)
			if err != nil {
				return fmt.Errorf("get dish: %w", err)
			}
			if d == nil {
				return fmt.Errorf("%w: dish %d", ErrNotFound, id)
			}
			if d.Status == db.StatusEnabled {
				return fmt.Errorf("%w: dish %d", ErrDishOnSale, id)
			}
			dishes = append(dishes, d)
		}
		for _, d := range dishes {
			n, err := q.CountSetmealsByDishID(ctx, d.ID)
			if err != nil {
				return fmt.Errorf("count setmeals: %w", err)
			}
			if n > 0 {
				return fmt.Errorf("%w: dish %d", ErrDishReferencedBySetmeal, d.ID)
			}
		}

		for _, d := range dishes {
			if err := q.DeleteFlavorsByDishID(ctx, d.ID); err != nil {
				return fmt.Errorf("delete flavors of dish %d: %w", d.ID, err)
			}
			if err := q.DeleteDish(ctx, d.ID); err != nil {
				return fmt.Errorf("delete dish %d: %w", d.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	categories := make(map[int64]bool)
	for _, d := range dishes {
		if categories[d.CategoryID] {
			continue
		}
		categories[d.CategoryID] = true
		s.invalidate(ctx, d.CategoryID)
	}
	s.log.Info("dishes removed", "count", len(dishes), "categories", len(categories))
	return nil
}

func (s *DishService) ChangeStatus(ctx context.Context, status int, id int64) error {
	if err := validStatus(status); err != nil {
		return err
	}
	d, err := s.store.Q.GetDishByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get dish: %w", err)
	}
	if d == nil {
		return fmt.Errorf("%w: dish %d", ErrNotFound, id)
	}
	if _, err := s.store.Q.SetDishStatus(ctx, id, status, actorPtr(ctx)); err != nil {
		return fmt.Errorf("set dish status: %w", err)
	}
	s.invalidate(ctx, d.CategoryID)
	return nil
}

func (s *DishService) GetByDishID(ctx context.Context, id int64) (DishVO, error) {
	d, err := s.store.Q.GetDishByID(ctx, id)
	if err != nil {
		return DishVO{}, fmt.Errorf("get dish: %w", err)
	}
	if d == nil {
		return DishVO{}, fmt.Errorf("%w: dish %d", ErrNotFound, id)
	}
	flavors, err := s.flavorsOf(ctx, s.store.Q, id)
	if err != nil {
		return DishVO{}, err
	}
	return toDishVO(d, flavors), nil
}

// ModifyDish replaces the scalar fields and the whole flavor set of a dish.
func (s *DishService) ModifyDish(ctx context.Context, in DishDTO) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return err
	}
	old, err := s.store.Q.GetDishByID(ctx, in.ID)
	if err != nil {
		return fmt.Errorf("get dish: %w", err)
	}
	if old == nil {
		return fmt.Errorf("%w: dish %d", ErrNotFound, in.ID)
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return err
	}
	if err := s.checkNameFree(ctx, in.Name, in.ID); err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(q *db.Queries) error {
		n, err := q.UpdateDish(ctx, db.UpdateDishParams{
			ID:          in.ID,
			Name:        in.Name,
			CategoryID:  in.CategoryID,
			Price:       in.Price,
			Image:       in.Image,
			Description: in.Description,
			Status:      in.Status,
			Actor:       actorPtr(ctx),
		})
		if err != nil {
			return fmt.Errorf("update dish: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: dish %d", ErrNotFound, in.ID)
		}
		if err := q.DeleteFlavorsByDishID(ctx, in.ID); err != nil {
			return fmt.Errorf("delete flavors: %w", err)
		}
		if err := q.InsertFlavors(ctx, in.ID, toFlavorParams(in.Flavors)); err != nil {
			return fmt.Errorf("insert flavors: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, in.CategoryID)
	if old.CategoryID != in.CategoryID {
		s.invalidate(ctx, old.CategoryID)
	}
	return nil
}

func (s *DishService) List(ctx context.Context, f db.DishFilter) ([]db.Dish, error) {
	dishes, err := s.store.Q.ListDishes(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	if dishes == nil {
		dishes = []db.Dish{}
	}
	return dishes, nil
}

// ListWithFlavor serves the dishes of one category with their flavors,
// reading through the dish_<categoryId> cache entry. The key depends on the
// category only, so callers must use a fixed status filter.
func (s *DishService) ListWithFlavor(ctx context.Context, f db.DishFilter) ([]DishVO, error) {
	if f.CategoryID == nil {
		return nil, fmt.Errorf("%w: categoryId is required", ErrValidation)
	}
	key := cache.DishKey(*f.CategoryID)

	if hit, err := s.cache.Exists(ctx, key); err != nil {
		s.log.Warn("dish cache lookup failed", "key", key, "err", err)
	} else if hit {
		var cached []DishVO
		ok, err := cache.GetJSON(ctx, s.cache, key, &cached)
		switch {
		case err != nil:
			s.log.Warn("dish cache decode failed", "key", key, "err", err)
		case ok:
			s.log.Debug("dish cache hit", "key", key, "count", len(cached))
			return cached, nil
		}
	}

	dishes, err := s.store.Q.ListDishes(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	out := make([]DishVO, 0, len(dishes))
	for i := range dishes {
		flavors, err := s.flavorsOf(ctx, s.store.Q, dishes[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toDishVO(&dishes[i], flavors))
	}

	if err := cache.SetJSON(ctx, s.cache, key, out); err != nil {
		s.log.Warn("dish cache populate failed", "key", key, "err", err)
	} else {
		s.log.Debug("dish cache populated", "key", key, "count", len(out))
	}
	return out, nil
}

func (s *DishService) flavorsOf(ctx context.Context, q *db.Queries, dishID int64) ([]db.DishFlavor, error) {
	flavors, err := q.ListFlavorsByDishID(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("list flavors of dish %d: %w", dishID, err)
	}
	if flavors == nil {
		flavors = []db.DishFlavor{}
	}
	return flavors, nil
}

func (s *DishService) checkCategory(ctx context.Context, id int64) error {
	c, err := s.store.Q.GetCategoryByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if c == nil {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	return nil
}

func (s *DishService) checkNameFree(ctx context.Context, name string, selfID int64) error {
	d, err := s.store.Q.GetDishByName(ctx, name)
	if err != nil {
		return fmt.Errorf("get dish: %w", err)
	}
	if d != nil && d.ID != selfID {
		return fmt.Errorf("%w: dish %q", ErrConflict, name)
	}
	return nil
}

// invalidate deletes the cache entry of a category and notifies listeners.
// The database is authoritative, so a failed delete is logged and not returned.
func (s *DishService) invalidate(ctx context.Context, categoryID int64) {
	key := cache.DishKey(categoryID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Error("dish cache invalidation failed", "key", key, "err", err)
	} else {
		s.log.Debug("dish cache invalidated", "key", key)
	}
	if s.notifier != nil {
		s.notifier.DishCategoryChanged(categoryID)
	}
}
