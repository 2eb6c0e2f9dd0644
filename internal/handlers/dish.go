package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sky-admin-go/internal/db"
	"sky-admin-go/internal/service"
)

func statusAndID(r *http.Request) (int, int64, error) {
	status, err := strconv.Atoi(chi.URLParam(r, "status"))
	if err != nil {
		return 0, 0, badParam("status")
	}
	id, ok := parseInt64(r.URL.Query().Get("id"))
	if !ok {
		return 0, 0, badParam("id")
	}
	return status, id, nil
}

/* ---------------- Admin dishes ---------------- */

func (s *Server) DishCreatePost(w http.ResponseWriter, r *http.Request) {
	var in service.DishDTO
	if err := decodeBody(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := s.App.Dishes().AddDish(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, id)
}

func (s *Server) DishUpdatePut(w http.ResponseWriter, r *http.Request) {
	var in service.DishDTO
	if err := decodeBody(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.App.Dishes().ModifyDish(r.Context(), in); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, nil)
}

func (s *Server) DishDelete(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.App.Dishes().BatchRemove(r.Context(), ids); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, nil)
}

func (s *Server) DishPageGet(w http.ResponseWriter, r *http.Request) {
	categoryID, err := optionalInt64(r, "categoryId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status, err := optionalInt(r, "status")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.App.Dishes().GetPage(r.Context(), service.DishPageQuery{
		Page:       queryInt(r, "page"),
		PageSize:   queryInt(r, "pageSize"),
		Name:       r.URL.Query().Get("name"),
		CategoryID: categoryID,
		Status:     status,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, page)
}

func (s *Server) DishStatusPost(w http.ResponseWriter, r *http.Request) {
	status, id, err := statusAndID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.App.Dishes().ChangeStatus(r.Context(), status, id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, nil)
}

func (s *Server) DishGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInt64(chi.URLParam(r, "id"))
	if !ok {
		s.fail(w, r, badParam("id"))
		return
	}
	vo, err := s.App.Dishes().GetByDishID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, vo)
}

// DishListGet lists the on-sale dishes of a category, e.g. for composing setmeals.
func (s *Server) DishListGet(w http.ResponseWriter, r *http.Request) {
	categoryID, err := optionalInt64(r, "categoryId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	onSale := db.StatusEnabled
	dishes, err := s.App.Dishes().List(r.Context(), db.DishFilter{
		CategoryID: categoryID,
		Name:       r.URL.Query().Get("name"),
		Status:     &onSale,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]dishRow, 0, len(dishes))
	for i := range dishes {
		out = append(out, toDishRow(&dishes[i]))
	}
	s.ok(w, out)
}

type dishRow struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CategoryID  int64   `json:"categoryId"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Status      int     `json:"status"`
}

func toDishRow(d *db.Dish) dishRow {
	return dishRow{
		ID:          d.ID,
		Name:        d.Name,
		CategoryID:  d.CategoryID,
		Price:       d.Price,
		Image:       d.Image,
		Description: d.Description,
		Status:      d.Status,
	}
}

/* ---------------- User menu ---------------- */

// UserDishListGet serves the on-sale dishes of a category through the dish cache.
func (s *Server) UserDishListGet(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := parseInt64(r.URL.Query().Get("categoryId"))
	if !ok {
		s.fail(w, r, badParam("categoryId"))
		return
	}
	onSale := db.StatusEnabled
	list, err := s.App.Dishes().ListWithFlavor(r.Context(), db.DishFilter{CategoryID: &categoryID, Status: &onSale})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, list)
}
