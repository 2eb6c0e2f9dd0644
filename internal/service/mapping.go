package service

import (
	"time"

	"sky-admin-go/internal/db"
)

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func toEmployeeVO(e *db.Employee) EmployeeVO {
	return EmployeeVO{
		ID:         e.ID,
		Username:   e.Username,
		Name:       e.Name,
		Phone:      e.Phone,
		Sex:        e.Sex,
		IDNumber:   e.IDNumber,
		Status:     e.Status,
		CreateTime: fmtTime(e.CreatedAt),
		UpdateTime: fmtTime(e.UpdatedAt),
	}
}

func toDishVO(d *db.Dish, flavors []db.DishFlavor) DishVO {
	vo := DishVO{
		ID:           d.ID,
		Name:         d.Name,
		CategoryID:   d.CategoryID,
		Price:        d.Price,
		Image:        d.Image,
		Description:  d.Description,
		Status:       d.Status,
		UpdateTime:   fmtTime(d.UpdatedAt),
		CategoryName: d.CategoryName,
	}
	if flavors != nil {
		vo.Flavors = make([]DishFlavor, 0, len(flavors))
		for _, f := range flavors {
			vo.Flavors = append(vo.Flavors, DishFlavor{ID: f.ID, DishID: f.DishID, Name: f.Name, Value: f.Value})
		}
	}
	return vo
}

func toFlavorParams(in []DishFlavor) []db.FlavorParams {
	out := make([]db.FlavorParams, 0, len(in))
	for _, f := range in {
		out = append(out, db.FlavorParams{Name: f.Name, Value: f.Value})
	}
	return out
}
