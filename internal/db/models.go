package db

import "time"

const (
	StatusDisabled = 0
	StatusEnabled  = 1
)

const (
	CategoryTypeDish    = 1
	CategoryTypeSetmeal = 2
)

type Employee struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string
	Phone        string
	Sex          string
	IDNumber     string
	Status       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreateUser   *int64
	UpdateUser   *int64
}

type Category struct {
	ID     int64
	Type   int
	Name   string
	Sort   int
	Status int
}

type Dish struct {
	ID           int64
	Name         string
	CategoryID   int64
	CategoryName string
	Price        float64
	Image        string
	Description  string
	Status       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreateUser   *int64
	UpdateUser   *int64
}

type DishFlavor struct {
	ID     int64
	DishID int64
	Name   string
	Value  string
}

type SetmealDish struct {
	ID        int64
	SetmealID int64
	DishID    int64
	Name      string
	Price     float64
	Copies    int
}

// DishFilter narrows dish lookups. Zero values mean "any".
type DishFilter struct {
	CategoryID *int64
	Name       string
	Status     *int
}

/* ---------- parameter structs ---------- */

type CreateEmployeeParams struct {
	Name         string
	Username     string
	PasswordHash string
	Phone        string
	Sex          string
	IDNumber     string
	Status       int
	Actor        *int64
}

type UpdateEmployeeParams struct {
	ID       int64
	Name     string
	Username string
	Phone    string
	Sex      string
	IDNumber string
	Actor    *int64
}

type CreateCategoryParams struct {
	Type   int
	Name   string
	Sort   int
	Status int
}

type CreateDishParams struct {
	Name        string
	CategoryID  int64
	Price       float64
	Image       string
	Description string
	Status      int
	Actor       *int64
}

type UpdateDishParams struct {
	ID          int64
	Name        string
	CategoryID  int64
	Price       float64
	Image       string
	Description string
	Status      *int
	Actor       *int64
}

type FlavorParams struct {
	Name  string
	Value string
}

type CreateSetmealParams struct {
	CategoryID  int64
	Name        string
	Price       float64
	Status      int
	Description string
	Actor       *int64
}

type SetmealDishParams struct {
	DishID int64
	Name   string
	Price  float64
	Copies int
}
