package service

const timeLayout = "2006-01-02 15:04:05"

type EmployeeLoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// EmployeeDTO is the editable part of an employee profile. It never carries the password.
type EmployeeDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Sex      string `json:"sex"`
	IDNumber string `json:"idNumber"`
}

type EmployeeVO struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Sex        string `json:"sex"`
	IDNumber   string `json:"idNumber"`
	Status     int    `json:"status"`
	CreateTime string `json:"createTime"`
	UpdateTime string `json:"updateTime"`
}

type EmployeePageQuery struct {
	Name     string `json:"name"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type PasswordEditDTO struct {
	EmpID       int64  `json:"empId"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type PageResult[T any] struct {
	Total   int64 `json:"total"`
	Records []T   `json:"records"`
}

type DishFlavor struct {
	ID     int64  `json:"id,omitempty"`
	DishID int64  `json:"dishId,omitempty"`
	Name   string `json:"name"`
	Value  string `json:"value"`
}

// DishDTO is the write model for AddDish and ModifyDish. A nil Status on add
// means off-sale.
type DishDTO struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	CategoryID  int64        `json:"categoryId"`
	Price       float64      `json:"price"`
	Image       string       `json:"image"`
	Description string       `json:"description"`
	Status      *int         `json:"status"`
	Flavors     []DishFlavor `json:"flavors"`
}

type DishPageQuery struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Name       string `json:"name"`
	CategoryID *int64 `json:"categoryId"`
	Status     *int   `json:"status"`
}

type DishVO struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	CategoryID   int64        `json:"categoryId"`
	Price        float64      `json:"price"`
	Image        string       `json:"image"`
	Description  string       `json:"description"`
	Status       int          `json:"status"`
	UpdateTime   string       `json:"updateTime"`
	CategoryName string       `json:"categoryName"`
	Flavors      []DishFlavor `json:"flavors"`
}

func normalizePage(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return size, (page - 1) * size
}
