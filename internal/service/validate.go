package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	jsoniter "github.com/json-iterator/go"
)

var (
	phoneRe    = regexp.MustCompile(`^[0-9+\- ]{5,20}$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
)

func invalid(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return internal
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func validStatus(status int) error {
	if status != 0 && status != 1 {
		return fmt.Errorf("%w: status must be 0 or 1", ErrValidation)
	}
	return nil
}

func (d EmployeeLoginDTO) Validate() error {
	return invalid(validation.ValidateStruct(&d,
		validation.Field(&d.Username, validation.Required),
		validation.Field(&d.Password, validation.Required),
	))
}

func (d EmployeeDTO) Validate() error {
	return invalid(validation.ValidateStruct(&d,
		validation.Field(&d.Username, validation.Required, validation.Length(3, 32), validation.Match(usernameRe)),
		validation.Field(&d.Name, validation.Required, validation.Length(1, 32)),
		validation.Field(&d.Phone, validation.Match(phoneRe)),
		validation.Field(&d.Sex, validation.In("0", "1")),
		validation.Field(&d.IDNumber, validation.Length(0, 32)),
	))
}

func (d PasswordEditDTO) Validate() error {
	return invalid(validation.ValidateStruct(&d,
		validation.Field(&d.OldPassword, validation.Required),
		validation.Field(&d.NewPassword, validation.Required, validation.Length(6, 64)),
	))
}

func (d DishDTO) Validate() error {
	return invalid(validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.Length(1, 32)),
		validation.Field(&d.CategoryID, validation.Required, validation.Min(int64(1))),
		validation.Field(&d.Price, validation.Min(0.0)),
		validation.Field(&d.Image, validation.Length(0, 255)),
		validation.Field(&d.Description, validation.Length(0, 255)),
		validation.Field(&d.Status, validation.In(0, 1)),
		validation.Field(&d.Flavors, validation.Each(validation.By(validFlavor))),
	))
}

// validFlavor requires a name and a value holding a JSON array of strings.
func validFlavor(value any) error {
	f, ok := value.(DishFlavor)
	if !ok {
		return errors.New("must be a flavor")
	}
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("name cannot be blank")
	}
	var opts []string
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(f.Value, &opts); err != nil {
		return fmt.Errorf("value of %q must be a JSON array of strings", f.Name)
	}
	return nil
}
