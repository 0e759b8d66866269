package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ProductInput is the form contract for product create and update. It is
// validated before any network call; validation failures never reach a
// store's error field.
type ProductInput struct {
	Name        string   `validate:"required,min=3,max=100"`
	Description string   `validate:"required,min=10,max=1000"`
	Price       float64  `validate:"required,gt=0,lte=999999.99,price_decimals"`
	CategoryID  string   `validate:"required"`
	Images      []string `validate:"required,min=1,max=5,dive,required,image_url"`
}

var priceDecimals = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// At most two decimal places.
	_ = v.RegisterValidation("price_decimals", func(fl validator.FieldLevel) bool {
		value := strconv.FormatFloat(fl.Field().Float(), 'f', -1, 64)
		return priceDecimals.MatchString(value)
	})

	// Absolute http(s) URL, inline data URI or root-relative path.
	_ = v.RegisterValidation("image_url", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return strings.HasPrefix(value, "http://") ||
			strings.HasPrefix(value, "https://") ||
			strings.HasPrefix(value, "data:image/") ||
			strings.HasPrefix(value, "/")
	})

	return v
}

// ValidateProduct checks the input against the form contract and returns
// field-keyed messages, nil when the input is valid. Name and description
// are trimmed before length checks, matching what the form submits.
func ValidateProduct(in ProductInput) map[string]string {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"input": "Invalid input"}
	}

	out := map[string]string{}
	for _, fe := range fieldErrors {
		key := fieldKey(fe.StructField())
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = fieldMessage(key, fe.Tag())
	}
	return out
}

func fieldKey(structField string) string {
	switch {
	case structField == "Name":
		return "name"
	case structField == "Description":
		return "description"
	case structField == "Price":
		return "price"
	case structField == "CategoryID":
		return "categoryId"
	case strings.HasPrefix(structField, "Images"):
		return "images"
	}
	return strings.ToLower(structField)
}

func fieldMessage(key, tag string) string {
	switch key {
	case "name":
		switch tag {
		case "min":
			return "Product name must be at least 3 characters"
		case "max":
			return "Product name must not exceed 100 characters"
		}
		return "Product name is required"
	case "description":
		switch tag {
		case "min":
			return "Description must be at least 10 characters"
		case "max":
			return "Description must not exceed 1000 characters"
		}
		return "Description is required"
	case "price":
		switch tag {
		case "lte":
			return "Price must not exceed $999,999.99"
		case "price_decimals":
			return "Price can have at most 2 decimal places"
		case "gt":
			return "Price must be greater than 0"
		}
		return "Price is required"
	case "categoryId":
		return "Category is required"
	case "images":
		switch tag {
		case "max":
			return "Maximum 5 images allowed"
		case "image_url":
			return "Invalid image URL"
		}
		return "At least one image is required"
	}
	return "Invalid value"
}
