package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID *uuid.UUID      `json:"category_id"`
	Name       string          `json:"name" binding:"required,min=2,max=255"`
	Code       string          `json:"code" binding:"omitempty,max=100"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Notes      *string         `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID *uuid.UUID       `json:"category_id"`
	Name       *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Price      *decimal.Decimal `json:"price"`
	Active     *bool            `json:"active"`
	Notes      *string          `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	Active     *bool  `form:"active"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}

// UpdateCategoryRequest represents a category rename request
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}
