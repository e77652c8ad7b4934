package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/inventory"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

// ProductUseCase alta y consulta de productos. Stock y estado se manejan vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create crea un producto con stock 0; el estado se deriva de los umbrales.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.Invalid("code y name son requeridos")
	}
	if in.BaseCost.IsNegative() {
		return nil, domain.Invalid("el costo base no puede ser negativo")
	}
	if in.MinStock < 0 || in.WarningStock < 0 {
		return nil, domain.Invalid("los umbrales de stock no pueden ser negativos")
	}
	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         name,
		BaseCost:     in.BaseCost,
		MinStock:     in.MinStock,
		WarningStock: in.WarningStock,
		Status:       inventory.StockStatus(0, in.MinStock, in.WarningStock),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	out := ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto %s no encontrado", id)
	}
	out := ToProductResponse(product)
	return &out, nil
}

// List lista productos por código.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ToProductResponse mapea la entidad a su salida HTTP.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		BaseCost:     p.BaseCost,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		WarningStock: p.WarningStock,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
