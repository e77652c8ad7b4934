package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

// ConsigneeUseCase alta y consulta de consignatarios. Los saldos no se editan aquí.
type ConsigneeUseCase struct {
	repo repository.ConsigneeRepository
	now  func() time.Time
}

// NewConsigneeUseCase construye el caso de uso.
func NewConsigneeUseCase(repo repository.ConsigneeRepository) *ConsigneeUseCase {
	return &ConsigneeUseCase{repo: repo, now: time.Now}
}

// Create registra un consignatario activo con saldos en cero.
func (uc *ConsigneeUseCase) Create(ctx context.Context, in dto.CreateConsigneeRequest) (*dto.ConsigneeResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name es requerido")
	}
	now := uc.now()
	c := &entity.Consignee{
		ID:             uuid.New().String(),
		Name:           name,
		TaxID:          strings.TrimSpace(in.TaxID),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Active:         true,
		TotalConsigned: decimal.Zero,
		TotalPaid:      decimal.Zero,
		PendingBalance: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := ToConsigneeResponse(c)
	return &out, nil
}

// GetByID obtiene un consignatario.
func (uc *ConsigneeUseCase) GetByID(ctx context.Context, id string) (*dto.ConsigneeResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("consignatario %s no encontrado", id)
	}
	out := ToConsigneeResponse(c)
	return &out, nil
}

// List lista consignatarios en orden de alta.
func (uc *ConsigneeUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ConsigneeResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConsigneeResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToConsigneeResponse(c))
	}
	return out, nil
}

// ToConsigneeResponse mapea la entidad a su salida HTTP.
func ToConsigneeResponse(c *entity.Consignee) dto.ConsigneeResponse {
	return dto.ConsigneeResponse{
		ID:             c.ID,
		Name:           c.Name,
		TaxID:          c.TaxID,
		Email:          c.Email,
		Phone:          c.Phone,
		Active:         c.Active,
		TotalConsigned: c.TotalConsigned,
		TotalPaid:      c.TotalPaid,
		PendingBalance: c.PendingBalance,
		CreatedAt:      c.CreatedAt,
	}
}
