package proyecto

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/dto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/entity"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

// UseCase gestión de proyectos agrupadores de actividades.
type UseCase struct {
	repo     repository.ProyectoRepository
	userRepo repository.UserRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProyectoRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{repo: repo, userRepo: userRepo}
}

// Crear da de alta un proyecto. Solo Comercial o Admin; el ClienteID debe
// corresponder a un usuario con rol Cliente.
func (uc *UseCase) Crear(ctx context.Context, in dto.CreateProyectoRequest, actorRol string) (*dto.ProyectoResponse, error) {
	if actorRol != entity.RolComercial && actorRol != entity.RolAdmin {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Nombre) == "" || in.ClienteID == "" {
		return nil, domain.ErrInvalidInput
	}
	cliente, err := uc.userRepo.GetByID(in.ClienteID)
	if err != nil {
		return nil, err
	}
	if cliente == nil || cliente.Rol != entity.RolCliente {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	p := &entity.Proyecto{
		ID:          uuid.New().String(),
		Nombre:      in.Nombre,
		ClienteID:   in.ClienteID,
		Descripcion: in.Descripcion,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// PorID devuelve el proyecto o NotFound.
func (uc *UseCase) PorID(ctx context.Context, id string) (*dto.ProyectoResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(p), nil
}

// Listar devuelve proyectos paginados.
func (uc *UseCase) Listar(ctx context.Context, limit, offset int) ([]dto.ProyectoResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	items, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProyectoResponse, 0, len(items))
	for _, p := range items {
		out = append(out, *toResponse(p))
	}
	return out, nil
}

func toResponse(p *entity.Proyecto) *dto.ProyectoResponse {
	return &dto.ProyectoResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		ClienteID:   p.ClienteID,
		Descripcion: p.Descripcion,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
