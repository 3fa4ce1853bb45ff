package component

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/salary-engine/internal/domain/component"
)

type ComponentServiceImpl struct {
	componentRepo component.ComponentRepository
}

func NewComponentService(componentRepo component.ComponentRepository) component.ComponentService {
	return &ComponentServiceImpl{componentRepo: componentRepo}
}

func (s *ComponentServiceImpl) CreateComponent(ctx context.Context, req component.CreateComponentRequest) (component.ComponentResponse, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return component.ComponentResponse{}, err
	}

	newComponent := component.SalaryComponent{
		Name:               req.Name,
		Code:               req.Code,
		Description:        req.Description,
		Type:               component.ComponentType(req.Type),
		CalculationType:    component.CalculationType(req.CalculationType),
		DefaultValue:       req.DefaultValue,
		IsActive:           true,
		TaxRate:            req.TaxRate,
		SocialSecurityRate: req.SocialSecurityRate,
	}
	if req.IsTaxable != nil {
		newComponent.IsTaxable = *req.IsTaxable
	}
	if req.IsSocialSecurityLiable != nil {
		newComponent.IsSocialSecurityLiable = *req.IsSocialSecurityLiable
	}
	if req.IsMandatory != nil {
		newComponent.IsMandatory = *req.IsMandatory
	}

	created, err := s.componentRepo.Create(ctx, newComponent)
	if err != nil {
		return component.ComponentResponse{}, err
	}

	slog.Info("Salary component created", "component_id", created.ID, "code", created.Code, "type", created.Type)
	return component.ToResponse(created), nil
}

func (s *ComponentServiceImpl) GetComponent(ctx context.Context, id string) (component.ComponentResponse, error) {
	c, err := s.componentRepo.GetByID(ctx, id)
	if err != nil {
		return component.ComponentResponse{}, err
	}
	return component.ToResponse(c), nil
}

func (s *ComponentServiceImpl) ListComponents(ctx context.Context, activeOnly bool) ([]component.ComponentResponse, error) {
	components, err := s.componentRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]component.ComponentResponse, 0, len(components))
	for _, c := range components {
		responses = append(responses, component.ToResponse(c))
	}
	return responses, nil
}

func (s *ComponentServiceImpl) UpdateComponent(ctx context.Context, req component.UpdateComponentRequest) (component.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return component.ComponentResponse{}, err
	}

	existing, err := s.componentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return component.ComponentResponse{}, err
	}

	if req.Name != nil {
		existing.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.CalculationType != nil {
		existing.CalculationType = component.CalculationType(*req.CalculationType)
	}
	if req.DefaultValue != nil {
		existing.DefaultValue = *req.DefaultValue
	}
	if req.IsTaxable != nil {
		existing.IsTaxable = *req.IsTaxable
	}
	if req.IsSocialSecurityLiable != nil {
		existing.IsSocialSecurityLiable = *req.IsSocialSecurityLiable
	}
	if req.IsMandatory != nil {
		existing.IsMandatory = *req.IsMandatory
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.TaxRate != nil {
		existing.TaxRate = req.TaxRate
	}
	if req.SocialSecurityRate != nil {
		existing.SocialSecurityRate = req.SocialSecurityRate
	}

	updated, err := s.componentRepo.Update(ctx, existing)
	if err != nil {
		return component.ComponentResponse{}, err
	}
	return component.ToResponse(updated), nil
}

// DeactivateComponent soft-disables a component. Historical salary items keep their snapshot.
func (s *ComponentServiceImpl) DeactivateComponent(ctx context.Context, id string) error {
	existing, err := s.componentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.IsActive {
		return component.ErrComponentAlreadyInactive
	}

	existing.IsActive = false
	if _, err := s.componentRepo.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to deactivate component: %w", err)
	}

	slog.Info("Salary component deactivated", "component_id", id, "code", existing.Code)
	return nil
}

func (s *ComponentServiceImpl) ActiveComponents(ctx context.Context) ([]component.SalaryComponent, error) {
	return s.componentRepo.List(ctx, true)
}

func (s *ComponentServiceImpl) SeedDefaults(ctx context.Context, defaults []component.SalaryComponent) (int, error) {
	existing, err := s.componentRepo.List(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("failed to list salary components: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.Code] = true
	}

	created := 0
	for _, c := range defaults {
		if known[c.Code] {
			continue
		}
		if _, err := s.componentRepo.Create(ctx, c); err != nil {
			if errors.Is(err, component.ErrComponentCodeExists) {
				continue
			}
			return created, fmt.Errorf("failed to seed salary component %s: %w", c.Code, err)
		}
		created++
	}

	if created > 0 {
		slog.Info("Default salary components seeded", "count", created)
	}
	return created, nil
}
