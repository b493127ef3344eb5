// internal/services/employee_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/utils"
)

type EmployeeService struct {
	db    *gorm.DB
	audit *AuditService
}

type CreateEmployeeRequest struct {
	Name    string     `json:"name" validate:"required,max=255"`
	Email   string     `json:"email" validate:"required,email,max=255"`
	Title   string     `json:"title,omitempty" validate:"max=100"`
	HiredAt *time.Time `json:"hired_at,omitempty"`
}

type EmployeeFilter struct {
	utils.PaginationParams
	Search string `json:"search,omitempty"`
}

func NewEmployeeService(db *gorm.DB, audit *AuditService) *EmployeeService {
	return &EmployeeService{db: db, audit: audit}
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, actor models.Actor, req *CreateEmployeeRequest) (employee *models.Employee, err error) {
	ctx, end := traced(ctx, "employee.Create")
	defer end(&err)

	if err := Authorize(actor, CapCreateEmployee); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	hiredAt := time.Now().UTC()
	if req.HiredAt != nil {
		hiredAt = req.HiredAt.UTC()
	}
	employee = &models.Employee{
		Name:    req.Name,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Title:   req.Title,
		HiredAt: hiredAt,
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.Employee{}).Where("email = ?", employee.Email).Count(&count).Error; err != nil {
			return storageError("check employee email", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: employee with email %s already exists", ErrValidation, employee.Email)
		}

		if err := tx.WithContext(ctx).Create(employee).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: employee with email %s already exists", ErrValidation, employee.Email)
			}
			return storageError("create employee", err)
		}

		_, err := s.audit.Append(ctx, tx, models.AuditActionCreateEmployee, TargetEmployee, employee.ID.String(), actor.ID, map[string]interface{}{
			"name":  employee.Name,
			"email": employee.Email,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"actor":       actor.ID,
	}).Info("Employee created")
	return employee, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "employee", id.String())
	}
	return &employee, nil
}

func (s *EmployeeService) ListEmployees(ctx context.Context, filter EmployeeFilter) (employees []models.Employee, total int64, err error) {
	ctx, end := traced(ctx, "employee.List")
	defer end(&err)

	query := s.db.WithContext(ctx).Model(&models.Employee{})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR email LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageError("count employees", err)
	}

	query = utils.ApplyPagination(query.Order("name ASC").Order("id ASC"), filter.PaginationParams)
	if err := query.Find(&employees).Error; err != nil {
		return nil, 0, storageError("list employees", err)
	}
	return employees, total, nil
}
