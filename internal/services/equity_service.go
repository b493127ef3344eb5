// internal/services/equity_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/utils"
)

type EquityService struct {
	db    *gorm.DB
	audit *AuditService
}

type AddShareholderRequest struct {
	Name      string                 `json:"name" validate:"required,max=255"`
	Type      models.ShareholderType `json:"type" validate:"required,shareholder_type"`
	Shares    int64                  `json:"shares"`
	Email     string                 `json:"email,omitempty" validate:"omitempty,email,max=255"`
	GrantDate *time.Time             `json:"grant_date,omitempty"`
}

type GrantOptionsRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" validate:"required"`
	Shares     int64     `json:"shares"`
}

type ShareholderFilter struct {
	utils.PaginationParams
	Type       *models.ShareholderType `json:"type,omitempty"`
	EmployeeID *uuid.UUID              `json:"employee_id,omitempty"`
}

// PoolState is the pool row plus its derived remaining capacity.
type PoolState struct {
	models.CapTablePool
	Available int64 `json:"available"`
}

type GrantResult struct {
	Shareholder *models.Shareholder `json:"shareholder"`
	Pool        PoolState           `json:"pool"`
}

type HolderTypeSummary struct {
	Type       models.ShareholderType `json:"type"`
	Holders    int64                  `json:"holders"`
	Shares     int64                  `json:"shares"`
	Percentage float64                `json:"percentage"`
}

// CapTableSummary totals the cap table. TotalPercentage is the plain sum of
// stored percentages and is not normalized to 100.
type CapTableSummary struct {
	TotalAuthorizedShares int64               `json:"total_authorized_shares"`
	IssuedShares          int64               `json:"issued_shares"`
	TotalPercentage       float64             `json:"total_percentage"`
	ByType                []HolderTypeSummary `json:"by_type"`
	Pool                  PoolState           `json:"pool"`
}

var shareholderSortFields = []string{"grant_date", "shares", "name", "created_at"}

func NewEquityService(db *gorm.DB, audit *AuditService) *EquityService {
	return &EquityService{db: db, audit: audit}
}

func newPoolState(pool models.CapTablePool) PoolState {
	return PoolState{CapTablePool: pool, Available: pool.Available()}
}

// AddShareholder records a holder outside the option pool.
func (s *EquityService) AddShareholder(ctx context.Context, actor models.Actor, req *AddShareholderRequest) (holder *models.Shareholder, err error) {
	ctx, end := traced(ctx, "equity.AddShareholder", attribute.Int64("equity.shares", req.Shares))
	defer end(&err)

	if err := Authorize(actor, CapAddShareholder); err != nil {
		return nil, err
	}
	if req.Shares <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShareCount, req.Shares)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	grantDate := time.Now().UTC()
	if req.GrantDate != nil {
		grantDate = req.GrantDate.UTC()
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		pool, err := s.loadPool(ctx, tx, false)
		if err != nil {
			return err
		}

		holder = &models.Shareholder{
			Name:       req.Name,
			Type:       req.Type,
			Shares:     req.Shares,
			Percentage: models.Percentage(req.Shares, pool.TotalAuthorizedShares),
			Email:      req.Email,
			GrantDate:  grantDate,
		}
		if err := tx.WithContext(ctx).Create(holder).Error; err != nil {
			return storageError("create shareholder", err)
		}

		_, err = s.audit.Append(ctx, tx, models.AuditActionAddShareholder, TargetShareholder, holder.ID.String(), actor.ID, map[string]interface{}{
			"name":   holder.Name,
			"type":   holder.Type,
			"shares": holder.Shares,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"shareholder_id": holder.ID,
		"type":           holder.Type,
		"shares":         holder.Shares,
		"actor":          actor.ID,
	}).Info("Shareholder added")
	return holder, nil
}

// GrantOptions issues options from the pool to an employee. The pool counter
// and the new shareholder row move together or not at all.
func (s *EquityService) GrantOptions(ctx context.Context, actor models.Actor, req *GrantOptionsRequest) (result *GrantResult, err error) {
	ctx, end := traced(ctx, "equity.GrantOptions",
		attribute.String("employee.id", req.EmployeeID.String()),
		attribute.Int64("equity.shares", req.Shares),
	)
	defer end(&err)

	if err := Authorize(actor, CapGrantOptions); err != nil {
		return nil, err
	}
	if req.Shares <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShareCount, req.Shares)
	}
	if req.EmployeeID == uuid.Nil {
		return nil, fmt.Errorf("%w: employee_id is required", ErrValidation)
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.WithContext(ctx).First(&employee, "id = ?", req.EmployeeID).Error; err != nil {
			return notFoundOr(err, "employee", req.EmployeeID.String())
		}

		pool, err := s.loadPool(ctx, tx, true)
		if err != nil {
			return err
		}
		if req.Shares > pool.Available() {
			return fmt.Errorf("%w: requested %d, available %d", ErrPoolExhausted, req.Shares, pool.Available())
		}

		res := tx.WithContext(ctx).Model(&models.CapTablePool{}).
			Where("id = ? AND pool_utilized + ? <= pool_shares", pool.ID, req.Shares).
			Update("pool_utilized", gorm.Expr("pool_utilized + ?", req.Shares))
		if res.Error != nil {
			return storageError("increment pool utilization", res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: requested %d", ErrPoolExhausted, req.Shares)
		}
		pool.PoolUtilized += req.Shares

		employeeID := employee.ID
		holder := &models.Shareholder{
			Name:       employee.Name,
			Type:       models.ShareholderTypeEmployee,
			Shares:     req.Shares,
			Percentage: models.Percentage(req.Shares, pool.TotalAuthorizedShares),
			Email:      employee.Email,
			GrantDate:  time.Now().UTC(),
			EmployeeID: &employeeID,
		}
		if err := tx.WithContext(ctx).Create(holder).Error; err != nil {
			return storageError("create option holder", err)
		}

		_, err = s.audit.Append(ctx, tx, models.AuditActionGrantOptions, TargetShareholder, holder.ID.String(), actor.ID, map[string]interface{}{
			"employee_id":   employee.ID,
			"shares":        req.Shares,
			"pool_utilized": pool.PoolUtilized,
			"pool_shares":   pool.PoolShares,
		})
		if err != nil {
			return err
		}

		result = &GrantResult{Shareholder: holder, Pool: newPoolState(*pool)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"employee_id":   req.EmployeeID,
		"shares":        req.Shares,
		"pool_utilized": result.Pool.PoolUtilized,
		"actor":         actor.ID,
	}).Info("Options granted")
	return result, nil
}

// ResizePool changes the pool size. It never shrinks below what is already
// granted.
func (s *EquityService) ResizePool(ctx context.Context, actor models.Actor, poolShares int64) (state *PoolState, err error) {
	ctx, end := traced(ctx, "equity.ResizePool", attribute.Int64("equity.pool_shares", poolShares))
	defer end(&err)

	if err := Authorize(actor, CapResizePool); err != nil {
		return nil, err
	}
	if poolShares <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShareCount, poolShares)
	}

	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		pool, err := s.loadPool(ctx, tx, true)
		if err != nil {
			return err
		}
		if poolShares < pool.PoolUtilized {
			return fmt.Errorf("%w: %d shares already granted", ErrPoolExhausted, pool.PoolUtilized)
		}
		if pool.FounderShares+poolShares > pool.TotalAuthorizedShares {
			return fmt.Errorf("%w: pool of %d exceeds authorized shares", ErrInvalidShareCount, poolShares)
		}

		previous := pool.PoolShares
		res := tx.WithContext(ctx).Model(&models.CapTablePool{}).
			Where("id = ? AND pool_utilized <= ?", pool.ID, poolShares).
			Update("pool_shares", poolShares)
		if res.Error != nil {
			return storageError("resize pool", res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("%w: pool changed concurrently", ErrPoolExhausted)
		}
		pool.PoolShares = poolShares

		_, err = s.audit.Append(ctx, tx, models.AuditActionResizePool, TargetPool, fmt.Sprint(pool.ID), actor.ID, map[string]interface{}{
			"from": previous,
			"to":   poolShares,
		})
		if err != nil {
			return err
		}

		ps := newPoolState(*pool)
		state = &ps
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"pool_shares": poolShares,
		"actor":       actor.ID,
	}).Info("Option pool resized")
	return state, nil
}

func (s *EquityService) GetPool(ctx context.Context) (*PoolState, error) {
	pool, err := s.loadPool(ctx, s.db, false)
	if err != nil {
		return nil, err
	}
	state := newPoolState(*pool)
	return &state, nil
}

func (s *EquityService) ListShareholders(ctx context.Context, filter ShareholderFilter) (holders []models.Shareholder, total int64, err error) {
	ctx, end := traced(ctx, "equity.ListShareholders")
	defer end(&err)

	query := s.db.WithContext(ctx).Model(&models.Shareholder{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageError("count shareholders", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, shareholderSortFields)
	query = utils.ApplyPagination(query.Order("id ASC"), filter.PaginationParams)
	if err := query.Find(&holders).Error; err != nil {
		return nil, 0, storageError("list shareholders", err)
	}
	return holders, total, nil
}

func (s *EquityService) CapTableSummary(ctx context.Context) (summary *CapTableSummary, err error) {
	ctx, end := traced(ctx, "equity.CapTableSummary")
	defer end(&err)

	pool, err := s.loadPool(ctx, s.db, false)
	if err != nil {
		return nil, err
	}

	var rows []HolderTypeSummary
	if err := s.db.WithContext(ctx).Model(&models.Shareholder{}).
		Select("type, COUNT(*) AS holders, COALESCE(SUM(shares), 0) AS shares, COALESCE(SUM(percentage), 0) AS percentage").
		Group("type").
		Order("type").
		Scan(&rows).Error; err != nil {
		return nil, storageError("summarize cap table", err)
	}

	summary = &CapTableSummary{
		TotalAuthorizedShares: pool.TotalAuthorizedShares,
		ByType:                rows,
		Pool:                  newPoolState(*pool),
	}
	for _, row := range rows {
		summary.IssuedShares += row.Shares
		summary.TotalPercentage += row.Percentage
	}
	return summary, nil
}

func (s *EquityService) loadPool(ctx context.Context, tx *gorm.DB, lock bool) (*models.CapTablePool, error) {
	query := tx.WithContext(ctx)
	if lock {
		query = forUpdate(query)
	}
	var pool models.CapTablePool
	if err := query.First(&pool, "id = ?", models.CapTablePoolID).Error; err != nil {
		return nil, notFoundOr(err, "cap table pool", fmt.Sprint(models.CapTablePoolID))
	}
	return &pool, nil
}
