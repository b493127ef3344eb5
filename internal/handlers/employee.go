// internal/handlers/employee.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/omstudio/studio-ops/internal/i18n"
	"github.com/omstudio/studio-ops/internal/services"
	"github.com/omstudio/studio-ops/internal/utils"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// GET /employees
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	employees, total, err := h.employeeService.ListEmployees(c.Request.Context(), services.EmployeeFilter{
		PaginationParams: params,
		Search:           c.Query("q"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(employees, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyEmployeeCreated),
		"employee": employee,
	})
}

// GET /employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid employee ID", nil)
		return
	}

	employee, err := h.employeeService.GetEmployee(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, i18n.KeyEmployeeNotFound)
			return
		}
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"employee": employee,
	})
}
