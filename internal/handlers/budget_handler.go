package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/analytics"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/models"
	"budgetwise/internal/money"
	"budgetwise/internal/pagination"
	"budgetwise/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// The end date is derived from start_date and period.
type CreateBudgetRequest struct {
	Name        string              `json:"name" binding:"required,min=1,max=100"`
	Amount      money.Cents         `json:"amount" binding:"required,money" swaggertype:"string" example:"500.00"`
	Period      models.BudgetPeriod `json:"period" binding:"required,budget_period"`
	StartDate   string              `json:"start_date" binding:"required,flexdate" example:"2024-03-01"`
	CategoryIDs []string            `json:"category_ids" binding:"required,min=1,dive,uuid"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
// Omitted fields are left unchanged; category_ids replaces the full set.
type UpdateBudgetRequest struct {
	Name        *string              `json:"name" binding:"omitempty,min=1,max=100"`
	Amount      *money.Cents         `json:"amount" binding:"omitempty,money" swaggertype:"string"`
	Period      *models.BudgetPeriod `json:"period" binding:"omitempty,budget_period"`
	StartDate   *string              `json:"start_date" binding:"omitempty,flexdate"`
	CategoryIDs []string             `json:"category_ids" binding:"omitempty,min=1,dive,uuid"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a budget over one or more categories
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} services.BudgetView "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	start, _ := parseFlexDate(req.StartDate)
	budget, err := h.budgetService.CreateBudget(userID, services.BudgetInput{
		Name:        req.Name,
		Amount:      req.Amount,
		Period:      req.Period,
		StartDate:   start,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]any{"name": req.Name, "amount": req.Amount.String(), "period": req.Period})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Description Get a paginated list of budgets with their current progress
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       period    query string false "monthly, quarterly or yearly"
// @Param       status    query string false "active, exceeded or completed"
// @Param       search    query string false "Name contains (case-insensitive)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.BudgetView] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	var filter services.BudgetFilter
	if v := c.Query("period"); v != "" {
		p := models.BudgetPeriod(v)
		if !analytics.Period(p).IsValid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be 'monthly', 'quarterly' or 'yearly'"))
			return
		}
		filter.Period = &p
	}
	if v := c.Query("status"); v != "" {
		s := analytics.Status(v)
		if !s.IsValid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'active', 'exceeded' or 'completed'"))
			return
		}
		filter.Status = &s
	}
	filter.Search = c.Query("search")

	result, err := h.budgetService.GetUserBudgets(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Description Get a budget with its current progress
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetView "Budget details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id", apperrors.ErrBudgetNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Description Update an existing budget. The end date follows start_date and period.
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to change"
// @Success     200 {object} services.BudgetView "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id", apperrors.ErrBudgetNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	upd := services.BudgetUpdate{
		Name:        req.Name,
		Amount:      req.Amount,
		Period:      req.Period,
		CategoryIDs: req.CategoryIDs,
	}
	if req.StartDate != nil {
		start, _ := parseFlexDate(*req.StartDate)
		upd.StartDate = &start
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, upd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget by ID (soft delete)
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id", apperrors.ErrBudgetNotFound)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}
