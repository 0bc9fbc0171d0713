package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizreview-backend/internal/app/service"
	apperrors "github.com/ikkim/bizreview-backend/internal/errors"
	"github.com/ikkim/bizreview-backend/internal/middleware"
)

type CompanyController struct {
	companyService service.CompanyService
}

func NewCompanyController(companyService service.CompanyService) *CompanyController {
	return &CompanyController{companyService: companyService}
}

// CreateCompany POST /api/v1/companies
func (ctrl *CompanyController) CreateCompany(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var input service.CompanyInput
	if !bindJSON(c, &input) {
		return
	}
	input.OwnerUserID = userID

	company, err := ctrl.companyService.CreateCompany(input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"company": company,
	})
}

// GetCompany returns the company with its units.
// GET /api/v1/companies/:cid
func (ctrl *CompanyController) GetCompany(c *gin.Context) {
	companyID, ok := uuidParam(c, "cid")
	if !ok {
		return
	}

	company, err := ctrl.companyService.GetCompany(companyID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}

	c.JSON(http.StatusOK, company)
}

// ListForOwner GET /api/v1/users/:user_id/companies
func (ctrl *CompanyController) ListForOwner(c *gin.Context) {
	ownerID, ok := uuidParam(c, "user_id")
	if !ok || !requireSelfOrAdmin(c, ownerID) {
		return
	}

	companies, err := ctrl.companyService.ListCompaniesForOwner(ownerID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"count":     len(companies),
	})
}

// UpdateCompany PUT /api/v1/companies/:cid
func (ctrl *CompanyController) UpdateCompany(c *gin.Context) {
	companyID, ok := uuidParam(c, "cid")
	if !ok {
		return
	}

	var input service.CompanyInput
	if !bindJSON(c, &input) {
		return
	}

	company, err := ctrl.companyService.UpdateCompany(companyID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company": company,
	})
}

// DeleteCompany removes the company and its units.
// DELETE /api/v1/companies/:cid
func (ctrl *CompanyController) DeleteCompany(c *gin.Context) {
	companyID, ok := uuidParam(c, "cid")
	if !ok {
		return
	}

	if err := ctrl.companyService.DeleteCompany(companyID); err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Company deleted", map[string]interface{}{
		"company_id": companyID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "company deleted",
	})
}

// ListUnits GET /api/v1/companies/:cid/units
func (ctrl *CompanyController) ListUnits(c *gin.Context) {
	companyID, ok := uuidParam(c, "cid")
	if !ok {
		return
	}

	units, err := ctrl.companyService.ListUnits(companyID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "company")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"units": units,
		"count": len(units),
	})
}

// CreateUnit POST /api/v1/companies/:cid/units
func (ctrl *CompanyController) CreateUnit(c *gin.Context) {
	companyID, ok := uuidParam(c, "cid")
	if !ok {
		return
	}

	var input service.UnitInput
	if !bindJSON(c, &input) {
		return
	}

	unit, err := ctrl.companyService.CreateUnit(companyID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "unit")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"unit": unit,
	})
}

// SetPrimaryUnit POST /api/v1/companies/:cid/units/:uid/primary
func (ctrl *CompanyController) SetPrimaryUnit(c *gin.Context) {
	companyID, ok := uuidParam(c, "cid")
	if !ok {
		return
	}
	unitID, ok := uuidParam(c, "uid")
	if !ok {
		return
	}

	unit, err := ctrl.companyService.SetPrimaryUnit(companyID, unitID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unit": unit,
	})
}

// GetUnit GET /api/v1/units/:uid
func (ctrl *CompanyController) GetUnit(c *gin.Context) {
	unitID, ok := uuidParam(c, "uid")
	if !ok {
		return
	}

	unit, err := ctrl.companyService.GetUnit(unitID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unit": unit,
	})
}

// GetUnitDetail GET /api/v1/units/:uid/detail
func (ctrl *CompanyController) GetUnitDetail(c *gin.Context) {
	unitID, ok := uuidParam(c, "uid")
	if !ok {
		return
	}

	detail, err := ctrl.companyService.GetUnitDetail(unitID)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "unit")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateUnit PUT /api/v1/units/:uid
func (ctrl *CompanyController) UpdateUnit(c *gin.Context) {
	unitID, ok := uuidParam(c, "uid")
	if !ok {
		return
	}

	var input service.UnitInput
	if !bindJSON(c, &input) {
		return
	}

	unit, err := ctrl.companyService.UpdateUnit(unitID, input)
	if err != nil {
		apperrors.RespondWithAppError(c, err, "unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unit": unit,
	})
}

// DeleteUnit DELETE /api/v1/units/:uid
func (ctrl *CompanyController) DeleteUnit(c *gin.Context) {
	unitID, ok := uuidParam(c, "uid")
	if !ok {
		return
	}

	if err := ctrl.companyService.DeleteUnit(unitID); err != nil {
		apperrors.RespondWithAppError(c, err, "unit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "unit deleted",
	})
}
