package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/marketplace-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateContractInput(req createContractRequest, companyID string) ports.CreateContractInput {
	return ports.CreateContractInput{
		Title:      req.Title,
		Crop:       req.Crop,
		QuantityKg: req.QuantityKg,
		PricePerKg: req.PricePerKg,
		Currency:   req.Currency,
		DeliveryBy: req.DeliveryBy,
		CompanyID:  companyID,
	}
}

// toListContractsFilter reads list query parameters. Ownership scoping is
// applied later by the service from the caller's identity.
func toListContractsFilter(c echo.Context) ports.ListContractsFilter {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.ListContractsFilter{
		Status: c.QueryParam("status"),
		Crop:   c.QueryParam("crop"),
		Page:   page,
		Limit:  limit,
	}
}
