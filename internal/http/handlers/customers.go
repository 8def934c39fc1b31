package handlers

import (
	"net/http"

	"tripdesk/internal/domain/models"
	"tripdesk/internal/repositories"
	"tripdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/customers
func GetCustomers(c *gin.Context) {
	repo := repositories.CustomerRepository{}
	customers, err := repo.List(c.Query("search"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// GET /api/customers/:id
func GetCustomerByID(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.CustomerRepository{}
	customer, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// POST /api/customers
func CreateCustomer(c *gin.Context) {
	var in models.Customer
	if !BindJSONOrError(c, &in) {
		return
	}
	in.Name = utils.NormalizeSpace(in.Name)
	in.Email = utils.TrimOrEmpty(in.Email)
	if in.Name == "" {
		RespondError(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	repo := repositories.CustomerRepository{}
	id, err := repo.Insert(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	in.ID = id
	c.JSON(http.StatusCreated, in)
}

// PUT /api/customers/:id
func UpdateCustomer(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var in models.Customer
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	in.Name = utils.NormalizeSpace(in.Name)
	in.Email = utils.TrimOrEmpty(in.Email)
	repo := repositories.CustomerRepository{}
	if err := repo.Update(in); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// DELETE /api/customers/:id
func DeleteCustomer(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.CustomerRepository{}
	if err := repo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}
