package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

type AccommodationController struct {
	Service *services.AccommodationService
}

func NewAccommodationController(svc *services.AccommodationService) *AccommodationController {
	return &AccommodationController{Service: svc}
}

// GET /accommodations
func (ctrl *AccommodationController) GetAccommodations(c *gin.Context) {
	accs, err := ctrl.Service.List(c.Request.Context())
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	out := make([]accommodationResponse, 0, len(accs))
	for i := range accs {
		out = append(out, newAccommodationResponse(&accs[i]))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /accommodations/:id
func (ctrl *AccommodationController) GetAccommodation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	acc, err := ctrl.Service.Get(c.Request.Context(), id)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newAccommodationResponse(acc))
}

// POST /accommodations
func (ctrl *AccommodationController) CreateAccommodation(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	var in services.CreateAccommodationInput
	if !bindJSON(c, &in) {
		return
	}
	acc, err := ctrl.Service.Create(c.Request.Context(), caller, in)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, newAccommodationResponse(acc))
}

// PUT /accommodations/:id
func (ctrl *AccommodationController) UpdateAccommodation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	var in services.UpdateAccommodationInput
	if !bindJSON(c, &in) {
		return
	}
	acc, err := ctrl.Service.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newAccommodationResponse(acc))
}

// DELETE /accommodations/:id
func (ctrl *AccommodationController) DeleteAccommodation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	acc, err := ctrl.Service.Delete(c.Request.Context(), caller, id)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newAccommodationResponse(acc))
}
