package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

type HotelController struct {
	Service *services.HotelService
}

func NewHotelController(svc *services.HotelService) *HotelController {
	return &HotelController{Service: svc}
}

// GET /hotels
func (ctrl *HotelController) GetHotels(c *gin.Context) {
	hotels, err := ctrl.Service.List(c.Request.Context())
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	out := make([]hotelResponse, 0, len(hotels))
	for i := range hotels {
		out = append(out, newHotelResponse(&hotels[i]))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /hotels/:id
func (ctrl *HotelController) GetHotel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hotel, err := ctrl.Service.Get(c.Request.Context(), id)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newHotelResponse(hotel))
}

// POST /hotels
func (ctrl *HotelController) CreateHotel(c *gin.Context) {
	var in services.CreateHotelInput
	if !bindJSON(c, &in) {
		return
	}
	hotel, err := ctrl.Service.Create(c.Request.Context(), in)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, newHotelResponse(hotel))
}

// PUT /hotels/:id
func (ctrl *HotelController) UpdateHotel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	var in services.UpdateHotelInput
	if !bindJSON(c, &in) {
		return
	}
	hotel, err := ctrl.Service.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newHotelResponse(hotel))
}

// DELETE /hotels/:id
func (ctrl *HotelController) DeleteHotel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hotel, err := ctrl.Service.Delete(c.Request.Context(), id)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newHotelResponse(hotel))
}
