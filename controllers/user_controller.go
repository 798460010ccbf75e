package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

type UserController struct {
	Users    *services.UserService
	Bookings *services.BookingService
}

func NewUserController(users *services.UserService, bookings *services.BookingService) *UserController {
	return &UserController{Users: users, Bookings: bookings}
}

// POST /users/register
func (ctrl *UserController) Register(c *gin.Context) {
	var in services.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := ctrl.Users.Register(c.Request.Context(), in)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, newUserResponse(user))
}

// POST /users/login
func (ctrl *UserController) Login(c *gin.Context) {
	var in services.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	res, err := ctrl.Users.Login(c.Request.Context(), in)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  newUserResponse(&res.User),
	})
}

// GET /users
func (ctrl *UserController) GetUsers(c *gin.Context) {
	profiles, err := ctrl.Users.List(c.Request.Context())
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	out := make([]userResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, newProfileResponse(&profiles[i]))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	profile, err := ctrl.Users.Get(c.Request.Context(), id)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newProfileResponse(profile))
}

// PUT /users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	var in services.UpdateUserInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := ctrl.Users.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newUserResponse(user))
}

// DELETE /users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	user, err := ctrl.Users.Delete(c.Request.Context(), caller, id)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newUserResponse(user))
}

// POST /users/:id/to-manager/:hotelId
func (ctrl *UserController) ConvertToManager(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	hotelID, ok := pathID(c, "hotelId")
	if !ok {
		return
	}
	user, err := ctrl.Bookings.ConvertToManager(c.Request.Context(), userID, hotelID)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newUserResponse(user))
}

// POST /users/to-admin/:newAdminId
func (ctrl *UserController) ConvertToAdmin(c *gin.Context) {
	userID, ok := pathID(c, "newAdminId")
	if !ok {
		return
	}
	user, err := ctrl.Bookings.ConvertToAdmin(c.Request.Context(), userID)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, newUserResponse(user))
}

// POST /users/:id/book/:accommodationId
func (ctrl *UserController) BookAccommodation(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	accommodationID, ok := pathID(c, "accommodationId")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	res, err := ctrl.Bookings.Book(c.Request.Context(), caller, userID, accommodationID)
	if err != nil {
		utils.AbortWithError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user":          newUserResponse(&res.User),
		"accommodation": newAccommodationResponse(&res.Accommodation),
	})
}
