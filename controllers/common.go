package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-api/apperror"
	"hotel-booking-api/middleware"
	"hotel-booking-api/models"
	"hotel-booking-api/services"
	"hotel-booking-api/utils"
)

// pathID reads a path parameter that must be a well formed id.
func pathID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	id, ok := models.NormalizeID(raw)
	if !ok {
		utils.AbortWithError(c, apperror.Wrap(apperror.ErrInvalidIDFormat, "Invalid ID format: %s", raw))
		return "", false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.AbortWithError(c, apperror.WithCause(apperror.ErrValidation, err))
		return false
	}
	return true
}

// actor is the authenticated caller. Routes using it sit behind Authenticate.
func actor(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.AbortWithError(c, apperror.ErrUnauthenticated)
	}
	return user, ok
}

type hotelSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func newHotelSummary(h *models.Hotel) *hotelSummary {
	if h == nil {
		return nil
	}
	return &hotelSummary{ID: h.ID, Name: h.Name, Address: h.Address}
}

type accommodationSummary struct {
	ID        string                   `json:"id"`
	Type      models.AccommodationType `json:"type"`
	NRooms    int                      `json:"nRooms"`
	Available bool                     `json:"available"`
}

type hotelResponse struct {
	ID                       string                 `json:"id"`
	Name                     string                 `json:"name"`
	Address                  string                 `json:"address"`
	AccommodationIDs         []string               `json:"accommodationIds"`
	NAvailableAccommodations int                    `json:"nAvailableAccommodations"`
	Accommodations           []accommodationSummary `json:"accommodations,omitempty"`
	CreatedAt                time.Time              `json:"createdAt"`
	UpdatedAt                time.Time              `json:"updatedAt"`
}

func newHotelResponse(h *models.Hotel) hotelResponse {
	ids := []string(h.AccommodationIDs)
	if ids == nil {
		ids = []string{}
	}
	resp := hotelResponse{
		ID:                       h.ID,
		Name:                     h.Name,
		Address:                  h.Address,
		AccommodationIDs:         ids,
		NAvailableAccommodations: h.NAvailableAccommodations,
		CreatedAt:                h.CreatedAt,
		UpdatedAt:                h.UpdatedAt,
	}
	for _, a := range h.Accommodations {
		resp.Accommodations = append(resp.Accommodations, accommodationSummary{
			ID:        a.ID,
			Type:      a.Type,
			NRooms:    a.NRooms,
			Available: a.Available,
		})
	}
	return resp
}

type accommodationResponse struct {
	ID            string                   `json:"id"`
	HotelID       string                   `json:"hotelId"`
	Hotel         *hotelSummary            `json:"hotel,omitempty"`
	Type          models.AccommodationType `json:"type"`
	Price         float64                  `json:"price"`
	NRooms        int                      `json:"nRooms"`
	Location      models.Location          `json:"location"`
	Available     bool                     `json:"available"`
	OnMaintenance bool                     `json:"onMaintenance"`
	BookedBy      *string                  `json:"bookedBy"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

func newAccommodationResponse(a *models.Accommodation) accommodationResponse {
	return accommodationResponse{
		ID:            a.ID,
		HotelID:       a.HotelID,
		Hotel:         newHotelSummary(a.Hotel),
		Type:          a.Type,
		Price:         a.Price,
		NRooms:        a.NRooms,
		Location:      a.Location,
		Available:     a.Available,
		OnMaintenance: a.OnMaintenance,
		BookedBy:      a.BookedByID,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

type bookedSummary struct {
	ID       string                   `json:"id"`
	Type     models.AccommodationType `json:"type"`
	NRooms   int                      `json:"nRooms"`
	Location models.Location          `json:"location"`
	Hotel    *hotelSummary            `json:"hotel,omitempty"`
}

type userResponse struct {
	ID                   string          `json:"id"`
	Username             string          `json:"userName"`
	Role                 models.Role     `json:"role"`
	ManagedHotelID       *string         `json:"managedHotelId"`
	ManagedHotel         *hotelSummary   `json:"managedHotel,omitempty"`
	BookedAccommodations []string        `json:"bookedAccommodations"`
	Bookings             []bookedSummary `json:"bookings,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func newUserResponse(u *models.User) userResponse {
	booked := []string(u.BookedAccommodations)
	if booked == nil {
		booked = []string{}
	}
	return userResponse{
		ID:                   u.ID,
		Username:             u.Username,
		Role:                 u.Role,
		ManagedHotelID:       u.ManagedHotelID,
		ManagedHotel:         newHotelSummary(u.ManagedHotel),
		BookedAccommodations: booked,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func newProfileResponse(p *services.UserProfile) userResponse {
	resp := newUserResponse(&p.User)
	resp.Bookings = make([]bookedSummary, 0, len(p.Booked))
	for i := range p.Booked {
		a := &p.Booked[i]
		resp.Bookings = append(resp.Bookings, bookedSummary{
			ID:       a.ID,
			Type:     a.Type,
			NRooms:   a.NRooms,
			Location: a.Location,
			Hotel:    newHotelSummary(a.Hotel),
		})
	}
	return resp
}
