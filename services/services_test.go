package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-api/apperror"
	"hotel-booking-api/auth"
	"hotel-booking-api/models"
	"hotel-booking-api/repository"
	"hotel-booking-api/testsupport"
)

type fixture struct {
	store          *repository.GormStore
	tokens         *auth.TokenIssuer
	hotels         *HotelService
	accommodations *AccommodationService
	bookings       *BookingService
	users          *UserService
	admins         *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewStore(testsupport.NewDB(t))
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	bookings := NewBookingService(store, logger)
	users := NewUserService(store, tokens, bookings, logger)
	return &fixture{
		store:          store,
		tokens:         tokens,
		hotels:         NewHotelService(store, logger),
		accommodations: NewAccommodationService(store, logger),
		bookings:       bookings,
		users:          users,
		admins:         NewAdminService(users, logger),
	}
}

var rootAdmin = models.User{ID: "00000000-0000-0000-0000-00000000000a", Role: models.RoleAdmin}

func ptr[T any](v T) *T { return &v }

func (f *fixture) hotel(t *testing.T, name string) *models.Hotel {
	t.Helper()
	h, err := f.hotels.Create(context.Background(), CreateHotelInput{Name: name, Address: "1 Main St"})
	require.NoError(t, err)
	return h
}

func suiteInput(hotelID string) CreateAccommodationInput {
	return CreateAccommodationInput{
		Hotel:    hotelID,
		Type:     models.Suite,
		Price:    100,
		NRooms:   2,
		Location: LocationInput{Floor: ptr(1), Letter: "A"},
	}
}

func (f *fixture) accommodation(t *testing.T, hotelID string) *models.Accommodation {
	t.Helper()
	acc, err := f.accommodations.Create(context.Background(), rootAdmin, suiteInput(hotelID))
	require.NoError(t, err)
	return acc
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{Username: name, Password: "pw"})
	require.NoError(t, err)
	return u
}

// assertHotelConsistent checks that the hotel's id set matches its
// accommodations and the counter matches the available ones.
func (f *fixture) assertHotelConsistent(t *testing.T, hotelID string) *models.Hotel {
	t.Helper()
	ctx := context.Background()
	repos := f.store.Repositories()

	hotel, err := repos.Hotels.FindByID(ctx, hotelID)
	require.NoError(t, err)
	owned, err := repos.Accommodations.FindByHotelForUpdate(ctx, hotelID)
	require.NoError(t, err)

	ids := make([]string, 0, len(owned))
	available := 0
	for _, a := range owned {
		ids = append(ids, a.ID)
		if a.Available {
			available++
		}
		assert.False(t, a.Available && a.OnMaintenance, "accommodation %s is both available and on maintenance", a.ID)
	}
	assert.ElementsMatch(t, ids, []string(hotel.AccommodationIDs))
	assert.Equal(t, available, hotel.NAvailableAccommodations)
	return hotel
}

func (f *fixture) reload(t *testing.T, id string) *models.Accommodation {
	t.Helper()
	acc, err := f.store.Repositories().Accommodations.FindByID(context.Background(), id)
	require.NoError(t, err)
	return acc
}

func (f *fixture) reloadUser(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := f.store.Repositories().Users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func TestHotelCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.hotels.Create(ctx, CreateHotelInput{Name: "  Grand  ", Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "Grand", h.Name)
	assert.Empty(t, h.AccommodationIDs)
	assert.Zero(t, h.NAvailableAccommodations)

	_, err = f.hotels.Create(ctx, CreateHotelInput{Name: "Grand", Address: "elsewhere"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateName)

	tests := []struct {
		name string
		in   CreateHotelInput
	}{
		{"short name", CreateHotelInput{Name: " ab ", Address: "x"}},
		{"long name", CreateHotelInput{Name: string(make([]byte, 51)), Address: "x"}},
		{"missing address", CreateHotelInput{Name: "Plaza"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.hotels.Create(ctx, tc.in)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestHotelUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	plaza := f.hotel(t, "Plaza")
	f.accommodation(t, grand.ID)

	t.Run("duplicate name leaves hotel unchanged", func(t *testing.T) {
		_, err := f.hotels.Update(ctx, rootAdmin, grand.ID, UpdateHotelInput{Name: ptr("Plaza")})
		assert.ErrorIs(t, err, apperror.ErrDuplicateName)

		got, err := f.hotels.Get(ctx, grand.ID)
		require.NoError(t, err)
		assert.Equal(t, "Grand", got.Name)
	})

	t.Run("rename keeps derived fields", func(t *testing.T) {
		updated, err := f.hotels.Update(ctx, rootAdmin, grand.ID, UpdateHotelInput{Name: ptr(" Grand Royal "), Address: ptr("2 Main St")})
		require.NoError(t, err)
		assert.Equal(t, "Grand Royal", updated.Name)
		assert.Equal(t, "2 Main St", updated.Address)
		assert.Len(t, updated.AccommodationIDs, 1)
		assert.Equal(t, 1, updated.NAvailableAccommodations)
		f.assertHotelConsistent(t, grand.ID)
	})

	t.Run("same name is not a duplicate", func(t *testing.T) {
		_, err := f.hotels.Update(ctx, rootAdmin, plaza.ID, UpdateHotelInput{Name: ptr("Plaza")})
		assert.NoError(t, err)
	})

	t.Run("manager scoped to own hotel", func(t *testing.T) {
		manager := models.User{ID: "m", Role: models.RoleHotelManager, ManagedHotelID: &plaza.ID}
		_, err := f.hotels.Update(ctx, manager, grand.ID, UpdateHotelInput{Address: ptr("x")})
		assert.ErrorIs(t, err, apperror.ErrForbidden)

		_, err = f.hotels.Update(ctx, manager, plaza.ID, UpdateHotelInput{Address: ptr("3 Main St")})
		assert.NoError(t, err)
	})

	t.Run("missing hotel", func(t *testing.T) {
		_, err := f.hotels.Update(ctx, rootAdmin, "6f9619ff-8b86-d011-b42d-00c04fc964ff", UpdateHotelInput{Address: ptr("x")})
		assert.ErrorIs(t, err, apperror.ErrHotelNotFound)
	})
}

func TestAccommodationCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")

	acc := f.accommodation(t, grand.ID)
	assert.True(t, acc.Available)
	assert.False(t, acc.OnMaintenance)
	assert.Equal(t, 1, f.assertHotelConsistent(t, grand.ID).NAvailableAccommodations)

	in := suiteInput(grand.ID)
	in.OnMaintenance = ptr(true)
	in.Available = ptr(true)
	repair, err := f.accommodations.Create(ctx, rootAdmin, in)
	require.NoError(t, err)
	assert.False(t, repair.Available)
	assert.True(t, repair.OnMaintenance)
	hotel := f.assertHotelConsistent(t, grand.ID)
	assert.Len(t, hotel.AccommodationIDs, 2)
	assert.Equal(t, 1, hotel.NAvailableAccommodations)

	t.Run("missing hotel persists nothing", func(t *testing.T) {
		_, err := f.accommodations.Create(ctx, rootAdmin, suiteInput("6f9619ff-8b86-d011-b42d-00c04fc964ff"))
		assert.ErrorIs(t, err, apperror.ErrHotelNotFound)

		all, err := f.accommodations.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("malformed hotel id", func(t *testing.T) {
		_, err := f.accommodations.Create(ctx, rootAdmin, suiteInput("nope"))
		assert.ErrorIs(t, err, apperror.ErrInvalidIDFormat)
	})

	t.Run("manager of another hotel", func(t *testing.T) {
		other := "6f9619ff-8b86-d011-b42d-00c04fc964ff"
		manager := models.User{ID: "m", Role: models.RoleHotelManager, ManagedHotelID: &other}
		_, err := f.accommodations.Create(ctx, manager, suiteInput(grand.ID))
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	invalid := []struct {
		name   string
		mutate func(*CreateAccommodationInput)
	}{
		{"unknown type", func(in *CreateAccommodationInput) { in.Type = "Castle" }},
		{"zero price", func(in *CreateAccommodationInput) { in.Price = 0 }},
		{"too many rooms", func(in *CreateAccommodationInput) { in.NRooms = 5 }},
		{"missing floor", func(in *CreateAccommodationInput) { in.Location.Floor = nil }},
		{"long letter", func(in *CreateAccommodationInput) { in.Location.Letter = "ABC" }},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			in := suiteInput(grand.ID)
			tc.mutate(&in)
			_, err := f.accommodations.Create(ctx, rootAdmin, in)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	t.Run("guest room with ground floor", func(t *testing.T) {
		in := suiteInput(grand.ID)
		in.Type = models.GuestRoom
		in.Location = LocationInput{Floor: ptr(0), Letter: "B"}
		room, err := f.accommodations.Create(ctx, rootAdmin, in)
		require.NoError(t, err)
		assert.Equal(t, 0, room.Location.Floor)
		f.assertHotelConsistent(t, grand.ID)
	})
}

func TestAccommodationUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	acc := f.accommodation(t, grand.ID)

	updated, err := f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{OnMaintenance: ptr(true)})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.True(t, updated.OnMaintenance)
	assert.Equal(t, 0, f.assertHotelConsistent(t, grand.ID).NAvailableAccommodations)

	updated, err = f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{OnMaintenance: ptr(false), Available: ptr(true), Price: ptr(150.0)})
	require.NoError(t, err)
	assert.True(t, updated.Available)
	assert.Equal(t, 150.0, updated.Price)
	assert.Equal(t, 1, f.assertHotelConsistent(t, grand.ID).NAvailableAccommodations)

	updated, err = f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{NRooms: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.NRooms)
	assert.Equal(t, grand.ID, updated.HotelID)
	assert.Equal(t, models.Location{Floor: 1, Letter: "A"}, updated.Location)

	t.Run("omitted maintenance is cleared", func(t *testing.T) {
		_, err := f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{OnMaintenance: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, 0, f.assertHotelConsistent(t, grand.ID).NAvailableAccommodations)

		updated, err := f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{Available: ptr(true)})
		require.NoError(t, err)
		assert.True(t, updated.Available)
		assert.False(t, updated.OnMaintenance)
		assert.Equal(t, 1, f.assertHotelConsistent(t, grand.ID).NAvailableAccommodations)

		_, err = f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{OnMaintenance: ptr(true)})
		require.NoError(t, err)
		updated, err = f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{Price: ptr(120.0)})
		require.NoError(t, err)
		assert.False(t, updated.OnMaintenance)
		assert.False(t, updated.Available, "availability is patched, so it stays as maintenance left it")
		assert.Equal(t, 120.0, updated.Price)
		f.assertHotelConsistent(t, grand.ID)

		_, err = f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{Available: ptr(true)})
		require.NoError(t, err)
	})

	_, err = f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{NRooms: ptr(0)})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.accommodations.Update(ctx, rootAdmin, "6f9619ff-8b86-d011-b42d-00c04fc964ff", UpdateAccommodationInput{})
	assert.ErrorIs(t, err, apperror.ErrAccommodationNotFound)

	t.Run("booked accommodation keeps its flags", func(t *testing.T) {
		alice := f.user(t, "alice")
		_, err := f.bookings.Book(ctx, *alice, alice.ID, acc.ID)
		require.NoError(t, err)

		_, err = f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{OnMaintenance: ptr(true)})
		assert.ErrorIs(t, err, apperror.ErrAccommodationBooked)
		_, err = f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{Available: ptr(true)})
		assert.ErrorIs(t, err, apperror.ErrAccommodationBooked)

		updated, err := f.accommodations.Update(ctx, rootAdmin, acc.ID, UpdateAccommodationInput{Price: ptr(90.0)})
		require.NoError(t, err)
		assert.Equal(t, 90.0, updated.Price)
		assert.True(t, updated.IsBooked())
		f.assertHotelConsistent(t, grand.ID)
	})
}

func TestAccommodationDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	kept := f.accommodation(t, grand.ID)
	doomed := f.accommodation(t, grand.ID)
	alice := f.user(t, "alice")
	_, err := f.bookings.Book(ctx, *alice, alice.ID, doomed.ID)
	require.NoError(t, err)

	removed, err := f.accommodations.Delete(ctx, rootAdmin, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, doomed.ID, removed.ID)

	hotel := f.assertHotelConsistent(t, grand.ID)
	assert.Equal(t, []string{kept.ID}, []string(hotel.AccommodationIDs))
	assert.Empty(t, f.reloadUser(t, alice.ID).BookedAccommodations)

	_, err = f.accommodations.Delete(ctx, rootAdmin, doomed.ID)
	assert.ErrorIs(t, err, apperror.ErrAccommodationNotFound)

	t.Run("missing owner is surfaced", func(t *testing.T) {
		orphan := &models.Accommodation{HotelID: "6f9619ff-8b86-d011-b42d-00c04fc964ff", Type: models.Suite, Price: 1, NRooms: 1, Location: models.Location{Letter: "Z"}, Available: true}
		require.NoError(t, f.store.Repositories().Accommodations.Create(ctx, orphan))

		_, err := f.accommodations.Delete(ctx, rootAdmin, orphan.ID)
		assert.ErrorIs(t, err, apperror.ErrHotelNotFound)
		f.reload(t, orphan.ID)
	})
}

func TestBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	acc := f.accommodation(t, grand.ID)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	res, err := f.bookings.Book(ctx, *alice, alice.ID, acc.ID)
	require.NoError(t, err)
	assert.False(t, res.Accommodation.Available)
	assert.Equal(t, alice.ID, *res.Accommodation.BookedByID)
	assert.Equal(t, []string{acc.ID}, []string(res.User.BookedAccommodations))
	assert.Empty(t, res.User.PasswordHash)
	assert.Equal(t, 0, f.assertHotelConsistent(t, grand.ID).NAvailableAccommodations)

	_, err = f.bookings.Book(ctx, *alice, alice.ID, acc.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadyBooked)
	assert.Equal(t, []string{acc.ID}, []string(f.reloadUser(t, alice.ID).BookedAccommodations))

	_, err = f.bookings.Book(ctx, *bob, bob.ID, acc.ID)
	assert.ErrorIs(t, err, apperror.ErrNotAvailable)
	assert.Empty(t, f.reloadUser(t, bob.ID).BookedAccommodations)
	f.assertHotelConsistent(t, grand.ID)

	t.Run("others cannot book on a user's behalf", func(t *testing.T) {
		_, err := f.bookings.Book(ctx, *bob, alice.ID, acc.ID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("admin books for a user", func(t *testing.T) {
		other := f.accommodation(t, grand.ID)
		res, err := f.bookings.Book(ctx, rootAdmin, bob.ID, other.ID)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, res.User.ID)
		f.assertHotelConsistent(t, grand.ID)
	})

	t.Run("maintenance is not bookable", func(t *testing.T) {
		in := suiteInput(grand.ID)
		in.OnMaintenance = ptr(true)
		repair, err := f.accommodations.Create(ctx, rootAdmin, in)
		require.NoError(t, err)
		_, err = f.bookings.Book(ctx, *alice, alice.ID, repair.ID)
		assert.ErrorIs(t, err, apperror.ErrNotAvailable)
	})

	t.Run("missing records", func(t *testing.T) {
		missing := "6f9619ff-8b86-d011-b42d-00c04fc964ff"
		_, err := f.bookings.Book(ctx, rootAdmin, missing, acc.ID)
		assert.ErrorIs(t, err, apperror.ErrUserNotFound)
		_, err = f.bookings.Book(ctx, *alice, alice.ID, missing)
		assert.ErrorIs(t, err, apperror.ErrAccommodationNotFound)
	})
}

func TestUserDeleteReleasesBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	first := f.accommodation(t, grand.ID)
	second := f.accommodation(t, grand.ID)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	for _, acc := range []*models.Accommodation{first, second} {
		_, err := f.bookings.Book(ctx, *alice, alice.ID, acc.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, f.assertHotelConsistent(t, grand.ID).NAvailableAccommodations)

	_, err := f.users.Delete(ctx, *bob, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	removed, err := f.users.Delete(ctx, *alice, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, removed.ID)

	for _, acc := range []*models.Accommodation{first, second} {
		got := f.reload(t, acc.ID)
		assert.True(t, got.Available)
		assert.False(t, got.IsBooked())
	}
	assert.Equal(t, 2, f.assertHotelConsistent(t, grand.ID).NAvailableAccommodations)

	_, err = f.users.Get(ctx, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	_, err = f.users.Delete(ctx, rootAdmin, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestUserDeleteAbortsOnMissingAccommodation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	acc := f.accommodation(t, grand.ID)
	alice := f.user(t, "alice")
	_, err := f.bookings.Book(ctx, *alice, alice.ID, acc.ID)
	require.NoError(t, err)

	stored := f.reloadUser(t, alice.ID)
	stored.AddBooking("6f9619ff-8b86-d011-b42d-00c04fc964ff")
	require.NoError(t, f.store.Repositories().Users.Save(ctx, stored))

	_, err = f.users.Delete(ctx, rootAdmin, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrAccommodationNotFound)

	// nothing was applied
	assert.Len(t, f.reloadUser(t, alice.ID).BookedAccommodations, 2)
	assert.False(t, f.reload(t, acc.ID).Available)
	f.assertHotelConsistent(t, grand.ID)
}

func TestHotelDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	plaza := f.hotel(t, "Plaza")
	booked := f.accommodation(t, grand.ID)
	f.accommodation(t, grand.ID)
	elsewhere := f.accommodation(t, plaza.ID)

	alice := f.user(t, "alice")
	manager := f.user(t, "manny")
	_, err := f.bookings.Book(ctx, *alice, alice.ID, booked.ID)
	require.NoError(t, err)
	_, err = f.bookings.Book(ctx, *alice, alice.ID, elsewhere.ID)
	require.NoError(t, err)
	_, err = f.bookings.ConvertToManager(ctx, manager.ID, grand.ID)
	require.NoError(t, err)

	removed, err := f.hotels.Delete(ctx, grand.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grand", removed.Name)

	_, err = f.hotels.Get(ctx, grand.ID)
	assert.ErrorIs(t, err, apperror.ErrHotelNotFound)
	all, err := f.accommodations.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, elsewhere.ID, all[0].ID)

	assert.Equal(t, []string{elsewhere.ID}, []string(f.reloadUser(t, alice.ID).BookedAccommodations))
	m := f.reloadUser(t, manager.ID)
	assert.Equal(t, models.RoleUser, m.Role)
	assert.Nil(t, m.ManagedHotelID)
	f.assertHotelConsistent(t, plaza.ID)

	_, err = f.hotels.Delete(ctx, grand.ID)
	assert.ErrorIs(t, err, apperror.ErrHotelNotFound)
}

func TestHotelDeleteKeepsAdminRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	boss := f.user(t, "boss")
	_, err := f.bookings.ConvertToManager(ctx, boss.ID, grand.ID)
	require.NoError(t, err)
	_, err = f.bookings.ConvertToAdmin(ctx, boss.ID)
	require.NoError(t, err)

	_, err = f.hotels.Delete(ctx, grand.ID)
	require.NoError(t, err)

	got := f.reloadUser(t, boss.ID)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Nil(t, got.ManagedHotelID)
}

func TestRoleEscalationIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	plaza := f.hotel(t, "Plaza")
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	once, err := f.bookings.ConvertToManager(ctx, alice.ID, grand.ID)
	require.NoError(t, err)
	twice, err := f.bookings.ConvertToManager(ctx, alice.ID, grand.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleHotelManager, twice.Role)
	assert.Equal(t, *once.ManagedHotelID, *twice.ManagedHotelID)
	assert.Empty(t, twice.PasswordHash)

	_, err = f.bookings.ConvertToManager(ctx, bob.ID, grand.ID)
	assert.ErrorIs(t, err, apperror.ErrHotelAlreadyManaged)

	_, err = f.bookings.ConvertToManager(ctx, bob.ID, "6f9619ff-8b86-d011-b42d-00c04fc964ff")
	assert.ErrorIs(t, err, apperror.ErrHotelNotFound)
	_, err = f.bookings.ConvertToManager(ctx, "6f9619ff-8b86-d011-b42d-00c04fc964ff", plaza.ID)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	for i := 0; i < 2; i++ {
		admin, err := f.bookings.ConvertToAdmin(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, admin.Role)
		assert.Equal(t, grand.ID, *admin.ManagedHotelID)
	}

	_, err = f.bookings.ConvertToAdmin(ctx, "6f9619ff-8b86-d011-b42d-00c04fc964ff")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.users.Register(ctx, RegisterInput{Username: " alice ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, models.RoleUser, alice.Role)
	assert.Nil(t, alice.ManagedHotelID)
	assert.Empty(t, alice.BookedAccommodations)
	assert.Empty(t, alice.PasswordHash)

	stored := f.reloadUser(t, alice.ID)
	assert.NotEqual(t, "pw", stored.PasswordHash)

	_, err = f.users.Register(ctx, RegisterInput{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateUsername)

	_, err = f.users.Register(ctx, RegisterInput{Username: "bob", Password: string(make([]byte, 73))})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	res, err := f.users.Login(ctx, LoginInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.User.ID)
	assert.Empty(t, res.User.PasswordHash)
	subject, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, subject)

	_, err = f.users.Login(ctx, LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	_, err = f.users.Login(ctx, LoginInput{Username: "nobody", Password: "pw"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	current, err := f.users.Authenticate(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, current.PasswordHash)
	_, err = f.users.Authenticate(ctx, "6f9619ff-8b86-d011-b42d-00c04fc964ff")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

func TestUserProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	acc := f.accommodation(t, grand.ID)
	alice := f.user(t, "alice")
	f.user(t, "bob")
	_, err := f.bookings.Book(ctx, *alice, alice.ID, acc.ID)
	require.NoError(t, err)

	profile, err := f.users.Get(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, profile.Booked, 1)
	assert.Equal(t, "Grand", profile.Booked[0].Hotel.Name)
	assert.Empty(t, profile.User.PasswordHash)

	profiles, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Len(t, profiles[0].Booked, 1)
	assert.Empty(t, profiles[1].Booked)
}

func TestUserUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	grand := f.hotel(t, "Grand")
	plaza := f.hotel(t, "Plaza")
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	_, err := f.users.Update(ctx, *bob, alice.ID, UpdateUserInput{Username: ptr("mallory")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.users.Update(ctx, rootAdmin, alice.ID, UpdateUserInput{Username: ptr("mallory")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.users.Update(ctx, *alice, alice.ID, UpdateUserInput{Username: ptr("bob")})
	assert.ErrorIs(t, err, apperror.ErrDuplicateUsername)

	updated, err := f.users.Update(ctx, *alice, alice.ID, UpdateUserInput{
		Username:     ptr("alicia"),
		Password:     ptr("new-pw"),
		ManagedHotel: ptr(grand.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.Nil(t, updated.ManagedHotelID, "plain users cannot pick a hotel")
	assert.Equal(t, models.RoleUser, updated.Role)

	_, err = f.users.Login(ctx, LoginInput{Username: "alicia", Password: "new-pw"})
	assert.NoError(t, err)

	t.Run("managers move between hotels", func(t *testing.T) {
		manager, err := f.bookings.ConvertToManager(ctx, bob.ID, grand.ID)
		require.NoError(t, err)

		moved, err := f.users.Update(ctx, *manager, bob.ID, UpdateUserInput{ManagedHotel: ptr(plaza.ID)})
		require.NoError(t, err)
		assert.Equal(t, plaza.ID, *moved.ManagedHotelID)
		assert.Equal(t, models.RoleHotelManager, moved.Role)

		_, err = f.users.Update(ctx, *moved, bob.ID, UpdateUserInput{ManagedHotel: ptr("6f9619ff-8b86-d011-b42d-00c04fc964ff")})
		assert.ErrorIs(t, err, apperror.ErrHotelNotFound)
		_, err = f.users.Update(ctx, *moved, bob.ID, UpdateUserInput{ManagedHotel: ptr("nope")})
		assert.ErrorIs(t, err, apperror.ErrInvalidIDFormat)

		carol := f.user(t, "carol")
		carolManager, err := f.bookings.ConvertToManager(ctx, carol.ID, grand.ID)
		require.NoError(t, err)
		_, err = f.users.Update(ctx, *carolManager, carol.ID, UpdateUserInput{
			Username:     ptr("caroline"),
			ManagedHotel: ptr(plaza.ID),
		})
		assert.ErrorIs(t, err, apperror.ErrHotelAlreadyManaged)
		stored := f.reloadUser(t, carol.ID)
		assert.Equal(t, "carol", stored.Username, "a rejected claim leaves the record untouched")
		assert.Equal(t, grand.ID, *stored.ManagedHotelID)
	})
}

func TestAdminBootstrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.admins.SeedAdmin(ctx, "", ""))
	n, err := f.store.Repositories().Users.CountByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, f.admins.SeedAdmin(ctx, "root", "secret"))
	require.NoError(t, f.admins.SeedAdmin(ctx, "other", "secret"))
	n, err = f.store.Repositories().Users.CountByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.users.Login(ctx, LoginInput{Username: "root", Password: "secret"})
	assert.NoError(t, err)

	alice := f.user(t, "alice")
	promoted, created, err := f.admins.EnsureAdmin(ctx, "alice", "ignored")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, alice.ID, promoted.ID)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
	_, err = f.users.Login(ctx, LoginInput{Username: "alice", Password: "pw"})
	assert.NoError(t, err)
}
