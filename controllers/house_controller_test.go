package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHouses struct{ mock.Mock }

func (m *mockHouses) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.HouseMember, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.HouseMember), args.Error(1)
}

func (m *mockHouses) Create(ctx context.Context, house *models.House, creatorID uuid.UUID) error {
	args := m.Called(house, creatorID)
	house.ID = uuid.New()
	return args.Error(0)
}

func (m *mockHouses) Get(ctx context.Context, houseID, requesterID uuid.UUID) (*models.House, error) {
	args := m.Called(houseID, requesterID)
	h, _ := args.Get(0).(*models.House)
	return h, args.Error(1)
}

func (m *mockHouses) Update(ctx context.Context, houseID, requesterID uuid.UUID, in services.HouseUpdate) (*models.House, error) {
	args := m.Called(houseID, requesterID, in)
	h, _ := args.Get(0).(*models.House)
	return h, args.Error(1)
}

func (m *mockHouses) Delete(ctx context.Context, houseID, requesterID uuid.UUID) error {
	return m.Called(houseID, requesterID).Error(0)
}

func (m *mockHouses) Members(ctx context.Context, houseID, requesterID uuid.UUID) ([]models.HouseMember, error) {
	args := m.Called(houseID, requesterID)
	return args.Get(0).([]models.HouseMember), args.Error(1)
}

func (m *mockHouses) AddMember(ctx context.Context, houseID, userID, requesterID uuid.UUID) (*models.HouseMember, error) {
	args := m.Called(houseID, userID, requesterID)
	hm, _ := args.Get(0).(*models.HouseMember)
	return hm, args.Error(1)
}

func (m *mockHouses) RemoveMember(ctx context.Context, houseID, userID, requesterID uuid.UUID) error {
	return m.Called(houseID, userID, requesterID).Error(0)
}

func houseRouter(svc *mockHouses, user uuid.UUID) http.Handler {
	hc := NewHouseController(svc)
	r := newRouter(user)
	r.GET("/houses", hc.List)
	r.POST("/houses", hc.Create)
	r.POST("/houses/members", hc.AddMember)
	r.DELETE("/houses/members", hc.RemoveMember)
	r.GET("/houses/:id", hc.Get)
	r.PUT("/houses/:id", hc.Update)
	r.DELETE("/houses/:id", hc.Delete)
	r.GET("/houses/:id/members", hc.Members)
	return r
}

func TestHouseListDefaultsToCaller(t *testing.T) {
	user := uuid.New()
	svc := &mockHouses{}
	svc.On("ListForUser", user).Return([]models.HouseMember{{UserID: user, HouseID: uuid.New()}}, nil)
	r := houseRouter(svc, user)

	w := do(r, http.MethodGet, "/houses", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/houses?user_id="+user.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/houses?user_id="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNumberOfCalls(t, "ListForUser", 2)
}

func TestHouseCreate(t *testing.T) {
	user := uuid.New()
	svc := &mockHouses{}
	svc.On("Create", mock.AnythingOfType("*models.House"), user).Return(nil)
	r := houseRouter(svc, user)

	w := do(r, http.MethodPost, "/houses", map[string]any{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/houses", map[string]any{"name": "Flat 4"})
	assert.Equal(t, http.StatusCreated, w.Code)
	var got models.House
	decode(t, w, &got)
	assert.Equal(t, "Flat 4", got.Name)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestHouseGetMapsErrors(t *testing.T) {
	user := uuid.New()
	missing, foreign := uuid.New(), uuid.New()
	svc := &mockHouses{}
	svc.On("Get", missing, user).Return(nil, services.ErrNotFound)
	svc.On("Get", foreign, user).Return(nil, services.ErrForbidden)
	r := houseRouter(svc, user)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/houses/"+missing.String(), nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/houses/"+foreign.String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/houses/not-a-uuid", nil).Code)
}

func TestHouseUpdateAndDelete(t *testing.T) {
	user, id := uuid.New(), uuid.New()
	name := "Renamed"
	svc := &mockHouses{}
	svc.On("Update", id, user, services.HouseUpdate{Name: &name}).Return(&models.House{ID: id, Name: name}, nil)
	svc.On("Delete", id, user).Return(nil)
	r := houseRouter(svc, user)

	w := do(r, http.MethodPut, "/houses/"+id.String(), map[string]any{"name": name})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), name)

	w = do(r, http.MethodDelete, "/houses/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHouseMembers(t *testing.T) {
	user, house, other := uuid.New(), uuid.New(), uuid.New()
	svc := &mockHouses{}
	svc.On("Members", house, user).Return([]models.HouseMember{{UserID: user, HouseID: house}}, nil)
	svc.On("AddMember", house, other, user).Return(nil, services.ErrConflict).Once()
	svc.On("RemoveMember", house, other, user).Return(nil)
	r := houseRouter(svc, user)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/houses/"+house.String()+"/members", nil).Code)

	w := do(r, http.MethodPost, "/houses/members", map[string]any{"house_id": house})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/houses/members", map[string]any{"house_id": house, "user_id": other})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodDelete, "/houses/members", map[string]any{"house_id": house, "user_id": other})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHouseRequiresAuth(t *testing.T) {
	r := houseRouter(&mockHouses{}, uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/houses", nil).Code)
}
