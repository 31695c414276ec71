package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/consumption"
	"github.com/madssf/smart-home/internal/dispatcher"
	"github.com/madssf/smart-home/internal/domain"
	"github.com/madssf/smart-home/internal/relay"
	"github.com/madssf/smart-home/internal/store/memstore"
)

type fixedPrice struct{ price domain.PriceInfo }

func (f fixedPrice) CurrentPrice(context.Context) (domain.PriceInfo, error) { return f.price, nil }

func newTestHandler() *Handler {
	st := memstore.New()
	disp := dispatcher.New(st, fixedPrice{}, relay.New(""), nil)
	return New(st, disp, consumption.New(nil), nil)
}

func TestHealth_ReturnsHealthy(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/_/health", nil)
	rec := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "Healthy!" {
		t.Fatalf("expected 'Healthy!', got %q", rec.Body.String())
	}
}

func TestPutRoom_ThenGetRoom(t *testing.T) {
	h := newTestHandler()
	router := h.NewRouter()

	body, _ := json.Marshal(domain.Room{Name: "Kitchen"})
	req := httptest.NewRequest(http.MethodPost, "/rooms/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Room
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected a generated ID")
	}

	getReq := httptest.NewRequest(http.MethodGet, "/rooms/"+created.ID.String()+"/", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getRec.Code)
	}
}

func TestPutRoom_EmptyNameIsBadRequest(t *testing.T) {
	h := newTestHandler()
	router := h.NewRouter()

	body, _ := json.Marshal(domain.Room{})
	req := httptest.NewRequest(http.MethodPost, "/rooms/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPutPlug_UnknownRoomIsBadRequest(t *testing.T) {
	h := newTestHandler()
	router := h.NewRouter()

	plug := domain.Plug{RoomID: uuid.New(), Name: "lamp", Host: "dummy://x", Username: "u", Password: "p"}
	body, _ := json.Marshal(plug)
	req := httptest.NewRequest(http.MethodPost, "/plugs/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown room, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPutPlug_KnownRoomSucceeds(t *testing.T) {
	h := newTestHandler()
	router := h.NewRouter()

	roomBody, _ := json.Marshal(domain.Room{Name: "Office"})
	roomRec := httptest.NewRecorder()
	router.ServeHTTP(roomRec, httptest.NewRequest(http.MethodPost, "/rooms/", bytes.NewReader(roomBody)))
	var room domain.Room
	json.Unmarshal(roomRec.Body.Bytes(), &room)

	plug := domain.Plug{RoomID: room.ID, Name: "lamp", Host: "dummy://x", Username: "u", Password: "p"}
	plugBody, _ := json.Marshal(plug)
	plugRec := httptest.NewRecorder()
	router.ServeHTTP(plugRec, httptest.NewRequest(http.MethodPost, "/plugs/", bytes.NewReader(plugBody)))

	if plugRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", plugRec.Code, plugRec.Body.String())
	}
}

func TestTriggerRefresh_Enqueues(t *testing.T) {
	h := newTestHandler()
	go h.dispatcher.Start(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/trigger_refresh", nil)
	rec := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReportTemp_InvalidTempIsBadRequest(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/report_ht/"+uuid.New().String()+"?temp=not-a-number", nil)
	rec := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTriggerButton_InvalidActionIsBadRequest(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/trigger_button/"+uuid.New().String()+"/sideways", nil)
	rec := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPutSchedule_OverlappingSharedRoomIsRejected(t *testing.T) {
	h := newTestHandler()
	router := h.NewRouter()

	roomBody, _ := json.Marshal(domain.Room{Name: "Bedroom"})
	roomRec := httptest.NewRecorder()
	router.ServeHTTP(roomRec, httptest.NewRequest(http.MethodPost, "/rooms/", bytes.NewReader(roomBody)))
	var room domain.Room
	json.Unmarshal(roomRec.Body.Bytes(), &room)

	base := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	window := domain.Window{From: base.Add(8 * time.Hour), To: base.Add(10 * time.Hour)}
	first := domain.Schedule{
		Days:    map[time.Weekday]struct{}{time.Monday: {}},
		Windows: []domain.Window{window},
		RoomIDs: []uuid.UUID{room.ID},
		Temps:   map[domain.PriceLevel]float64{domain.Normal: 20},
	}
	firstBody, _ := json.Marshal(first)
	firstRec := httptest.NewRecorder()
	router.ServeHTTP(firstRec, httptest.NewRequest(http.MethodPost, "/schedules/", bytes.NewReader(firstBody)))
	if firstRec.Code != http.StatusOK {
		t.Fatalf("expected first schedule to succeed, got %d: %s", firstRec.Code, firstRec.Body.String())
	}

	second := first
	second.ID = uuid.Nil
	secondBody, _ := json.Marshal(second)
	secondRec := httptest.NewRecorder()
	router.ServeHTTP(secondRec, httptest.NewRequest(http.MethodPost, "/schedules/", bytes.NewReader(secondBody)))
	if secondRec.Code != http.StatusBadRequest {
		t.Fatalf("expected overlapping schedule to be rejected, got %d: %s", secondRec.Code, secondRec.Body.String())
	}
}
