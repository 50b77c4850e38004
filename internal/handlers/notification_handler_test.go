package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "flesk/internal/errors"
	"flesk/internal/models"
	"flesk/internal/pagination"
	"flesk/internal/services"
)

// --- mock notification service ---

type mockNotificationService struct {
	getUserNotificationsFn func(userID string, page pagination.PageRequest, filter services.NotificationFilter) (*pagination.PageResponse[models.Notification], error)
	getUnreadCountFn       func(userID string) (int64, error)
	createNotificationFn   func(ctx context.Context, userID string, in services.NotificationInput) (*models.Notification, error)
	getNotificationByIDFn  func(userID, notificationID string) (*models.Notification, error)
	markAsReadFn           func(userID, notificationID string) (*models.Notification, error)
	markAllAsReadFn        func(userID string) (int64, error)
	archiveFn              func(userID, notificationID string) (*models.Notification, error)
	deleteNotificationFn   func(userID, notificationID string) error
}

func (m *mockNotificationService) GetUserNotifications(userID string, page pagination.PageRequest, filter services.NotificationFilter) (*pagination.PageResponse[models.Notification], error) {
	if m.getUserNotificationsFn != nil {
		return m.getUserNotificationsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Notification{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockNotificationService) GetUnreadCount(userID string) (int64, error) {
	if m.getUnreadCountFn != nil {
		return m.getUnreadCountFn(userID)
	}
	return 0, nil
}

func (m *mockNotificationService) CreateNotification(ctx context.Context, userID string, in services.NotificationInput) (*models.Notification, error) {
	if m.createNotificationFn != nil {
		return m.createNotificationFn(ctx, userID, in)
	}
	return &models.Notification{}, nil
}

func (m *mockNotificationService) GetNotificationByID(userID, notificationID string) (*models.Notification, error) {
	if m.getNotificationByIDFn != nil {
		return m.getNotificationByIDFn(userID, notificationID)
	}
	return &models.Notification{}, nil
}

func (m *mockNotificationService) MarkAsRead(userID, notificationID string) (*models.Notification, error) {
	if m.markAsReadFn != nil {
		return m.markAsReadFn(userID, notificationID)
	}
	return &models.Notification{}, nil
}

func (m *mockNotificationService) MarkAllAsRead(userID string) (int64, error) {
	if m.markAllAsReadFn != nil {
		return m.markAllAsReadFn(userID)
	}
	return 0, nil
}

func (m *mockNotificationService) Archive(userID, notificationID string) (*models.Notification, error) {
	if m.archiveFn != nil {
		return m.archiveFn(userID, notificationID)
	}
	return &models.Notification{}, nil
}

func (m *mockNotificationService) DeleteNotification(userID, notificationID string) error {
	if m.deleteNotificationFn != nil {
		return m.deleteNotificationFn(userID, notificationID)
	}
	return nil
}

var _ services.NotificationServicer = (*mockNotificationService)(nil)

const testNotificationID = "0192f0c1-7a00-7000-8000-0000000000e1"

func setupNotificationRouter(handler *NotificationHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/notifications", handler.GetNotifications)
	auth.GET("/notifications/unread-count", handler.GetUnreadCount)
	auth.POST("/notifications", handler.CreateNotification)
	auth.PUT("/notifications/read-all", handler.MarkAllAsRead)
	auth.PUT("/notifications/:id/read", handler.MarkAsRead)
	auth.PUT("/notifications/:id/archive", handler.ArchiveNotification)
	auth.DELETE("/notifications/:id", handler.DeleteNotification)
	return r
}

func TestNotificationHandler_GetNotifications(t *testing.T) {
	t.Run("passes filters", func(t *testing.T) {
		var got services.NotificationFilter
		svc := &mockNotificationService{
			getUserNotificationsFn: func(_ string, _ pagination.PageRequest, filter services.NotificationFilter) (*pagination.PageResponse[models.Notification], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Notification{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "GET", "/notifications?status=unread&type=budget_alert", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Status == nil || *got.Status != models.NotificationUnread {
			t.Errorf("expected unread status filter, got %v", got.Status)
		}
		if got.Type == nil || *got.Type != models.NotificationBudgetAlert {
			t.Errorf("expected budget_alert type filter, got %v", got.Type)
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))

		rec := doRequest(r, "GET", "/notifications?type=spam", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestNotificationHandler_GetUnreadCount(t *testing.T) {
	svc := &mockNotificationService{
		getUnreadCountFn: func(string) (int64, error) { return 4, nil },
	}
	r := setupNotificationRouter(NewNotificationHandler(svc))

	rec := doRequest(r, "GET", "/notifications/unread-count", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["count"].(float64) != 4 {
		t.Errorf("expected count 4, got %s", rec.Body.String())
	}
}

func TestNotificationHandler_CreateNotification(t *testing.T) {
	t.Run("decodes typed payload", func(t *testing.T) {
		var got services.NotificationInput
		svc := &mockNotificationService{
			createNotificationFn: func(_ context.Context, userID string, in services.NotificationInput) (*models.Notification, error) {
				got = in
				return &models.Notification{ID: testNotificationID, UserID: userID, Type: in.Type, Title: in.Title, Data: in.Data}, nil
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "POST", "/notifications",
			`{"type":"system","title":"Maintenance","message":"Down at 2am","priority":"high","payload":{"code":"MAINT","details":"db upgrade"}}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		p, ok := got.Data.Payload.(models.SystemPayload)
		if !ok {
			t.Fatalf("expected SystemPayload, got %T", got.Data.Payload)
		}
		if p.Code != "MAINT" {
			t.Errorf("expected code MAINT, got %s", p.Code)
		}
		if got.Priority != models.PriorityHigh {
			t.Errorf("expected high priority, got %s", got.Priority)
		}
	})

	t.Run("returns 400 on malformed payload", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))

		rec := doRequest(r, "POST", "/notifications",
			`{"type":"budget_alert","title":"x","message":"y","payload":{"amount":"lots"}}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_NOTIFICATION_PAYLOAD")
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))

		rec := doRequest(r, "POST", "/notifications", `{"type":"spam","title":"x","message":"y"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid priority", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))

		rec := doRequest(r, "POST", "/notifications", `{"type":"system","title":"x","message":"y","priority":"urgent"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestNotificationHandler_StatusChanges(t *testing.T) {
	t.Run("read-all is not captured as an id", func(t *testing.T) {
		called := false
		svc := &mockNotificationService{
			markAllAsReadFn: func(string) (int64, error) {
				called = true
				return 3, nil
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "PUT", "/notifications/read-all", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !called {
			t.Error("expected MarkAllAsRead to be called")
		}
		if parseJSON(t, rec)["updated"].(float64) != 3 {
			t.Errorf("expected updated 3, got %s", rec.Body.String())
		}
	})

	t.Run("mark read returns notification", func(t *testing.T) {
		svc := &mockNotificationService{
			markAsReadFn: func(_, id string) (*models.Notification, error) {
				return &models.Notification{ID: id, Status: models.NotificationRead}, nil
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "PUT", "/notifications/"+testNotificationID+"/read", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		n := parseJSON(t, rec)["notification"].(map[string]interface{})
		if n["status"] != "read" {
			t.Errorf("expected read, got %v", n["status"])
		}
	})

	t.Run("archive missing returns 404", func(t *testing.T) {
		svc := &mockNotificationService{
			archiveFn: func(string, string) (*models.Notification, error) {
				return nil, apperrors.ErrNotificationNotFound
			},
		}
		r := setupNotificationRouter(NewNotificationHandler(svc))

		rec := doRequest(r, "PUT", "/notifications/"+testNotificationID+"/archive", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOTIFICATION_NOT_FOUND")
	})

	t.Run("delete rejects malformed id", func(t *testing.T) {
		r := setupNotificationRouter(NewNotificationHandler(&mockNotificationService{}))

		rec := doRequest(r, "DELETE", "/notifications/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
