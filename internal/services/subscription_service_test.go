package services

import (
	"testing"
	"time"

	"flesk/internal/models"
	"flesk/internal/pagination"
	"flesk/internal/testutil"
	"flesk/internal/uuid"
)

func TestCreateSubscription(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		sub, err := svc.CreateSubscription(user.ID, SubscriptionInput{
			Name:        "Streaming",
			Amount:      1299,
			RenewalDate: time.Now().AddDate(0, 0, 10),
		})
		testutil.AssertNoError(t, err)

		if sub.BillingCycle != models.BillingCycleMonthly {
			t.Errorf("expected monthly billing cycle, got %s", sub.BillingCycle)
		}
		if sub.Category != models.CategorySubscriptions {
			t.Errorf("expected subscriptions category, got %s", sub.Category)
		}
		if !sub.IsActive {
			t.Error("expected subscription to be active")
		}
	})

	t.Run("inactive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		inactive := false
		sub, err := svc.CreateSubscription(user.ID, SubscriptionInput{
			Name:        "Paused Gym",
			Amount:      4000,
			RenewalDate: time.Now(),
			IsActive:    &inactive,
		})
		testutil.AssertNoError(t, err)

		stored, err := svc.GetSubscriptionByID(user.ID, sub.ID)
		testutil.AssertNoError(t, err)
		if stored.IsActive {
			t.Error("expected subscription to be stored inactive")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateSubscription(user.ID, SubscriptionInput{Name: "Free", Amount: 0, RenewalDate: time.Now()})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateSubscription(user.ID, SubscriptionInput{
			Name: "Odd", Amount: 100, RenewalDate: time.Now(), BillingCycle: "fortnightly",
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateSubscription(user.ID, SubscriptionInput{Name: "Undated", Amount: 100})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserSubscriptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSubscriptionService(db)
	user := testutil.CreateTestUser(t, db)

	now := time.Now()
	later := testutil.CreateTestSubscription(t, db, user.ID, now.AddDate(0, 0, 20))
	sooner := testutil.CreateTestSubscription(t, db, user.ID, now.AddDate(0, 0, 2))
	stopped := testutil.CreateTestSubscription(t, db, user.ID, now.AddDate(0, 0, 5))
	db.Model(stopped).Update("is_active", false)

	result, err := svc.GetUserSubscriptions(user.ID, pagination.PageRequest{}, nil)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", result.TotalItems)
	}
	if result.Data[0].ID != sooner.ID {
		t.Error("expected soonest renewal first")
	}

	active := true
	result, err = svc.GetUserSubscriptions(user.ID, pagination.PageRequest{}, &active)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Errorf("expected 2 active subscriptions, got %d", result.TotalItems)
	}
	if result.Data[1].ID != later.ID {
		t.Error("expected later renewal last")
	}
}

func TestUpdateSubscription(t *testing.T) {
	t.Run("deactivate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)
		sub := testutil.CreateTestSubscription(t, db, user.ID, time.Now().AddDate(0, 0, 3))

		inactive := false
		cycle := models.BillingCycleYearly
		updated, err := svc.UpdateSubscription(user.ID, sub.ID, SubscriptionUpdate{IsActive: &inactive, BillingCycle: &cycle})
		testutil.AssertNoError(t, err)
		if updated.IsActive {
			t.Error("expected subscription to be inactive")
		}

		stored, err := svc.GetSubscriptionByID(user.ID, sub.ID)
		testutil.AssertNoError(t, err)
		if stored.IsActive || stored.BillingCycle != models.BillingCycleYearly {
			t.Errorf("expected inactive yearly subscription, got active=%v cycle=%s", stored.IsActive, stored.BillingCycle)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		name := "x"
		_, err := svc.UpdateSubscription(user.ID, uuid.New(), SubscriptionUpdate{Name: &name})
		testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
	})
}

func TestDeleteSubscription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSubscriptionService(db)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	sub := testutil.CreateTestSubscription(t, db, owner.ID, time.Now())

	err := svc.DeleteSubscription(other.ID, sub.ID)
	testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteSubscription(owner.ID, sub.ID))
	_, err = svc.GetSubscriptionByID(owner.ID, sub.ID)
	testutil.AssertAppError(t, err, "SUBSCRIPTION_NOT_FOUND")
}

func TestGetUpcomingRenewals(t *testing.T) {
	t.Run("window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now().UTC()
		inTwo := testutil.CreateTestSubscription(t, db, user.ID, now.AddDate(0, 0, 2))
		testutil.CreateTestSubscription(t, db, user.ID, now.AddDate(0, 0, 10))
		testutil.CreateTestSubscription(t, db, user.ID, now.AddDate(0, 0, -2))
		stopped := testutil.CreateTestSubscription(t, db, user.ID, now.AddDate(0, 0, 1))
		db.Model(stopped).Update("is_active", false)

		subs, err := svc.GetUpcomingRenewals(user.ID, 7)
		testutil.AssertNoError(t, err)
		if len(subs) != 1 {
			t.Fatalf("expected 1 upcoming renewal, got %d", len(subs))
		}
		if subs[0].ID != inTwo.ID {
			t.Errorf("expected subscription %s, got %s", inTwo.ID, subs[0].ID)
		}
	})

	t.Run("invalid_days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSubscriptionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetUpcomingRenewals(user.ID, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
