package services

import (
	"testing"
	"time"

	"flesk/internal/models"
	"flesk/internal/pagination"
	"flesk/internal/testutil"
	"flesk/internal/uuid"
)

func expenseInput(category models.Category, amount int64) TransactionInput {
	return TransactionInput{
		Type:        models.TransactionTypeExpense,
		Category:    category,
		Amount:      amount,
		Description: "Lunch",
		Date:        time.Now(),
	}
}

func TestCreateTransaction(t *testing.T) {
	t.Run("valid_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, expenseInput(models.CategoryFood, 3000))
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected transaction ID to be assigned")
		}
		if tx.Amount != 3000 {
			t.Errorf("expected amount 3000, got %d", tx.Amount)
		}
		if tx.Date.Location() != time.UTC {
			t.Errorf("expected date stored in UTC, got %v", tx.Date.Location())
		}
	})

	t.Run("zero_date_defaults_to_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(models.CategoryFood, 100)
		in.Date = time.Time{}
		tx, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)
		if time.Since(tx.Date) > time.Minute {
			t.Errorf("expected date near now, got %v", tx.Date)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, expenseInput(models.CategoryFood, 0))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, expenseInput(models.Category("yachts"), 100))
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(models.CategoryFood, 100)
		in.Type = "transfer"
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_TRANSACTION_TYPE")
	})

	t.Run("recurring_requires_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		in := expenseInput(models.CategoryHousing, 120000)
		in.IsRecurring = true
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		period := models.RecurringMonthly
		in.RecurringPeriod = &period
		tx, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)
		if tx.RecurringPeriod == nil || *tx.RecurringPeriod != models.RecurringMonthly {
			t.Errorf("expected monthly recurring period, got %v", tx.RecurringPeriod)
		}
	})

	t.Run("coordinates_must_be_paired", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		lat, lon, bad := 48.85, 2.35, 200.0
		in := expenseInput(models.CategoryFood, 100)
		in.Latitude = &lat
		_, err := svc.CreateTransaction(user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		in.Longitude = &bad
		_, err = svc.CreateTransaction(user.ID, in)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		in.Longitude = &lon
		_, err = svc.CreateTransaction(user.ID, in)
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, models.CategoryFood, 1000, base)
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, models.CategoryTransport, 2500, base.AddDate(0, 0, 5))
	testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, models.CategorySalary, 500000, base.AddDate(0, 0, 10))
	testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeExpense, models.CategoryFood, 999, base)

	t.Run("all_newest_first", func(t *testing.T) {
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Fatalf("expected 3 transactions, got %d", result.TotalItems)
		}
		if result.Data[0].Category != models.CategorySalary {
			t.Errorf("expected newest transaction first, got %s", result.Data[0].Category)
		}
	})

	t.Run("type_filter", func(t *testing.T) {
		txType := models.TransactionTypeExpense
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Type: &txType})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 expenses, got %d", result.TotalItems)
		}
	})

	t.Run("category_and_amount_filters", func(t *testing.T) {
		category := models.CategoryTransport
		minAmount := int64(2000)
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Category: &category, MinAmount: &minAmount})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
	})

	t.Run("date_range", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		to := base.AddDate(0, 0, 6)
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{FromDate: &from, ToDate: &to})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction in range, got %d", result.TotalItems)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 1 {
			t.Errorf("expected 1 transaction on page 2, got %d", len(result.Data))
		}
		if result.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", result.TotalPages)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user1.ID, models.TransactionTypeExpense, models.CategoryFood, 100, time.Now())

		_, err := svc.GetTransactionByID(user2.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetTransactionByID(user.ID, uuid.New())
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, models.CategoryFood, 100, time.Now())

		amount := int64(4500)
		category := models.CategoryEntertainment
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{Amount: &amount, Category: &category})
		testutil.AssertNoError(t, err)
		if updated.Amount != 4500 || updated.Category != models.CategoryEntertainment {
			t.Errorf("expected amount 4500 in entertainment, got %d in %s", updated.Amount, updated.Category)
		}

		reloaded, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Amount != 4500 {
			t.Errorf("expected persisted amount 4500, got %d", reloaded.Amount)
		}
		if reloaded.Type != models.TransactionTypeExpense {
			t.Errorf("expected type unchanged, got %s", reloaded.Type)
		}
	})

	t.Run("invalid_merge_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, models.CategoryFood, 100, time.Now())

		negative := int64(-5)
		_, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{Amount: &negative})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		reloaded, _ := svc.GetTransactionByID(user.ID, tx.ID)
		if reloaded.Amount != 100 {
			t.Errorf("expected amount unchanged at 100, got %d", reloaded.Amount)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, models.CategoryFood, 100, time.Now())

	testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

	_, err := svc.GetTransactionByID(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	err = svc.DeleteTransaction(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
