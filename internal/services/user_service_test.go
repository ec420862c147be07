package services

import (
	"testing"
	"time"

	"rentflow/internal/models"
	"rentflow/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("new.landlord@example.com", "secret-password-1", "Jane", "Doe", "")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}
		if user.Role != models.RoleLandlord {
			t.Errorf("expected landlord role by default, got %s", user.Role)
		}
		if user.Currency != "USD" {
			t.Errorf("expected USD default currency, got %s", user.Currency)
		}
		if user.Password == "secret-password-1" {
			t.Error("password should be hashed")
		}
	})

	t.Run("lowercases_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("MiXeD@Example.COM", "secret-password-1", "", "", models.RoleTenant)
		testutil.AssertNoError(t, err)

		if user.Email != "mixed@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Role != models.RoleTenant {
			t.Errorf("expected tenant role, got %s", user.Role)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dupe@example.com", "secret-password-1", "", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUPE@example.com", "secret-password-2", "", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "secret", "", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		loggedIn, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if loggedIn.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, loggedIn.ID)
		}

		reloaded, err := svc.GetUserByID(user.ID)
		testutil.AssertNoError(t, err)
		if reloaded.LastLoginAt == nil {
			t.Error("expected last login timestamp to be set")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.AttemptLogin(user.Email, "not-the-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email_same_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("ghost@example.com", "whatever")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			_, err := svc.AttemptLogin(user.Email, "not-the-password")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		// Even the correct password is rejected while locked.
		_, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("expired_lock_allows_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		past := time.Now().Add(-time.Minute)
		testutil.AssertNoError(t, db.Model(user).Update("locked_until", &past).Error)

		_, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("updates_given_fields_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		company := "Doe Property Management"
		currency := "EUR"
		updated, err := svc.UpdateProfile(user.ID, ProfileUpdateFields{CompanyName: &company, Currency: &currency})
		testutil.AssertNoError(t, err)

		if updated.CompanyName != company {
			t.Errorf("expected company %q, got %q", company, updated.CompanyName)
		}
		if updated.Currency != "EUR" {
			t.Errorf("expected EUR, got %s", updated.Currency)
		}
		if updated.FirstName != user.FirstName {
			t.Errorf("expected first name unchanged, got %s", updated.FirstName)
		}
	})

	t.Run("empty_currency_ignored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		empty := ""
		updated, err := svc.UpdateProfile(user.ID, ProfileUpdateFields{Currency: &empty})
		testutil.AssertNoError(t, err)

		if updated.Currency != "USD" {
			t.Errorf("expected USD preserved, got %s", updated.Currency)
		}
	})
}

func TestSessions(t *testing.T) {
	t.Run("create_and_get", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		session, err := svc.CreateSession(user.ID, "hash-1", false)
		testutil.AssertNoError(t, err)

		found, err := svc.GetSession(user.ID, "hash-1")
		testutil.AssertNoError(t, err)
		if found.ID != session.ID {
			t.Errorf("expected session %s, got %s", session.ID, found.ID)
		}
	})

	t.Run("remember_me_extends_expiry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		short, err := svc.CreateSession(user.ID, "hash-short", false)
		testutil.AssertNoError(t, err)
		long, err := svc.CreateSession(user.ID, "hash-long", true)
		testutil.AssertNoError(t, err)

		if !long.ExpiresAt.After(short.ExpiresAt.Add(20 * 24 * time.Hour)) {
			t.Error("expected remember-me session to live roughly 30 days")
		}
	})

	t.Run("expired_session_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		session, err := svc.CreateSession(user.ID, "hash-old", false)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, db.Model(session).Update("expires_at", time.Now().Add(-time.Hour)).Error)

		_, err = svc.GetSession(user.ID, "hash-old")
		testutil.AssertAppError(t, err, "SESSION_EXPIRED")
	})

	t.Run("rotate_replaces_hash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		session, err := svc.CreateSession(user.ID, "hash-a", false)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.RotateSession(session.ID, "hash-b"))

		_, err = svc.GetSession(user.ID, "hash-a")
		testutil.AssertAppError(t, err, "SESSION_EXPIRED")

		_, err = svc.GetSession(user.ID, "hash-b")
		testutil.AssertNoError(t, err)
	})

	t.Run("revoke_removes_all_sessions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateSession(user.ID, "hash-1", false)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateSession(user.ID, "hash-2", true)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.RevokeSessions(user.ID))

		_, err = svc.GetSession(user.ID, "hash-1")
		testutil.AssertAppError(t, err, "SESSION_EXPIRED")
		_, err = svc.GetSession(user.ID, "hash-2")
		testutil.AssertAppError(t, err, "SESSION_EXPIRED")
	})
}
