package usecase

import (
	"context"
	"errors"
	"testing"

	"neuropharm-backend/internal/delivery/dto"
	"neuropharm-backend/internal/domain/apperr"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/testutil"
)

func TestRegisterCreatesPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth().Register(ctx, &dto.RegisterRequest{
		Email:    "  Ana@Example.com ",
		Password: "secret123",
		FullName: "Ana",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != string(entity.RolePatient) {
		t.Errorf("role = %q, want patient", user.Role)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("email = %q, want normalized", user.Email)
	}
	if n := testutil.Count(t, f.db, &entity.AuditLog{}); n != 1 {
		t.Errorf("audit logs = %d, want 1", n)
	}

	_, err = f.auth().Register(ctx, &dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "other123",
		FullName: "Ana Two",
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate email: got %v, want conflict", err)
	}
	if n := testutil.Count(t, f.db, &entity.User{}); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	doctor := testutil.SeedUser(t, f.db, entity.RoleDoctor, "doctor")
	auth := f.auth()
	ctx := context.Background()

	_, unknownErr := auth.Login(ctx, &dto.LoginRequest{Email: "nobody@neuropharm.test", Password: testutil.Password})
	_, wrongErr := auth.Login(ctx, &dto.LoginRequest{Email: doctor.Email, Password: "wrong-password"})

	if !errors.Is(unknownErr, apperr.ErrUnauthorized) || !errors.Is(wrongErr, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v and %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("messages differ: %q vs %q", unknownErr.Error(), wrongErr.Error())
	}
	if f.tokens.Len() != 0 {
		t.Errorf("failed logins stored %d tokens", f.tokens.Len())
	}
}

func TestLoginIssuesWhitelistedTokens(t *testing.T) {
	f := newFixture(t)
	doctor := testutil.SeedUser(t, f.db, entity.RoleDoctor, "doctor")

	tokens, err := f.auth().Login(context.Background(), &dto.LoginRequest{Email: doctor.Email, Password: testutil.Password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tokens.TokenType != "bearer" || tokens.User == nil || tokens.User.Role != "doctor" {
		t.Fatalf("unexpected token response: %+v", tokens)
	}

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != doctor.ID || claims.Role != entity.RoleDoctor {
		t.Errorf("claims = %+v", claims)
	}
	if f.tokens.Len() != 2 {
		t.Errorf("whitelisted tokens = %d, want 2", f.tokens.Len())
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	f := newFixture(t)
	patient := testutil.SeedUser(t, f.db, entity.RolePatient, "patient")
	auth := f.auth()
	ctx := context.Background()

	first, err := auth.Login(ctx, &dto.LoginRequest{Email: patient.Email, Password: testutil.Password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken}); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	_, err = auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("reused refresh token: got %v, want revoked", err)
	}

	_, err = auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: first.AccessToken})
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token as refresh: got %v, want invalid", err)
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	patient := testutil.SeedUser(t, f.db, entity.RolePatient, "patient")
	auth := f.auth()
	ctx := context.Background()

	if _, err := auth.Login(ctx, &dto.LoginRequest{Email: patient.Email, Password: testutil.Password}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	err := auth.ChangePassword(ctx, patient, &dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newsecret"})
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("wrong old password: got %v, want unauthorized", err)
	}

	if err := auth.ChangePassword(ctx, patient, &dto.ChangePasswordRequest{OldPassword: testutil.Password, NewPassword: "newsecret"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if f.tokens.Len() != 0 {
		t.Errorf("tokens after password change = %d, want 0", f.tokens.Len())
	}

	if _, err := auth.Login(ctx, &dto.LoginRequest{Email: patient.Email, Password: "newsecret"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := newFixture(t)
	patient := testutil.SeedUser(t, f.db, entity.RolePatient, "patient")
	auth := f.auth()
	ctx := context.Background()

	tokens, err := auth.Login(ctx, &dto.LoginRequest{Email: patient.Email, Password: testutil.Password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	if err := auth.Logout(ctx, patient, claims.TokenID, &dto.LogoutRequest{RefreshToken: tokens.RefreshToken}); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if f.tokens.Len() != 0 {
		t.Errorf("tokens after logout = %d, want 0", f.tokens.Len())
	}
}
