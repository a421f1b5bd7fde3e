package inbound

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

type fakeUsecase struct {
	register   func(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	login      func(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	userList   func(ctx context.Context) (*usecase.UserListOutput, error)
	userDelete func(ctx context.Context, in usecase.UserDeleteInput) error
}

func (f *fakeUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return f.register(ctx, in)
}

func (f *fakeUsecase) Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
	return f.login(ctx, in)
}

func (f *fakeUsecase) UserList(ctx context.Context) (*usecase.UserListOutput, error) {
	return f.userList(ctx)
}

func (f *fakeUsecase) UserDelete(ctx context.Context, in usecase.UserDeleteInput) error {
	return f.userDelete(ctx, in)
}

type staticJWT struct{}

func (staticJWT) Generate(string, string) (string, error) { return "", nil }

func (staticJWT) Verify(string) (jwt.Claims, error) {
	c := jwt.Claims{Role: "ADMIN"}
	c.Subject = "root"
	return c, nil
}

func newTestHandler(t *testing.T, f *fakeUsecase) http.Handler {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  server:\n    max_concurrent_requests: 4\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		JWT:        staticJWT{},
		Instrument: instrument.NewNoop(),
		PublicEndpoints: map[string][]string{
			http.MethodPost: {"/register", "/login"},
		},
	})
	RegisterHTTPEndpoint(r, f)

	return r
}

func serve(t *testing.T, h http.Handler, req *http.Request) (int, string) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	return rec.Code, string(body)
}

func TestHTTPEndpoint_Register(t *testing.T) {
	tests := []struct {
		name     string
		out      *usecase.RegisterOutput
		err      error
		wantCode int
		wantBody string
	}{
		{name: "Registered", out: &usecase.RegisterOutput{}, wantCode: http.StatusOK, wantBody: "Registered"},
		{name: "AdminExists", out: &usecase.RegisterOutput{AdminExists: true}, wantCode: http.StatusBadRequest, wantBody: "Admin already exists"},
		{
			name:     "Duplicate",
			err:      goerror.NewBusiness("Username already exists", goerror.CodeConflict),
			wantCode: http.StatusBadRequest,
			wantBody: "Username already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var got usecase.RegisterInput
			h := newTestHandler(t, &fakeUsecase{
				register: func(_ context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error) {
					got = in
					return tt.out, tt.err
				},
			})
			req := httptest.NewRequest(http.MethodPost, "/register",
				strings.NewReader("username=alice&password=secret1&role=user&email=alice%40example.com"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			// Act
			code, body := serve(t, h, req)

			// Assert
			if code != tt.wantCode || body != tt.wantBody {
				t.Fatalf("expected %d %q, got %d %q", tt.wantCode, tt.wantBody, code, body)
			}
			if got.Username != "alice" || got.Email != "alice@example.com" || got.Role != "user" {
				t.Fatalf("unexpected input: %+v", got)
			}
		})
	}
}

func TestHTTPEndpoint_Login(t *testing.T) {
	// Arrange
	h := newTestHandler(t, &fakeUsecase{
		login: func(_ context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
			if in.Password != "secret1" {
				return nil, goerror.NewBusiness("Invalid credentials", goerror.CodeUnauthorized)
			}
			return &usecase.LoginOutput{Token: "header.payload.sig"}, nil
		},
	})

	// Act
	code, body := serve(t, h, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"alice","password":"secret1"}`)))
	badCode, badBody := serve(t, h, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"alice","password":"nope"}`)))

	// Assert
	if code != http.StatusOK || body != "header.payload.sig" {
		t.Fatalf("expected raw token, got %d %q", code, body)
	}
	if badCode != http.StatusUnauthorized || badBody != "Invalid credentials" {
		t.Fatalf("expected 401, got %d %q", badCode, badBody)
	}
}

func TestHTTPEndpoint_UserList(t *testing.T) {
	// Arrange
	h := newTestHandler(t, &fakeUsecase{
		userList: func(context.Context) (*usecase.UserListOutput, error) {
			return &usecase.UserListOutput{Users: []usecase.UserListItem{
				{ID: 2, Username: "alice", Role: "USER", Email: "alice@example.com"},
			}}, nil
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer t")

	// Act
	code, body := serve(t, h, req)

	// Assert
	want := `{"users":[{"id":2,"username":"alice","role":"USER","email":"alice@example.com"}]}` + "\n"
	if code != http.StatusOK || body != want {
		t.Fatalf("expected %q, got %d %q", want, code, body)
	}
	if strings.Contains(body, "password") {
		t.Fatalf("list must not leak password")
	}
}

func TestHTTPEndpoint_UserDelete(t *testing.T) {
	// Arrange
	var got string
	h := newTestHandler(t, &fakeUsecase{
		userDelete: func(_ context.Context, in usecase.UserDeleteInput) error {
			got = in.Username
			return nil
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/deleteUser", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Authorization", "Bearer t")

	// Act
	code, body := serve(t, h, req)

	// Assert
	if code != http.StatusOK || body != "User deleted" || got != "alice" {
		t.Fatalf("unexpected response %d %q for %q", code, body, got)
	}
}

func TestHTTPEndpoint_RequiresToken(t *testing.T) {
	// Arrange
	h := newTestHandler(t, &fakeUsecase{})

	// Act
	code, body := serve(t, h, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	// Assert
	if code != http.StatusUnauthorized || body != "Missing token" {
		t.Fatalf("expected 401 Missing token, got %d %q", code, body)
	}
}
