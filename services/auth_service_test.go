package services_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercari_mini_back_end_go/db"
	"mercari_mini_back_end_go/models"
	"mercari_mini_back_end_go/services"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func authTestContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, rec
}

type sessionResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func TestRegisterUser(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()

	cases := map[string]struct {
		body                string
		injectorForUserRepo func(*db.MockUserRepository)
		wantStatusCode      int
	}{
		"200: account created with token": {
			body: `{"name":"Alice","email":"alice@example.com","password":"hunter22"}`,
			injectorForUserRepo: func(m *db.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(models.User{}, db.ErrNotFound).Times(1)
				m.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ interface{}, user models.User) (models.User, error) {
						if user.HashedPassword == "hunter22" {
							t.Fatal("password must be stored hashed")
						}
						user.ID = userID
						return user, nil
					}).Times(1)
			},
			wantStatusCode: http.StatusOK,
		},
		"400: duplicate email": {
			body: `{"name":"Alice","email":"alice@example.com","password":"hunter22"}`,
			injectorForUserRepo: func(m *db.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(models.User{ID: userID}, nil).Times(1)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		"400: missing name": {
			body:                `{"email":"alice@example.com","password":"hunter22"}`,
			injectorForUserRepo: func(_ *db.MockUserRepository) {},
			wantStatusCode:      http.StatusBadRequest,
		},
		"400: malformed email": {
			body:                `{"name":"Alice","email":"not-an-email","password":"hunter22"}`,
			injectorForUserRepo: func(_ *db.MockUserRepository) {},
			wantStatusCode:      http.StatusBadRequest,
		},
		"500: store failure": {
			body: `{"name":"Alice","email":"alice@example.com","password":"hunter22"}`,
			injectorForUserRepo: func(m *db.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(models.User{}, errors.New("strange error")).Times(1)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for name, tt := range cases {
		tt := tt

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			userRepo := db.NewMockUserRepository(ctrl)
			tt.injectorForUserRepo(userRepo)

			c, rec := authTestContext(t, tt.body)
			services.RegisterUser(c, userRepo)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("unexpected status code: want: %d, got: %d", tt.wantStatusCode, rec.Code)
			}
			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var got sessionResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("unexpected error for json.Unmarshal: %s", err.Error())
			}
			if got.Token == "" {
				t.Fatal("expected a session token")
			}
			if got.User.ID != userID || got.User.Email != "alice@example.com" {
				t.Fatalf("unexpected user summary: %+v", got.User)
			}
		})
	}
}

func TestLoginUser(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %s", err.Error())
	}
	stored := models.User{ID: userID, Name: "Alice", Email: "alice@example.com", HashedPassword: string(hash)}

	cases := map[string]struct {
		body                string
		injectorForUserRepo func(*db.MockUserRepository)
		wantStatusCode      int
	}{
		"200: valid credentials": {
			body: `{"email":"alice@example.com","password":"hunter22"}`,
			injectorForUserRepo: func(m *db.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(stored, nil).Times(1)
			},
			wantStatusCode: http.StatusOK,
		},
		"401: wrong password": {
			body: `{"email":"alice@example.com","password":"wrong"}`,
			injectorForUserRepo: func(m *db.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(stored, nil).Times(1)
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		"401: unknown email": {
			body: `{"email":"nobody@example.com","password":"hunter22"}`,
			injectorForUserRepo: func(m *db.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "nobody@example.com").Return(models.User{}, db.ErrNotFound).Times(1)
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		"400: missing password": {
			body:                `{"email":"alice@example.com"}`,
			injectorForUserRepo: func(_ *db.MockUserRepository) {},
			wantStatusCode:      http.StatusBadRequest,
		},
		"500: store failure": {
			body: `{"email":"alice@example.com","password":"hunter22"}`,
			injectorForUserRepo: func(m *db.MockUserRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(models.User{}, errors.New("strange error")).Times(1)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for name, tt := range cases {
		tt := tt

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			userRepo := db.NewMockUserRepository(ctrl)
			tt.injectorForUserRepo(userRepo)

			c, rec := authTestContext(t, tt.body)
			services.LoginUser(c, userRepo)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("unexpected status code: want: %d, got: %d", tt.wantStatusCode, rec.Code)
			}
			if tt.wantStatusCode != http.StatusOK {
				return
			}

			var got sessionResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("unexpected error for json.Unmarshal: %s", err.Error())
			}
			if got.Token == "" {
				t.Fatal("expected a session token")
			}
			if got.User.ID != userID {
				t.Fatalf("unexpected user id: want: %s, got: %s", userID, got.User.ID)
			}
		})
	}
}
