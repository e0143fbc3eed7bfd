// Package apitest runs an in-process fake of the screening service for
// tests. It keeps users, tokens and uploads in memory and serves the same
// routes and payload shapes as the real service.
package apitest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/skincheck/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var signingKey = []byte("apitest-signing-key")

type user struct {
	id       string
	username string
	email    string
	password string
	age      int
}

type signupBody struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      int    `json:"age" validate:"required,min=1"`
}

type failure struct {
	status int
	detail string
}

type Server struct {
	*httptest.Server

	mu         sync.Mutex
	users      map[string]*user
	tokens     map[string]string
	uploads    map[string][]models.ScanRecord
	failures   map[string]failure
	nextID     int64
	lastAuth   string
	calls      map[string]int
	prediction models.Prediction
	tokenTTL   time.Duration
}

// New starts a fake service that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		users:    map[string]*user{},
		tokens:   map[string]string{},
		uploads:  map[string][]models.ScanRecord{},
		failures: map[string]failure{},
		calls:    map[string]int{},
		nextID:   1,
		tokenTTL: time.Hour,
		prediction: models.Prediction{
			Prediction:    string(models.ResultBenign),
			Confidence:    0.91,
			Probabilities: models.Probabilities{Benign: 0.91, Malignant: 0.09},
		},
	}

	s.Server = httptest.NewServer(s.echo())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(s.track)
	e.Validator = newEchoValidator()
	e.HTTPErrorHandler = errorHandler

	e.POST("/auth", s.handleAuth)
	e.POST("/signup", s.handleSignup)

	authed := e.Group("/predict", s.requireToken)
	authed.POST("", s.handlePredict)
	authed.GET("/history", s.handleHistory)
	authed.DELETE("/history/:id", s.handleDelete)

	return e
}

// AddUser registers an account directly.
func (s *Server) AddUser(email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.users[strings.ToLower(email)] = &user{id: id, email: strings.ToLower(email), password: password, username: email}
	return id
}

// IssueToken returns a valid bearer token for email without a login call.
func (s *Server) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(strings.ToLower(email))
}

// SetUploads replaces the history of email.
func (s *Server) SetUploads(email string, records []models.ScanRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[strings.ToLower(email)] = append([]models.ScanRecord(nil), records...)
}

func (s *Server) Uploads(email string) []models.ScanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ScanRecord(nil), s.uploads[strings.ToLower(email)]...)
}

// SetPrediction changes the verdict returned for new scans.
func (s *Server) SetPrediction(p models.Prediction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prediction = p
}

// SetTokenTTL changes the lifetime of tokens issued from now on.
func (s *Server) SetTokenTTL(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = d
}

// Fail makes route (e.g. "GET /predict/history") answer with status until
// cleared with Fail(route, 0, "").
func (s *Server) Fail(route string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = failure{status: status, detail: detail}
}

// Calls reports how many requests hit route, including failed ones.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls reports requests across all routes.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// LastAuthorization is the Authorization header of the latest request.
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

func (s *Server) issueLocked(email string) string {
	u := s.users[email]
	sub := email
	if u != nil {
		sub = u.id
	}
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.tokenTTL).Unix(),
		"jti": uuid.NewString(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	s.tokens[tok] = email
	return tok
}

func (s *Server) track(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		route := c.Request().Method + " " + c.Path()

		s.mu.Lock()
		s.calls[route]++
		s.lastAuth = c.Request().Header.Get(echo.HeaderAuthorization)
		f, failing := s.failures[route]
		s.mu.Unlock()

		if failing {
			return echo.NewHTTPError(f.status, f.detail)
		}
		return next(c)
	}
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header.Get(echo.HeaderAuthorization)
		tok, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || tok == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
		}

		_, err := jwt.Parse(tok, func(*jwt.Token) (any, error) { return signingKey, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
		}

		s.mu.Lock()
		email, known := s.tokens[tok]
		s.mu.Unlock()
		if !known {
			return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
		}

		c.Set("email", email)
		return next(c)
	}
}

func (s *Server) handleAuth(c echo.Context) error {
	email := strings.ToLower(c.QueryParam("email"))
	password := c.QueryParam("password")

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok || u.password != password {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	return c.JSON(http.StatusOK, models.Token{
		AccessToken: s.issueLocked(email),
		TokenType:   "bearer",
		UserID:      u.id,
		Email:       u.email,
		Message:     "Login successful",
	})
}

func (s *Server) handleSignup(c echo.Context) error {
	var body signupBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(body.Email)
	if _, exists := s.users[email]; exists {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}

	u := &user{id: uuid.NewString(), username: body.Username, email: email, password: body.Password, age: body.Age}
	s.users[email] = u

	return c.JSON(http.StatusOK, map[string]string{
		"uuid":     u.id,
		"username": u.username,
		"message":  "User created successfully",
	})
}

func (s *Server) handlePredict(c echo.Context) error {
	loc := c.QueryParam("localization")
	if loc == "" {
		return &listError{status: http.StatusUnprocessableEntity, items: []detailItem{
			{Loc: []any{"query", "localization"}, Msg: "Field required"},
		}}
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return &listError{status: http.StatusUnprocessableEntity, items: []detailItem{
			{Loc: []any{"body", "image"}, Msg: "Field required"},
		}}
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return err
	}

	email := c.Get("email").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.prediction
	result := p.Prediction
	conf := p.Confidence
	rec := models.ScanRecord{
		ID:                   s.nextID,
		CreatedAt:            models.Timestamp{Time: time.Now().UTC()},
		UserUUID:             s.userID(email),
		FileName:             fh.Filename,
		Localization:         loc,
		FileHash:             hex.EncodeToString(hash.Sum(nil)),
		URL:                  fmt.Sprintf("%s/uploads/%d/%s", s.URL, s.nextID, fh.Filename),
		PredictionResult:     &result,
		PredictionConfidence: &conf,
	}
	s.nextID++
	s.uploads[email] = append(s.uploads[email], rec)

	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleHistory(c echo.Context) error {
	email := c.Get("email").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	uploads := s.uploads[email]
	if uploads == nil {
		uploads = []models.ScanRecord{}
	}
	return c.JSON(http.StatusOK, models.HistoryResponse{Uploads: uploads})
}

func (s *Server) handleDelete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	email := c.Get("email").(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.uploads[email]
	for i, r := range list {
		if r.ID == id {
			s.uploads[email] = append(list[:i:i], list[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Upload not found")
}

func (s *Server) userID(email string) string {
	if u, ok := s.users[email]; ok {
		return u.id
	}
	return ""
}
