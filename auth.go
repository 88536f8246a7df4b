package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// sessionTTL is how long an issued token stays valid.
const sessionTTL = 30 * 24 * time.Hour

// issueToken signs an HS256 session token carrying the user id as subject.
func (h *Handler) issueToken(userID int) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}

// register creates a user with a bcrypt-hashed password plus their empty
// profile and free-plan subscription rows.
// POST /api/register (public — no auth required).
func (h *Handler) register(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Username == "" || body.Email == "" {
		apiError(c, http.StatusBadRequest, "username and email are required")
		return
	}
	if len(body.Password) < 8 {
		apiError(c, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to process password")
		return
	}

	var userID int
	err = h.db.QueryRow(c,
		`INSERT INTO users (username, email, password) VALUES (@username, @email, @password) RETURNING id`,
		pgx.NamedArgs{"username": body.Username, "email": body.Email, "password": string(hash)},
	).Scan(&userID)
	if err != nil {
		// Unique violations on username/email land here; don't leak which one.
		apiError(c, http.StatusConflict, "username or email already taken")
		return
	}

	// Companion rows. Same-transaction strictness isn't needed: both are
	// idempotent one-per-user inserts and the user can't log anything without them.
	if _, err := h.db.Exec(c,
		"INSERT INTO user_profiles (user_id) VALUES ($1)", userID); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create profile")
		return
	}
	if _, err := h.db.Exec(c,
		"INSERT INTO subscriptions (user_id, plan, status) VALUES ($1, 'free', 'active')", userID); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create subscription")
		return
	}

	token, err := h.issueToken(userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": userID})
}

// login verifies username/password and returns a signed session token.
// POST /api/login (public — no auth required).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	// Always run bcrypt to keep response time constant regardless of whether the
	// username was found — prevents timing-based username enumeration.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.issueToken(u.ID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": u.ID})
}

// authMiddleware validates the Bearer token and sets user_id on the context.
// Tokens are self-contained, so no database round trip happens per request.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return h.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		claims := token.Claims.(*jwt.RegisteredClaims)
		userID, err := strconv.Atoi(claims.Subject)
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
