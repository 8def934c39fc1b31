package handlers

import (
	"database/sql"
	"net/http"

	intconfig "tripdesk/internal/config"
	"tripdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthAgent is the agent payload returned by login/register.
type AuthAgent struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		agent        AuthAgent
		passwordHash string
	)

	err := intconfig.DB.QueryRow(`
        SELECT id, name, email, password_hash, role, status
        FROM agents
        WHERE email = ?
    `, req.Email).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Email,
		&passwordHash,
		&agent.Role,
		&agent.Status,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			RespondError(c, http.StatusUnauthorized, "wrong email or password", nil)
		} else {
			RespondError(c, http.StatusInternalServerError, "agent lookup failed", err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "wrong email or password", nil)
		return
	}

	token, err := middleware.SignAgentToken(agent.ID, agent.Role)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "token signing failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"agent": agent,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "email and a password of at least 8 characters are required", nil)
		return
	}

	var exists int
	err := intconfig.DB.QueryRow(`SELECT COUNT(*) FROM agents WHERE email = ?`, req.Email).Scan(&exists)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "agent lookup failed", err)
		return
	}
	if exists > 0 {
		RespondError(c, http.StatusBadRequest, "email already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "password hashing failed", err)
		return
	}

	res, err := intconfig.DB.Exec(`
        INSERT INTO agents (name, email, password_hash, role, status, created_at)
        VALUES (?, ?, ?, 'agent', 'active', NOW())
    `, req.Name, req.Email, string(hash))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "agent insert failed", err)
		return
	}

	id, _ := res.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered",
		"agent": AuthAgent{
			ID:     id,
			Name:   req.Name,
			Email:  req.Email,
			Role:   "agent",
			Status: "active",
		},
	})
}
