package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"nguza/db"
	"nguza/globals"
	"nguza/middleware"
	"nguza/models"
	"nguza/rdx"
	"nguza/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordTokenTTL = 24 * time.Hour
	oauthTokenTTL    = time.Hour
)

// Signup registers a new account keyed by phone number.
func Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Username    string `json:"username"`
		PhoneNumber string `json:"phoneNumber"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		District    string `json:"district"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.PhoneNumber == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username, phone number and password are required")
		return
	}
	if !utils.ValidPhoneNumber(input.PhoneNumber) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid phone number")
		return
	}
	if len(input.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	err := db.UserCollection.FindOne(ctx, bson.M{"phoneNumber": input.PhoneNumber}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Phone number already registered")
		return
	} else if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", input.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	now := time.Now()
	user := models.User{
		UserID:      "u" + utils.GenerateRandomString(10),
		Username:    input.Username,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		Password:    string(hashed),
		Role:        []string{"user"},
		District:    input.District,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusBadRequest, "Phone number already registered")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	if err := rdx.RdxSet("users:"+user.UserID, user.Username); err != nil {
		log.Printf("Failed to cache username: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "user": user})
}

// Signin authenticates with phone number and password and issues a one-day
// bearer token.
func Signin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		PhoneNumber string `json:"phoneNumber"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"phoneNumber": input.PhoneNumber}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid phone number or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid phone number or password")
		return
	}
	if user.Banned {
		utils.RespondWithError(w, http.StatusForbidden, "Account is banned")
		return
	}

	issueToken(ctx, w, &user, passwordTokenTTL)
}

// Google exchanges an OAuth profile for a local account, creating one on
// first login. The token issued here is shorter-lived than the password path.
func Google(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		GoogleID  string `json:"googleId"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatarUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.GoogleID == "" || input.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Google profile is incomplete")
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"$or": []bson.M{
		{"googleId": input.GoogleID},
		{"email": input.Email},
	}}).Decode(&user)

	if err == mongo.ErrNoDocuments {
		now := time.Now()
		user = models.User{
			UserID:    "u" + utils.GenerateRandomString(10),
			Username:  input.Name,
			Email:     input.Email,
			GoogleID:  input.GoogleID,
			AvatarURL: input.AvatarURL,
			Role:      []string{"user"},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
			return
		}
	} else if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if user.Banned {
		utils.RespondWithError(w, http.StatusForbidden, "Account is banned")
		return
	}
	if user.GoogleID == "" {
		_, _ = db.UserCollection.UpdateOne(ctx,
			bson.M{"userid": user.UserID},
			bson.M{"$set": bson.M{"googleId": input.GoogleID}},
		)
	}

	issueToken(ctx, w, &user, oauthTokenTTL)
}

// Logout drops the cached token for the user. Redis being down only costs
// observability of the session, so the failure is logged and swallowed.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := rdx.RdxHdel("tokens", userID); err != nil {
		log.Printf("Error removing token from redis: %v", err)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Logged out"})
}

func issueToken(ctx context.Context, w http.ResponseWriter, user *models.User, ttl time.Duration) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	_, _ = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"lastLogin": time.Now()}},
	)
	if err := rdx.RdxHset("tokens", user.UserID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"token":   tokenString,
		"user":    user,
	})
}
