package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"

	"go-foodorder/models"
	"go-foodorder/utils"
)

// Authentication failures share one message so callers cannot tell an unknown
// email from a wrong password.
const genericAuthError = "invalid email or password"

// AuthController handles signup, login, OTP, and Google sign-in.
type AuthController struct {
	Users          *mongo.Collection
	OTPs           *mongo.Collection
	Tokens         *utils.TokenService
	EmailService   *utils.EmailService
	GoogleClientID string
}

// NewAuthController creates an AuthController bound to the given database.
func NewAuthController(db *mongo.Database, tokens *utils.TokenService, emailService *utils.EmailService, googleClientID string) *AuthController {
	return &AuthController{
		Users:          db.Collection("users"),
		OTPs:           db.Collection("otps"),
		Tokens:         tokens,
		EmailService:   emailService,
		GoogleClientID: googleClientID,
	}
}

// Register handles user signup. The account starts unverified; a passcode is
// mailed out and the user must verify before logging in.
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Username == "" || !strings.Contains(req.Email, "@") {
		utils.RespondError(w, http.StatusBadRequest, "name, username and a valid email are required")
		return
	}
	if len(req.Password) < 6 {
		utils.RespondError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	role := models.RoleCustomer
	if req.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// App-level duplicate check for a clean conflict message; the unique
	// indexes on email and username remain the backstop.
	count, err := ac.Users.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": req.Email},
		bson.M{"username": req.Username},
	}})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	if count > 0 {
		utils.RespondError(w, http.StatusConflict, "email or username already in use")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}

	now := time.Now()
	doc := models.User{
		Name:       req.Name,
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hashed),
		Role:       role,
		IsVerified: false,
		Favorites:  []primitive.ObjectID{},
		Cart:       []models.CartLine{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := ac.Users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondError(w, http.StatusConflict, "email or username already in use")
			return
		}
		utils.RespondServerError(w, err)
		return
	}

	if err := ac.issueOTP(ctx, req.Email); err != nil {
		log.Printf("failed to send signup passcode to %s: %v", req.Email, err)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "registered successfully, check your email for a verification code",
	})
}

// Login handles password authentication for verified accounts.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := ac.Users.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(creds.Email))}).Decode(&user)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, genericAuthError)
		return
	}
	if !user.IsVerified || user.Password == "" {
		utils.RespondError(w, http.StatusUnauthorized, genericAuthError)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, genericAuthError)
		return
	}

	token, err := ac.Tokens.Generate(user)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// SendOtp issues a fresh passcode for an existing account, replacing any
// previous one for that email.
func (ac *AuthController) SendOtp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := ac.Users.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	if count == 0 {
		utils.RespondError(w, http.StatusNotFound, "no account with that email")
		return
	}

	if err := ac.issueOTP(ctx, req.Email); err != nil {
		utils.RespondServerError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "passcode sent"})
}

// VerifyOtp exchanges a valid passcode for a session token, consuming the
// code and marking the account verified.
func (ac *AuthController) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var otp models.OneTimePasscode
	err := ac.OTPs.FindOne(ctx, bson.M{"email": req.Email, "code": req.Code}).Decode(&otp)
	if err != nil || otp.Expired(time.Now()) {
		utils.RespondError(w, http.StatusUnauthorized, "invalid or expired passcode")
		return
	}

	if _, err := ac.OTPs.DeleteOne(ctx, bson.M{"_id": otp.ID}); err != nil {
		utils.RespondServerError(w, err)
		return
	}

	var user models.User
	err = ac.Users.FindOneAndUpdate(ctx,
		bson.M{"email": req.Email},
		bson.M{"$set": bson.M{"is_verified": true, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid or expired passcode")
		return
	}

	token, err := ac.Tokens.Generate(user)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GoogleLogin verifies a Google ID token and finds-or-creates the matching
// account, keyed by the provider subject id.
func (ac *AuthController) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	payload, err := idtoken.Validate(ctx, req.IDToken, ac.GoogleClientID)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid identity token")
		return
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)

	var user models.User
	err = ac.Users.FindOne(ctx, bson.M{"google_id": payload.Subject}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		now := time.Now()
		user = models.User{
			Name:       name,
			Username:   googleUsername(email, payload.Subject),
			Email:      strings.ToLower(email),
			GoogleID:   payload.Subject,
			Role:       models.RoleCustomer,
			IsVerified: true,
			Favorites:  []primitive.ObjectID{},
			Cart:       []models.CartLine{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := ac.Users.InsertOne(ctx, user); err != nil {
			utils.RespondServerError(w, err)
			return
		}
		// Reload so the generated _id is present in the token claims.
		if err := ac.Users.FindOne(ctx, bson.M{"google_id": payload.Subject}).Decode(&user); err != nil {
			utils.RespondServerError(w, err)
			return
		}
	} else if err != nil {
		utils.RespondServerError(w, err)
		return
	}

	token, err := ac.Tokens.Generate(user)
	if err != nil {
		utils.RespondServerError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// issueOTP stores a fresh passcode for the email (replacing any prior one)
// and mails it out.
func (ac *AuthController) issueOTP(ctx context.Context, email string) error {
	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	otp := models.OneTimePasscode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(models.OTPTTL),
	}
	_, err = ac.OTPs.ReplaceOne(ctx, bson.M{"email": email}, otp, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	return ac.EmailService.SendOTPEmail(email, code)
}

// googleUsername derives a stable unique username for accounts created via
// Google sign-in.
func googleUsername(email, subject string) string {
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if local == "" {
		local = "user"
	}
	suffix := subject
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return local + "-" + suffix
}
