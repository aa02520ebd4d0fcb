package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dastan2231/Social_Network/internal/config"
	"github.com/Dastan2231/Social_Network/internal/models"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	jwtutil "github.com/Dastan2231/Social_Network/pkg/jwt"
	"github.com/Dastan2231/Social_Network/pkg/validation"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	UpdatePasswordByEmail(ctx context.Context, email, hashedPassword string) error
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// CodeStore persists password reset codes.
type CodeStore interface {
	ReplaceCode(ctx context.Context, userID primitive.ObjectID, code string) error
	GetCodeByUser(ctx context.Context, userID primitive.ObjectID) (*models.Code, error)
	DeleteCodeByUser(ctx context.Context, userID primitive.ObjectID) error
}

// ProfilePostStore supplies a profile's posts.
type ProfilePostStore interface {
	GetPostsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Post, error)
}

/// Mailer delivers transactional mail. Delivery is fire-and-forget: failures
// are logged, never surfaced to the caller.
type Mailer interface {
	SendVerificationEmail(to, firstName, url string) error
	SendResetCode(to, firstName, code string) error
}

// UserService encapsulates the business logic for accounts.
type UserService struct {
	store  UserStore
	codes  CodeStore
	posts  ProfilePostStore
	mailer Mailer
	cfg    *config.Config
}

// NewUserService creates a new instance of UserService.
func NewUserService(store UserStore, codes CodeStore, posts ProfilePostStore, mailer Mailer, cfg *config.Config) *UserService {
	return &UserService{
		store:  store,
		codes:  codes,
		posts:  posts,
		mailer: mailer,
		cfg:    cfg,
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Gender     string `json:"gender"`
	BirthYear  int    `json:"b_year"`
	BirthMonth int    `json:"b_month"`
	BirthDay   int    `json:"b_day"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	Picture   string             `json:"picture,omitempty"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Token     string             `json:"token"`
	Verified  bool               `json:"verified"`
	Message   string             `json:"message,omitempty"`
}

// RegisterUser validates the form, creates the account with a unique
// generated username and mails the activation link.
func (s *UserService) RegisterUser(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	logrus.Info("Registering new user")

	if !validation.ValidateEmail(input.Email) {
		return nil, apperr.Invalidf("invalid email")
	}
	if !validation.ValidateLength(input.FirstName, 3, 30) {
		return nil, apperr.Invalidf("first name must be between 3 and 30 characters")
	}
	if !validation.ValidateLength(input.LastName, 3, 30) {
		return nil, apperr.Invalidf("last name must be between 3 and 30 characters")
	}
	if !validation.ValidateLength(input.Password, 6, 40) {
		return nil, apperr.Invalidf("password must be between 6 and 40 characters")
	}

	if existing, _ := s.store.GetUserByEmail(ctx, input.Email); existing != nil {
		logrus.WithField("email", input.Email).Warn("Email already in use")
		return nil, apperr.Conflictf("this email already exists, please try with a different email")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	username, err := s.generateUsername(ctx, input.FirstName+input.LastName)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Username:       username,
		Email:          input.Email,
		HashedPassword: string(hashedPwd),
		Gender:         input.Gender,
		BirthYear:      input.BirthYear,
		BirthMonth:     input.BirthMonth,
		BirthDay:       input.BirthDay,
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	s.sendActivationLink(created)

	token, err := jwtutil.GenerateToken(created.ID.Hex(), s.cfg.JWTSecret, s.cfg.TokenExpiry)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate token")
		return nil, fmt.Errorf("failed to generate token: %v", err)
	}

	logrus.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	return &AuthResponse{
		ID:        created.ID,
		Username:  created.Username,
		Picture:   created.Picture,
		FirstName: created.FirstName,
		LastName:  created.LastName,
		Token:     token,
		Verified:  created.Verified,
		Message:   "Register success! Please activate your email to start",
	}, nil
}

// generateUsername joins the names and appends random digits until the
// username is free.
func (s *UserService) generateUsername(ctx context.Context, base string) (string, error) {
	username := strings.ReplaceAll(base, " ", "")
	for {
		taken, err := s.store.UsernameExists(ctx, username)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %v", err)
		}
		if !taken {
			return username, nil
		}
		username += randomDigits(1)
	}
}

// ActivateAccount marks the account verified. The activation token must
// belong to the caller.
func (s *UserService) ActivateAccount(ctx context.Context, callerID, token string) error {
	claims, err := jwtutil.ParseToken(token, s.cfg.JWTSecret)
	if err != nil {
		return apperr.Unauthorizedf("invalid activation token")
	}
	if claims.UserID != callerID {
		return apperr.Unauthorizedf("you don't have the authorization to complete this operation")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return apperr.Invalidf("invalid user id")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return apperr.Conflictf("this account is already activated")
	}

	return s.store.UpdateFields(ctx, userID, map[string]interface{}{"verified": true})
}

// SendVerification re-sends the activation link for an unverified account.
func (s *UserService) SendVerification(ctx context.Context, userID primitive.ObjectID) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return apperr.Conflictf("this account is already activated")
	}

	s.sendActivationLink(user)
	return nil
}

func (s *UserService) sendActivationLink(user *models.User) {
	token, err := jwtutil.GenerateToken(user.ID.Hex(), s.cfg.JWTSecret, s.cfg.TokenExpiry)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate activation token")
		return
	}
	url := fmt.Sprintf("%s/activate/%s", s.cfg.BaseURL, token)
	if err := s.mailer.SendVerificationEmail(user.Email, user.FirstName, url); err != nil {
		logrus.WithError(err).Error("Failed to send verification email")
		return
	}
	logrus.Infof("Sent verification email to %s", user.Email)
}

// AuthenticateUser checks credentials and issues a bearer token.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error) {
	logrus.WithField("email", email).Info("Authenticating user")

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.NotFoundf("this email is not connected to an account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, apperr.Unauthorizedf("invalid credentials, please try again")
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), s.cfg.JWTSecret, s.cfg.TokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %v", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return &AuthResponse{
		ID:        user.ID,
		Username:  user.Username,
		Picture:   user.Picture,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Token:     token,
		Verified:  user.Verified,
	}, nil
}

// FindUser returns the email and picture of the account, used by the
// password reset flow to confirm the target account.
func (s *UserService) FindUser(ctx context.Context, email string) (map[string]string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"email":   user.Email,
		"picture": user.Picture,
	}, nil
}

// SendResetCode stores a fresh five-digit code for the account and mails it.
// Any previously issued code is superseded.
func (s *UserService) SendResetCode(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	code := randomDigits(5)
	if err := s.codes.ReplaceCode(ctx, user.ID, code); err != nil {
		return err
	}

	if err := s.mailer.SendResetCode(user.Email, user.FirstName, code); err != nil {
		logrus.WithError(err).Error("Failed to send reset code email")
	}
	return nil
}

// ValidateResetCode checks the submitted code and consumes it on success.
func (s *UserService) ValidateResetCode(ctx context.Context, email, code string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	stored, err := s.codes.GetCodeByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if stored.Code != code {
		return apperr.Invalidf("verification code is wrong")
	}

	return s.codes.DeleteCodeByUser(ctx, user.ID)
}

// ChangePassword replaces the account password.
func (s *UserService) ChangePassword(ctx context.Context, email, password string) error {
	if !validation.ValidateLength(password, 6, 40) {
		return apperr.Invalidf("password must be between 6 and 40 characters")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	return s.store.UpdatePasswordByEmail(ctx, email, string(hashedPwd))
}

// UpdateProfilePicture sets the profile image reference.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID primitive.ObjectID, url string) error {
	if url == "" {
		return apperr.Invalidf("missing picture url")
	}
	return s.store.UpdateFields(ctx, userID, map[string]interface{}{"picture": url})
}

// UpdateCover sets the cover image reference.
func (s *UserService) UpdateCover(ctx context.Context, userID primitive.ObjectID, url string) error {
	if url == "" {
		return apperr.Invalidf("missing cover url")
	}
	return s.store.UpdateFields(ctx, userID, map[string]interface{}{"cover": url})
}

// UpdateDetails replaces the free-form profile details blob. The values are
// stored as given, without interpretation.
func (s *UserService) UpdateDetails(ctx context.Context, userID primitive.ObjectID, details map[string]interface{}) (map[string]interface{}, error) {
	if err := s.store.UpdateFields(ctx, userID, map[string]interface{}{"details": details}); err != nil {
		return nil, err
	}
	return details, nil
}

// ProfileResponse is the profile page payload.
type ProfileResponse struct {
	User       *models.User        `json:"user"`
	Posts      []models.FeedPost   `json:"posts"`
	Friends    []models.PublicUser `json:"friends"`
	Friendship models.Friendship   `json:"friendship"`
}

// GetProfile resolves a profile by username, derives the friendship
// descriptor against the viewer and returns the profile's posts newest
// first along with its friends list.
func (s *UserService) GetProfile(ctx context.Context, viewerID primitive.ObjectID, username string) (*ProfileResponse, error) {
	viewer, err := s.store.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	friendship := ComputeFriendship(viewer, profile)

	posts, err := s.posts.GetPostsByAuthors(ctx, []primitive.ObjectID{profile.ID})
	if err != nil {
		return nil, err
	}
	sortPostsByRecency(posts)

	author := profile.Public()
	feed := make([]models.FeedPost, 0, len(posts))
	for _, post := range posts {
		feed = append(feed, models.FeedPost{Post: post, Author: author})
	}

	friendUsers, err := s.store.GetUsersByIDs(ctx, profile.Friends)
	if err != nil {
		return nil, err
	}
	friends := make([]models.PublicUser, 0, len(friendUsers))
	for _, friend := range friendUsers {
		friends = append(friends, friend.Public())
	}

	return &ProfileResponse{
		User:       profile,
		Posts:      feed,
		Friends:    friends,
		Friendship: friendship,
	}, nil
}

// ComputeFriendship derives the viewer/profile relationship flags from the
// relation sets. Friendship requires membership on both sides.
func ComputeFriendship(viewer, profile *models.User) models.Friendship {
	return models.Friendship{
		Friends:         models.Contains(viewer.Friends, profile.ID) && models.Contains(profile.Friends, viewer.ID),
		Following:       models.Contains(viewer.Following, profile.ID),
		RequestSent:     models.Contains(profile.Requests, viewer.ID),
		RequestReceived: models.Contains(viewer.Requests, profile.ID),
	}
}

// sortPostsByRecency orders posts newest first, stable for equal timestamps.
func sortPostsByRecency(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// randomDigits returns n random decimal digits.
func randomDigits(n int) string {
	const digits = "0123456789"
	out := make([]byte, n)
	for i := range out {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		out[i] = digits[num.Int64()]
	}
	return string(out)
}
