package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/novatube/user-service/internal/domain"
	"github.com/novatube/user-service/internal/dto"
	"github.com/novatube/user-service/internal/helper"
	"github.com/novatube/user-service/internal/helper/utils"
	"github.com/novatube/user-service/internal/interfaces"
	"github.com/novatube/user-service/internal/repository"
)

type UserService interface {
	// Auth
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.UserResponse, error)
	Login(input dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(userID uint) error
	RefreshAccessToken(presented string) (*dto.TokenPair, error)
	ChangePassword(userID uint, input dto.ChangePasswordRequest) error

	// Profile
	GetCurrentUser(userID uint) (*dto.UserResponse, error)
	GetAllUsers() ([]dto.UserResponse, error)
	UpdateUserDetails(userID uint, input dto.UpdateUserDetails) (*dto.UserResponse, error)
	UpdateAvatar(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error)
	UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error)

	// Channel
	GetChannelProfile(username string, viewerID uint) (*dto.ChannelProfileResponse, error)
}

type userService struct {
	repo  repository.UserRepository
	subs  repository.SubscriptionRepository
	media interfaces.MediaStore
	auth  helper.Auth

	// messaging
	producer interfaces.ProducerHandler
}

func NewUserService(
	repo repository.UserRepository,
	subs repository.SubscriptionRepository,
	media interfaces.MediaStore,
	producer interfaces.ProducerHandler,
	auth helper.Auth,
) UserService {
	return &userService{
		repo:     repo,
		subs:     subs,
		media:    media,
		producer: producer,
		auth:     auth,
	}
}

// AUTH

func (u *userService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.UserResponse, error) {
	username := normalize(input.Username)
	email := normalize(input.Email)
	fullname := strings.TrimSpace(input.Fullname)

	if username == "" || email == "" || fullname == "" || strings.TrimSpace(input.Password) == "" {
		return nil, utils.BadRequest("All fields are required")
	}

	existing, err := u.repo.FindByUsernameOrEmail(username, email)
	if err != nil {
		return nil, utils.Internal("failed to check existing user")
	}
	if existing != nil {
		return nil, utils.Conflict("Username or email already exists")
	}

	if input.AvatarPath == "" {
		return nil, utils.BadRequest("Avatar image required")
	}

	avatarURL, err := u.media.Upload(ctx, input.AvatarPath)
	if err != nil {
		return nil, utils.Internal("avatar upload failed")
	}
	if avatarURL == "" {
		return nil, utils.BadRequest("Avatar image could not be uploaded")
	}

	// cover image is optional and its upload failure is not fatal
	coverURL := ""
	if input.CoverImagePath != "" {
		coverURL, err = u.media.Upload(ctx, input.CoverImagePath)
		if err != nil {
			log.Printf("cover image upload error: %v", err)
			coverURL = ""
		}
	}

	hashed, err := u.auth.HashPassword(input.Password)
	if err != nil {
		return nil, utils.Internal("failed to hash password")
	}

	user, err := u.repo.CreateUser(&domain.User{
		Username:     username,
		Email:        email,
		Fullname:     fullname,
		PasswordHash: hashed,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
	})
	if err != nil {
		// the unique index is the real guard: the pre-flight check above
		// races with concurrent registrations
		if repository.IsDuplicateKey(err) {
			return nil, utils.Conflict("Username or email already exists")
		}
		return nil, utils.Internal("failed to create user")
	}

	created, err := u.repo.FindUserByIDRedacted(user.ID)
	if err != nil || created == nil {
		return nil, utils.Internal("Something went wrong while creating the user")
	}

	u.publishEvent("user.registered", created.ID, created.Email)

	resp := dto.NewUserResponse(created)
	return &resp, nil
}

func (u *userService) Login(input dto.LoginRequest) (*dto.LoginResponse, error) {
	username := normalize(input.Username)
	email := normalize(input.Email)
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || password == "" {
		return nil, utils.BadRequest("Username, email and password are required")
	}

	// deliberately vague on lookup miss to avoid user enumeration
	user, err := u.repo.FindByUsernameAndEmail(username, email)
	if err != nil {
		return nil, utils.Internal("failed to look up user")
	}
	if user == nil {
		return nil, utils.BadRequest("Invalid credentials")
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, utils.Unauthorized("Invalid user credentials")
	}

	pair, err := u.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	redacted, err := u.repo.FindUserByIDRedacted(user.ID)
	if err != nil || redacted == nil {
		return nil, utils.Internal("failed to load user")
	}

	u.publishEvent("user.logged_in", user.ID, user.Email)

	return &dto.LoginResponse{
		User:         dto.NewUserResponse(redacted),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (u *userService) Logout(userID uint) error {
	if _, err := u.repo.UpdateFields(userID, map[string]interface{}{"refresh_token": ""}); err != nil {
		return utils.Internal("failed to log out")
	}
	return nil
}

func (u *userService) RefreshAccessToken(presented string) (*dto.TokenPair, error) {
	presented = strings.TrimSpace(presented)
	if presented == "" {
		return nil, utils.BadRequest("Refresh token is required")
	}

	claims, err := u.auth.VerifyRefreshToken(presented)
	if err != nil {
		// expired and invalid collapse to one client-facing error;
		// the distinction stays in the logs
		log.Printf("refresh token rejected: %v", err)
		return nil, utils.Unauthorized("Invalid refresh token")
	}

	user, err := u.repo.FindUserByID(claims.UserID)
	if err != nil {
		return nil, utils.Internal("failed to look up user")
	}
	if user == nil {
		return nil, utils.Unauthorized("Invalid refresh token")
	}

	// verbatim comparison against the stored value is what makes rotation
	// effective: a previously issued token is still well signed but no
	// longer matches
	if user.RefreshToken == "" || user.RefreshToken != presented {
		return nil, utils.Unauthorized("Refresh token is expired or already used")
	}

	return u.issueTokenPair(user)
}

func (u *userService) ChangePassword(userID uint, input dto.ChangePasswordRequest) error {
	oldPassword := strings.TrimSpace(input.OldPassword)
	newPassword := strings.TrimSpace(input.NewPassword)
	confirm := strings.TrimSpace(input.ConfirmPassword)

	if oldPassword == "" || newPassword == "" || confirm == "" {
		return utils.BadRequest("All password fields are required")
	}
	if newPassword != confirm {
		return utils.BadRequest("New password and confirmation do not match")
	}

	user, err := u.repo.FindUserByID(userID)
	if err != nil || user == nil {
		return utils.Internal("failed to load user")
	}

	if err := u.auth.VerifyPassword(oldPassword, user.PasswordHash); err != nil {
		return utils.BadRequest("Invalid old password")
	}

	hashed, err := u.auth.HashPassword(newPassword)
	if err != nil {
		return utils.Internal("failed to hash password")
	}

	if _, err := u.repo.UpdateFields(userID, map[string]interface{}{"password_hash": hashed}); err != nil {
		return utils.Internal("failed to update password")
	}

	return nil
}

// PROFILE

func (u *userService) GetCurrentUser(userID uint) (*dto.UserResponse, error) {
	user, err := u.repo.FindUserByIDRedacted(userID)
	if err != nil {
		return nil, utils.Internal("failed to load user")
	}
	if user == nil {
		return nil, utils.NotFound("User not found")
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (u *userService) GetAllUsers() ([]dto.UserResponse, error) {
	users, err := u.repo.FindAllRedacted()
	if err != nil {
		return nil, utils.Internal("failed to list users")
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return out, nil
}

func (u *userService) UpdateUserDetails(userID uint, input dto.UpdateUserDetails) (*dto.UserResponse, error) {
	username := normalize(input.Username)
	fullname := strings.TrimSpace(input.Fullname)

	if username == "" || fullname == "" {
		return nil, utils.BadRequest("Username and fullname are required")
	}

	updated, err := u.repo.UpdateFields(userID, map[string]interface{}{
		"username": username,
		"fullname": fullname,
	})
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, utils.Conflict("Username already exists")
		}
		return nil, utils.Internal("failed to update user details")
	}

	resp := dto.NewUserResponse(updated)
	return &resp, nil
}

func (u *userService) UpdateAvatar(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error) {
	return u.updateImage(ctx, userID, localPath, "avatar")
}

func (u *userService) UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error) {
	return u.updateImage(ctx, userID, localPath, "cover_image")
}

func (u *userService) updateImage(ctx context.Context, userID uint, localPath, field string) (*dto.UserResponse, error) {
	if localPath == "" {
		return nil, utils.BadRequest("Image file is required")
	}

	user, err := u.repo.FindUserByID(userID)
	if err != nil || user == nil {
		return nil, utils.Internal("failed to load user")
	}

	url, err := u.media.Upload(ctx, localPath)
	if err != nil {
		return nil, utils.Internal("image upload failed")
	}
	if url == "" {
		return nil, utils.BadRequest("Image could not be uploaded")
	}

	prevURL := user.Avatar
	if field == "cover_image" {
		prevURL = user.CoverImage
	}

	updated, err := u.repo.UpdateFields(userID, map[string]interface{}{field: url})
	if err != nil {
		return nil, utils.Internal("failed to update image")
	}

	// best effort: a failed delete of the old asset never aborts the update
	// it follows. Without a previous URL there is nothing to resolve.
	if prevURL != "" {
		if err := u.media.Destroy(ctx, u.media.PublicIDFromURL(prevURL)); err != nil {
			log.Printf("delete previous %s asset error: %v", field, err)
		}
	}

	resp := dto.NewUserResponse(updated)
	return &resp, nil
}

// CHANNEL

func (u *userService) GetChannelProfile(username string, viewerID uint) (*dto.ChannelProfileResponse, error) {
	username = normalize(username)
	if username == "" {
		return nil, utils.BadRequest("Username is missing")
	}

	channel, err := u.repo.FindUserByUsername(username)
	if err != nil {
		return nil, utils.Internal("failed to look up channel")
	}
	if channel == nil {
		return nil, utils.NotFound("Channel does not exist")
	}

	subscribers, err := u.subs.CountSubscribers(channel.ID)
	if err != nil {
		return nil, utils.Internal("failed to count subscribers")
	}
	subscribedTo, err := u.subs.CountSubscribedTo(channel.ID)
	if err != nil {
		return nil, utils.Internal("failed to count subscriptions")
	}
	isSubscribed, err := u.subs.IsSubscribed(channel.ID, viewerID)
	if err != nil {
		return nil, utils.Internal("failed to resolve subscription")
	}

	return &dto.ChannelProfileResponse{
		Username:          channel.Username,
		Fullname:          channel.Fullname,
		Email:             channel.Email,
		Avatar:            channel.Avatar,
		CoverImage:        channel.CoverImage,
		SubscribersCount:  subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

// issueTokenPair mints a fresh access/refresh pair and overwrites the
// stored refresh token. Rotation is last-write-wins across concurrent
// refreshes of the same session.
func (u *userService) issueTokenPair(user *domain.User) (*dto.TokenPair, error) {
	accessToken, err := u.auth.GenerateAccessToken(user)
	if err != nil {
		return nil, utils.Internal("could not generate access token")
	}
	refreshToken, err := u.auth.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, utils.Internal("could not generate refresh token")
	}

	if _, err := u.repo.UpdateFields(user.ID, map[string]interface{}{"refresh_token": refreshToken}); err != nil {
		return nil, utils.Internal("could not persist refresh token")
	}

	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (u *userService) publishEvent(event string, userID uint, email string) {
	if u.producer == nil {
		return
	}
	payload := fmt.Sprintf(`{"user_id":%d,"email":"%s","at":"%s"}`,
		userID, email, time.Now().Format(time.RFC3339))
	if err := u.producer.PublishMessage([]byte(event), []byte(payload)); err != nil {
		log.Printf("publish %s event error: %v", event, err)
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
