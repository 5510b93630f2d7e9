package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	config "github.com/maheshrc27/flowsocial/configs"
	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/internal/transfer"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type AuthService interface {
	LoginURL(state string) string
	LoginCallback(ctx context.Context, code string) (int64, error)
}

type authService struct {
	oauth     *oauth2.Config
	u         repository.UserRepository
	fetchUser func(ctx context.Context, client *http.Client) (*transfer.GoogleUserInfo, error)
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes: []string{
				googleoauth2.UserinfoEmailScope,
				googleoauth2.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
		u:         u,
		fetchUser: googleUserInfo,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *authService) LoginCallback(ctx context.Context, code string) (int64, error) {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return 0, err
	}

	if s.oauth.ClientID == "" || s.oauth.ClientSecret == "" || s.oauth.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return 0, err
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	info, err := s.fetchUser(ctx, s.oauth.Client(ctx, token))
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	if info.Email == "" {
		return 0, errors.New("google account has no email")
	}

	user, isExist, err := s.u.GetByEmail(ctx, info.Email)
	if err != nil {
		return 0, err
	}

	if !isExist {
		userID, err := s.u.Create(ctx, nil, &models.User{
			GoogleID:       info.ID,
			Email:          info.Email,
			Name:           info.Name,
			ProfilePicture: info.Picture,
		})
		if err != nil {
			slog.Info(err.Error())
			return 0, err
		}
		slog.Info("user created", "user_id", userID)
		return userID, nil
	}

	// accounts created through checkout have no google id yet
	if user.GoogleID != info.ID || user.Name != info.Name || user.ProfilePicture != info.Picture {
		user.GoogleID = info.ID
		user.Name = info.Name
		user.ProfilePicture = info.Picture
		if err := s.u.Update(ctx, user); err != nil {
			return 0, err
		}
	}

	return user.ID, nil
}

func googleUserInfo(ctx context.Context, client *http.Client) (*transfer.GoogleUserInfo, error) {
	svc, err := googleoauth2.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return &transfer.GoogleUserInfo{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
