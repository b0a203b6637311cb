package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stacksapp/stacks-api/internal/domain/entity"
	repo "github.com/stacksapp/stacks-api/internal/domain/repository"
	"github.com/stacksapp/stacks-api/pkg/helpers"
	"github.com/stacksapp/stacks-api/pkg/mailer"
)

// MerchantService owns merchant signup, profile reads/updates and logo
// upload URL signing.
type MerchantService struct {
	Users     repo.UserRepository
	Merchants repo.MerchantRepository
	Logger    *logrus.Logger
	Pub       *helpers.RabbitPublisher
	GCS       *storage.Client
	GCSBucket string
}

func NewMerchantService(users repo.UserRepository, merchants repo.MerchantRepository, logger *logrus.Logger, pub *helpers.RabbitPublisher, gcs *storage.Client, bucket string) *MerchantService {
	return &MerchantService{
		Users:     users,
		Merchants: merchants,
		Logger:    logger,
		Pub:       pub,
		GCS:       gcs,
		GCSBucket: bucket,
	}
}

var merchantUpdateAllowed = map[string]bool{
	"name":     true,
	"category": true,
	"email":    true,
	"logo":     true,
	"address":  true,
	"phone":    true,
	"lat":      true,
	"lng":      true,
}

type MerchantSignupInput struct {
	Email    string
	Password string
	Name     string
	Category string
	Address  string
	Phone    string
	Lat      float64
	Lng      float64
}

// Signup provisions a merchant account in two steps: create the owning user,
// then create the merchant profile. The two stores are independent, so a
// failure on step two triggers a compensating delete of the user created
// moments before. A failed compensation is logged and never surfaced.
func (s *MerchantService) Signup(ctx context.Context, in MerchantSignupInput) (*entity.Merchant, error) {
	taken, err := s.Users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:      in.Email,
		Password:   hash,
		IsMerchant: true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	m := &entity.Merchant{
		OwnerID:  u.ID,
		Name:     strings.TrimSpace(in.Name),
		Category: in.Category,
		Address:  in.Address,
		Phone:    in.Phone,
		Lat:      in.Lat,
		Lng:      in.Lng,
	}
	if err := s.Merchants.Create(ctx, m); err != nil {
		if delErr := s.Users.Delete(ctx, u.ID); delErr != nil && s.Logger != nil {
			s.Logger.WithError(delErr).WithField("user_id", u.ID).Error("signup compensation failed, orphaned user left behind")
		}
		return nil, err
	}

	s.publishWelcome(ctx, u.Email, m.Name)
	return m, nil
}

// Profile returns the merchant owned by the requesting user.
func (s *MerchantService) Profile(ctx context.Context, userID string) (*entity.Merchant, error) {
	m, err := s.Merchants.GetByOwner(ctx, userID)
	if err != nil {
		return nil, maskNotFound(err)
	}
	return m, nil
}

// Update mutates an allow-listed field set on the merchant. The email field
// belongs to the owning user record and is split out and applied there; the
// rest is one conditional write scoped by {id, owner}, so a merchant the
// requesting user does not own is indistinguishable from one that does not
// exist.
func (s *MerchantService) Update(ctx context.Context, userID, merchantID string, fields []Field) (*entity.Merchant, error) {
	if err := checkAllowed(fields, merchantUpdateAllowed); err != nil {
		return nil, err
	}

	var upd repo.MerchantUpdate
	var email *string
	hasMerchantFields := false
	for _, f := range fields {
		if f.Name == "email" {
			v, err := stringValue(f)
			if err != nil {
				return nil, err
			}
			email = &v
			continue
		}
		hasMerchantFields = true
		switch f.Name {
		case "lat", "lng":
			v, err := floatValue(f)
			if err != nil {
				return nil, err
			}
			if f.Name == "lat" {
				upd.Lat = &v
			} else {
				upd.Lng = &v
			}
		default:
			v, err := stringValue(f)
			if err != nil {
				return nil, err
			}
			switch f.Name {
			case "name":
				upd.Name = &v
			case "category":
				upd.Category = &v
			case "logo":
				upd.LogoURL = &v
			case "address":
				upd.Address = &v
			case "phone":
				upd.Phone = &v
			}
		}
	}

	var m *entity.Merchant
	var err error
	if hasMerchantFields {
		m, err = s.Merchants.UpdateOwned(ctx, merchantID, userID, upd)
		if err != nil {
			return nil, maskNotFound(err)
		}
	} else {
		// email-only update: still verify the addressed merchant is the
		// caller's own before touching the user record
		m, err = s.Merchants.GetByOwner(ctx, userID)
		if err != nil || m.ID != merchantID {
			return nil, ErrCannotMutate
		}
	}

	if email != nil {
		if _, err := s.Users.UpdateProfile(ctx, userID, repo.UserProfileUpdate{Email: email}); err != nil {
			return nil, maskNotFound(err)
		}
	}
	return m, nil
}

// UploadURL is a signed PUT target for a logo object plus the public URL the
// object will have once uploaded.
type UploadURL struct {
	SignedURL string `json:"signed_request"`
	PublicURL string `json:"url"`
}

// SignLogoUpload issues a short-lived V4 signed upload URL for a merchant
// logo. The object path is randomized so uploads never clobber each other.
func (s *MerchantService) SignLogoUpload(filename, contentType string) (*UploadURL, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, fmt.Errorf("object storage not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	object := filepath.ToSlash(filepath.Join("logos", uuid.NewString()+ext))

	signed, err := s.GCS.Bucket(s.GCSBucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      "PUT",
		Expires:     time.Now().Add(time.Minute),
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}
	return &UploadURL{
		SignedURL: signed,
		PublicURL: helpers.PublicURL(s.GCSBucket, object),
	}, nil
}

func (s *MerchantService) publishWelcome(ctx context.Context, email, name string) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       email,
		Template: "merchant_welcome",
		Data:     map[string]any{"Name": name},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", email).Warn("welcome email enqueue failed")
	}
}
