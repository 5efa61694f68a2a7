package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/Marin-gh/shopping-app-backend/pkg/errors"
)

func validProduct() *Product {
	return &Product{
		ID:          "p-1",
		Title:       "Mountain bike",
		Description: "Hardtail, barely used.",
		Price:       350,
		Location:    "Zagreb",
		AuthorID:    "u-1",
	}
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr bool
	}{
		{"valid", func(p *Product) {}, false},
		{"empty title", func(p *Product) { p.Title = "" }, true},
		{"title too long", func(p *Product) { p.Title = strings.Repeat("x", MaxTitleLen+1) }, true},
		{"title at limit", func(p *Product) { p.Title = strings.Repeat("x", MaxTitleLen) }, false},
		{"empty description", func(p *Product) { p.Description = "" }, true},
		{"description too long", func(p *Product) { p.Description = strings.Repeat("x", MaxDescriptionLen+1) }, true},
		{"negative price", func(p *Product) { p.Price = -1 }, true},
		{"zero price", func(p *Product) { p.Price = 0 }, false},
		{"empty location", func(p *Product) { p.Location = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReviewValidate(t *testing.T) {
	tests := []struct {
		name    string
		review  Review
		wantErr bool
	}{
		{"valid", Review{Body: "Great seller.", Rating: 5}, false},
		{"empty body", Review{Body: "", Rating: 3}, true},
		{"body too long", Review{Body: strings.Repeat("x", MaxBodyLen+1), Rating: 3}, true},
		{"rating too low", Review{Body: "ok", Rating: 0}, true},
		{"rating too high", Review{Body: "ok", Rating: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.review.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	u := &User{FirstName: "Ana", LastName: "Horvat", Email: "ana@example.com"}
	assert.NoError(t, u.Validate())

	u.Email = ""
	assert.ErrorIs(t, u.Validate(), apperrors.ErrValidation)
}

func TestUserPublicStripsPasswordHash(t *testing.T) {
	u := &User{ID: "u-1", Email: "ana@example.com", PasswordHash: "secret-hash"}
	pub := u.Public()
	assert.Empty(t, pub.PasswordHash)
	assert.Equal(t, "secret-hash", u.PasswordHash)
	assert.Equal(t, u.ID, pub.ID)
}
