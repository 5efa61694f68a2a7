package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Marin-gh/shopping-app-backend/internal/auth"
	"github.com/Marin-gh/shopping-app-backend/internal/cache"
	memorystore "github.com/Marin-gh/shopping-app-backend/internal/docstore/memory"
	"github.com/Marin-gh/shopping-app-backend/internal/domain"
	"github.com/Marin-gh/shopping-app-backend/internal/event"
	"github.com/Marin-gh/shopping-app-backend/internal/repository/docrepo"
	memorystorage "github.com/Marin-gh/shopping-app-backend/internal/storage/memory"
	pkgkafka "github.com/Marin-gh/shopping-app-backend/pkg/kafka"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// testEnv wires the full service stack over in-memory collaborators. The
// Kafka producer points at a broker that is not running, so publishes fail
// silently, and the Redis cache client likewise degrades to pass-through.
type testEnv struct {
	users    *docrepo.UserRepository
	products *docrepo.ProductRepository
	reviews  *docrepo.ReviewRepository
	storage  *memorystorage.Storage
	jwt      *auth.JWTManager

	refs   *RefMaintainer
	rating *RatingAggregator
	guard  *AuthzGuard

	userSvc    *UserService
	productSvc *ProductService
	reviewSvc  *ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := newTestLogger()

	store := memorystore.New()
	users := docrepo.NewUserRepository(store)
	products := docrepo.NewProductRepository(store)
	reviews := docrepo.NewReviewRepository(store)

	blobs := memorystorage.New("http://localhost:8080")

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	events := event.NewProducer(kafkaProducer, logger)

	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379", DialTimeout: 100 * time.Millisecond})
	productCache := cache.NewProductCache(redisClient, time.Minute)

	refs := NewRefMaintainer(users, products, logger)
	rating := NewRatingAggregator(products, reviews, logger)
	guard := NewAuthzGuard(products, reviews)
	locks := NewKeyedMutex()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	return &testEnv{
		users:    users,
		products: products,
		reviews:  reviews,
		storage:  blobs,
		jwt:      jwtManager,
		refs:     refs,
		rating:   rating,
		guard:    guard,
		userSvc:  NewUserService(users, jwtManager, events, logger),
		productSvc: NewProductService(
			products, reviews, refs, rating, guard, blobs, productCache, events, locks, logger,
		),
		reviewSvc: NewReviewService(
			products, reviews, refs, rating, guard, productCache, events, locks, logger,
		),
	}
}

// seedUser inserts a user document directly into the store.
func (e *testEnv) seedUser(t *testing.T, id string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:        id,
		FirstName: "Ana",
		LastName:  "Horvat",
		Email:     id + "@example.com",
		Products:  []string{},
		Reviews:   []string{},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

// seedProduct creates a product through the service so back-links and
// images are wired the same way production writes are.
func (e *testEnv) seedProduct(t *testing.T, authorID string, images ...ImageUpload) *domain.Product {
	t.Helper()
	product, err := e.productSvc.CreateProduct(context.Background(), &CreateProductInput{
		Title:       "Old bicycle",
		Description: "Ridden but reliable.",
		Price:       120,
		Location:    "Zagreb",
		AuthorID:    authorID,
		Images:      images,
	})
	require.NoError(t, err)
	return product
}
