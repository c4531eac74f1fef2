package impl

// In-memory fakes backing the service tests. They honor the repository
// contracts (sentinel errors, generated IDs, preloaded associations)
// without a database.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Transaction manager ---

type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

type fakeRepoFactory struct {
	users    *fakeUserRepo
	auths    *fakeAuthRepo
	tokens   *fakeRefreshTokenRepo
	products *fakeProductRepo
	carts    *fakeCartRepo
	sessions *fakeGuestSessionRepo
	orders   *fakeOrderRepo
	reviews  *fakeReviewRepo
	posts    *fakeBlogRepo
}

func newFakeRepoFactory() *fakeRepoFactory {
	products := newFakeProductRepo()

	return &fakeRepoFactory{
		users:    &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		auths:    &fakeAuthRepo{},
		tokens:   &fakeRefreshTokenRepo{tokens: map[uuid.UUID]*entity.RefreshToken{}},
		products: products,
		carts:    newFakeCartRepo(products),
		sessions: &fakeGuestSessionRepo{sessions: map[uuid.UUID]*entity.GuestSession{}},
		orders:   &fakeOrderRepo{orders: map[string]*entity.Order{}},
		reviews:  &fakeReviewRepo{},
		posts:    &fakeBlogRepo{posts: map[string]*entity.BlogPost{}},
	}
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository                 { return f.users }
func (f *fakeRepoFactory) AuthRepo() repository.AuthRepository                 { return f.auths }
func (f *fakeRepoFactory) RefreshTokenRepo() repository.RefreshTokenRepository { return f.tokens }
func (f *fakeRepoFactory) ProductRepo() repository.ProductRepository           { return f.products }
func (f *fakeRepoFactory) CartRepo() repository.CartRepository                 { return f.carts }
func (f *fakeRepoFactory) GuestSessionRepo() repository.GuestSessionRepository { return f.sessions }
func (f *fakeRepoFactory) OrderRepo() repository.OrderRepository               { return f.orders }
func (f *fakeRepoFactory) ReviewRepo() repository.ReviewRepository             { return f.reviews }
func (f *fakeRepoFactory) BlogRepo() repository.BlogRepository                 { return f.posts }

// --- User repository ---

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.UserProfile != nil {
		user.UserProfile.UserID = user.ID
	}
	if user.MerchantProfile != nil {
		user.MerchantProfile.UserID = user.ID
	}
	r.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) AcquireSessionMutex(_ context.Context, userID uuid.UUID) error {
	if _, ok := r.users[userID]; !ok {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Auth repository ---

type fakeAuthRepo struct {
	auths []*entity.Authentication
}

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	auth.ID = uuid.New()
	auth.CreatedAt = time.Now()
	r.auths = append(r.auths, auth)

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	for _, auth := range r.auths {
		if auth.Provider == provider && auth.ProviderUserID == providerUserID {
			return auth, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) FindAuthenticationByUserIDAndProvider(_ context.Context, userID uuid.UUID, provider entity.ProviderType) (*entity.Authentication, error) {
	for _, auth := range r.auths {
		if auth.UserID == userID && auth.Provider == provider {
			return auth, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) UpdateAuthentication(_ context.Context, auth *entity.Authentication) error {
	for i, existing := range r.auths {
		if existing.ID == auth.ID {
			r.auths[i] = auth

			return nil
		}
	}

	return repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) DeleteAuthentication(_ context.Context, id uuid.UUID) error {
	for i, auth := range r.auths {
		if auth.ID == id {
			r.auths = append(r.auths[:i], r.auths[i+1:]...)

			return nil
		}
	}

	return repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) ListAuthenticationsByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Authentication, error) {
	var result []*entity.Authentication
	for _, auth := range r.auths {
		if auth.UserID == userID {
			result = append(result, auth)
		}
	}

	return result, nil
}

// --- Refresh token repository ---

type fakeRefreshTokenRepo struct {
	tokens map[uuid.UUID]*entity.RefreshToken
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	r.tokens[token.ID] = token

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			if time.Now().After(token.ExpiresAt) {
				return nil, repository.ErrRefreshTokenExpired
			}

			return token, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByID(_ context.Context, id uuid.UUID) (*entity.RefreshToken, error) {
	token, ok := r.tokens[id]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}

	return token, nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokensByUserID(_ context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	var result []*entity.RefreshToken
	for _, token := range r.tokens {
		if token.UserID == userID && time.Now().Before(token.ExpiresAt) {
			result = append(result, token)
		}
	}

	return result, nil
}

func (r *fakeRefreshTokenRepo) UpdateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	if _, ok := r.tokens[token.ID]; !ok {
		return repository.ErrRefreshTokenNotFound
	}
	r.tokens[token.ID] = token

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshToken(_ context.Context, id uuid.UUID) error {
	delete(r.tokens, id)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	for id, token := range r.tokens {
		if token.TokenHash == tokenHash {
			delete(r.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	for id, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpiredRefreshTokens(_ context.Context) error {
	for id, token := range r.tokens {
		if time.Now().After(token.ExpiresAt) {
			delete(r.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) CountActiveSessionsByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, token := range r.tokens {
		if token.UserID == userID && time.Now().Before(token.ExpiresAt) {
			count++
		}
	}

	return count, nil
}

// --- Product repository ---

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
	order    []uuid.UUID
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*entity.Product{}}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return product, nil
}

func (r *fakeProductRepo) FindActiveByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	product, ok := r.products[id]
	if !ok || !product.IsActive {
		return nil, repository.ErrProductNotFound
	}

	return product, nil
}

func (r *fakeProductRepo) FindActiveByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	result := map[uuid.UUID]*entity.Product{}
	for _, id := range ids {
		if product, ok := r.products[id]; ok && product.IsActive {
			result[id] = product
		}
	}

	return result, nil
}

func (r *fakeProductRepo) ListActive(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var result []*entity.Product
	for i := len(r.order) - 1; i >= 0; i-- {
		product := r.products[r.order[i]]
		if !product.IsActive {
			continue
		}
		if filter.ProductType != "" && product.ProductType != filter.ProductType {
			continue
		}
		if filter.FeaturedOnly && !product.IsFeatured {
			continue
		}
		result = append(result, product)
	}

	return result, nil
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	for _, existing := range r.products {
		if existing.SKU == product.SKU {
			return repository.ErrProductSKUConflict
		}
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = product
	r.order = append(r.order, product.ID)

	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	for _, existing := range r.products {
		if existing.SKU == product.SKU && existing.ID != product.ID {
			return repository.ErrProductSKUConflict
		}
	}
	r.products[product.ID] = product

	return nil
}

// --- Cart repository ---

type fakeCartRepo struct {
	carts     map[uuid.UUID]*entity.Cart
	lines     map[uuid.UUID]map[uuid.UUID]*entity.CartLine
	lineOrder map[uuid.UUID][]uuid.UUID
	products  *fakeProductRepo
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{
		carts:     map[uuid.UUID]*entity.Cart{},
		lines:     map[uuid.UUID]map[uuid.UUID]*entity.CartLine{},
		lineOrder: map[uuid.UUID][]uuid.UUID{},
		products:  products,
	}
}

func (r *fakeCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Cart, error) {
	for _, cart := range r.carts {
		if cart.UserID != nil && *cart.UserID == userID {
			return r.loadCart(cart), nil
		}
	}

	return nil, repository.ErrCartNotFound
}

func (r *fakeCartRepo) FindByGuestSessionID(_ context.Context, sessionID uuid.UUID) (*entity.Cart, error) {
	for _, cart := range r.carts {
		if cart.GuestSessionID != nil && *cart.GuestSessionID == sessionID {
			return r.loadCart(cart), nil
		}
	}

	return nil, repository.ErrCartNotFound
}

func (r *fakeCartRepo) loadCart(cart *entity.Cart) *entity.Cart {
	loaded := *cart
	loaded.Lines = nil
	for _, productID := range r.lineOrder[cart.ID] {
		line := *r.lines[cart.ID][productID]
		line.Product = r.products.products[line.ProductID]
		loaded.Lines = append(loaded.Lines, &line)
	}

	return &loaded
}

func (r *fakeCartRepo) Create(_ context.Context, cart *entity.Cart) error {
	for _, existing := range r.carts {
		if cart.UserID != nil && existing.UserID != nil && *existing.UserID == *cart.UserID {
			return repository.ErrCartOwnerConflict
		}
		if cart.GuestSessionID != nil && existing.GuestSessionID != nil && *existing.GuestSessionID == *cart.GuestSessionID {
			return repository.ErrCartOwnerConflict
		}
	}
	cart.ID = uuid.New()
	cart.CreatedAt = time.Now()
	cart.UpdatedAt = cart.CreatedAt
	r.carts[cart.ID] = cart
	r.lines[cart.ID] = map[uuid.UUID]*entity.CartLine{}

	return nil
}

func (r *fakeCartRepo) UpsertLine(_ context.Context, cartID, productID uuid.UUID, quantity int) (bool, error) {
	cartLines, ok := r.lines[cartID]
	if !ok {
		return false, repository.ErrCartNotFound
	}

	if line, ok := cartLines[productID]; ok {
		line.Quantity += quantity
		line.UpdatedAt = time.Now()

		return false, nil
	}

	cartLines[productID] = &entity.CartLine{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.lineOrder[cartID] = append(r.lineOrder[cartID], productID)

	return true, nil
}

func (r *fakeCartRepo) FindLine(_ context.Context, cartID, productID uuid.UUID) (*entity.CartLine, error) {
	line, ok := r.lines[cartID][productID]
	if !ok {
		return nil, repository.ErrCartLineNotFound
	}
	loaded := *line
	loaded.Product = r.products.products[productID]

	return &loaded, nil
}

func (r *fakeCartRepo) SetLineQuantity(_ context.Context, cartID, productID uuid.UUID, quantity int) error {
	line, ok := r.lines[cartID][productID]
	if !ok {
		return repository.ErrCartLineNotFound
	}
	line.Quantity = quantity
	line.UpdatedAt = time.Now()

	return nil
}

func (r *fakeCartRepo) DeleteLine(_ context.Context, cartID, productID uuid.UUID) error {
	if _, ok := r.lines[cartID][productID]; !ok {
		return repository.ErrCartLineNotFound
	}
	delete(r.lines[cartID], productID)
	order := r.lineOrder[cartID]
	for i, id := range order {
		if id == productID {
			r.lineOrder[cartID] = append(order[:i], order[i+1:]...)

			break
		}
	}

	return nil
}

func (r *fakeCartRepo) DeleteLines(_ context.Context, cartID uuid.UUID) (int, error) {
	removed := len(r.lines[cartID])
	r.lines[cartID] = map[uuid.UUID]*entity.CartLine{}
	r.lineOrder[cartID] = nil

	return removed, nil
}

func (r *fakeCartRepo) DeleteCart(_ context.Context, cartID uuid.UUID) error {
	delete(r.carts, cartID)
	delete(r.lines, cartID)
	delete(r.lineOrder, cartID)

	return nil
}

// --- Guest session repository ---

type fakeGuestSessionRepo struct {
	sessions map[uuid.UUID]*entity.GuestSession
}

func (r *fakeGuestSessionRepo) Create(_ context.Context, session *entity.GuestSession) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	r.sessions[session.ID] = session

	return nil
}

func (r *fakeGuestSessionRepo) FindByToken(_ context.Context, token string) (*entity.GuestSession, error) {
	for _, session := range r.sessions {
		if session.Token == token {
			return session, nil
		}
	}

	return nil, repository.ErrGuestSessionNotFound
}

func (r *fakeGuestSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sessions, id)

	return nil
}

func (r *fakeGuestSessionRepo) DeleteExpired(_ context.Context) (int, error) {
	removed := 0
	for id, session := range r.sessions {
		if session.IsExpired(time.Now()) {
			delete(r.sessions, id)
			removed++
		}
	}

	return removed, nil
}

// --- Order repository ---

type fakeOrderRepo struct {
	orders      map[string]*entity.Order
	sequence    []string
	failCreates int
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	if r.failCreates > 0 {
		r.failCreates--

		return repository.ErrOrderNumberConflict
	}
	if _, ok := r.orders[order.OrderNumber]; ok {
		return repository.ErrOrderNumberConflict
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for _, item := range order.Items {
		item.ID = uuid.New()
		item.OrderID = order.ID
	}
	r.orders[order.OrderNumber] = order
	r.sequence = append(r.sequence, order.OrderNumber)

	return nil
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, orderNumber string) (*entity.Order, error) {
	order, ok := r.orders[orderNumber]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	return order, nil
}

func (r *fakeOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var result []*entity.Order
	for i := len(r.sequence) - 1; i >= 0; i-- {
		order := r.orders[r.sequence[i]]
		if order.UserID != nil && *order.UserID == userID {
			result = append(result, order)
		}
	}

	return result, nil
}

// --- Review repository ---

type fakeReviewRepo struct {
	reviews []*entity.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	for _, existing := range r.reviews {
		if existing.ProductID == review.ProductID && existing.UserID == review.UserID {
			return repository.ErrDuplicateReview
		}
	}
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	r.reviews = append(r.reviews, review)

	return nil
}

func (r *fakeReviewRepo) FindByProductID(_ context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	var result []*entity.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ProductID == productID {
			result = append(result, r.reviews[i])
		}
	}

	return result, nil
}

func (r *fakeReviewRepo) SummarizeByProductID(_ context.Context, productID uuid.UUID) (*entity.ReviewSummary, error) {
	summary := &entity.ReviewSummary{ProductID: productID}
	total := 0
	for _, review := range r.reviews {
		if review.ProductID == productID {
			summary.ReviewCount++
			total += review.Rating
		}
	}
	if summary.ReviewCount > 0 {
		summary.AverageRating = float64(total) / float64(summary.ReviewCount)
	}

	return summary, nil
}

// --- Blog repository ---

type fakeBlogRepo struct {
	posts    map[string]*entity.BlogPost
	sequence []string
}

func (r *fakeBlogRepo) Create(_ context.Context, post *entity.BlogPost) error {
	if _, ok := r.posts[post.Slug]; ok {
		return repository.ErrPostSlugConflict
	}
	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.posts[post.Slug] = post
	r.sequence = append(r.sequence, post.Slug)

	return nil
}

func (r *fakeBlogRepo) Update(_ context.Context, post *entity.BlogPost) error {
	if _, ok := r.posts[post.Slug]; !ok {
		return repository.ErrPostNotFound
	}
	post.UpdatedAt = time.Now()
	r.posts[post.Slug] = post

	return nil
}

func (r *fakeBlogRepo) FindBySlug(_ context.Context, slug string) (*entity.BlogPost, error) {
	post, ok := r.posts[slug]
	if !ok {
		return nil, repository.ErrPostNotFound
	}

	return post, nil
}

func (r *fakeBlogRepo) ListPublished(_ context.Context) ([]*entity.BlogPost, error) {
	var result []*entity.BlogPost
	for i := len(r.sequence) - 1; i >= 0; i-- {
		if post := r.posts[r.sequence[i]]; post.IsPublished {
			result = append(result, post)
		}
	}

	return result, nil
}

// --- Domain service fakes ---

type fakeHasher struct{}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (h *fakeHasher) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password too short")
	}

	return nil
}

// fakeTokenService hands out predictable tokens and remembers which refresh
// tokens it issued, so ValidateToken can map them back to claims.
type fakeTokenService struct {
	counter int
	issued  map[string]uuid.UUID
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{issued: map[string]uuid.UUID{}}
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID, _ []string) (string, string, error) {
	s.counter++
	access := fmt.Sprintf("access-%d", s.counter)
	refresh := fmt.Sprintf("refresh-%d", s.counter)
	s.issued[refresh] = userID

	return access, refresh, nil
}

func (s *fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	userID, ok := s.issued[tokenString]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}

	return &service.Claims{UserID: userID, Type: "refresh"}, nil
}

func (s *fakeTokenService) HashToken(token string) string {
	return "h:" + token
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}

type fakeOAuthAuthService struct {
	user *service.OAuthUser
	err  error
}

func (s *fakeOAuthAuthService) VerifyIDToken(_ context.Context, _ string) (*service.OAuthUser, error) {
	return s.user, s.err
}

func (s *fakeOAuthAuthService) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

type fakeOAuthService struct {
	validState  string
	accessToken string
	user        *service.OAuthUser
}

func (s *fakeOAuthService) BuildAuthorizationURL(state string) string {
	return "https://accounts.example.com/o/oauth2/v2/auth?state=" + state
}

func (s *fakeOAuthService) ValidateState(state string) bool {
	return state != "" && state == s.validState
}

func (s *fakeOAuthService) ExchangeCodeForToken(_ context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("empty code")
	}

	return s.accessToken, nil
}

func (s *fakeOAuthService) GetUserInfo(_ context.Context, accessToken string) (*service.OAuthUser, error) {
	if accessToken != s.accessToken {
		return nil, fmt.Errorf("unknown access token")
	}

	return s.user, nil
}

func (s *fakeOAuthService) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

func (s *fakeOAuthService) ToDomainConfig() service.OAuthConfig {
	return service.OAuthConfig{Provider: entity.ProviderTypeGoogle}
}

type fakeResetTokenService struct{}

func (s *fakeResetTokenService) Generate(user *entity.User, passwordHash string) (string, error) {
	return "reset:" + user.Email + ":" + passwordHash, nil
}

func (s *fakeResetTokenService) Check(user *entity.User, passwordHash, token string) bool {
	return token == "reset:"+user.Email+":"+passwordHash
}

type sentReset struct {
	email    string
	resetURL string
}

type fakeMailer struct {
	orderSummaries []*service.OrderSummary
	resets         []sentReset
	err            error
}

func (m *fakeMailer) SendOrderConfirmation(_ context.Context, summary *service.OrderSummary) error {
	if m.err != nil {
		return m.err
	}
	m.orderSummaries = append(m.orderSummaries, summary)

	return nil
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, resetURL string) error {
	if m.err != nil {
		return m.err
	}
	m.resets = append(m.resets, sentReset{email: email, resetURL: resetURL})

	return nil
}

type fakeEventPublisher struct {
	events []*service.OrderCreatedEvent
	err    error
}

func (p *fakeEventPublisher) PublishOrderCreated(_ context.Context, event *service.OrderCreatedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)

	return nil
}

func (p *fakeEventPublisher) Close() error {
	return nil
}
