package devserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"backoffice-client/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Server is an in-memory fixture backend implementing the back-office REST
// surface. It exists for tests and local development; nothing here persists.
type Server struct {
	secret []byte

	mu            sync.RWMutex
	nextID        int64
	users         map[int64]models.User
	passwords     map[string]string
	products      map[int64]models.Product
	categories    map[int64]models.Category
	subscriptions map[int64]models.Subscription
	slides        map[int64]models.CarouselSlide
	replies       map[string]storedReply
}

// storedReply is the remembered response for a POST carrying an
// Idempotency-Key, replayed verbatim on retries.
type storedReply struct {
	status int
	body   interface{}
}

// New creates an empty fixture backend signing tokens with secret
func New(secret string) *Server {
	return &Server{
		secret:        []byte(secret),
		nextID:        1,
		users:         make(map[int64]models.User),
		passwords:     make(map[string]string),
		products:      make(map[int64]models.Product),
		categories:    make(map[int64]models.Category),
		subscriptions: make(map[int64]models.Subscription),
		slides:        make(map[int64]models.CarouselSlide),
		replies:       make(map[string]storedReply),
	}
}

// Handler builds the gin engine with all routes registered
func (s *Server) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().Unix()})
	})

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", s.signup)
		authGroup.POST("/signin", s.signin)
		authGroup.POST("/validate", s.requireAuth, s.validate)
	}

	secured := v1.Group("", s.requireAuth)
	{
		secured.GET("/user", s.listUsers)
		secured.POST("/user", s.createUser)
		secured.GET("/user/:id", s.getUser)
		secured.PATCH("/user/:id", s.updateUser)
		secured.DELETE("/user/:id", s.deleteUser)

		secured.GET("/products", s.listProducts)
		secured.POST("/products", s.createProduct)
		secured.GET("/products/search", s.searchProducts)
		secured.GET("/products/:id", s.getProduct)
		secured.PATCH("/products/:id", s.updateProduct)
		secured.PATCH("/products/:id/images", s.uploadProductImages)
		secured.DELETE("/products/:id", s.deleteProduct)

		secured.GET("/categories", s.listCategories)
		secured.POST("/categories", s.createCategory)
		secured.GET("/categories/search", s.searchCategories)
		secured.GET("/categories/:id", s.getCategory)
		secured.PUT("/categories/:id", s.updateCategory)
		secured.DELETE("/categories/:id", s.deleteCategory)

		secured.GET("/subscriptions", s.listSubscriptions)
		secured.GET("/subscriptions/:id", s.getSubscription)
		secured.POST("/subscriptions/subscription/cancel", s.cancelSubscriptions)

		secured.GET("/carousel", s.listSlides)
		secured.POST("/carousel", s.createSlide)
		secured.GET("/carousel/:id", s.getSlide)
		secured.PATCH("/carousel/:id", s.updateSlide)
		secured.DELETE("/carousel/:id", s.deleteSlide)
	}

	return router
}

func (s *Server) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// replayed writes the remembered response for a retried POST and reports
// whether it did. Caller holds the lock.
func (s *Server) replayed(c *gin.Context) bool {
	key := c.GetHeader("Idempotency-Key")
	if key == "" {
		return false
	}
	reply, seen := s.replies[key]
	if !seen {
		return false
	}
	c.JSON(reply.status, reply.body)
	return true
}

// reply sends the response and remembers it under the request's
// Idempotency-Key. Caller holds the lock.
func (s *Server) reply(c *gin.Context, status int, body interface{}) {
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		s.replies[key] = storedReply{status: status, body: body}
	}
	c.JSON(status, body)
}

// --- auth ---

func (s *Server) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	c.Next()
}

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid signup payload"})
		return
	}

	s.mu.Lock()
	if _, exists := s.passwords[req.Email]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"message": "email already registered"})
		return
	}

	user := models.User{
		ID:        s.allocID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      models.RoleClient,
		Enabled:   true,
	}
	s.users[user.ID] = user
	s.passwords[req.Email] = req.Password
	s.mu.Unlock()

	token, err := s.issueToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials payload"})
		return
	}

	s.mu.RLock()
	password, ok := s.passwords[req.Email]
	var userID int64
	if ok {
		for _, u := range s.users {
			if u.Email == req.Email {
				userID = u.ID
				break
			}
		}
	}
	s.mu.RUnlock()

	if !ok || password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
		return
	}

	token, err := s.issueToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) validate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// --- users ---

func (s *Server) listUsers(c *gin.Context) {
	s.mu.RLock()
	list := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		list = append(list, u)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	c.JSON(http.StatusOK, list)
}

func (s *Server) createUser(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replayed(c) {
		return
	}

	user := models.User{
		ID:        s.allocID(),
		FirstName: c.PostForm("firstName"),
		LastName:  c.PostForm("lastName"),
		Email:     email,
		Phone:     c.PostForm("phone"),
		Role:      c.PostForm("role"),
		Enabled:   c.PostForm("enabled") == "true",
	}
	s.users[user.ID] = user

	s.reply(c, http.StatusCreated, user)
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.RLock()
	user, found := s.users[id]
	s.mu.RUnlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	user, found := s.users[id]
	if !found {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	setIf(c, "firstName", &user.FirstName)
	setIf(c, "lastName", &user.LastName)
	setIf(c, "email", &user.Email)
	setIf(c, "phone", &user.Phone)
	setIf(c, "role", &user.Role)
	setBoolIf(c, "enabled", &user.Enabled)

	s.users[id] = user
	s.mu.Unlock()

	c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	_, found := s.users[id]
	delete(s.users, id)
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- helpers ---

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func setIf(c *gin.Context, key string, dst *string) {
	if val, ok := c.GetPostForm(key); ok {
		*dst = val
	}
}

func setBoolIf(c *gin.Context, key string, dst *bool) {
	if val, ok := c.GetPostForm(key); ok {
		*dst = val == "true"
	}
}

func setIntIf(c *gin.Context, key string, dst *int64) {
	if val, ok := c.GetPostForm(key); ok {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			*dst = n
		}
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
