package devserver

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"backoffice-client/internal/models"

	"github.com/gin-gonic/gin"
)

// --- products ---

func (s *Server) listProducts(c *gin.Context) {
	s.mu.RLock()
	list := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	c.JSON(http.StatusOK, list)
}

func (s *Server) createProduct(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replayed(c) {
		return
	}

	product := models.Product{
		ID:              s.allocID(),
		Name:            name,
		Brand:           c.PostForm("brand"),
		Description:     c.PostForm("description"),
		Characteristics: c.PostForm("characteristics"),
		PricingModel:    c.PostForm("pricingModel"),
		Status:          c.PostForm("status"),
		Promo:           c.PostForm("promo") == "true",
		Active:          c.PostForm("active") == "true",
	}
	setIntIf(c, "amount", &product.Amount)
	setIntIf(c, "categoryId", &product.CategoryID)
	product.Images = s.collectImages(c, "images", "products")

	s.products[product.ID] = product

	s.reply(c, http.StatusCreated, product)
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.RLock()
	product, found := s.products[id]
	s.mu.RUnlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	product, found := s.products[id]
	if !found {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	setIf(c, "name", &product.Name)
	setIf(c, "brand", &product.Brand)
	setIf(c, "description", &product.Description)
	setIf(c, "characteristics", &product.Characteristics)
	setIf(c, "pricingModel", &product.PricingModel)
	setIf(c, "status", &product.Status)
	setIntIf(c, "amount", &product.Amount)
	setIntIf(c, "categoryId", &product.CategoryID)
	setBoolIf(c, "promo", &product.Promo)
	setBoolIf(c, "active", &product.Active)

	s.products[id] = product
	s.mu.Unlock()

	c.JSON(http.StatusOK, product)
}

func (s *Server) uploadProductImages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	product, found := s.products[id]
	if !found {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}

	images := s.collectImages(c, "images", "products")
	product.Images = append(product.Images, images...)
	s.products[id] = product
	s.mu.Unlock()

	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	_, found := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) searchProducts(c *gin.Context) {
	term := c.Query("q")

	s.mu.RLock()
	list := make([]models.Product, 0)
	for _, p := range s.products {
		if containsFold(p.Name, term) || containsFold(p.Brand, term) || containsFold(p.Description, term) {
			list = append(list, p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	c.JSON(http.StatusOK, list)
}

// collectImages turns uploaded multipart files into image records. The
// bytes themselves are discarded; only the metadata matters to the fixture.
func (s *Server) collectImages(c *gin.Context, field, prefix string) []models.ProductImage {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}

	var images []models.ProductImage
	for _, file := range form.File[field] {
		images = append(images, models.ProductImage{
			ID:         s.allocID(),
			Name:       file.Filename,
			URL:        fmt.Sprintf("/%s/%s", prefix, file.Filename),
			UploadDate: time.Now(),
		})
	}
	return images
}

// --- categories ---

func (s *Server) listCategories(c *gin.Context) {
	s.mu.RLock()
	list := make([]models.Category, 0, len(s.categories))
	for _, cat := range s.categories {
		list = append(list, cat)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	c.JSON(http.StatusOK, list)
}

func (s *Server) createCategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replayed(c) {
		return
	}

	category := models.Category{
		ID:          s.allocID(),
		Name:        name,
		Description: c.PostForm("description"),
		Images:      s.collectImages(c, "images", "categories"),
	}
	s.categories[category.ID] = category

	s.reply(c, http.StatusCreated, category)
}

func (s *Server) getCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.RLock()
	category, found := s.categories[id]
	if found {
		category.Products = s.productSummaries(id)
	}
	s.mu.RUnlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	category, found := s.categories[id]
	if !found {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}

	// PUT semantics: name and description always arrive in full
	category.Name = c.PostForm("name")
	category.Description = c.PostForm("description")
	if images := s.collectImages(c, "images", "categories"); len(images) > 0 {
		category.Images = append(category.Images, images...)
	}

	s.categories[id] = category
	s.mu.Unlock()

	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	_, found := s.categories[id]
	delete(s.categories, id)
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) searchCategories(c *gin.Context) {
	term := c.Query("q")

	s.mu.RLock()
	list := make([]models.Category, 0)
	for _, cat := range s.categories {
		if containsFold(cat.Name, term) || containsFold(cat.Description, term) {
			list = append(list, cat)
		}
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	c.JSON(http.StatusOK, list)
}

func (s *Server) productSummaries(categoryID int64) []models.ProductSummary {
	var summaries []models.ProductSummary
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			summaries = append(summaries, models.ProductSummary{ID: p.ID, Name: p.Name})
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries
}

// --- subscriptions ---

func (s *Server) listSubscriptions(c *gin.Context) {
	s.mu.RLock()
	list := make([]models.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		list = append(list, sub)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	c.JSON(http.StatusOK, list)
}

func (s *Server) getSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.RLock()
	sub, found := s.subscriptions[id]
	s.mu.RUnlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "subscription not found"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

type cancelRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
}

func (s *Server) cancelSubscriptions(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "customerId is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replayed(c) {
		return
	}

	canceled := 0
	for id, sub := range s.subscriptions {
		if sub.CustomerID == req.CustomerID {
			sub.Status = models.SubscriptionStatusCanceled
			sub.UpdatedAt = time.Now()
			s.subscriptions[id] = sub
			canceled++
		}
	}

	s.reply(c, http.StatusOK, gin.H{"canceled": canceled})
}

// --- carousel ---

func (s *Server) listSlides(c *gin.Context) {
	s.mu.RLock()
	list := make([]models.CarouselSlide, 0, len(s.slides))
	for _, slide := range s.slides {
		list = append(list, slide)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	c.JSON(http.StatusOK, list)
}

func (s *Server) createSlide(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replayed(c) {
		return
	}

	slide := models.CarouselSlide{
		ID:      s.allocID(),
		Title:   title,
		Caption: c.PostForm("caption"),
		Active:  c.PostForm("active") == "true",
	}
	var position int64
	setIntIf(c, "position", &position)
	slide.Position = int(position)
	if images := s.collectImages(c, "image", "carousel"); len(images) > 0 {
		slide.ImageURL = images[0].URL
	}
	s.slides[slide.ID] = slide

	s.reply(c, http.StatusCreated, slide)
}

func (s *Server) getSlide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.RLock()
	slide, found := s.slides[id]
	s.mu.RUnlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "slide not found"})
		return
	}
	c.JSON(http.StatusOK, slide)
}

func (s *Server) updateSlide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	slide, found := s.slides[id]
	if !found {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"message": "slide not found"})
		return
	}

	setIf(c, "title", &slide.Title)
	setIf(c, "caption", &slide.Caption)
	setBoolIf(c, "active", &slide.Active)
	position := int64(slide.Position)
	setIntIf(c, "position", &position)
	slide.Position = int(position)
	if images := s.collectImages(c, "image", "carousel"); len(images) > 0 {
		slide.ImageURL = images[0].URL
	}

	s.slides[id] = slide
	s.mu.Unlock()

	c.JSON(http.StatusOK, slide)
}

func (s *Server) deleteSlide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	_, found := s.slides[id]
	delete(s.slides, id)
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "slide not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
